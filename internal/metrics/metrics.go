// Package metrics exposes prometheus counters for the evolution loop. The
// Recorder decorates the persistent event sink, so every recorded event is
// counted without instrumenting each component.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sevigo/evo-warden/internal/core"
)

// Metrics holds the registry and collectors.
type Metrics struct {
	registry *prometheus.Registry

	eventsTotal     *prometheus.CounterVec
	safeguardBlocks prometheus.Counter
	emergencyStops  prometheus.Counter
}

// New creates the registry and registers the collectors, including the
// standard Go and process collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "evo_warden",
			Name:      "events_total",
			Help:      "Evolution events recorded, by type and severity.",
		}, []string{"type", "severity"}),
		safeguardBlocks: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "evo_warden",
			Name:      "safeguard_blocks_total",
			Help:      "Automatic actions blocked by a safeguard.",
		}),
		emergencyStops: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "evo_warden",
			Name:      "emergency_stops_total",
			Help:      "Emergency stops engaged.",
		}),
	}
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Recorder decorates an EventRecorder with event counting.
type Recorder struct {
	next    core.EventRecorder
	metrics *Metrics
}

// NewRecorder wraps the persistent event sink.
func NewRecorder(next core.EventRecorder, metrics *Metrics) *Recorder {
	return &Recorder{next: next, metrics: metrics}
}

var _ core.EventRecorder = (*Recorder)(nil)

func (r *Recorder) Record(ctx context.Context, event *core.EvolutionEvent) {
	r.metrics.eventsTotal.WithLabelValues(event.Type, string(event.Severity)).Inc()
	switch event.Type {
	case "safeguard_blocked":
		r.metrics.safeguardBlocks.Inc()
	case "emergency_stop":
		r.metrics.emergencyStops.Inc()
	}
	r.next.Record(ctx, event)
}
