package evolution

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop intervals. Canary monitoring runs tight so a misbehaving canary is
// rolled back quickly; analysis and metrics are background cadence.
const (
	DefaultAnalysisInterval = 30 * time.Minute
	DefaultCanaryInterval   = time.Minute
	DefaultMetricsInterval  = 15 * time.Minute
)

// LoopConfig configures the periodic driver for one tenant.
type LoopConfig struct {
	Tenant           string
	AnalysisInterval time.Duration
	CanaryInterval   time.Duration
	MetricsInterval  time.Duration
}

func (c *LoopConfig) applyDefaults() {
	if c.AnalysisInterval <= 0 {
		c.AnalysisInterval = DefaultAnalysisInterval
	}
	if c.CanaryInterval <= 0 {
		c.CanaryInterval = DefaultCanaryInterval
	}
	if c.MetricsInterval <= 0 {
		c.MetricsInterval = DefaultMetricsInterval
	}
}

// Loop drives the orchestrator on timers. Each cycle kind runs in its own
// goroutine so a slow analysis never starves canary monitoring.
type Loop struct {
	orch   *Orchestrator
	cfg    LoopConfig
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewLoop creates the periodic driver.
func NewLoop(orch *Orchestrator, cfg LoopConfig, logger *slog.Logger) *Loop {
	cfg.applyDefaults()
	return &Loop{orch: orch, cfg: cfg, logger: logger}
}

// Start launches the timer goroutines. They stop when ctx is cancelled; call
// Wait to block until they have drained.
func (l *Loop) Start(ctx context.Context) {
	l.logger.Info("evolution loop starting",
		"tenant", l.cfg.Tenant,
		"analysis_interval", l.cfg.AnalysisInterval,
		"canary_interval", l.cfg.CanaryInterval,
	)
	l.spawn(ctx, "analysis", l.cfg.AnalysisInterval, func(ctx context.Context) error {
		return l.orch.RunAnalysisCycle(ctx, l.cfg.Tenant)
	})
	l.spawn(ctx, "canary", l.cfg.CanaryInterval, func(ctx context.Context) error {
		return l.orch.RunCanaryCycle(ctx, l.cfg.Tenant)
	})
	l.spawn(ctx, "metrics", l.cfg.MetricsInterval, func(ctx context.Context) error {
		_, err := l.orch.UpdateEvolutionMetrics(ctx, l.cfg.Tenant)
		return err
	})
}

// Wait blocks until every timer goroutine has exited.
func (l *Loop) Wait() {
	l.wg.Wait()
}

func (l *Loop) spawn(ctx context.Context, name string, interval time.Duration, fn func(context.Context) error) {
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				l.logger.Info("evolution loop stopped", "cycle", name)
				return
			case <-ticker.C:
				if err := fn(ctx); err != nil {
					l.logger.Error("evolution cycle failed", "cycle", name, "error", err)
				}
			}
		}
	}()
}
