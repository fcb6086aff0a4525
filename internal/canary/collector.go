package canary

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/sevigo/evo-warden/internal/core"
)

// HTTPCollector polls a model's serving infrastructure for its live metrics.
// Each deployed model carries its scrape endpoint in its configuration under
// the metrics_url key.
type HTTPCollector struct {
	client *http.Client
	logger *slog.Logger
}

// NewHTTPCollector creates a collector. A nil client uses http.DefaultClient.
func NewHTTPCollector(client *http.Client, logger *slog.Logger) *HTTPCollector {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPCollector{client: client, logger: logger}
}

var _ MetricsCollector = (*HTTPCollector)(nil)

// Collect fetches the model's metrics snapshot as JSON.
func (c *HTTPCollector) Collect(ctx context.Context, model *core.CanaryModel) (*core.CanaryMetrics, error) {
	url, _ := model.Configuration["metrics_url"].(string)
	if url == "" {
		return nil, fmt.Errorf("model %s has no metrics_url configured", model.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build metrics request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("metrics endpoint unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("metrics endpoint returned %d", resp.StatusCode)
	}

	var metrics core.CanaryMetrics
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		return nil, fmt.Errorf("failed to decode metrics payload: %w", err)
	}
	c.logger.Debug("collected canary metrics", "canary", model.ID, "requests", metrics.RequestCount)
	return &metrics, nil
}
