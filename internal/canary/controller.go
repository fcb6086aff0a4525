// Package canary deploys candidate model configurations as traffic-split
// canaries, polls their live metrics, compares them against a baseline, and
// decides promote, rollback or manual review.
package canary

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/sevigo/evo-warden/internal/core"
)

// MetricsCollector polls the live metrics of a deployed model. The serving
// infrastructure owns the numbers; the controller only consumes them.
//
//go:generate mockgen -destination=../../mocks/mock_collector.go -package=mocks . MetricsCollector
type MetricsCollector interface {
	Collect(ctx context.Context, model *core.CanaryModel) (*core.CanaryMetrics, error)
}

// DeploymentSpec describes a canary to deploy.
type DeploymentSpec struct {
	Tenant            string
	Name              string
	Version           string
	Configuration     map[string]any
	TrafficPercentage int
	BaselineID        string
	Criteria          core.PromotionCriteria
}

// Controller owns the canary lifecycle: pending → testing → promoted,
// rolled_back, or flagged for manual review.
type Controller struct {
	store     core.Store
	collector MetricsCollector
	events    core.EventRecorder
	notifier  core.Notifier
	clock     core.Clock
	logger    *slog.Logger
	newID     func() string
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock overrides the wall clock, for tests.
func WithClock(c core.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithNotifier enables manual-review escalation.
func WithNotifier(n core.Notifier) Option {
	return func(ctrl *Controller) { ctrl.notifier = n }
}

// WithIDGenerator overrides id generation, for tests.
func WithIDGenerator(f func() string) Option {
	return func(ctrl *Controller) { ctrl.newID = f }
}

// NewController creates a canary controller.
func NewController(store core.Store, collector MetricsCollector, events core.EventRecorder, logger *slog.Logger, opts ...Option) *Controller {
	ctrl := &Controller{
		store:     store,
		collector: collector,
		events:    events,
		clock:     core.SystemClock(),
		logger:    logger,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(ctrl)
	}
	return ctrl
}

// DeployCanaryModel creates the model record, attaches the traffic split and
// rollback plan to its deployment metadata, and transitions it to testing.
func (c *Controller) DeployCanaryModel(ctx context.Context, spec DeploymentSpec) (*core.CanaryModel, error) {
	now := c.clock.Now()
	model := &core.CanaryModel{
		ID:                 c.newID(),
		Tenant:             spec.Tenant,
		Name:               spec.Name,
		Version:            spec.Version,
		Configuration:      spec.Configuration,
		Status:             core.CanaryPending,
		TrafficPercentage:  spec.TrafficPercentage,
		ComparisonBaseline: spec.BaselineID,
		PromotionCriteria:  spec.Criteria,
		Metadata: map[string]any{
			"traffic_split": map[string]int{
				"canary":   spec.TrafficPercentage,
				"baseline": 100 - spec.TrafficPercentage,
			},
			"rollback_plan": map[string]any{
				"automated": true,
				"triggers":  []string{"error_rate_exceeded", "accuracy_below_threshold", "user_satisfaction_below_threshold"},
			},
		},
		CreatedAt: now,
	}
	if err := core.ValidateCanary(model); err != nil {
		return nil, err
	}
	if err := c.store.SaveCanary(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to save canary model: %w", err)
	}

	started := c.clock.Now()
	model.Status = core.CanaryTesting
	model.TestingStartedAt = &started
	if err := c.store.UpdateCanary(ctx, model); err != nil {
		return nil, fmt.Errorf("failed to start canary testing: %w", err)
	}

	c.events.Record(ctx, &core.EvolutionEvent{
		ID:          c.newID(),
		Tenant:      spec.Tenant,
		Type:        "canary_deployed",
		Severity:    core.SeverityInfo,
		Title:       "Canary deployed",
		Description: fmt.Sprintf("%s %s at %d%% traffic", spec.Name, spec.Version, spec.TrafficPercentage),
		Data:        map[string]any{"canary_id": model.ID, "baseline_id": spec.BaselineID},
		TriggeredBy: core.SystemActor,
		CreatedAt:   started,
	})
	c.logger.Info("canary deployed", "canary", model.ID, "traffic", spec.TrafficPercentage)
	return model, nil
}

// MonitorTick refreshes metrics for every testing or active model and
// evaluates the promotion decision for testing models. Failures are isolated
// per model; only a listing failure aborts the tick.
func (c *Controller) MonitorTick(ctx context.Context, tenant string) ([]string, error) {
	models, err := c.store.ListCanariesByStatus(ctx, tenant, core.CanaryTesting, core.CanaryActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list canaries: %w", err)
	}

	var errs []string
	for _, model := range models {
		if err := c.monitorModel(ctx, model); err != nil {
			c.logger.Error("canary monitoring failed", "canary", model.ID, "error", err)
			errs = append(errs, fmt.Sprintf("%s: %v", model.ID, err))
		}
	}
	return errs, nil
}

func (c *Controller) monitorModel(ctx context.Context, model *core.CanaryModel) error {
	metrics, err := c.collector.Collect(ctx, model)
	if err != nil {
		return fmt.Errorf("metrics collection: %w", err)
	}
	if err := c.UpdateCanaryMetrics(ctx, model, metrics); err != nil {
		return err
	}
	if model.Status != core.CanaryTesting {
		return nil
	}

	baseline, err := c.store.GetCanary(ctx, model.ComparisonBaseline)
	if err != nil {
		return fmt.Errorf("failed to load baseline %s: %w", model.ComparisonBaseline, err)
	}

	decision := ShouldPromoteCanary(model, baseline, c.clock.Now())
	switch {
	case decision.Rollback:
		return c.RollbackCanary(ctx, model.ID, decision.Reason)
	case decision.Promote:
		if model.PromotionCriteria.AutoPromote && !model.PromotionCriteria.RequiresManualApproval {
			return c.PromoteCanary(ctx, model.ID, decision.Comparison)
		}
		return c.FlagForManualReview(ctx, model.ID, decision.Comparison)
	default:
		c.logger.Debug("canary not ready", "canary", model.ID, "reason", decision.Reason)
		return nil
	}
}

// UpdateCanaryMetrics replaces the model's metrics snapshot wholesale; it is
// never partially written.
func (c *Controller) UpdateCanaryMetrics(ctx context.Context, model *core.CanaryModel, metrics *core.CanaryMetrics) error {
	metrics.CollectedAt = c.clock.Now()
	model.Metrics = *metrics
	if err := c.store.UpdateCanary(ctx, model); err != nil {
		return fmt.Errorf("failed to update canary metrics: %w", err)
	}
	return nil
}

// PromoteCanary marks the model promoted and persists the comparison that
// justified it.
func (c *Controller) PromoteCanary(ctx context.Context, id string, cmp *core.ModelComparison) error {
	model, err := c.store.GetCanary(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load canary %s: %w", id, err)
	}
	now := c.clock.Now()
	model.Status = core.CanaryPromoted
	model.PromotedAt = &now
	if err := c.store.UpdateCanary(ctx, model); err != nil {
		return fmt.Errorf("failed to promote canary: %w", err)
	}
	if cmp != nil {
		if err := c.store.SaveComparison(ctx, cmp); err != nil {
			return fmt.Errorf("failed to persist comparison: %w", err)
		}
	}

	c.events.Record(ctx, &core.EvolutionEvent{
		ID:          c.newID(),
		Tenant:      model.Tenant,
		Type:        "canary_promoted",
		Severity:    core.SeverityInfo,
		Title:       "Canary promoted",
		Description: fmt.Sprintf("%s %s is the new baseline", model.Name, model.Version),
		Data:        map[string]any{"canary_id": model.ID},
		TriggeredBy: core.SystemActor,
		CreatedAt:   now,
	})
	c.logger.Info("canary promoted", "canary", model.ID)
	return nil
}

// RollbackCanary marks the model rolled back and records why.
func (c *Controller) RollbackCanary(ctx context.Context, id, reason string) error {
	model, err := c.store.GetCanary(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load canary %s: %w", id, err)
	}
	now := c.clock.Now()
	model.Status = core.CanaryRolledBack
	if model.Metadata == nil {
		model.Metadata = map[string]any{}
	}
	model.Metadata["rollback_reason"] = reason
	model.Metadata["rollback_at"] = now
	if err := c.store.UpdateCanary(ctx, model); err != nil {
		return fmt.Errorf("failed to roll back canary: %w", err)
	}

	c.events.Record(ctx, &core.EvolutionEvent{
		ID:          c.newID(),
		Tenant:      model.Tenant,
		Type:        "canary_rolled_back",
		Severity:    core.SeverityWarning,
		Title:       "Canary rolled back",
		Description: reason,
		Data:        map[string]any{"canary_id": model.ID},
		TriggeredBy: core.SystemActor,
		CreatedAt:   now,
	})
	c.logger.Warn("canary rolled back", "canary", model.ID, "reason", reason)
	return nil
}

// FlagForManualReview leaves the status untouched, records the comparison
// snapshot, and escalates to a human. Notification is best-effort.
func (c *Controller) FlagForManualReview(ctx context.Context, id string, cmp *core.ModelComparison) error {
	model, err := c.store.GetCanary(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load canary %s: %w", id, err)
	}
	if model.Metadata == nil {
		model.Metadata = map[string]any{}
	}
	if flagged, _ := model.Metadata["requires_manual_review"].(bool); flagged {
		return nil
	}
	model.Metadata["requires_manual_review"] = true
	if cmp != nil {
		model.Metadata["comparison"] = cmp
	}
	if err := c.store.UpdateCanary(ctx, model); err != nil {
		return fmt.Errorf("failed to flag canary for review: %w", err)
	}
	if cmp != nil {
		if err := c.store.SaveComparison(ctx, cmp); err != nil {
			return fmt.Errorf("failed to persist comparison: %w", err)
		}
	}

	if c.notifier != nil {
		if err := c.notifier.NotifyManualReview(ctx, model, cmp); err != nil {
			c.logger.Warn("manual review notification failed", "canary", model.ID, "error", err)
		}
	}
	c.events.Record(ctx, &core.EvolutionEvent{
		ID:          c.newID(),
		Tenant:      model.Tenant,
		Type:        "canary_manual_review",
		Severity:    core.SeverityWarning,
		Title:       "Canary requires manual review",
		Description: fmt.Sprintf("%s %s met its criteria but needs human sign-off", model.Name, model.Version),
		Data:        map[string]any{"canary_id": model.ID},
		TriggeredBy: core.SystemActor,
		CreatedAt:   c.clock.Now(),
	})
	return nil
}
