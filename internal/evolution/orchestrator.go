// Package evolution is the top-level control loop: it toggles the system per
// tenant, enforces safeguards before any automatic action, aggregates
// metrics, and can declare an emergency stop that halts all in-flight
// automatic work.
package evolution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/evo-warden/internal/analyzer"
	"github.com/sevigo/evo-warden/internal/canary"
	"github.com/sevigo/evo-warden/internal/config"
	"github.com/sevigo/evo-warden/internal/core"
	"github.com/sevigo/evo-warden/internal/refactor"
	"github.com/sevigo/evo-warden/internal/suggest"
)

// ErrEvolutionDisabled is returned by manual entry points when the tenant has
// the loop switched off. Automatic entry points no-op instead.
var ErrEvolutionDisabled = errors.New("evolution is disabled for tenant")

// Orchestrator wraps every entry point with a safeguard check. It is the only
// component with authority over the enabled switch and the emergency stop.
type Orchestrator struct {
	store       core.Store
	events      core.EventRecorder
	notifier    core.Notifier
	analyzer    *analyzer.Analyzer
	generator   *suggest.Generator
	executor    *refactor.Executor
	canaries    *canary.Controller
	files       core.FileStore
	clock       core.Clock
	logger      *slog.Logger
	projectRoot string
	newID       func() string
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the wall clock, for tests.
func WithClock(c core.Clock) Option {
	return func(o *Orchestrator) { o.clock = c }
}

// WithNotifier enables emergency-stop escalation.
func WithNotifier(n core.Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithIDGenerator overrides id generation, for tests.
func WithIDGenerator(f func() string) Option {
	return func(o *Orchestrator) { o.newID = f }
}

// NewOrchestrator wires the loop's components together.
func NewOrchestrator(
	store core.Store,
	events core.EventRecorder,
	an *analyzer.Analyzer,
	gen *suggest.Generator,
	exec *refactor.Executor,
	canaries *canary.Controller,
	files core.FileStore,
	logger *slog.Logger,
	projectRoot string,
	opts ...Option,
) *Orchestrator {
	o := &Orchestrator{
		store:       store,
		events:      events,
		analyzer:    an,
		generator:   gen,
		executor:    exec,
		canaries:    canaries,
		files:       files,
		clock:       core.SystemClock(),
		logger:      logger,
		projectRoot: projectRoot,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Settings returns the tenant's settings, falling back to conservative
// defaults for tenants never configured.
func (o *Orchestrator) Settings(ctx context.Context, tenant string) (*core.EvolutionSettings, error) {
	settings, err := o.store.GetSettings(ctx, tenant)
	if errors.Is(err, core.ErrNotFound) {
		return core.DefaultSettings(tenant), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	return settings, nil
}

// ToggleEvolution flips the tenant's enabled switch and logs the change.
func (o *Orchestrator) ToggleEvolution(ctx context.Context, tenant string, enabled bool, actor string) error {
	settings, err := o.Settings(ctx, tenant)
	if err != nil {
		return err
	}
	settings.Enabled = enabled
	settings.UpdatedAt = o.clock.Now()
	if err := core.ValidateSettings(settings); err != nil {
		return err
	}
	if err := o.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	state := "disabled"
	if enabled {
		state = "enabled"
	}
	o.events.Record(ctx, &core.EvolutionEvent{
		ID:          o.newID(),
		Tenant:      tenant,
		Type:        "evolution_toggled",
		Severity:    core.SeverityInfo,
		Title:       "Evolution " + state,
		Description: fmt.Sprintf("evolution %s by %s", state, actor),
		TriggeredBy: actor,
		CreatedAt:   o.clock.Now(),
	})
	o.logger.Info("evolution toggled", "tenant", tenant, "enabled", enabled, "actor", actor)
	return nil
}

// CheckSafeguards reports whether automatic action is currently allowed. Any
// single violated safeguard blocks everything: an engaged emergency stop, the
// daily change cap, or test coverage under the floor. A block is a silent
// no-op for the caller but always leaves a logged event.
func (o *Orchestrator) CheckSafeguards(ctx context.Context, tenant string, settings *core.EvolutionSettings) bool {
	if settings.Safeguards.EmergencyStop {
		o.recordBlock(ctx, tenant, "emergency stop is engaged")
		return false
	}

	startOfDay := o.clock.Now().Truncate(24 * time.Hour)
	count, err := o.store.CountExecutionsSince(ctx, tenant, startOfDay)
	if err != nil {
		o.recordBlock(ctx, tenant, fmt.Sprintf("cannot determine daily change count: %v", err))
		return false
	}
	if settings.Safeguards.MaxDailyChanges > 0 && count >= settings.Safeguards.MaxDailyChanges {
		o.recordBlock(ctx, tenant, fmt.Sprintf("daily change cap reached (%d/%d)", count, settings.Safeguards.MaxDailyChanges))
		return false
	}

	if coverage, ok := o.latestCoverage(ctx, tenant); ok && coverage < settings.Safeguards.TestCoverageThreshold {
		o.recordBlock(ctx, tenant, fmt.Sprintf("test coverage %.1f%% below threshold %.1f%%", coverage, settings.Safeguards.TestCoverageThreshold))
		return false
	}
	return true
}

// latestCoverage finds the newest analysis result carrying a coverage metric.
// Missing data never blocks: a safeguard needs evidence to fire.
func (o *Orchestrator) latestCoverage(ctx context.Context, tenant string) (float64, bool) {
	var newest time.Time
	coverage, found := 0.0, false
	for _, pass := range core.AllPasses() {
		result, err := o.store.LatestAnalysisResult(ctx, tenant, pass)
		if err != nil {
			continue
		}
		if c, ok := result.Metrics["test_coverage"]; ok && result.CreatedAt.After(newest) {
			newest = result.CreatedAt
			coverage = c
			found = true
		}
	}
	return coverage, found
}

// EmergencyStop disables the tenant, engages the safeguard, forces every
// in-flight execution to rolled_back, and logs a single critical event.
func (o *Orchestrator) EmergencyStop(ctx context.Context, tenant, actor, reason string) error {
	settings, err := o.Settings(ctx, tenant)
	if err != nil {
		return err
	}
	settings.Enabled = false
	settings.Safeguards.EmergencyStop = true
	settings.UpdatedAt = o.clock.Now()
	if err := o.store.SaveSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to engage emergency stop: %w", err)
	}

	inFlight, err := o.store.ListExecutionsByStatus(ctx, tenant, core.ExecutionInProgress)
	if err != nil {
		return fmt.Errorf("failed to list in-flight executions: %w", err)
	}
	for _, exec := range inFlight {
		now := o.clock.Now()
		exec.Status = core.ExecutionRolledBack
		exec.CompletedAt = &now
		if exec.Metadata == nil {
			exec.Metadata = map[string]string{}
		}
		exec.Metadata["rollback_reason"] = "emergency stop: " + reason
		if err := o.store.UpdateExecution(ctx, exec); err != nil {
			o.logger.Error("failed to force execution rollback", "execution", exec.ID, "error", err)
		}
	}

	o.events.Record(ctx, &core.EvolutionEvent{
		ID:          o.newID(),
		Tenant:      tenant,
		Type:        "emergency_stop",
		Severity:    core.SeverityCritical,
		Title:       "Emergency stop",
		Description: reason,
		Data:        map[string]any{"halted_executions": len(inFlight)},
		TriggeredBy: actor,
		CreatedAt:   o.clock.Now(),
	})
	if o.notifier != nil {
		if err := o.notifier.NotifyEmergencyStop(ctx, tenant, reason, actor); err != nil {
			o.logger.Warn("emergency stop notification failed", "error", err)
		}
	}
	o.logger.Error("emergency stop engaged", "tenant", tenant, "actor", actor, "reason", reason, "halted", len(inFlight))
	return nil
}

// RunAnalysisCycle runs a full codebase analysis, derives suggestions, stores
// them, and auto-applies automatic ones when the safeguards allow it.
func (o *Orchestrator) RunAnalysisCycle(ctx context.Context, tenant string) error {
	return o.runAnalysis(ctx, tenant, false)
}

// RunIncrementalAnalysisCycle is RunAnalysisCycle scoped to the files changed
// since the last pinned analysis. Without revision data it degrades to a full
// run.
func (o *Orchestrator) RunIncrementalAnalysisCycle(ctx context.Context, tenant string) error {
	return o.runAnalysis(ctx, tenant, true)
}

func (o *Orchestrator) runAnalysis(ctx context.Context, tenant string, incremental bool) error {
	settings, err := o.Settings(ctx, tenant)
	if err != nil {
		return err
	}
	if !settings.Enabled || !settings.Features.CodeAnalysis {
		o.logger.Debug("analysis cycle skipped", "tenant", tenant, "enabled", settings.Enabled)
		return nil
	}

	projectCfg, err := config.LoadProjectConfig(o.projectRoot)
	if err != nil && !errors.Is(err, config.ErrConfigNotFound) {
		o.logger.Warn("failed to load project config", "error", err)
	}

	analyze := o.analyzer.PerformFullCodebaseAnalysis
	if incremental {
		analyze = o.analyzer.PerformIncrementalAnalysis
	}
	results, err := analyze(ctx, tenant, o.projectRoot, projectCfg)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	readFile := func(path string) (string, error) { return o.files.Read(ctx, path) }
	var stored int
	for _, result := range results {
		for _, s := range o.generator.GenerateForResult(ctx, result, readFile, settings.Features.LLMReasoning) {
			s := s
			if err := o.executor.StoreSuggestion(ctx, &s, result.ID); err != nil {
				o.logger.Error("failed to store suggestion", "suggestion", s.ID, "error", err)
				continue
			}
			stored++
		}
	}
	o.logger.Info("analysis cycle complete", "tenant", tenant, "suggestions", stored)

	if settings.Features.AutoRefactor {
		o.autoApplyPending(ctx, tenant, settings)
	}
	return nil
}

// autoApplyPending applies automatic pending suggestions one at a time,
// re-checking the safeguards before each so the daily cap binds mid-batch.
func (o *Orchestrator) autoApplyPending(ctx context.Context, tenant string, settings *core.EvolutionSettings) {
	pending, err := o.executor.GetPendingSuggestions(ctx, tenant, 50)
	if err != nil {
		o.logger.Error("failed to list pending suggestions", "error", err)
		return
	}
	for _, s := range pending {
		if s.AutomationLevel != core.AutomationAutomatic {
			continue
		}
		if !o.CheckSafeguards(ctx, tenant, settings) {
			return
		}
		if _, err := o.executor.AutoApplySuggestion(ctx, s.ID); err != nil {
			o.logger.Error("auto-apply failed", "suggestion", s.ID, "error", err)
		}
	}
}

// RecentEvents returns the tenant's newest events for the ops surfaces.
func (o *Orchestrator) RecentEvents(ctx context.Context, tenant string, limit int) ([]*core.EvolutionEvent, error) {
	events, err := o.store.ListEvents(ctx, tenant, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// RunCanaryCycle refreshes canary metrics and promotion decisions, gated on
// the tenant's settings and safeguards.
func (o *Orchestrator) RunCanaryCycle(ctx context.Context, tenant string) error {
	settings, err := o.Settings(ctx, tenant)
	if err != nil {
		return err
	}
	if !settings.Enabled || !settings.Features.CanaryTesting {
		return nil
	}
	if !o.CheckSafeguards(ctx, tenant, settings) {
		return nil
	}
	errs, err := o.canaries.MonitorTick(ctx, tenant)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		o.logger.Warn("canary cycle finished with errors", "tenant", tenant, "errors", len(errs))
	}
	return nil
}

// UpdateEvolutionMetrics aggregates refactor and analysis outcomes into a
// snapshot, persisted through the event log, and raises warnings when the
// feedback loop looks unhealthy.
func (o *Orchestrator) UpdateEvolutionMetrics(ctx context.Context, tenant string) (*core.EvolutionMetrics, error) {
	now := o.clock.Now()
	from := now.Add(-30 * 24 * time.Hour)

	refactorMetrics, err := o.executor.GetRefactorMetrics(ctx, tenant, from, now)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate refactor metrics: %w", err)
	}
	analyses, err := o.store.ListAnalysisResults(ctx, tenant, from)
	if err != nil {
		return nil, fmt.Errorf("failed to list analysis results: %w", err)
	}
	active, err := o.store.ListCanariesByStatus(ctx, tenant, core.CanaryTesting, core.CanaryActive)
	if err != nil {
		return nil, fmt.Errorf("failed to list active canaries: %w", err)
	}

	totalSuggestions := 0
	for _, n := range refactorMetrics.SuggestionsByStatus {
		totalSuggestions += n
	}
	openFindings := 0
	for _, a := range analyses {
		openFindings += len(a.Findings)
	}

	m := &core.EvolutionMetrics{
		Tenant:         tenant,
		Refactor:       *refactorMetrics,
		AnalysisRuns:   len(analyses),
		OpenFindings:   openFindings,
		ActiveCanaries: len(active),
		GeneratedAt:    now,
	}
	if totalSuggestions > 0 {
		m.ApprovalRate = float64(refactorMetrics.SuggestionsByStatus[core.SuggestionApproved]) / float64(totalSuggestions)
		m.RejectionRate = float64(refactorMetrics.SuggestionsByStatus[core.SuggestionRejected]) / float64(totalSuggestions)
	}

	o.events.Record(ctx, &core.EvolutionEvent{
		ID:          o.newID(),
		Tenant:      tenant,
		Type:        "metrics_snapshot",
		Severity:    core.SeverityInfo,
		Title:       "Evolution metrics snapshot",
		Description: fmt.Sprintf("%d suggestions, %.0f%% success rate", totalSuggestions, refactorMetrics.SuccessRate*100),
		Data:        map[string]any{"metrics": m},
		TriggeredBy: core.SystemActor,
		CreatedAt:   now,
	})

	o.warnOnUnhealthyLoop(ctx, tenant, m, totalSuggestions)
	return m, nil
}

func (o *Orchestrator) warnOnUnhealthyLoop(ctx context.Context, tenant string, m *core.EvolutionMetrics, totalSuggestions int) {
	var warnings []string
	if totalSuggestions > 0 && m.ApprovalRate < 0.3 {
		warnings = append(warnings, fmt.Sprintf("approval rate %.0f%% below 30%%", m.ApprovalRate*100))
	}
	if totalSuggestions > 0 && m.RejectionRate > 0.5 {
		warnings = append(warnings, fmt.Sprintf("rejection rate %.0f%% above 50%%", m.RejectionRate*100))
	}
	if m.Refactor.MeanFeedbackRating > 0 && m.Refactor.MeanFeedbackRating < 3.0 {
		warnings = append(warnings, fmt.Sprintf("mean feedback rating %.1f below 3.0", m.Refactor.MeanFeedbackRating))
	}
	for _, w := range warnings {
		o.events.Record(ctx, &core.EvolutionEvent{
			ID:          o.newID(),
			Tenant:      tenant,
			Type:        "evolution_health_warning",
			Severity:    core.SeverityWarning,
			Title:       "Evolution loop health warning",
			Description: w,
			TriggeredBy: core.SystemActor,
			CreatedAt:   o.clock.Now(),
		})
		o.logger.Warn("evolution health warning", "tenant", tenant, "warning", w)
	}
}

func (o *Orchestrator) recordBlock(ctx context.Context, tenant, reason string) {
	o.events.Record(ctx, &core.EvolutionEvent{
		ID:          o.newID(),
		Tenant:      tenant,
		Type:        "safeguard_blocked",
		Severity:    core.SeverityWarning,
		Title:       "Automatic action blocked",
		Description: reason,
		TriggeredBy: core.SystemActor,
		CreatedAt:   o.clock.Now(),
	})
	o.logger.Warn("safeguard blocked automatic action", "tenant", tenant, "reason", reason)
}
