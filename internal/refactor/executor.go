// Package refactor owns the suggestion lifecycle: storage, manual feedback,
// automatic or approved execution, and backup-and-rollback on test failure.
package refactor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sevigo/evo-warden/internal/core"
)

// Policy violations are named, caller-visible errors. They are never silently
// converted to a no-op.
var (
	ErrNotApproved  = errors.New("suggestion is not approved")
	ErrNotAutomatic = errors.New("suggestion automation level is not automatic")
)

// Executor applies suggestions with test-gated rollback. Each execution is
// the unit of isolation: backups are namespaced by execution id, and
// executions with intersecting change sets are serialized by per-file locks.
type Executor struct {
	store       core.Store
	files       core.FileStore
	runner      core.TestRunner
	events      core.EventRecorder
	clock       core.Clock
	logger      *slog.Logger
	scheduler   Scheduler
	locks       *pathLocks
	projectRoot string
	backupRoot  string
	debounce    time.Duration
	testTimeout time.Duration
	newID       func() string
}

// Option configures an Executor.
type Option func(*Executor)

// WithClock overrides the wall clock, for tests.
func WithClock(c core.Clock) Option {
	return func(e *Executor) { e.clock = c }
}

// WithScheduler overrides the debounce scheduler, for tests.
func WithScheduler(s Scheduler) Option {
	return func(e *Executor) { e.scheduler = s }
}

// WithDebounce overrides the approval batching window.
func WithDebounce(d time.Duration) Option {
	return func(e *Executor) { e.debounce = d }
}

// WithTestTimeout bounds a single test run.
func WithTestTimeout(d time.Duration) Option {
	return func(e *Executor) { e.testTimeout = d }
}

// WithIDGenerator overrides id generation, for tests.
func WithIDGenerator(f func() string) Option {
	return func(e *Executor) { e.newID = f }
}

// NewExecutor creates an Executor rooted at projectRoot. Backups are written
// under backupRoot, namespaced per execution.
func NewExecutor(store core.Store, files core.FileStore, runner core.TestRunner, events core.EventRecorder, logger *slog.Logger, projectRoot, backupRoot string, opts ...Option) *Executor {
	e := &Executor{
		store:       store,
		files:       files,
		runner:      runner,
		events:      events,
		clock:       core.SystemClock(),
		logger:      logger,
		scheduler:   NewScheduler(),
		locks:       newPathLocks(),
		projectRoot: projectRoot,
		backupRoot:  backupRoot,
		debounce:    DefaultDebounce,
		testTimeout: 10 * time.Minute,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// StoreSuggestion validates and persists a freshly generated suggestion with
// status pending.
func (e *Executor) StoreSuggestion(ctx context.Context, s *core.Suggestion, analysisID string) error {
	s.AnalysisID = analysisID
	s.Status = core.SuggestionPending
	if err := core.ValidateSuggestion(s); err != nil {
		return err
	}
	return e.store.SaveSuggestion(ctx, s)
}

// SubmitFeedback records a reviewer's verdict. An approval transitions the
// suggestion to approved (idempotently) and schedules an execution after the
// debounce window so that rapid approvals coalesce.
func (e *Executor) SubmitFeedback(ctx context.Context, fb *core.RefactorFeedback) error {
	s, err := e.store.GetSuggestion(ctx, fb.SuggestionID)
	if err != nil {
		return fmt.Errorf("failed to load suggestion %s: %w", fb.SuggestionID, err)
	}

	if fb.ID == "" {
		fb.ID = e.newID()
	}
	fb.CreatedAt = e.clock.Now()
	if err := e.store.SaveFeedback(ctx, fb); err != nil {
		return fmt.Errorf("failed to save feedback: %w", err)
	}

	switch fb.Action {
	case core.FeedbackApproved:
		if s.Status != core.SuggestionApproved {
			if err := e.store.UpdateSuggestionStatus(ctx, s.ID, core.SuggestionApproved); err != nil {
				return fmt.Errorf("failed to approve suggestion: %w", err)
			}
		}
		userID := fb.UserID
		e.scheduler.Schedule(s.ID, e.debounce, func() {
			if _, err := e.ExecuteApprovedSuggestion(context.Background(), s.ID, userID); err != nil {
				e.logger.Error("scheduled execution failed", "suggestion", s.ID, "error", err)
			}
		})
	case core.FeedbackRejected:
		if s.Status != core.SuggestionRejected {
			if err := e.store.UpdateSuggestionStatus(ctx, s.ID, core.SuggestionRejected); err != nil {
				return fmt.Errorf("failed to reject suggestion: %w", err)
			}
		}
	default:
		return fmt.Errorf("unknown feedback action %q", fb.Action)
	}
	return nil
}

// ExecuteApprovedSuggestion applies an approved suggestion's changes. The
// suggestion must be approved; callers see ErrNotApproved otherwise.
func (e *Executor) ExecuteApprovedSuggestion(ctx context.Context, id, executedBy string) (*core.RefactorExecution, error) {
	s, err := e.store.GetSuggestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestion %s: %w", id, err)
	}
	if s.Status != core.SuggestionApproved {
		return nil, fmt.Errorf("suggestion %s has status %s: %w", id, s.Status, ErrNotApproved)
	}
	return e.run(ctx, s, executedBy)
}

// AutoApplySuggestion is the same machine gated on automation level instead of
// a human approval: only automatic suggestions pass, everything else gets
// ErrNotAutomatic and no execution row.
func (e *Executor) AutoApplySuggestion(ctx context.Context, id string) (*core.RefactorExecution, error) {
	s, err := e.store.GetSuggestion(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load suggestion %s: %w", id, err)
	}
	if s.AutomationLevel != core.AutomationAutomatic {
		return nil, fmt.Errorf("suggestion %s has automation level %s: %w", id, s.AutomationLevel, ErrNotAutomatic)
	}
	if s.Status == core.SuggestionRejected {
		return nil, fmt.Errorf("suggestion %s was rejected: %w", id, ErrNotApproved)
	}
	// Auto-application is the one status transition that does not go through
	// feedback.
	if s.Status != core.SuggestionApproved {
		if err := e.store.UpdateSuggestionStatus(ctx, s.ID, core.SuggestionApproved); err != nil {
			return nil, fmt.Errorf("failed to mark suggestion approved: %w", err)
		}
		s.Status = core.SuggestionApproved
	}
	return e.run(ctx, s, core.SystemActor)
}

// GetPendingSuggestions returns pending suggestions ordered by
// (priority desc, confidence desc, createdAt desc) regardless of how the
// store returns them.
func (e *Executor) GetPendingSuggestions(ctx context.Context, tenant string, limit int) ([]*core.Suggestion, error) {
	suggestions, err := e.store.ListPendingSuggestions(ctx, tenant, limit)
	if err != nil {
		return nil, err
	}
	core.SortPending(suggestions)
	return suggestions, nil
}

// run drives one execution through the state machine:
// pending → in_progress → completed | failed | rolled_back.
func (e *Executor) run(ctx context.Context, s *core.Suggestion, executedBy string) (*core.RefactorExecution, error) {
	release := e.locks.acquire(touchedPaths(s.Implementation.Changes))
	defer release()

	now := e.clock.Now()
	exec := &core.RefactorExecution{
		ID:           e.newID(),
		Tenant:       s.Tenant,
		SuggestionID: s.ID,
		Status:       core.ExecutionPending,
		StartedAt:    now,
		ExecutedBy:   executedBy,
		Changes:      s.Implementation.Changes,
		RollbackPlan: s.Implementation.RollbackPlan,
		Metadata:     map[string]string{},
	}
	if err := e.store.CreateExecution(ctx, exec); err != nil {
		return nil, fmt.Errorf("failed to create execution record: %w", err)
	}

	backup, err := e.backupFiles(ctx, exec)
	if err != nil {
		return exec, e.fail(ctx, exec, fmt.Errorf("backup failed: %w", err))
	}

	exec.Status = core.ExecutionInProgress
	if err := e.store.UpdateExecution(ctx, exec); err != nil {
		return exec, e.fail(ctx, exec, fmt.Errorf("failed to mark execution in progress: %w", err))
	}

	if err := e.applyChanges(ctx, exec.Changes); err != nil {
		// Never leave a partially-applied multi-file suggestion in place.
		e.restore(ctx, exec, backup)
		return exec, e.fail(ctx, exec, fmt.Errorf("failed to apply changes: %w", err))
	}

	results, err := e.runTests(ctx, s.Implementation.Tests)
	if err != nil {
		e.restore(ctx, exec, backup)
		return exec, e.fail(ctx, exec, fmt.Errorf("test run failed: %w", err))
	}
	exec.TestResults = results

	if results.Failed > 0 {
		e.restore(ctx, exec, backup)
		return exec, e.rollBack(ctx, exec, s)
	}

	completed := e.clock.Now()
	exec.Status = core.ExecutionCompleted
	exec.CompletedAt = &completed
	if err := e.store.UpdateExecution(ctx, exec); err != nil {
		return exec, fmt.Errorf("failed to finalize execution: %w", err)
	}

	e.events.Record(ctx, &core.EvolutionEvent{
		ID:          e.newID(),
		Tenant:      s.Tenant,
		Type:        "refactor_completed",
		Severity:    core.SeverityInfo,
		Title:       "Refactor applied",
		Description: s.Title,
		Data:        map[string]any{"execution_id": exec.ID, "suggestion_id": s.ID},
		TriggeredBy: executedBy,
		CreatedAt:   completed,
	})
	e.logger.Info("execution completed", "execution", exec.ID, "suggestion", s.ID, "passed", results.Passed)
	return exec, nil
}

// fail records a terminal failed state and re-raises the error so the caller
// knows the attempt did not complete. Distinct from rolled_back, which is an
// intentional undo after failing tests.
func (e *Executor) fail(ctx context.Context, exec *core.RefactorExecution, cause error) error {
	completed := e.clock.Now()
	exec.Status = core.ExecutionFailed
	exec.CompletedAt = &completed
	if exec.Metadata == nil {
		exec.Metadata = map[string]string{}
	}
	exec.Metadata["error"] = cause.Error()
	if err := e.store.UpdateExecution(ctx, exec); err != nil {
		e.logger.Error("failed to record execution failure", "execution", exec.ID, "error", err)
	}
	e.logger.Error("execution failed", "execution", exec.ID, "error", cause)
	return cause
}

// rollBack finalizes an execution whose tests failed: files are already
// restored, the execution becomes rolled_back, and a synthetic rejection is
// recorded so the feedback loop learns from it.
func (e *Executor) rollBack(ctx context.Context, exec *core.RefactorExecution, s *core.Suggestion) error {
	completed := e.clock.Now()
	exec.Status = core.ExecutionRolledBack
	exec.CompletedAt = &completed
	if err := e.store.UpdateExecution(ctx, exec); err != nil {
		return fmt.Errorf("failed to record rollback: %w", err)
	}

	fb := &core.RefactorFeedback{
		ID:           e.newID(),
		SuggestionID: s.ID,
		UserID:       core.SystemActor,
		Action:       core.FeedbackRejected,
		Rating:       1,
		Comments:     fmt.Sprintf("automatic rollback: %d test(s) failed", exec.TestResults.Failed),
		Metadata:     map[string]string{"execution_id": exec.ID},
		CreatedAt:    completed,
	}
	if err := e.store.SaveFeedback(ctx, fb); err != nil {
		e.logger.Error("failed to record synthetic rejection", "suggestion", s.ID, "error", err)
	}
	if s.Status != core.SuggestionRejected {
		if err := e.store.UpdateSuggestionStatus(ctx, s.ID, core.SuggestionRejected); err != nil {
			e.logger.Error("failed to reject suggestion after rollback", "suggestion", s.ID, "error", err)
		}
	}

	e.events.Record(ctx, &core.EvolutionEvent{
		ID:          e.newID(),
		Tenant:      s.Tenant,
		Type:        "refactor_rolled_back",
		Severity:    core.SeverityWarning,
		Title:       "Refactor rolled back",
		Description: fmt.Sprintf("%s: %d test(s) failed", s.Title, exec.TestResults.Failed),
		Data:        map[string]any{"execution_id": exec.ID, "suggestion_id": s.ID},
		TriggeredBy: core.SystemActor,
		CreatedAt:   completed,
	})
	e.logger.Warn("execution rolled back", "execution", exec.ID, "failed_tests", exec.TestResults.Failed)
	return nil
}

func (e *Executor) runTests(ctx context.Context, tests []string) (*core.TestResults, error) {
	runCtx, cancel := context.WithTimeout(ctx, e.testTimeout)
	defer cancel()
	return e.runner.Run(runCtx, e.projectRoot, tests)
}
