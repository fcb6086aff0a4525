package refactor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/evo-warden/internal/core"
	"github.com/sevigo/evo-warden/mocks"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type eventSink struct {
	mu     sync.Mutex
	events []*core.EvolutionEvent
}

func (s *eventSink) Record(_ context.Context, event *core.EvolutionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *eventSink) byType(eventType string) []*core.EvolutionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*core.EvolutionEvent
	for _, e := range s.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// captureScheduler records scheduled keys without running them.
type captureScheduler struct {
	keys   []string
	delays []time.Duration
}

func (s *captureScheduler) Schedule(key string, delay time.Duration, _ func()) {
	s.keys = append(s.keys, key)
	s.delays = append(s.delays, delay)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

const (
	oldContent = "const user_name = 1;\n"
	newContent = "const userName = 1;\n"
)

func automaticSuggestion() *core.Suggestion {
	return &core.Suggestion{
		ID:              "sug-1",
		Tenant:          "acme",
		Type:            core.SuggestStyleImprovement,
		Priority:        core.PriorityLow,
		Title:           "Align naming convention in src/app.js",
		Description:     "rename snake_case identifiers",
		Files:           []string{"src/app.js"},
		AutomationLevel: core.AutomationAutomatic,
		Implementation: core.Implementation{
			Changes: []core.FileChange{{
				File:       "src/app.js",
				Operation:  core.OpUpdate,
				OldContent: oldContent,
				NewContent: newContent,
			}},
			Tests:        []string{"app.test"},
			RollbackPlan: "Restore the previous file content from the execution backup",
		},
		Confidence: 0.8,
		Status:     core.SuggestionPending,
	}
}

func newTestExecutor(store core.Store, files core.FileStore, runner core.TestRunner, events core.EventRecorder, now time.Time, opts ...Option) *Executor {
	base := []Option{
		WithClock(fixedClock{now}),
		WithIDGenerator(sequentialIDs()),
		WithScheduler(&captureScheduler{}),
	}
	return NewExecutor(store, files, runner, events, discardLogger(), "/project", "/backups", append(base, opts...)...)
}

func TestAutoApplySuggestion(t *testing.T) {
	now := time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC)

	t.Run("refuses non-automatic suggestions without creating an execution", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)

		s := automaticSuggestion()
		s.AutomationLevel = core.AutomationAssisted
		store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(s, nil)

		e := newTestExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{}, now)
		_, err := e.AutoApplySuggestion(context.Background(), "sug-1")
		assert.ErrorIs(t, err, ErrNotAutomatic)
	})

	t.Run("refuses rejected suggestions", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)

		s := automaticSuggestion()
		s.Status = core.SuggestionRejected
		store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(s, nil)

		e := newTestExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{}, now)
		_, err := e.AutoApplySuggestion(context.Background(), "sug-1")
		assert.ErrorIs(t, err, ErrNotApproved)
	})

	t.Run("applies, tests and completes an automatic suggestion", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		files := mocks.NewMockFileStore(ctrl)
		runner := mocks.NewMockTestRunner(ctrl)
		sink := &eventSink{}

		s := automaticSuggestion()
		store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(s, nil)
		store.EXPECT().UpdateSuggestionStatus(gomock.Any(), "sug-1", core.SuggestionApproved).Return(nil)

		var created *core.RefactorExecution
		store.EXPECT().CreateExecution(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, exec *core.RefactorExecution) error {
				created = exec
				require.Equal(t, core.ExecutionPending, exec.Status)
				return nil
			})

		files.EXPECT().Read(gomock.Any(), "src/app.js").Return(oldContent, nil)
		files.EXPECT().Write(gomock.Any(), gomock.Not("src/app.js"), oldContent).Return(nil) // backup copy
		files.EXPECT().Write(gomock.Any(), "src/app.js", newContent).Return(nil)

		runner.EXPECT().Run(gomock.Any(), "/project", []string{"app.test"}).
			Return(&core.TestResults{Passed: 12, Coverage: 81.0}, nil)

		store.EXPECT().UpdateExecution(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		e := newTestExecutor(store, files, runner, sink, now)
		exec, err := e.AutoApplySuggestion(context.Background(), "sug-1")
		require.NoError(t, err)

		assert.Same(t, created, exec)
		assert.Equal(t, core.ExecutionCompleted, exec.Status)
		assert.Equal(t, core.SystemActor, exec.ExecutedBy)
		require.NotNil(t, exec.CompletedAt)
		require.NotNil(t, exec.TestResults)
		assert.Equal(t, 12, exec.TestResults.Passed)
		assert.Contains(t, exec.BackupPath, "/backups/")

		require.Len(t, sink.byType("refactor_completed"), 1)
	})
}

func TestExecutionRollsBackOnFailingTests(t *testing.T) {
	now := time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC)
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	files := mocks.NewMockFileStore(ctrl)
	runner := mocks.NewMockTestRunner(ctrl)
	sink := &eventSink{}

	s := automaticSuggestion()
	s.Status = core.SuggestionApproved
	store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(s, nil)
	store.EXPECT().CreateExecution(gomock.Any(), gomock.Any()).Return(nil)

	files.EXPECT().Read(gomock.Any(), "src/app.js").Return(oldContent, nil)
	files.EXPECT().Write(gomock.Any(), gomock.Not("src/app.js"), oldContent).Return(nil)
	files.EXPECT().Write(gomock.Any(), "src/app.js", newContent).Return(nil)
	// The restore path puts the original bytes back.
	files.EXPECT().Write(gomock.Any(), "src/app.js", oldContent).Return(nil)

	runner.EXPECT().Run(gomock.Any(), "/project", []string{"app.test"}).
		Return(&core.TestResults{Passed: 3, Failed: 2}, nil)

	store.EXPECT().UpdateExecution(gomock.Any(), gomock.Any()).Return(nil).Times(2)

	var synthetic *core.RefactorFeedback
	store.EXPECT().SaveFeedback(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, fb *core.RefactorFeedback) error {
			synthetic = fb
			return nil
		})
	store.EXPECT().UpdateSuggestionStatus(gomock.Any(), "sug-1", core.SuggestionRejected).Return(nil)

	e := newTestExecutor(store, files, runner, sink, now)
	exec, err := e.ExecuteApprovedSuggestion(context.Background(), "sug-1", "reviewer-1")
	require.NoError(t, err, "a rollback is a handled outcome, not a failure")

	assert.Equal(t, core.ExecutionRolledBack, exec.Status)
	require.NotNil(t, synthetic)
	assert.Equal(t, core.FeedbackRejected, synthetic.Action)
	assert.Equal(t, core.SystemActor, synthetic.UserID)
	assert.Equal(t, "automatic rollback: 2 test(s) failed", synthetic.Comments)

	require.Len(t, sink.byType("refactor_rolled_back"), 1)
}

func TestExecuteApprovedSuggestionRequiresApproval(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	s := automaticSuggestion() // still pending
	store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(s, nil)

	e := newTestExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{}, time.Now())
	_, err := e.ExecuteApprovedSuggestion(context.Background(), "sug-1", "reviewer-1")
	assert.ErrorIs(t, err, ErrNotApproved)
}

func TestSubmitFeedback(t *testing.T) {
	now := time.Date(2026, 4, 3, 10, 0, 0, 0, time.UTC)

	t.Run("an approval schedules a debounced execution", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		sched := &captureScheduler{}

		s := automaticSuggestion()
		store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(s, nil)
		store.EXPECT().SaveFeedback(gomock.Any(), gomock.Any()).Return(nil)
		store.EXPECT().UpdateSuggestionStatus(gomock.Any(), "sug-1", core.SuggestionApproved).Return(nil)

		e := NewExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{},
			discardLogger(), "/project", "/backups",
			WithClock(fixedClock{now}), WithIDGenerator(sequentialIDs()),
			WithScheduler(sched), WithDebounce(2*time.Second))

		fb := &core.RefactorFeedback{
			SuggestionID: "sug-1",
			UserID:       "reviewer-1",
			Action:       core.FeedbackApproved,
			Rating:       4,
		}
		require.NoError(t, e.SubmitFeedback(context.Background(), fb))

		assert.NotEmpty(t, fb.ID, "feedback without an id gets one assigned")
		assert.Equal(t, now, fb.CreatedAt)
		require.Equal(t, []string{"sug-1"}, sched.keys)
		assert.Equal(t, []time.Duration{2 * time.Second}, sched.delays)
	})

	t.Run("a rejection only transitions the status", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)
		sched := &captureScheduler{}

		s := automaticSuggestion()
		store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(s, nil)
		store.EXPECT().SaveFeedback(gomock.Any(), gomock.Any()).Return(nil)
		store.EXPECT().UpdateSuggestionStatus(gomock.Any(), "sug-1", core.SuggestionRejected).Return(nil)

		e := newTestExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{}, now,
			WithScheduler(sched))

		fb := &core.RefactorFeedback{
			SuggestionID: "sug-1",
			UserID:       "reviewer-1",
			Action:       core.FeedbackRejected,
			Rating:       2,
		}
		require.NoError(t, e.SubmitFeedback(context.Background(), fb))
		assert.Empty(t, sched.keys)
	})

	t.Run("an unknown action is an error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		store := mocks.NewMockStore(ctrl)

		store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").Return(automaticSuggestion(), nil)
		store.EXPECT().SaveFeedback(gomock.Any(), gomock.Any()).Return(nil)

		e := newTestExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{}, now)
		err := e.SubmitFeedback(context.Background(), &core.RefactorFeedback{
			SuggestionID: "sug-1",
			UserID:       "reviewer-1",
			Action:       "shrug",
			Rating:       3,
		})
		assert.ErrorContains(t, err, "unknown feedback action")
	})
}

func TestPathLocksSerializeOverlappingSets(t *testing.T) {
	locks := newPathLocks()

	release := locks.acquire([]string{"a.js", "b.js"})

	entered := make(chan struct{})
	go func() {
		r := locks.acquire([]string{"b.js", "c.js"})
		close(entered)
		r()
	}()

	select {
	case <-entered:
		t.Fatal("overlapping acquire must block until release")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case <-entered:
	case <-time.After(time.Second):
		t.Fatal("blocked acquire never resumed after release")
	}
}

func TestGetRefactorMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)
	completed := from.Add(2 * time.Hour)

	store.EXPECT().ListSuggestionsCreatedBetween(gomock.Any(), "acme", from, to).Return([]*core.Suggestion{
		{Status: core.SuggestionPending},
		{Status: core.SuggestionApproved},
		{Status: core.SuggestionApproved},
	}, nil)
	store.EXPECT().ListExecutionsBetween(gomock.Any(), "acme", from, to).Return([]*core.RefactorExecution{
		{Status: core.ExecutionCompleted, ExecutedBy: core.SystemActor, StartedAt: from, CompletedAt: &completed},
		{Status: core.ExecutionRolledBack, ExecutedBy: "reviewer-1", StartedAt: from, CompletedAt: &completed},
	}, nil)
	store.EXPECT().ListFeedbackBetween(gomock.Any(), "acme", from, to).Return([]*core.RefactorFeedback{
		{Rating: 5},
		{Rating: 3},
	}, nil)

	e := newTestExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{}, to)
	m, err := e.GetRefactorMetrics(context.Background(), "acme", from, to)
	require.NoError(t, err)

	assert.Equal(t, 2, m.SuggestionsByStatus[core.SuggestionApproved])
	assert.Equal(t, 2, m.TotalExecutions)
	assert.Equal(t, 1, m.AutomaticExecutions)
	assert.Equal(t, 1, m.ManualExecutions)
	assert.Equal(t, 1, m.RolledBackExecutions)
	assert.InDelta(t, 0.5, m.SuccessRate, 0.001)
	assert.InDelta(t, 2.0, m.TimeToImplementHours, 0.001)
	assert.InDelta(t, 4.0, m.MeanFeedbackRating, 0.001)
}

func TestGetPendingSuggestionsOrdering(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	now := time.Date(2026, 4, 2, 8, 0, 0, 0, time.UTC)

	// The store hands them back shuffled.
	store.EXPECT().ListPendingSuggestions(gomock.Any(), "acme", 10).Return([]*core.Suggestion{
		{ID: "sug-stale", Priority: core.PriorityHigh, Confidence: 0.9, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "sug-medium", Priority: core.PriorityMedium, Confidence: 0.95, CreatedAt: now},
		{ID: "sug-critical", Priority: core.PriorityCritical, Confidence: 0.4, CreatedAt: now.Add(-48 * time.Hour)},
		{ID: "sug-fresh", Priority: core.PriorityHigh, Confidence: 0.9, CreatedAt: now},
	}, nil)

	e := newTestExecutor(store, mocks.NewMockFileStore(ctrl), mocks.NewMockTestRunner(ctrl), &eventSink{}, now)
	suggestions, err := e.GetPendingSuggestions(context.Background(), "acme", 10)
	require.NoError(t, err)

	got := make([]string, len(suggestions))
	for i, s := range suggestions {
		got[i] = s.ID
	}
	assert.Equal(t, []string{"sug-critical", "sug-fresh", "sug-stale", "sug-medium"}, got)
}
