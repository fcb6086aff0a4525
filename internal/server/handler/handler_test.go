package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sevigo/evo-warden/internal/analyzer"
	"github.com/sevigo/evo-warden/internal/canary"
	"github.com/sevigo/evo-warden/internal/core"
	"github.com/sevigo/evo-warden/internal/evolution"
	"github.com/sevigo/evo-warden/internal/jobs"
	"github.com/sevigo/evo-warden/internal/refactor"
	"github.com/sevigo/evo-warden/internal/suggest"
	"github.com/sevigo/evo-warden/mocks"
)

type eventSink struct {
	mu     sync.Mutex
	events []*core.EvolutionEvent
}

func (s *eventSink) Record(_ context.Context, event *core.EvolutionEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

// noopScheduler keeps approvals from spawning work after a test ends.
type noopScheduler struct{}

func (noopScheduler) Schedule(string, time.Duration, func()) {}

// stubDispatcher records queued tasks without running them.
type stubDispatcher struct {
	tasks []jobs.Task
	err   error
}

func (d *stubDispatcher) Dispatch(_ context.Context, task jobs.Task) error {
	if d.err != nil {
		return d.err
	}
	d.tasks = append(d.tasks, task)
	return nil
}

func (d *stubDispatcher) Stop() {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fixture struct {
	store      *mocks.MockStore
	dispatcher *stubDispatcher
	orch       *evolution.Orchestrator
	executor   *refactor.Executor
	canaries   *canary.Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	store := mocks.NewMockStore(ctrl)
	files := mocks.NewMockFileStore(ctrl)
	runner := mocks.NewMockTestRunner(ctrl)
	collector := mocks.NewMockMetricsCollector(ctrl)
	sink := &eventSink{}
	logger := discardLogger()

	an := analyzer.New(files, store, logger)
	gen := suggest.NewGenerator(logger)
	executor := refactor.NewExecutor(store, files, runner, sink, logger, t.TempDir(), t.TempDir(),
		refactor.WithScheduler(noopScheduler{}))
	canaries := canary.NewController(store, collector, sink, logger)
	orch := evolution.NewOrchestrator(store, sink, an, gen, executor, canaries, files, logger, t.TempDir())

	return &fixture{
		store:      store,
		dispatcher: &stubDispatcher{},
		orch:       orch,
		executor:   executor,
		canaries:   canaries,
	}
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestListPendingSuggestions(t *testing.T) {
	t.Run("rejects an invalid limit", func(t *testing.T) {
		f := newFixture(t)
		h := NewSuggestionHandler(f.executor, "acme", discardLogger())

		rec := doJSON(t, http.HandlerFunc(h.ListPending), http.MethodGet, "/suggestions/pending?limit=zero", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec = doJSON(t, http.HandlerFunc(h.ListPending), http.MethodGet, "/suggestions/pending?limit=-3", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns pending suggestions", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().ListPendingSuggestions(gomock.Any(), "acme", 5).
			Return([]*core.Suggestion{{ID: "sug-1", Title: "Optimize data-access calls"}}, nil)

		h := NewSuggestionHandler(f.executor, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.ListPending), http.MethodGet, "/suggestions/pending?limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Suggestions []core.Suggestion `json:"suggestions"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Suggestions, 1)
		assert.Equal(t, "sug-1", body.Suggestions[0].ID)
	})
}

func suggestionRouter(h *SuggestionHandler) http.Handler {
	r := chi.NewRouter()
	r.Post("/suggestions/{id}/feedback", h.SubmitFeedback)
	return r
}

func TestSubmitFeedback(t *testing.T) {
	t.Run("returns 404 for an unknown suggestion", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetSuggestion(gomock.Any(), "missing").Return(nil, core.ErrNotFound)

		h := NewSuggestionHandler(f.executor, "acme", discardLogger())
		rec := doJSON(t, suggestionRouter(h), http.MethodPost, "/suggestions/missing/feedback",
			`{"user_id":"reviewer-1","action":"approved","rating":4}`)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("accepts an approval", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetSuggestion(gomock.Any(), "sug-1").
			Return(&core.Suggestion{ID: "sug-1", Tenant: "acme", Status: core.SuggestionPending}, nil)
		f.store.EXPECT().SaveFeedback(gomock.Any(), gomock.Any()).Return(nil)
		f.store.EXPECT().UpdateSuggestionStatus(gomock.Any(), "sug-1", core.SuggestionApproved).Return(nil)

		h := NewSuggestionHandler(f.executor, "acme", discardLogger())
		rec := doJSON(t, suggestionRouter(h), http.MethodPost, "/suggestions/sug-1/feedback",
			`{"user_id":"reviewer-1","action":"approved","rating":4,"comments":"looks right"}`)

		require.Equal(t, http.StatusAccepted, rec.Code)
		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.NotEmpty(t, body["feedback_id"])
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		f := newFixture(t)
		h := NewSuggestionHandler(f.executor, "acme", discardLogger())
		rec := doJSON(t, suggestionRouter(h), http.MethodPost, "/suggestions/sug-1/feedback", `{"action":`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestEvolutionStatus(t *testing.T) {
	f := newFixture(t)
	f.store.EXPECT().GetSettings(gomock.Any(), "acme").Return(nil, core.ErrNotFound)
	f.store.EXPECT().ListSuggestionsCreatedBetween(gomock.Any(), "acme", gomock.Any(), gomock.Any()).Return(nil, nil)
	f.store.EXPECT().ListExecutionsBetween(gomock.Any(), "acme", gomock.Any(), gomock.Any()).Return(nil, nil)
	f.store.EXPECT().ListFeedbackBetween(gomock.Any(), "acme", gomock.Any(), gomock.Any()).Return(nil, nil)
	f.store.EXPECT().ListAnalysisResults(gomock.Any(), "acme", gomock.Any()).Return(nil, nil)
	f.store.EXPECT().ListCanariesByStatus(gomock.Any(), "acme", core.CanaryTesting, core.CanaryActive).Return(nil, nil)

	h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())
	rec := doJSON(t, http.HandlerFunc(h.Status), http.MethodGet, "/evolution/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Settings core.EvolutionSettings `json:"settings"`
		Metrics  core.EvolutionMetrics  `json:"metrics"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "acme", body.Settings.Tenant)
	assert.False(t, body.Settings.Enabled)
}

func TestEvolutionToggle(t *testing.T) {
	t.Run("requires an actor", func(t *testing.T) {
		f := newFixture(t)
		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.Toggle), http.MethodPost, "/evolution/toggle", `{"enabled":true}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("flips the switch", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetSettings(gomock.Any(), "acme").Return(nil, core.ErrNotFound)
		f.store.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, s *core.EvolutionSettings) error {
				assert.True(t, s.Enabled)
				return nil
			})

		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.Toggle), http.MethodPost, "/evolution/toggle",
			`{"enabled":true,"actor":"ops@acme"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestEvolutionEmergencyStop(t *testing.T) {
	t.Run("requires actor and reason", func(t *testing.T) {
		f := newFixture(t)
		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.EmergencyStop), http.MethodPost, "/evolution/emergency-stop",
			`{"actor":"oncall@acme"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("halts the loop", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().GetSettings(gomock.Any(), "acme").Return(nil, core.ErrNotFound)
		f.store.EXPECT().SaveSettings(gomock.Any(), gomock.Any()).Return(nil)
		f.store.EXPECT().ListExecutionsByStatus(gomock.Any(), "acme", core.ExecutionInProgress).Return(nil, nil)

		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.EmergencyStop), http.MethodPost, "/evolution/emergency-stop",
			`{"actor":"oncall@acme","reason":"runaway refactors"}`)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestRunAnalysis(t *testing.T) {
	t.Run("queues the cycle", func(t *testing.T) {
		f := newFixture(t)
		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())

		rec := doJSON(t, http.HandlerFunc(h.RunAnalysis), http.MethodPost, "/evolution/analysis/run", "")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, f.dispatcher.tasks, 1)
		assert.Equal(t, "analysis-cycle", f.dispatcher.tasks[0].Name)
	})

	t.Run("queues an incremental cycle", func(t *testing.T) {
		f := newFixture(t)
		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())

		rec := doJSON(t, http.HandlerFunc(h.RunAnalysis), http.MethodPost, "/evolution/analysis/run?mode=incremental", "")
		assert.Equal(t, http.StatusAccepted, rec.Code)
		require.Len(t, f.dispatcher.tasks, 1)
		assert.Equal(t, "incremental-analysis", f.dispatcher.tasks[0].Name)
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		f := newFixture(t)
		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())

		rec := doJSON(t, http.HandlerFunc(h.RunAnalysis), http.MethodPost, "/evolution/analysis/run?mode=partial", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Empty(t, f.dispatcher.tasks)
	})

	t.Run("reports a full queue", func(t *testing.T) {
		f := newFixture(t)
		f.dispatcher.err = assert.AnError

		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.RunAnalysis), http.MethodPost, "/evolution/analysis/run", "")
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestEvolutionEvents(t *testing.T) {
	t.Run("returns recent events newest first", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().ListEvents(gomock.Any(), "acme", 2).
			Return([]*core.EvolutionEvent{
				{ID: "ev-2", Type: "emergency_stop", Severity: core.SeverityCritical},
				{ID: "ev-1", Type: "evolution_toggled", Severity: core.SeverityInfo},
			}, nil)

		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.Events), http.MethodGet, "/evolution/events?limit=2", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Events []core.EvolutionEvent `json:"events"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Events, 2)
		assert.Equal(t, "ev-2", body.Events[0].ID)
	})

	t.Run("rejects an invalid limit", func(t *testing.T) {
		f := newFixture(t)
		h := NewEvolutionHandler(f.orch, f.dispatcher, "acme", discardLogger())

		rec := doJSON(t, http.HandlerFunc(h.Events), http.MethodGet, "/evolution/events?limit=0", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCanaryList(t *testing.T) {
	t.Run("defaults to testing and active", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().ListCanariesByStatus(gomock.Any(), "acme", core.CanaryTesting, core.CanaryActive).
			Return([]*core.CanaryModel{{ID: "canary-1"}}, nil)

		h := NewCanaryHandler(f.store, f.canaries, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.List), http.MethodGet, "/canaries", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "canary-1")
	})

	t.Run("honors the status filter", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().ListCanariesByStatus(gomock.Any(), "acme", core.CanaryPromoted, core.CanaryRolledBack).
			Return(nil, nil)

		h := NewCanaryHandler(f.store, f.canaries, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.List), http.MethodGet, "/canaries?status=promoted,rolled_back", "")
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestCanaryDeploy(t *testing.T) {
	t.Run("creates and starts the canary", func(t *testing.T) {
		f := newFixture(t)
		f.store.EXPECT().SaveCanary(gomock.Any(), gomock.Any()).Return(nil)
		f.store.EXPECT().UpdateCanary(gomock.Any(), gomock.Any()).Return(nil)

		h := NewCanaryHandler(f.store, f.canaries, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.Deploy), http.MethodPost, "/canaries",
			`{"name":"flash-tuned","version":"v2","traffic_percentage":10,"baseline_id":"baseline-1"}`)

		require.Equal(t, http.StatusCreated, rec.Code)
		var model core.CanaryModel
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &model))
		assert.Equal(t, core.CanaryTesting, model.Status)
	})

	t.Run("rejects an invalid traffic percentage", func(t *testing.T) {
		f := newFixture(t)
		h := NewCanaryHandler(f.store, f.canaries, "acme", discardLogger())
		rec := doJSON(t, http.HandlerFunc(h.Deploy), http.MethodPost, "/canaries",
			`{"name":"flash-tuned","version":"v2","traffic_percentage":150}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
