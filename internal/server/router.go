package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sevigo/evo-warden/internal/canary"
	"github.com/sevigo/evo-warden/internal/config"
	"github.com/sevigo/evo-warden/internal/core"
	"github.com/sevigo/evo-warden/internal/evolution"
	"github.com/sevigo/evo-warden/internal/jobs"
	"github.com/sevigo/evo-warden/internal/metrics"
	"github.com/sevigo/evo-warden/internal/refactor"
	"github.com/sevigo/evo-warden/internal/server/handler"
)

// Deps bundles everything the router exposes.
type Deps struct {
	Config     *config.Config
	Store      core.Store
	Orch       *evolution.Orchestrator
	Executor   *refactor.Executor
	Canaries   *canary.Controller
	Dispatcher jobs.Dispatcher
	Metrics    *metrics.Metrics
	Logger     *slog.Logger
}

// NewRouter creates and configures the ops HTTP router with middleware and
// API routes.
func NewRouter(deps Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())

	tenant := deps.Config.Evolution.Tenant
	evolutionHandler := handler.NewEvolutionHandler(deps.Orch, deps.Dispatcher, tenant, deps.Logger)
	suggestionHandler := handler.NewSuggestionHandler(deps.Executor, tenant, deps.Logger)
	canaryHandler := handler.NewCanaryHandler(deps.Store, deps.Canaries, tenant, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/evolution", func(r chi.Router) {
			r.Get("/status", evolutionHandler.Status)
			r.Post("/toggle", evolutionHandler.Toggle)
			r.Post("/emergency-stop", evolutionHandler.EmergencyStop)
			r.Post("/analysis/run", evolutionHandler.RunAnalysis)
			r.Get("/events", evolutionHandler.Events)
		})
		r.Route("/suggestions", func(r chi.Router) {
			r.Get("/pending", suggestionHandler.ListPending)
			r.Post("/{id}/feedback", suggestionHandler.SubmitFeedback)
		})
		r.Route("/canaries", func(r chi.Router) {
			r.Get("/", canaryHandler.List)
			r.Post("/", canaryHandler.Deploy)
		})
	})

	return r
}
