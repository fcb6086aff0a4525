package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/sevigo/evo-warden/internal/evolution"
	"github.com/sevigo/evo-warden/internal/jobs"
)

// EvolutionHandler exposes the orchestrator's controls: status, toggle,
// emergency stop, and an operator-triggered analysis run.
type EvolutionHandler struct {
	orch       *evolution.Orchestrator
	dispatcher jobs.Dispatcher
	tenant     string
	logger     *slog.Logger
}

// NewEvolutionHandler creates the handler for the process's tenant.
func NewEvolutionHandler(orch *evolution.Orchestrator, dispatcher jobs.Dispatcher, tenant string, logger *slog.Logger) *EvolutionHandler {
	return &EvolutionHandler{orch: orch, dispatcher: dispatcher, tenant: tenant, logger: logger}
}

// Status returns the tenant's settings and the latest metrics snapshot.
func (h *EvolutionHandler) Status(w http.ResponseWriter, r *http.Request) {
	settings, err := h.orch.Settings(r.Context(), h.tenant)
	if err != nil {
		h.logger.Error("failed to load settings", "error", err)
		http.Error(w, "failed to load settings", http.StatusInternalServerError)
		return
	}
	metrics, err := h.orch.UpdateEvolutionMetrics(r.Context(), h.tenant)
	if err != nil {
		h.logger.Error("failed to aggregate metrics", "error", err)
		http.Error(w, "failed to aggregate metrics", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{
		"settings": settings,
		"metrics":  metrics,
	})
}

type toggleRequest struct {
	Enabled bool   `json:"enabled"`
	Actor   string `json:"actor"`
}

// Toggle flips the tenant's enabled switch.
func (h *EvolutionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Actor == "" {
		http.Error(w, "actor is required", http.StatusBadRequest)
		return
	}
	if err := h.orch.ToggleEvolution(r.Context(), h.tenant, req.Enabled, req.Actor); err != nil {
		h.logger.Error("failed to toggle evolution", "error", err)
		http.Error(w, "failed to toggle evolution", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"enabled": req.Enabled})
}

type emergencyStopRequest struct {
	Actor  string `json:"actor"`
	Reason string `json:"reason"`
}

// EmergencyStop halts the loop and rolls back in-flight executions.
func (h *EvolutionHandler) EmergencyStop(w http.ResponseWriter, r *http.Request) {
	var req emergencyStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Actor == "" || req.Reason == "" {
		http.Error(w, "actor and reason are required", http.StatusBadRequest)
		return
	}
	if err := h.orch.EmergencyStop(r.Context(), h.tenant, req.Actor, req.Reason); err != nil {
		h.logger.Error("emergency stop failed", "error", err)
		http.Error(w, "emergency stop failed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"stopped": true})
}

// RunAnalysis queues an analysis cycle on the worker pool and returns
// immediately. mode=incremental scopes the run to files changed since the
// last pinned analysis.
func (h *EvolutionHandler) RunAnalysis(w http.ResponseWriter, r *http.Request) {
	name := "analysis-cycle"
	run := h.orch.RunAnalysisCycle
	switch r.URL.Query().Get("mode") {
	case "", "full":
	case "incremental":
		name = "incremental-analysis"
		run = h.orch.RunIncrementalAnalysisCycle
	default:
		http.Error(w, "mode must be full or incremental", http.StatusBadRequest)
		return
	}

	task := jobs.Task{
		Name: name,
		Run: func(ctx context.Context) error {
			return run(ctx, h.tenant)
		},
	}
	if err := h.dispatcher.Dispatch(r.Context(), task); err != nil {
		h.logger.Error("failed to queue analysis", "error", err)
		http.Error(w, "analysis queue is full", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, h.logger, http.StatusAccepted, map[string]any{"queued": true})
}

// Events returns the tenant's most recent evolution events, newest first.
func (h *EvolutionHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = n
	}
	events, err := h.orch.RecentEvents(r.Context(), h.tenant, limit)
	if err != nil {
		h.logger.Error("failed to list events", "error", err)
		http.Error(w, "failed to list events", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"events": events})
}
