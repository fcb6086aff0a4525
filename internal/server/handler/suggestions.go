package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sevigo/evo-warden/internal/core"
	"github.com/sevigo/evo-warden/internal/refactor"
)

// SuggestionHandler exposes pending suggestions and the feedback entry point.
type SuggestionHandler struct {
	executor *refactor.Executor
	tenant   string
	logger   *slog.Logger
}

// NewSuggestionHandler creates the handler for the process's tenant.
func NewSuggestionHandler(executor *refactor.Executor, tenant string, logger *slog.Logger) *SuggestionHandler {
	return &SuggestionHandler{executor: executor, tenant: tenant, logger: logger}
}

// ListPending returns pending suggestions, highest priority first. The limit
// query parameter caps the result, default 20.
func (h *SuggestionHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	suggestions, err := h.executor.GetPendingSuggestions(r.Context(), h.tenant, limit)
	if err != nil {
		h.logger.Error("failed to list pending suggestions", "error", err)
		http.Error(w, "failed to list suggestions", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"suggestions": suggestions})
}

type feedbackRequest struct {
	UserID   string `json:"user_id"`
	Action   string `json:"action"`
	Rating   int    `json:"rating"`
	Comments string `json:"comments"`
}

// SubmitFeedback records a reviewer's verdict on a suggestion. Approval
// schedules execution after the debounce window.
func (h *SuggestionHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req feedbackRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	fb := &core.RefactorFeedback{
		ID:           uuid.NewString(),
		SuggestionID: id,
		UserID:       req.UserID,
		Action:       core.FeedbackAction(req.Action),
		Rating:       req.Rating,
		Comments:     req.Comments,
	}
	if err := h.executor.SubmitFeedback(r.Context(), fb); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			http.Error(w, "suggestion not found", http.StatusNotFound)
			return
		}
		h.logger.Error("failed to submit feedback", "suggestion", id, "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.logger, http.StatusAccepted, map[string]any{"feedback_id": fb.ID})
}
