package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/sevigo/evo-warden/internal/canary"
	"github.com/sevigo/evo-warden/internal/core"
)

// CanaryHandler exposes canary deployment and inspection.
type CanaryHandler struct {
	store      core.Store
	controller *canary.Controller
	tenant     string
	logger     *slog.Logger
}

// NewCanaryHandler creates the handler for the process's tenant.
func NewCanaryHandler(store core.Store, controller *canary.Controller, tenant string, logger *slog.Logger) *CanaryHandler {
	return &CanaryHandler{store: store, controller: controller, tenant: tenant, logger: logger}
}

// List returns the tenant's canaries. The status query parameter filters by a
// comma-separated status list; default is testing and active.
func (h *CanaryHandler) List(w http.ResponseWriter, r *http.Request) {
	statuses := []core.CanaryStatus{core.CanaryTesting, core.CanaryActive}
	if v := r.URL.Query().Get("status"); v != "" {
		statuses = statuses[:0]
		for _, s := range strings.Split(v, ",") {
			statuses = append(statuses, core.CanaryStatus(strings.TrimSpace(s)))
		}
	}

	models, err := h.store.ListCanariesByStatus(r.Context(), h.tenant, statuses...)
	if err != nil {
		h.logger.Error("failed to list canaries", "error", err)
		http.Error(w, "failed to list canaries", http.StatusInternalServerError)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]any{"canaries": models})
}

type deployRequest struct {
	Name              string                 `json:"name"`
	Version           string                 `json:"version"`
	Configuration     map[string]any         `json:"configuration"`
	TrafficPercentage int                    `json:"traffic_percentage"`
	BaselineID        string                 `json:"baseline_id"`
	Criteria          core.PromotionCriteria `json:"promotion_criteria"`
}

// Deploy creates a canary and starts its testing phase.
func (h *CanaryHandler) Deploy(w http.ResponseWriter, r *http.Request) {
	var req deployRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	model, err := h.controller.DeployCanaryModel(r.Context(), canary.DeploymentSpec{
		Tenant:            h.tenant,
		Name:              req.Name,
		Version:           req.Version,
		Configuration:     req.Configuration,
		TrafficPercentage: req.TrafficPercentage,
		BaselineID:        req.BaselineID,
		Criteria:          req.Criteria,
	})
	if err != nil {
		h.logger.Error("failed to deploy canary", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, model)
}
