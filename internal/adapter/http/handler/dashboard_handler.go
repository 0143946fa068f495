package handler

import (
	"context"
	"net/http"

	"github.com/covebank/loancore/internal/usecase"
)

// DashboardService defines the behavior needed by DashboardHandler.
type DashboardService interface {
	Summary(ctx context.Context) (*usecase.DashboardSummary, error)
}

// DashboardHandler serves the staff portfolio dashboard.
type DashboardHandler struct {
	dashboardUC DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardUC DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardUC: dashboardUC}
}

// Summary returns the portfolio snapshot.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.dashboardUC.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to build dashboard", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, summary)
}
