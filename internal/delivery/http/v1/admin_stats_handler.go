package v1

import (
	"context"
	"net/http"
	"strings"
	"time"

	"sunushop-backend/internal/domain"
	"sunushop-backend/pkg/utils"
)

type revenueService interface {
	VendorRevenue(ctx context.Context, vendorID string, start, end time.Time) (*domain.VendorRevenue, error)
	Overview(ctx context.Context, start, end time.Time) (*domain.SalesOverview, error)
}

// StatsHandler serves vendor revenue and the admin sales dashboard.
// Dates are YYYY-MM-DD and default to the last 30 days.
type StatsHandler struct {
	revenue revenueService
}

func NewStatsHandler(uc revenueService) *StatsHandler {
	return &StatsHandler{revenue: uc}
}

// GET /api/v1/vendor/revenue?start=2026-03-01&end=2026-03-31
func (h *StatsHandler) MyRevenue(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	h.vendorRevenue(w, r, user.ID)
}

// GET /api/v1/admin/stats/vendor-revenue?vendorId=...
func (h *StatsHandler) VendorRevenue(w http.ResponseWriter, r *http.Request) {
	h.vendorRevenue(w, r, strings.TrimSpace(r.URL.Query().Get("vendorId")))
}

func (h *StatsHandler) vendorRevenue(w http.ResponseWriter, r *http.Request, vendorID string) {
	start, end, err := parseDateRange(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	rev, err := h.revenue.VendorRevenue(r.Context(), vendorID, start, end)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rev)
}

// GET /api/v1/admin/stats/overview?start=...&end=...
func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	ov, err := h.revenue.Overview(r.Context(), start, end)
	if err != nil {
		utils.WriteAppError(w, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ov)
}
