package handlers

import (
	"net/http"
	"strconv"

	"birs-backend/internal/middleware"
	"birs-backend/internal/reporting"
	"birs-backend/internal/services"
	"birs-backend/pkg/utils"
)

type DashboardHandler struct {
	Service *services.DashboardService
}

func NewDashboardHandler(s *services.DashboardService) *DashboardHandler {
	return &DashboardHandler{Service: s}
}

// Agent serves the ATO's own dashboard
func (h *DashboardHandler) Agent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	filter := reporting.ParseEntryFilter(r.URL.Query())
	dash, err := h.Service.Agent(r.Context(), userID, filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	utils.JSON(w, http.StatusOK, dash)
}

// Admin serves the management overview with the league table
func (h *DashboardHandler) Admin(w http.ResponseWriter, r *http.Request) {
	filter := reporting.ParseEntryFilter(r.URL.Query())
	month, year := monthYearParams(r)

	dash, err := h.Service.Admin(r.Context(), month, year, filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to build dashboard")
		return
	}
	utils.JSON(w, http.StatusOK, dash)
}

// monthYearParams reads optional month/year query values, 0 when absent or
// malformed.
func monthYearParams(r *http.Request) (int, int) {
	var month, year int
	if n, err := strconv.Atoi(r.URL.Query().Get("month")); err == nil && n >= 1 && n <= 12 {
		month = n
	}
	if n, err := strconv.Atoi(r.URL.Query().Get("year")); err == nil && n > 0 {
		year = n
	}
	return month, year
}
