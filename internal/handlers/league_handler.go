package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"birs-backend/internal/middleware"
	"birs-backend/internal/models"
	"birs-backend/internal/reporting"
	"birs-backend/internal/services"
	"birs-backend/pkg/utils"
)

type LeagueHandler struct {
	Service *services.LeagueService
}

func NewLeagueHandler(s *services.LeagueService) *LeagueHandler {
	return &LeagueHandler{Service: s}
}

// Table serves the live league standings for a month
func (h *LeagueHandler) Table(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearParams(r)
	rows, err := h.Service.Build(r.Context(), month, year)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to build league")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"league": rows,
		"count":  len(rows),
	})
}

// Freeze stores the current standings as the month's snapshot
func (h *LeagueHandler) Freeze(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearParams(r)
	snap, err := h.Service.Freeze(r.Context(), month, year)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to freeze league")
		return
	}
	utils.JSON(w, http.StatusCreated, snap)
}

// Snapshot serves the frozen standings for one month
func (h *LeagueHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	month, err1 := strconv.Atoi(vars["month"])
	year, err2 := strconv.Atoi(vars["year"])
	if err1 != nil || err2 != nil || month < 1 || month > 12 {
		utils.Error(w, http.StatusBadRequest, "Invalid month or year")
		return
	}
	rows, err := h.Service.Snapshot(r.Context(), month, year)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "No snapshot for that month")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to load snapshot")
		return
	}
	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"month":  month,
		"year":   year,
		"league": rows,
	})
}

// Snapshots lists every frozen month
func (h *LeagueHandler) Snapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.Service.ListSnapshots(r.Context())
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list snapshots")
		return
	}
	utils.JSON(w, http.StatusOK, snaps)
}

// SetTarget assigns an ATO's collection target
func (h *LeagueHandler) SetTarget(w http.ResponseWriter, r *http.Request) {
	adminID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.SetTargetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	target, err := h.Service.SetTarget(r.Context(), adminID, &req)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}
		utils.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.JSON(w, http.StatusOK, target)
}

// RecordSummary captures an agent's current totals for trend comparison
func (h *LeagueHandler) RecordSummary(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	summary, err := h.Service.RecordSummary(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "User not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to record summary")
		return
	}
	utils.JSON(w, http.StatusCreated, summary)
}

// Compare serves summary series for selected agents side by side
func (h *LeagueHandler) Compare(w http.ResponseWriter, r *http.Request) {
	var filter services.CompareFilter
	for _, s := range r.URL.Query()["user_id"] {
		if id, err := strconv.Atoi(s); err == nil {
			filter.UserIDs = append(filter.UserIDs, id)
		}
	}
	filter.Month, filter.Year = monthYearParams(r)
	filter.LGA = r.URL.Query().Get("lga")

	comparison, err := h.Service.Compare(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to compare agents")
		return
	}
	utils.JSON(w, http.StatusOK, comparison)
}

// AgentDetail serves the drill-down view for one agent
func (h *LeagueHandler) AgentDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	filter := reporting.ParseEntryFilter(r.URL.Query())
	detail, err := h.Service.AgentDetail(r.Context(), id, filter)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			utils.Error(w, http.StatusNotFound, "Agent not found")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to load agent detail")
		return
	}
	utils.JSON(w, http.StatusOK, detail)
}
