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

type EntryHandler struct {
	Service *services.EntryService
}

func NewEntryHandler(s *services.EntryService) *EntryHandler {
	return &EntryHandler{Service: s}
}

// Submit records a new tax entry after gateway verification
func (h *EntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())

	var req models.SubmitEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.Service.Submit(r.Context(), userID, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrDuplicateReference):
			utils.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrVerificationUnavailable):
			utils.Error(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.Error(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	utils.JSON(w, http.StatusCreated, entry)
}

// List returns entries visible to the caller, filtered by query parameters
func (h *EntryHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	filter := reporting.ParseEntryFilter(r.URL.Query())
	entries, err := h.Service.List(r.Context(), userID, role, filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to list entries")
		return
	}

	utils.JSON(w, http.StatusOK, map[string]interface{}{
		"entries":         entries,
		"count":           len(entries),
		"ignored_filters": filter.Ignored,
	})
}

func (h *EntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid entry id")
		return
	}
	entry, err := h.Service.Get(r.Context(), id, userID, role)
	if err != nil {
		utils.Error(w, http.StatusNotFound, "Entry not found")
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}

// Delete removes an unverified entry
func (h *EntryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserIDFromContext(r.Context())
	role, _ := middleware.GetRoleFromContext(r.Context())

	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid entry id")
		return
	}
	if err := h.Service.Delete(r.Context(), id, userID, role); err != nil {
		switch {
		case errors.Is(err, models.ErrEntryVerified):
			utils.Error(w, http.StatusConflict, err.Error())
		case errors.Is(err, models.ErrNotFound):
			utils.Error(w, http.StatusNotFound, "Entry not found")
		default:
			utils.Error(w, http.StatusInternalServerError, "Failed to delete entry")
		}
		return
	}
	utils.JSON(w, http.StatusOK, map[string]string{"message": "Entry deleted"})
}

// Reverify re-checks the entry's references with the gateways
func (h *EntryHandler) Reverify(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid entry id")
		return
	}
	entry, err := h.Service.Reverify(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrNotFound):
			utils.Error(w, http.StatusNotFound, "Entry not found")
		case errors.Is(err, models.ErrVerificationUnavailable):
			utils.Error(w, http.StatusServiceUnavailable, err.Error())
		default:
			utils.Error(w, http.StatusInternalServerError, "Failed to reverify entry")
		}
		return
	}
	utils.JSON(w, http.StatusOK, entry)
}
