package handlers

import (
	"fmt"
	"net/http"

	"birs-backend/internal/reporting"
	"birs-backend/internal/services"
	"birs-backend/internal/timeutil"
	"birs-backend/pkg/utils"
)

type ExportHandler struct {
	Service *services.ExportService
}

func NewExportHandler(s *services.ExportService) *ExportHandler {
	return &ExportHandler{Service: s}
}

// EntriesCSV downloads the filtered entry list as CSV
func (h *ExportHandler) EntriesCSV(w http.ResponseWriter, r *http.Request) {
	filter := reporting.ParseEntryFilter(r.URL.Query())
	data, err := h.Service.EntriesCSV(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to export entries")
		return
	}
	filename := fmt.Sprintf("tax_entries_%s.csv", timeutil.Now().Format(timeutil.DateLayout))
	utils.Attachment(w, filename, "text/csv", data)
}

// EntriesExcel downloads the filtered entry list as an xlsx workbook
func (h *ExportHandler) EntriesExcel(w http.ResponseWriter, r *http.Request) {
	filter := reporting.ParseEntryFilter(r.URL.Query())
	data, err := h.Service.EntriesExcel(r.Context(), filter)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to export entries")
		return
	}
	filename := fmt.Sprintf("tax_entries_%s.xlsx", timeutil.Now().Format(timeutil.DateLayout))
	utils.Attachment(w, filename,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// LeaguePDF downloads the month's league table as PDF
func (h *ExportHandler) LeaguePDF(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearParams(r)
	data, err := h.Service.LeaguePDF(r.Context(), month, year)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to export league")
		return
	}
	filename := fmt.Sprintf("league_%s.pdf", timeutil.Now().Format(timeutil.DateLayout))
	utils.Attachment(w, filename, "application/pdf", data)
}

// LeagueCSV downloads the month's league table as CSV
func (h *ExportHandler) LeagueCSV(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearParams(r)
	data, err := h.Service.LeagueCSV(r.Context(), month, year)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to export league")
		return
	}
	filename := fmt.Sprintf("league_%s.csv", timeutil.Now().Format(timeutil.DateLayout))
	utils.Attachment(w, filename, "text/csv", data)
}
