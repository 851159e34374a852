package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"birs-backend/internal/models"
	"birs-backend/internal/reporting"
	"birs-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/xuri/excelize/v2"
)

// ExportService renders entry lists and league tables to Excel, CSV and PDF.
type ExportService struct {
	entries EntryStore
	league  *LeagueService
}

func NewExportService(entries EntryStore, league *LeagueService) *ExportService {
	return &ExportService{entries: entries, league: league}
}

var entryExportHeader = []string{
	"#", "Tax Item", "Subhead", "RRR", "RRR Verified", "RRR Amount",
	"PayDirect Ref", "PayDirect Verified", "PayDirect Amount",
	"Uploaded By", "Date Uploaded",
}

func entryExportRow(i int, e *models.TaxEntry) []string {
	return []string{
		fmt.Sprintf("%d", i+1),
		e.TaxItem,
		e.Subhead,
		e.RRR,
		yesNo(e.RRRVerified),
		fmt.Sprintf("%.2f", e.RRRAmount),
		e.PayDirectRef,
		yesNo(e.PayDirectVerified),
		fmt.Sprintf("%.2f", e.PayDirectAmount),
		e.UploaderName,
		timeutil.ToWAT(e.DateUploaded).Format(timeutil.DateTimeLayout),
	}
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// EntriesCSV renders the filtered entry list as CSV.
func (s *ExportService) EntriesCSV(ctx context.Context, f reporting.EntryFilter) ([]byte, error) {
	entries, err := s.entries.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write(entryExportHeader)
	for i, e := range entries {
		w.Write(entryExportRow(i, e))
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EntriesExcel renders the filtered entry list as an xlsx workbook.
func (s *ExportService) EntriesExcel(ctx context.Context, f reporting.EntryFilter) ([]byte, error) {
	entries, err := s.entries.List(ctx, f)
	if err != nil {
		return nil, err
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Tax Entries"
	file.SetSheetName("Sheet1", sheet)

	headerStyle, err := file.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDDDDD"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}

	for col, title := range entryExportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		file.SetCellValue(sheet, cell, title)
		file.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for i, e := range entries {
		for col, value := range entryExportRow(i, e) {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LeaguePDF renders the month's league table as a landscape PDF.
func (s *ExportService) LeaguePDF(ctx context.Context, month, year int) ([]byte, error) {
	if month == 0 || year == 0 {
		now := timeutil.Now()
		month, year = int(now.Month()), now.Year()
	}
	rows, err := s.league.Build(ctx, month, year)
	if err != nil {
		return nil, err
	}
	totals := reporting.ComputeLeagueTotals(rows)

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 18)
	pdf.CellFormat(277, 12, "BIRS Performance League", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(277, 8, fmt.Sprintf("Month: %02d/%d", month, year), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(277, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Summary box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(277, 8, "Summary", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(92, 8, fmt.Sprintf("Agents: %d", len(rows)), "1", 0, "C", false, 0, "")
	pdf.CellFormat(92, 8, fmt.Sprintf("Collected: %.2f", totals.CombinedTotal), "1", 0, "C", false, 0, "")
	pdf.CellFormat(93, 8, fmt.Sprintf("Target Met: %.2f%%", totals.PercentMet), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Table header
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(15, 7, "Pos", "1", 0, "C", true, 0, "")
	pdf.CellFormat(55, 7, "Agent", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "LGA", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "RRR", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "PayDirect", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Total", "1", 0, "C", true, 0, "")
	pdf.CellFormat(35, 7, "Target", "1", 0, "C", true, 0, "")
	pdf.CellFormat(22, 7, "% Met", "1", 1, "C", true, 0, "")

	// Table rows
	pdf.SetFont("Arial", "", 9)
	for i, r := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(255, 255, 255)
		} else {
			pdf.SetFillColor(245, 245, 245)
		}

		name := r.Username
		if len(name) > 25 {
			name = name[:22] + "..."
		}
		lga := r.LGA
		if len(lga) > 20 {
			lga = lga[:17] + "..."
		}

		pdf.CellFormat(15, 6, fmt.Sprintf("%d", r.Position), "1", 0, "C", true, 0, "")
		pdf.CellFormat(55, 6, name, "1", 0, "L", true, 0, "")
		pdf.CellFormat(45, 6, lga, "1", 0, "L", true, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", r.RRRTotal), "1", 0, "R", true, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", r.PayDirectTotal), "1", 0, "R", true, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", r.CombinedTotal), "1", 0, "R", true, 0, "")
		pdf.CellFormat(35, 6, fmt.Sprintf("%.2f", r.Target), "1", 0, "R", true, 0, "")
		pdf.CellFormat(22, 6, fmt.Sprintf("%.2f%%", r.PercentMet), "1", 1, "R", true, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// LeagueCSV renders the month's league table as CSV.
func (s *ExportService) LeagueCSV(ctx context.Context, month, year int) ([]byte, error) {
	rows, err := s.league.Build(ctx, month, year)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Write([]string{"Position", "Agent", "LGA", "RRR Total", "PayDirect Total", "Combined Total", "Target", "Percent Met"})
	for _, r := range rows {
		w.Write([]string{
			fmt.Sprintf("%d", r.Position),
			r.Username,
			r.LGA,
			fmt.Sprintf("%.2f", r.RRRTotal),
			fmt.Sprintf("%.2f", r.PayDirectTotal),
			fmt.Sprintf("%.2f", r.CombinedTotal),
			fmt.Sprintf("%.2f", r.Target),
			fmt.Sprintf("%.2f", r.PercentMet),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
