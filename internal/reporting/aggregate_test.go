package reporting

import (
	"testing"
	"time"

	"birs-backend/internal/models"
	"birs-backend/internal/timeutil"
)

func entry(uploader int, uploaded time.Time, rrrVerified bool, rrrAmount float64, pdVerified bool, pdAmount float64) *models.TaxEntry {
	return &models.TaxEntry{
		UploadedBy:        uploader,
		DateUploaded:      uploaded,
		RRRVerified:       rrrVerified,
		RRRAmount:         rrrAmount,
		PayDirectVerified: pdVerified,
		PayDirectAmount:   pdAmount,
	}
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 10, 0, 0, 0, timeutil.WAT)
}

func TestSafePercent(t *testing.T) {
	tests := []struct {
		name string
		num  float64
		den  float64
		want float64
	}{
		{"zero denominator", 500, 0, 0},
		{"negative denominator", 500, -10, 0},
		{"simple", 70000, 100000, 70},
		{"over target", 150, 100, 150},
		{"rounds to two places", 1, 3, 33.33},
		{"zero numerator", 0, 100, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SafePercent(tt.num, tt.den); got != tt.want {
				t.Errorf("SafePercent(%v, %v) = %v, want %v", tt.num, tt.den, got, tt.want)
			}
		})
	}
}

func TestComputeAgentTotalsSkipsUnverified(t *testing.T) {
	entries := []*models.TaxEntry{
		entry(1, day(2026, time.March, 3), true, 40000, false, 0),
		entry(1, day(2026, time.March, 4), false, 0, true, 30000),
		entry(1, day(2026, time.March, 5), false, 9999999, false, 9999999),
	}
	got := ComputeAgentTotals(entries, 100000)
	if got.RRRTotal != 40000 {
		t.Errorf("RRRTotal = %v, want 40000", got.RRRTotal)
	}
	if got.PayDirectTotal != 30000 {
		t.Errorf("PayDirectTotal = %v, want 30000", got.PayDirectTotal)
	}
	if got.CombinedTotal != 70000 {
		t.Errorf("CombinedTotal = %v, want 70000", got.CombinedTotal)
	}
	if got.PercentMet != 70 {
		t.Errorf("PercentMet = %v, want 70", got.PercentMet)
	}
}

func TestComputeAgentTotalsNoTarget(t *testing.T) {
	entries := []*models.TaxEntry{
		entry(1, day(2026, time.January, 1), true, 5000, false, 0),
	}
	got := ComputeAgentTotals(entries, 0)
	if got.CombinedTotal != 5000 {
		t.Errorf("CombinedTotal = %v, want 5000", got.CombinedTotal)
	}
	if got.PercentMet != 0 {
		t.Errorf("PercentMet = %v, want 0 when target is unset", got.PercentMet)
	}
}

func TestComputeAgentTotalsEmpty(t *testing.T) {
	got := ComputeAgentTotals(nil, 100000)
	if got.CombinedTotal != 0 || got.PercentMet != 0 {
		t.Errorf("empty entries should aggregate to zero, got %+v", got)
	}
}

func TestComputeMonthlySeriesAlwaysTwelveBuckets(t *testing.T) {
	tests := []struct {
		name    string
		entries []*models.TaxEntry
	}{
		{"no entries", nil},
		{"single month", []*models.TaxEntry{entry(1, day(2026, time.June, 10), true, 100, false, 0)}},
		{"spread", []*models.TaxEntry{
			entry(1, day(2026, time.January, 2), true, 10, false, 0),
			entry(1, day(2026, time.December, 30), false, 0, true, 20),
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			series := ComputeMonthlySeries(tt.entries)
			if len(series) != 12 {
				t.Fatalf("len(series) = %d, want 12", len(series))
			}
			for i, b := range series {
				if b.Month != i+1 {
					t.Errorf("bucket %d has Month %d", i, b.Month)
				}
			}
		})
	}
}

func TestComputeMonthlySeriesBucketsByUploadTimestamp(t *testing.T) {
	entries := []*models.TaxEntry{
		entry(1, day(2026, time.March, 1), true, 1000, false, 0),
		entry(1, day(2026, time.March, 20), false, 0, true, 500),
		entry(1, day(2026, time.July, 4), true, 250, false, 0),
		entry(1, day(2026, time.July, 5), false, 77777, false, 0), // unverified, ignored
	}
	series := ComputeMonthlySeries(entries)

	march := series[2]
	if march.RRRTotal != 1000 || march.PayDirectTotal != 500 || march.CombinedTotal != 1500 {
		t.Errorf("march = %+v, want 1000/500/1500", march)
	}
	july := series[6]
	if july.CombinedTotal != 250 {
		t.Errorf("july combined = %v, want 250", july.CombinedTotal)
	}
	for _, i := range []int{0, 1, 3, 4, 5, 7, 8, 9, 10, 11} {
		if series[i].CombinedTotal != 0 {
			t.Errorf("month %d should be zero, got %v", i+1, series[i].CombinedTotal)
		}
	}
}

func TestComputeMonthlySeriesUsesWATMonth(t *testing.T) {
	// 23:30 UTC on 31 Jan is already 00:30 WAT on 1 Feb.
	late := time.Date(2026, time.January, 31, 23, 30, 0, 0, time.UTC)
	series := ComputeMonthlySeries([]*models.TaxEntry{
		entry(1, late, true, 100, false, 0),
	})
	if series[0].CombinedTotal != 0 {
		t.Errorf("january = %v, want 0", series[0].CombinedTotal)
	}
	if series[1].CombinedTotal != 100 {
		t.Errorf("february = %v, want 100", series[1].CombinedTotal)
	}
}

func TestComputeDailySeries(t *testing.T) {
	entries := []*models.TaxEntry{
		entry(1, day(2026, time.May, 2), true, 100, false, 0),
		entry(1, day(2026, time.May, 1), true, 50, true, 25),
		entry(1, day(2026, time.May, 2), false, 0, true, 40),
		entry(1, day(2026, time.May, 2), false, 999, false, 0),
	}
	series := ComputeDailySeries(entries)
	if len(series) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(series))
	}
	if series[0].Date != "2026-05-01" || series[0].CombinedTotal != 75 {
		t.Errorf("first bucket = %+v, want 2026-05-01 total 75", series[0])
	}
	if series[1].Date != "2026-05-02" || series[1].CombinedTotal != 140 {
		t.Errorf("second bucket = %+v, want 2026-05-02 total 140", series[1])
	}
}

func TestTaxItemBreakdown(t *testing.T) {
	entries := []*models.TaxEntry{
		{TaxItem: "PAYE"},
		{TaxItem: "Withholding"},
		{TaxItem: "PAYE"},
		{TaxItem: "Development Levy"},
		{TaxItem: "Withholding"},
		{TaxItem: "PAYE"},
	}
	got := TaxItemBreakdown(entries)
	want := []models.TaxItemCount{
		{TaxItem: "PAYE", Count: 3},
		{TaxItem: "Withholding", Count: 2},
		{TaxItem: "Development Levy", Count: 1},
	}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("breakdown[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}
