package reporting

import (
	"math"
	"sort"
	"time"

	"birs-backend/internal/models"
	"birs-backend/internal/timeutil"
)

// AgentTotals holds the verified collection totals for one agent.
type AgentTotals struct {
	RRRTotal        float64 `json:"rrr_total"`
	PayDirectTotal  float64 `json:"paydirect_total"`
	CombinedTotal   float64 `json:"combined_total"`
	PercentMet      float64 `json:"percent_met"`
}

// MonthBucket is one calendar month of the 12-bucket analytics series.
type MonthBucket struct {
	Month          int     `json:"month"` // 1-12
	MonthName      string  `json:"month_name"`
	RRRTotal       float64 `json:"rrr_total"`
	PayDirectTotal float64 `json:"paydirect_total"`
	CombinedTotal  float64 `json:"combined_total"`
}

// DayBucket is one calendar day of the daily chart series.
type DayBucket struct {
	Date           string  `json:"date"` // YYYY-MM-DD
	RRRTotal       float64 `json:"rrr_total"`
	PayDirectTotal float64 `json:"paydirect_total"`
	CombinedTotal  float64 `json:"combined_total"`
}

// SafePercent returns numerator/denominator as a percentage rounded to two
// decimal places, or 0 when the denominator is not positive. This is the
// single divide-by-zero guard used everywhere percent-met is computed.
func SafePercent(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return math.Round(numerator/denominator*100*100) / 100
}

// ComputeAgentTotals sums the verified channel amounts over entries and
// derives percent-of-target. Unverified channel amounts are skipped entirely,
// whatever their value. A missing or non-positive target yields PercentMet 0.
func ComputeAgentTotals(entries []*models.TaxEntry, target float64) AgentTotals {
	var t AgentTotals
	for _, e := range entries {
		if e.RRRVerified {
			t.RRRTotal += e.RRRAmount
		}
		if e.PayDirectVerified {
			t.PayDirectTotal += e.PayDirectAmount
		}
	}
	t.CombinedTotal = t.RRRTotal + t.PayDirectTotal
	t.PercentMet = SafePercent(t.CombinedTotal, target)
	return t
}

// ComputeMonthlySeries buckets verified totals by calendar month of the
// upload timestamp. It always returns exactly 12 buckets, months 1 through
// 12 in order, zero-filled where no entries fall.
func ComputeMonthlySeries(entries []*models.TaxEntry) []MonthBucket {
	series := make([]MonthBucket, 12)
	for i := range series {
		series[i].Month = i + 1
		series[i].MonthName = time.Month(i + 1).String()
	}
	for _, e := range entries {
		m := int(timeutil.ToWAT(e.DateUploaded).Month())
		b := &series[m-1]
		if e.RRRVerified {
			b.RRRTotal += e.RRRAmount
		}
		if e.PayDirectVerified {
			b.PayDirectTotal += e.PayDirectAmount
		}
	}
	for i := range series {
		series[i].CombinedTotal = series[i].RRRTotal + series[i].PayDirectTotal
	}
	return series
}

// ComputeDailySeries buckets verified totals by upload day, ordered by date
// ascending. Days with no entries are absent.
func ComputeDailySeries(entries []*models.TaxEntry) []DayBucket {
	byDay := make(map[string]*DayBucket)
	for _, e := range entries {
		day := timeutil.ToWAT(e.DateUploaded).Format(timeutil.DateLayout)
		b, ok := byDay[day]
		if !ok {
			b = &DayBucket{Date: day}
			byDay[day] = b
		}
		if e.RRRVerified {
			b.RRRTotal += e.RRRAmount
		}
		if e.PayDirectVerified {
			b.PayDirectTotal += e.PayDirectAmount
		}
	}
	out := make([]DayBucket, 0, len(byDay))
	for _, b := range byDay {
		b.CombinedTotal = b.RRRTotal + b.PayDirectTotal
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// TaxItemBreakdown counts entries per tax item, ordered by count descending
// then name ascending.
func TaxItemBreakdown(entries []*models.TaxEntry) []models.TaxItemCount {
	counts := make(map[string]int)
	for _, e := range entries {
		counts[e.TaxItem]++
	}
	out := make([]models.TaxItemCount, 0, len(counts))
	for item, n := range counts {
		out = append(out, models.TaxItemCount{TaxItem: item, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].TaxItem < out[j].TaxItem
	})
	return out
}
