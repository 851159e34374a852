package services

import (
	"context"
	"encoding/json"
	"time"

	"birs-backend/internal/cache"
	"birs-backend/internal/models"
	"birs-backend/internal/reporting"
)

// AgentDashboard is everything an ATO sees on their own page.
type AgentDashboard struct {
	Totals         reporting.AgentTotals    `json:"totals"`
	Target         float64                  `json:"target"`
	MonthlySeries  []reporting.MonthBucket  `json:"monthly_series"`
	DailySeries    []reporting.DayBucket    `json:"daily_series"`
	TaxItems       []models.TaxItemCount    `json:"tax_items"`
	RecentEntries  []*models.TaxEntry       `json:"recent_entries"`
	EntryCount     int                      `json:"entry_count"`
	IgnoredFilters []string                 `json:"ignored_filters,omitempty"`
}

// AdminDashboard is the management overview: the league plus global series.
type AdminDashboard struct {
	League         []reporting.LeagueRow   `json:"league"`
	Top5           []reporting.LeagueRow   `json:"top5"`
	Bottom5        []reporting.LeagueRow   `json:"bottom5"`
	Average        float64                 `json:"average_percent"`
	Totals         reporting.LeagueTotals  `json:"totals"`
	MonthlySeries  []reporting.MonthBucket `json:"monthly_series"`
	TaxItems       []models.TaxItemCount   `json:"tax_items"`
	EntryCount     int                     `json:"entry_count"`
	IgnoredFilters []string                `json:"ignored_filters,omitempty"`
}

type DashboardService struct {
	entries     EntryStore
	performance PerformanceStore
	league      *LeagueService
}

func NewDashboardService(entries EntryStore, performance PerformanceStore, league *LeagueService) *DashboardService {
	return &DashboardService{entries: entries, performance: performance, league: league}
}

// Agent builds the dashboard for one ATO. The filter is always pinned to the
// agent's own uploads.
func (s *DashboardService) Agent(ctx context.Context, userID int, f reporting.EntryFilter) (*AgentDashboard, error) {
	f.UploaderID = userID
	// Aggregation always runs over the full filtered set, never a page.
	f.Limit, f.Offset = 0, 0
	entries, err := s.entries.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var target float64
	if t, err := s.performance.GetTarget(ctx, userID); err == nil {
		target = t.TargetAmount
	}

	recent := entries
	if len(recent) > 10 {
		recent = recent[:10]
	}

	return &AgentDashboard{
		Totals:         reporting.ComputeAgentTotals(entries, target),
		Target:         target,
		MonthlySeries:  reporting.ComputeMonthlySeries(entries),
		DailySeries:    reporting.ComputeDailySeries(entries),
		TaxItems:       reporting.TaxItemBreakdown(entries),
		RecentEntries:  recent,
		EntryCount:     len(entries),
		IgnoredFilters: f.Ignored,
	}, nil
}

// adminDashboardCacheable reports whether the request is the fully
// unfiltered global view. Only that view may be served from or stored at
// the shared dashboard key; any narrowing, including uploader_id, bypasses
// the cache.
func adminDashboardCacheable(month, year int, f reporting.EntryFilter) bool {
	return f.From == nil && f.To == nil && f.TaxItem == "" && f.Subhead == "" &&
		f.Month == 0 && f.Year == 0 && f.UploaderID == 0 && month == 0 && year == 0
}

// Admin builds the management dashboard. The unfiltered view is cached; any
// filter bypasses the cache.
func (s *DashboardService) Admin(ctx context.Context, month, year int, f reporting.EntryFilter) (*AdminDashboard, error) {
	cacheable := adminDashboardCacheable(month, year, f)
	if cacheable {
		if data, ok := cache.GetCached(ctx, cache.AdminDashboardKey); ok {
			var dash AdminDashboard
			if err := json.Unmarshal(data, &dash); err == nil {
				return &dash, nil
			}
		}
	}

	league, err := s.league.Build(ctx, month, year)
	if err != nil {
		return nil, err
	}
	f.Limit, f.Offset = 0, 0
	entries, err := s.entries.List(ctx, f)
	if err != nil {
		return nil, err
	}

	dash := &AdminDashboard{
		League:         league,
		Top5:           reporting.TopN(league, 5),
		Bottom5:        reporting.BottomN(league, 5),
		Average:        reporting.LeagueAverage(league),
		Totals:         reporting.ComputeLeagueTotals(league),
		MonthlySeries:  reporting.ComputeMonthlySeries(entries),
		TaxItems:       reporting.TaxItemBreakdown(entries),
		EntryCount:     len(entries),
		IgnoredFilters: f.Ignored,
	}

	if cacheable {
		if data, err := json.Marshal(dash); err == nil {
			cache.SetCached(ctx, cache.AdminDashboardKey, data, 2*time.Minute)
		}
	}
	return dash, nil
}
