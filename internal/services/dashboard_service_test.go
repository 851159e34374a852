package services

import (
	"context"
	"testing"
	"time"

	"birs-backend/internal/reporting"
)

func newTestDashboard(t *testing.T) (*DashboardService, *fakeEntryStore, *fakePerformanceStore) {
	t.Helper()
	league, _, entries, perf := seedLeagueFixture(t)
	return NewDashboardService(entries, perf, league), entries, perf
}

func TestAgentDashboard(t *testing.T) {
	svc, _, _ := newTestDashboard(t)

	dash, err := svc.Agent(context.Background(), 1, reporting.EntryFilter{})
	if err != nil {
		t.Fatalf("Agent: %v", err)
	}
	if dash.Target != 100000 {
		t.Errorf("Target = %v, want 100000", dash.Target)
	}
	if dash.Totals.CombinedTotal != 60000 || dash.Totals.PercentMet != 60 {
		t.Errorf("Totals = %+v, want 60000 at 60%%", dash.Totals)
	}
	if len(dash.MonthlySeries) != 12 {
		t.Errorf("monthly series has %d buckets, want 12", len(dash.MonthlySeries))
	}
	if dash.EntryCount != 1 {
		t.Errorf("EntryCount = %d, want 1 (other agents excluded)", dash.EntryCount)
	}
}

func TestAgentDashboardNoTarget(t *testing.T) {
	svc, entries, _ := newTestDashboard(t)
	_ = entries

	// User 99 has no entries and no target.
	dash, err := svc.Agent(context.Background(), 99, reporting.EntryFilter{})
	if err != nil {
		t.Fatalf("Agent: %v", err)
	}
	if dash.Target != 0 || dash.Totals.PercentMet != 0 || dash.EntryCount != 0 {
		t.Errorf("empty agent dashboard = %+v", dash)
	}
}

func TestAdminDashboard(t *testing.T) {
	svc, _, _ := newTestDashboard(t)

	dash, err := svc.Admin(context.Background(), 0, 0, reporting.EntryFilter{})
	if err != nil {
		t.Fatalf("Admin: %v", err)
	}
	if len(dash.League) != 2 {
		t.Fatalf("league has %d rows, want 2", len(dash.League))
	}
	if len(dash.Top5) != 2 || len(dash.Bottom5) != 2 {
		t.Errorf("top/bottom = %d/%d rows, want clamped to 2", len(dash.Top5), len(dash.Bottom5))
	}
	if dash.Top5[0].Username != "bello" {
		t.Errorf("Top5[0] = %s, want bello", dash.Top5[0].Username)
	}
	if dash.Bottom5[len(dash.Bottom5)-1].Username != "ada" {
		t.Errorf("Bottom5 tail = %s, want ada last in league order", dash.Bottom5[len(dash.Bottom5)-1].Username)
	}
	if dash.Average != 75 {
		t.Errorf("Average = %v, want 75", dash.Average)
	}
	if dash.Totals.CombinedTotal != 150000 || dash.Totals.TargetTotal != 200000 {
		t.Errorf("Totals = %+v", dash.Totals)
	}
}

func TestAdminDashboardCacheablePredicate(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name   string
		month  int
		year   int
		filter reporting.EntryFilter
		want   bool
	}{
		{"unfiltered", 0, 0, reporting.EntryFilter{}, true},
		{"month param", 3, 0, reporting.EntryFilter{}, false},
		{"year param", 0, 2026, reporting.EntryFilter{}, false},
		{"date window", 0, 0, reporting.EntryFilter{From: &now}, false},
		{"tax item", 0, 0, reporting.EntryFilter{TaxItem: "PAYE"}, false},
		{"uploader narrowed", 0, 0, reporting.EntryFilter{UploaderID: 7}, false},
		{"paging does not narrow", 0, 0, reporting.EntryFilter{Limit: 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := adminDashboardCacheable(tt.month, tt.year, tt.filter); got != tt.want {
				t.Errorf("cacheable = %v, want %v", got, tt.want)
			}
		})
	}
}
