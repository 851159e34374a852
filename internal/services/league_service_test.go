package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"birs-backend/internal/models"
	"birs-backend/internal/reporting"
	"birs-backend/internal/timeutil"
)

func seedLeagueFixture(t *testing.T) (*LeagueService, *fakeUserStore, *fakeEntryStore, *fakePerformanceStore) {
	t.Helper()
	users := &fakeUserStore{}
	entries := &fakeEntryStore{}
	perf := newFakePerformanceStore()
	ctx := context.Background()

	for _, u := range []*models.User{
		{Username: "ada", Role: models.RoleATO, LGA: "Bwari"},
		{Username: "bello", Role: models.RoleATO, LGA: "Kuje"},
		{Username: "boss", Role: models.RoleAdmin},
	} {
		if err := users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	perf.SetTarget(ctx, &models.PerformanceTarget{UserID: 1, TargetAmount: 100000})
	perf.SetTarget(ctx, &models.PerformanceTarget{UserID: 2, TargetAmount: 100000})

	now := timeutil.Now()
	entries.Create(ctx, &models.TaxEntry{
		RRR: "r1", RRRVerified: true, RRRAmount: 60000,
		UploadedBy: 1, DateUploaded: now,
	})
	entries.Create(ctx, &models.TaxEntry{
		RRR: "r2", RRRVerified: true, RRRAmount: 90000,
		UploadedBy: 2, DateUploaded: now,
	})

	return NewLeagueService(users, entries, perf), users, entries, perf
}

func TestBuildCurrentMonthLeague(t *testing.T) {
	svc, _, _, _ := seedLeagueFixture(t)

	rows, err := svc.Build(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2 ATOs", len(rows))
	}
	if rows[0].Username != "bello" || rows[0].PercentMet != 90 {
		t.Errorf("rows[0] = %+v, want bello at 90", rows[0])
	}
	if rows[1].Username != "ada" || rows[1].PercentMet != 60 {
		t.Errorf("rows[1] = %+v, want ada at 60", rows[1])
	}
}

func TestBuildExcludesOtherMonths(t *testing.T) {
	svc, _, entries, _ := seedLeagueFixture(t)
	lastYear := timeutil.Now().AddDate(-1, 0, 0)
	entries.Create(context.Background(), &models.TaxEntry{
		RRR: "old", RRRVerified: true, RRRAmount: 999999,
		UploadedBy: 1, DateUploaded: lastYear,
	})

	rows, err := svc.Build(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, r := range rows {
		if r.Username == "ada" && r.CombinedTotal != 60000 {
			t.Errorf("ada total = %v, old entry leaked into current month", r.CombinedTotal)
		}
	}
}

func TestFreezeAndReadSnapshot(t *testing.T) {
	svc, _, _, _ := seedLeagueFixture(t)
	now := timeutil.Now()
	month, year := int(now.Month()), now.Year()

	snap, err := svc.Freeze(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("Freeze: %v", err)
	}
	if snap.Month != month || snap.Year != year {
		t.Errorf("snapshot stamped %d/%d, want %d/%d", snap.Month, snap.Year, month, year)
	}

	rows, err := svc.Snapshot(context.Background(), month, year)
	if err != nil {
		t.Fatalf("Snapshot: %v", err)
	}
	if len(rows) != 2 || rows[0].Username != "bello" {
		t.Errorf("frozen rows = %+v", rows)
	}
}

func TestSetTargetRejectsNonATO(t *testing.T) {
	svc, _, _, _ := seedLeagueFixture(t)
	_, err := svc.SetTarget(context.Background(), 3, &models.SetTargetRequest{UserID: 3, TargetAmount: 5000})
	if err == nil {
		t.Error("setting a target on an admin should fail")
	}
}

func TestSetTargetUpserts(t *testing.T) {
	svc, _, _, perf := seedLeagueFixture(t)
	_, err := svc.SetTarget(context.Background(), 3, &models.SetTargetRequest{UserID: 1, TargetAmount: 120000})
	if err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	targets, _ := perf.TargetsByUser(context.Background())
	if targets[1] != 120000 {
		t.Errorf("target = %v, want 120000", targets[1])
	}
}

func TestRecordSummaryCapturesTotals(t *testing.T) {
	svc, _, _, perf := seedLeagueFixture(t)
	summary, err := svc.RecordSummary(context.Background(), 1)
	if err != nil {
		t.Fatalf("RecordSummary: %v", err)
	}
	if summary.ATOName != "ada" || summary.TotalAmount != 60000 {
		t.Errorf("summary = %+v, want ada at 60000", summary)
	}
	if len(perf.summaries) != 1 {
		t.Errorf("stored %d summaries, want 1", len(perf.summaries))
	}
}

func TestCompareGroupsByAgent(t *testing.T) {
	svc, _, _, perf := seedLeagueFixture(t)
	ctx := context.Background()
	base := time.Now()
	perf.CreateSummary(ctx, &models.PerformanceSummary{UserID: 1, ATOName: "ada", TotalAmount: 100, DateUploaded: base})
	perf.CreateSummary(ctx, &models.PerformanceSummary{UserID: 2, ATOName: "bello", TotalAmount: 300, DateUploaded: base})
	perf.CreateSummary(ctx, &models.PerformanceSummary{UserID: 1, ATOName: "ada", TotalAmount: 200, DateUploaded: base.Add(time.Hour)})

	got, err := svc.Compare(ctx, CompareFilter{})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 agents", len(got))
	}
	// Ranked by summed total: bello 300 ahead of ada 100+200.
	if got[0].ATOName != "bello" || got[0].Total != 300 {
		t.Errorf("got[0] = %+v, want bello at 300", got[0])
	}
	if got[1].ATOName != "ada" || len(got[1].Summaries) != 2 || got[1].Total != 300 {
		t.Errorf("got[1] = %+v, want ada with 2 summaries totalling 300", got[1])
	}

	only, err := svc.Compare(ctx, CompareFilter{UserIDs: []int{2}})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(only) != 1 || only[0].ATOName != "bello" {
		t.Errorf("filtered compare = %+v, want just bello", only)
	}
}

func TestCompareFiltersByLGAAndMonth(t *testing.T) {
	svc, _, _, perf := seedLeagueFixture(t)
	ctx := context.Background()
	march := time.Date(2026, time.March, 10, 9, 0, 0, 0, timeutil.WAT)
	april := time.Date(2026, time.April, 10, 9, 0, 0, 0, timeutil.WAT)
	perf.CreateSummary(ctx, &models.PerformanceSummary{UserID: 1, ATOName: "ada", TotalAmount: 100, DateUploaded: march})
	perf.CreateSummary(ctx, &models.PerformanceSummary{UserID: 1, ATOName: "ada", TotalAmount: 250, DateUploaded: april})
	perf.CreateSummary(ctx, &models.PerformanceSummary{UserID: 2, ATOName: "bello", TotalAmount: 400, DateUploaded: march})

	// ada is in Bwari, bello in Kuje.
	got, err := svc.Compare(ctx, CompareFilter{LGA: "bwari"})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got) != 1 || got[0].ATOName != "ada" {
		t.Fatalf("LGA filter = %+v, want just ada", got)
	}

	got, err = svc.Compare(ctx, CompareFilter{Month: 3, Year: 2026})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want both agents", len(got))
	}
	for _, c := range got {
		for _, s := range c.Summaries {
			if timeutil.ToWAT(s.DateUploaded).Month() != time.March {
				t.Errorf("agent %s includes a non-March summary", c.ATOName)
			}
		}
	}
	// Agents with nothing recorded in the window still appear, empty.
	got, err = svc.Compare(ctx, CompareFilter{Month: 4, Year: 2026})
	if err != nil {
		t.Fatalf("Compare: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want both agents", len(got))
	}
	if got[0].ATOName != "ada" || got[0].Total != 250 {
		t.Errorf("got[0] = %+v, want ada at 250", got[0])
	}
	if got[1].ATOName != "bello" || len(got[1].Summaries) != 0 {
		t.Errorf("got[1] = %+v, want bello with no April summaries", got[1])
	}
}

func TestBuildDefaultsOnlyMissingComponent(t *testing.T) {
	svc, _, entries, _ := seedLeagueFixture(t)
	ctx := context.Background()

	// A March entry from a past year. Asking for month=3 with year unset must
	// rank March of the current year, not fall back to the current month.
	entries.Create(ctx, &models.TaxEntry{
		RRR: "old-march", RRRVerified: true, RRRAmount: 70000,
		UploadedBy: 1, DateUploaded: time.Date(2020, time.March, 5, 9, 0, 0, 0, timeutil.WAT),
	})

	now := timeutil.Now()
	askMonth := int(now.Month())%12 + 1 // a month that is not the current one
	rows, err := svc.Build(ctx, askMonth, 0)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	for _, r := range rows {
		if r.CombinedTotal != 0 {
			t.Errorf("agent %s has totals from outside %d/%d: %+v", r.Username, askMonth, now.Year(), r)
		}
	}
}

func TestAgentDetail(t *testing.T) {
	svc, _, entries, _ := seedLeagueFixture(t)
	ctx := context.Background()
	entries.Create(ctx, &models.TaxEntry{
		RRR: "r3", RRRVerified: true, RRRAmount: 10000,
		UploadedBy: 1, DateUploaded: time.Date(2019, time.February, 1, 9, 0, 0, 0, timeutil.WAT),
	})

	detail, err := svc.AgentDetail(ctx, 1, reporting.EntryFilter{})
	if err != nil {
		t.Fatalf("AgentDetail: %v", err)
	}
	if detail.User.Username != "ada" {
		t.Errorf("User = %+v, want ada", detail.User)
	}
	if detail.Totals.CombinedTotal != 70000 || detail.Target != 100000 {
		t.Errorf("totals = %+v target %v, want 70000 against 100000", detail.Totals, detail.Target)
	}
	if detail.Totals.PercentMet != 70 {
		t.Errorf("PercentMet = %v, want 70", detail.Totals.PercentMet)
	}
	if len(detail.Points) != 2 {
		t.Fatalf("points = %d, want one per entry", len(detail.Points))
	}
	if detail.LastEntry == "" {
		t.Error("LastEntry not set")
	}

	// Date window narrows the totals and the chart.
	from := time.Date(2019, time.February, 1, 0, 0, 0, 0, timeutil.WAT)
	to := time.Date(2019, time.February, 28, 23, 59, 59, 0, timeutil.WAT)
	windowed, err := svc.AgentDetail(ctx, 1, reporting.EntryFilter{From: &from, To: &to})
	if err != nil {
		t.Fatalf("AgentDetail: %v", err)
	}
	if len(windowed.Points) != 1 || windowed.Totals.CombinedTotal != 10000 {
		t.Errorf("windowed detail = %+v, want only the February entry", windowed)
	}
}

func TestAgentDetailRejectsNonATO(t *testing.T) {
	svc, _, _, _ := seedLeagueFixture(t)
	if _, err := svc.AgentDetail(context.Background(), 3, reporting.EntryFilter{}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound for the admin user", err)
	}
}
