package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"birs-backend/internal/cache"
	"birs-backend/internal/metrics"
	"birs-backend/internal/models"
	"birs-backend/internal/reporting"
	"birs-backend/internal/timeutil"
)

// PerformanceStore is the slice of the performance repository the league
// service needs.
type PerformanceStore interface {
	TargetsByUser(ctx context.Context) (map[int]float64, error)
	SetTarget(ctx context.Context, t *models.PerformanceTarget) error
	GetTarget(ctx context.Context, userID int) (*models.PerformanceTarget, error)
	CreateSummary(ctx context.Context, s *models.PerformanceSummary) error
	ListSummaries(ctx context.Context, userIDs []int) ([]*models.PerformanceSummary, error)
	SaveSnapshot(ctx context.Context, s *models.MonthlyLeagueSnapshot) error
	GetSnapshot(ctx context.Context, month, year int) (*models.MonthlyLeagueSnapshot, error)
	ListSnapshots(ctx context.Context) ([]*models.MonthlyLeagueSnapshot, error)
}

type LeagueService struct {
	users       UserStore
	entries     EntryStore
	performance PerformanceStore
}

func NewLeagueService(users UserStore, entries EntryStore, performance PerformanceStore) *LeagueService {
	return &LeagueService{users: users, entries: entries, performance: performance}
}

// defaultMonthYear fills any missing component from the current WAT clock,
// so ?month=3 alone means March of the current year.
func defaultMonthYear(month, year int) (int, int) {
	now := timeutil.Now()
	if month == 0 {
		month = int(now.Month())
	}
	if year == 0 {
		year = now.Year()
	}
	return month, year
}

// Build computes the live league table for one month. A month or year of 0
// defaults to the current one. Results are cached briefly; any entry write
// invalidates the cache.
func (s *LeagueService) Build(ctx context.Context, month, year int) ([]reporting.LeagueRow, error) {
	month, year = defaultMonthYear(month, year)

	cacheKey := fmt.Sprintf(cache.LeagueKeyFmt, month, year)
	if data, ok := cache.GetCached(ctx, cacheKey); ok {
		var rows []reporting.LeagueRow
		if err := json.Unmarshal(data, &rows); err == nil {
			return rows, nil
		}
	}

	atos, err := s.users.ListByRole(ctx, models.RoleATO)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.List(ctx, reporting.EntryFilter{Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	targets, err := s.performance.TargetsByUser(ctx)
	if err != nil {
		return nil, err
	}

	rows := reporting.BuildLeague(atos, entries, targets)
	metrics.LeagueBuilds.Inc()

	if data, err := json.Marshal(rows); err == nil {
		cache.SetCached(ctx, cacheKey, data, 5*time.Minute)
	}
	return rows, nil
}

// Freeze stores the current league table as the frozen snapshot for the
// month. Re-freezing a month overwrites its snapshot.
func (s *LeagueService) Freeze(ctx context.Context, month, year int) (*models.MonthlyLeagueSnapshot, error) {
	month, year = defaultMonthYear(month, year)
	rows, err := s.Build(ctx, month, year)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, err
	}
	snapshot := &models.MonthlyLeagueSnapshot{Month: month, Year: year, Data: data}
	if err := s.performance.SaveSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	log.Printf("[League] froze league for %d/%d (%d rows)", month, year, len(rows))
	return snapshot, nil
}

// Snapshot returns the frozen league for a month.
func (s *LeagueService) Snapshot(ctx context.Context, month, year int) ([]reporting.LeagueRow, error) {
	snap, err := s.performance.GetSnapshot(ctx, month, year)
	if err != nil {
		return nil, err
	}
	var rows []reporting.LeagueRow
	if err := json.Unmarshal(snap.Data, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ListSnapshots returns every frozen month, newest first.
func (s *LeagueService) ListSnapshots(ctx context.Context) ([]*models.MonthlyLeagueSnapshot, error) {
	return s.performance.ListSnapshots(ctx)
}

// SetTarget assigns or replaces an agent's collection target. The user must
// exist and hold the ATO role.
func (s *LeagueService) SetTarget(ctx context.Context, adminID int, req *models.SetTargetRequest) (*models.PerformanceTarget, error) {
	user, err := s.users.Get(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleATO {
		return nil, fmt.Errorf("user %s is not an ATO", user.Username)
	}
	target := &models.PerformanceTarget{
		UserID:       req.UserID,
		TargetAmount: req.TargetAmount,
		SetBy:        adminID,
	}
	if err := s.performance.SetTarget(ctx, target); err != nil {
		return nil, err
	}
	cache.InvalidateDashboards(ctx)
	return target, nil
}

// RecordSummary captures an agent's current verified totals as an
// append-only summary row.
func (s *LeagueService) RecordSummary(ctx context.Context, userID int) (*models.PerformanceSummary, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entries.List(ctx, reporting.EntryFilter{UploaderID: userID})
	if err != nil {
		return nil, err
	}
	totals := reporting.ComputeAgentTotals(entries, 0)

	summary := &models.PerformanceSummary{
		UserID:         userID,
		ATOName:        user.Username,
		RRRTotal:       totals.RRRTotal,
		PayDirectTotal: totals.PayDirectTotal,
		TotalAmount:    totals.CombinedTotal,
		DateUploaded:   timeutil.Now(),
	}
	if err := s.performance.CreateSummary(ctx, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

// ATOComparison is one agent's series of recorded summaries.
type ATOComparison struct {
	UserID    int                          `json:"user_id"`
	ATOName   string                       `json:"ato_name"`
	LGA       string                       `json:"lga,omitempty"`
	Total     float64                      `json:"total"`
	Summaries []*models.PerformanceSummary `json:"summaries"`
}

// CompareFilter narrows an agent comparison. Zero values mean no narrowing.
type CompareFilter struct {
	UserIDs []int
	Month   int
	Year    int
	LGA     string
}

// Compare groups recorded summaries per agent so their collection growth can
// be charted side by side. Agents can be narrowed by id and LGA, summaries
// by the WAT month they were recorded in. Every matching agent appears, with
// an empty series when nothing was recorded, ranked by summed total.
func (s *LeagueService) Compare(ctx context.Context, f CompareFilter) ([]ATOComparison, error) {
	atos, err := s.users.ListByRole(ctx, models.RoleATO)
	if err != nil {
		return nil, err
	}
	wanted := make(map[int]bool, len(f.UserIDs))
	for _, id := range f.UserIDs {
		wanted[id] = true
	}
	var agents []*models.User
	var ids []int
	for _, u := range atos {
		if f.LGA != "" && !strings.EqualFold(u.LGA, f.LGA) {
			continue
		}
		if len(wanted) > 0 && !wanted[u.ID] {
			continue
		}
		agents = append(agents, u)
		ids = append(ids, u.ID)
	}
	if len(agents) == 0 {
		return []ATOComparison{}, nil
	}

	summaries, err := s.performance.ListSummaries(ctx, ids)
	if err != nil {
		return nil, err
	}
	byUser := make(map[int][]*models.PerformanceSummary)
	for _, sum := range summaries {
		recorded := timeutil.ToWAT(sum.DateUploaded)
		if f.Month != 0 && int(recorded.Month()) != f.Month {
			continue
		}
		if f.Year != 0 && recorded.Year() != f.Year {
			continue
		}
		byUser[sum.UserID] = append(byUser[sum.UserID], sum)
	}

	out := make([]ATOComparison, 0, len(agents))
	for _, u := range agents {
		c := ATOComparison{UserID: u.ID, ATOName: u.Username, LGA: u.LGA, Summaries: byUser[u.ID]}
		for _, sum := range c.Summaries {
			c.Total += sum.TotalAmount
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Total != out[j].Total {
			return out[i].Total > out[j].Total
		}
		return out[i].ATOName < out[j].ATOName
	})
	return out, nil
}

// AgentDetailPoint is one entry's contribution to the agent's detail chart.
type AgentDetailPoint struct {
	EntryID         int     `json:"entry_id"`
	Date            string  `json:"date"`
	RRRAmount       float64 `json:"rrr_amount"`
	PayDirectAmount float64 `json:"paydirect_amount"`
	Total           float64 `json:"total"`
}

// AgentDetail is the management drill-down into one agent's collections.
type AgentDetail struct {
	User           *models.User          `json:"user"`
	Totals         reporting.AgentTotals `json:"totals"`
	Target         float64               `json:"target"`
	LastEntry      string                `json:"last_entry,omitempty"`
	Points         []AgentDetailPoint    `json:"points"`
	EntryCount     int                   `json:"entry_count"`
	IgnoredFilters []string              `json:"ignored_filters,omitempty"`
}

// AgentDetail builds the per-agent view over a date-filtered window: verified
// totals against target plus one chart point per entry. Only ATO users have
// a detail view.
func (s *LeagueService) AgentDetail(ctx context.Context, userID int, f reporting.EntryFilter) (*AgentDetail, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Role != models.RoleATO {
		return nil, models.ErrNotFound
	}

	f.UploaderID = userID
	f.Limit, f.Offset = 0, 0
	entries, err := s.entries.List(ctx, f)
	if err != nil {
		return nil, err
	}

	var target float64
	if t, err := s.performance.GetTarget(ctx, userID); err == nil {
		target = t.TargetAmount
	}

	detail := &AgentDetail{
		User:           user,
		Totals:         reporting.ComputeAgentTotals(entries, target),
		Target:         target,
		Points:         make([]AgentDetailPoint, 0, len(entries)),
		EntryCount:     len(entries),
		IgnoredFilters: f.Ignored,
	}
	var last time.Time
	for _, e := range entries {
		if e.DateUploaded.After(last) {
			last = e.DateUploaded
		}
		detail.Points = append(detail.Points, AgentDetailPoint{
			EntryID:         e.ID,
			Date:            timeutil.FormatWAT(e.DateUploaded, timeutil.DateLayout),
			RRRAmount:       e.RRRAmount,
			PayDirectAmount: e.PayDirectAmount,
			Total:           e.RRRAmount + e.PayDirectAmount,
		})
	}
	if !last.IsZero() {
		detail.LastEntry = timeutil.FormatWAT(last, timeutil.DateLayout)
	}
	return detail, nil
}
