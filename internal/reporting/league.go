package reporting

import (
	"sort"

	"birs-backend/internal/models"
)

// LeagueRow is one agent's standing in the performance league.
type LeagueRow struct {
	Position       int     `json:"position"`
	UserID         int     `json:"user_id"`
	Username       string  `json:"username"`
	LGA            string  `json:"lga"`
	RRRTotal       float64 `json:"rrr_total"`
	PayDirectTotal float64 `json:"paydirect_total"`
	CombinedTotal  float64 `json:"combined_total"`
	Target         float64 `json:"target"`
	PercentMet     float64 `json:"percent_met"`
	EntryCount     int     `json:"entry_count"`
}

// BuildLeague ranks every ATO user by percent of target met. Users with no
// entries still appear with zero totals. Entries from non-ATO uploaders and
// entries whose uploader is not in users are ignored. Targets are keyed by
// user id; a user with no target row ranks with PercentMet 0.
func BuildLeague(users []*models.User, entries []*models.TaxEntry, targets map[int]float64) []LeagueRow {
	byUser := make(map[int][]*models.TaxEntry)
	for _, e := range entries {
		byUser[e.UploadedBy] = append(byUser[e.UploadedBy], e)
	}

	rows := make([]LeagueRow, 0, len(users))
	for _, u := range users {
		if u.Role != models.RoleATO {
			continue
		}
		own := byUser[u.ID]
		t := ComputeAgentTotals(own, targets[u.ID])
		rows = append(rows, LeagueRow{
			UserID:         u.ID,
			Username:       u.Username,
			LGA:            u.LGA,
			RRRTotal:       t.RRRTotal,
			PayDirectTotal: t.PayDirectTotal,
			CombinedTotal:  t.CombinedTotal,
			Target:         targets[u.ID],
			PercentMet:     t.PercentMet,
			EntryCount:     len(own),
		})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].PercentMet != rows[j].PercentMet {
			return rows[i].PercentMet > rows[j].PercentMet
		}
		return rows[i].Username < rows[j].Username
	})
	for i := range rows {
		rows[i].Position = i + 1
	}
	return rows
}

// TopN returns the first n rows of a ranked league. n is clamped to
// [0, len(rows)].
func TopN(rows []LeagueRow, n int) []LeagueRow {
	if n < 0 {
		n = 0
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[:n]
}

// BottomN returns the last n rows of a ranked league in league order. n is
// clamped to [0, len(rows)].
func BottomN(rows []LeagueRow, n int) []LeagueRow {
	if n < 0 {
		n = 0
	}
	if n > len(rows) {
		n = len(rows)
	}
	return rows[len(rows)-n:]
}

// LeagueAverage returns the mean PercentMet across rows, 0 for an empty
// league.
func LeagueAverage(rows []LeagueRow) float64 {
	if len(rows) == 0 {
		return 0
	}
	var sum float64
	for _, r := range rows {
		sum += r.PercentMet
	}
	return SafePercent(sum, float64(len(rows))*100)
}

// LeagueTotals sums the verified collections and targets across rows.
type LeagueTotals struct {
	RRRTotal       float64 `json:"rrr_total"`
	PayDirectTotal float64 `json:"paydirect_total"`
	CombinedTotal  float64 `json:"combined_total"`
	TargetTotal    float64 `json:"target_total"`
	PercentMet     float64 `json:"percent_met"`
}

// ComputeLeagueTotals aggregates grand totals over a ranked league.
func ComputeLeagueTotals(rows []LeagueRow) LeagueTotals {
	var t LeagueTotals
	for _, r := range rows {
		t.RRRTotal += r.RRRTotal
		t.PayDirectTotal += r.PayDirectTotal
		t.CombinedTotal += r.CombinedTotal
		t.TargetTotal += r.Target
	}
	t.PercentMet = SafePercent(t.CombinedTotal, t.TargetTotal)
	return t
}
