package repositories

import (
	"context"
	"errors"

	"birs-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PerformanceRepository struct {
	DB *pgxpool.Pool
}

func NewPerformanceRepository(db *pgxpool.Pool) *PerformanceRepository {
	return &PerformanceRepository{DB: db}
}

// SetTarget upserts the collection target for one user.
func (r *PerformanceRepository) SetTarget(ctx context.Context, t *models.PerformanceTarget) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO performance_targets(user_id, target_amount, set_by)
         VALUES($1, $2, $3)
         ON CONFLICT (user_id) DO UPDATE
            SET target_amount=EXCLUDED.target_amount,
                set_by=EXCLUDED.set_by,
                updated_at=CURRENT_TIMESTAMP
         RETURNING id, updated_at`,
		t.UserID, t.TargetAmount, t.SetBy,
	).Scan(&t.ID, &t.UpdatedAt)
}

func (r *PerformanceRepository) GetTarget(ctx context.Context, userID int) (*models.PerformanceTarget, error) {
	var t models.PerformanceTarget
	err := r.DB.QueryRow(ctx,
		`SELECT id, user_id, target_amount, COALESCE(set_by, 0), updated_at
         FROM performance_targets WHERE user_id=$1`, userID,
	).Scan(&t.ID, &t.UserID, &t.TargetAmount, &t.SetBy, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// TargetsByUser returns every target keyed by user id. Users with no target
// row are simply absent.
func (r *PerformanceRepository) TargetsByUser(ctx context.Context) (map[int]float64, error) {
	rows, err := r.DB.Query(ctx, `SELECT user_id, target_amount FROM performance_targets`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	targets := make(map[int]float64)
	for rows.Next() {
		var userID int
		var amount float64
		if err := rows.Scan(&userID, &amount); err != nil {
			return nil, err
		}
		targets[userID] = amount
	}
	return targets, rows.Err()
}

// CreateSummary records a performance summary row for later comparison.
func (r *PerformanceRepository) CreateSummary(ctx context.Context, s *models.PerformanceSummary) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO performance_summaries(user_id, ato_name, rrr_total, paydirect_total, total_amount, date_uploaded)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id`,
		s.UserID, s.ATOName, s.RRRTotal, s.PayDirectTotal, s.TotalAmount, s.DateUploaded,
	).Scan(&s.ID)
}

// ListSummaries returns summaries for the given users, all users when ids is
// empty, newest first.
func (r *PerformanceRepository) ListSummaries(ctx context.Context, userIDs []int) ([]*models.PerformanceSummary, error) {
	query := `SELECT id, user_id, ato_name, rrr_total, paydirect_total, total_amount, date_uploaded
		FROM performance_summaries`
	var args []interface{}
	if len(userIDs) > 0 {
		query += ` WHERE user_id = ANY($1)`
		args = append(args, userIDs)
	}
	query += ` ORDER BY date_uploaded DESC`

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []*models.PerformanceSummary
	for rows.Next() {
		var s models.PerformanceSummary
		if err := rows.Scan(&s.ID, &s.UserID, &s.ATOName, &s.RRRTotal,
			&s.PayDirectTotal, &s.TotalAmount, &s.DateUploaded); err != nil {
			return nil, err
		}
		summaries = append(summaries, &s)
	}
	return summaries, rows.Err()
}

// SaveSnapshot upserts the frozen league table for one month.
func (r *PerformanceRepository) SaveSnapshot(ctx context.Context, s *models.MonthlyLeagueSnapshot) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO monthly_league_snapshots(month, year, data)
         VALUES($1, $2, $3)
         ON CONFLICT (month, year) DO UPDATE SET data=EXCLUDED.data, created_at=CURRENT_TIMESTAMP
         RETURNING id, created_at`,
		s.Month, s.Year, s.Data,
	).Scan(&s.ID, &s.CreatedAt)
}

func (r *PerformanceRepository) GetSnapshot(ctx context.Context, month, year int) (*models.MonthlyLeagueSnapshot, error) {
	var s models.MonthlyLeagueSnapshot
	err := r.DB.QueryRow(ctx,
		`SELECT id, month, year, data, created_at
         FROM monthly_league_snapshots WHERE month=$1 AND year=$2`, month, year,
	).Scan(&s.ID, &s.Month, &s.Year, &s.Data, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ListSnapshots returns all frozen months, newest first.
func (r *PerformanceRepository) ListSnapshots(ctx context.Context) ([]*models.MonthlyLeagueSnapshot, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, month, year, data, created_at
         FROM monthly_league_snapshots ORDER BY year DESC, month DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snapshots []*models.MonthlyLeagueSnapshot
	for rows.Next() {
		var s models.MonthlyLeagueSnapshot
		if err := rows.Scan(&s.ID, &s.Month, &s.Year, &s.Data, &s.CreatedAt); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, &s)
	}
	return snapshots, rows.Err()
}
