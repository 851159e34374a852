package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"birs-backend/internal/models"
	"birs-backend/internal/reporting"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaxEntryRepository struct {
	DB *pgxpool.Pool
}

func NewTaxEntryRepository(db *pgxpool.Pool) *TaxEntryRepository {
	return &TaxEntryRepository{DB: db}
}

const taxEntryColumns = `e.id, e.tax_item, e.subhead,
	COALESCE(e.rrr, ''), e.rrr_verified, e.rrr_amount,
	COALESCE(e.paydirect_ref, ''), e.paydirect_verified, e.paydirect_amount,
	e.uploaded_by, u.username, e.data, e.date_uploaded, e.month, e.year`

func scanTaxEntry(row pgx.Row) (*models.TaxEntry, error) {
	var e models.TaxEntry
	err := row.Scan(&e.ID, &e.TaxItem, &e.Subhead,
		&e.RRR, &e.RRRVerified, &e.RRRAmount,
		&e.PayDirectRef, &e.PayDirectVerified, &e.PayDirectAmount,
		&e.UploadedBy, &e.UploaderName, &e.Data, &e.DateUploaded, &e.Month, &e.Year)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// Create inserts the entry. The partial unique indexes on rrr and
// paydirect_ref are the authoritative duplicate guard; a violation maps to
// models.ErrDuplicateReference whichever channel collided.
func (r *TaxEntryRepository) Create(ctx context.Context, e *models.TaxEntry) error {
	if e.Data == nil {
		e.Data = map[string]string{}
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO tax_entries(tax_item, subhead, rrr, rrr_verified, rrr_amount,
			paydirect_ref, paydirect_verified, paydirect_amount,
			uploaded_by, data, date_uploaded, month, year)
         VALUES($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13)
         RETURNING id`,
		e.TaxItem, e.Subhead, e.RRR, e.RRRVerified, e.RRRAmount,
		e.PayDirectRef, e.PayDirectVerified, e.PayDirectAmount,
		e.UploadedBy, e.Data, e.DateUploaded, e.Month, e.Year,
	).Scan(&e.ID)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return models.ErrDuplicateReference
	}
	return err
}

func (r *TaxEntryRepository) Get(ctx context.Context, id int) (*models.TaxEntry, error) {
	e, err := scanTaxEntry(r.DB.QueryRow(ctx,
		`SELECT `+taxEntryColumns+`
         FROM tax_entries e JOIN users u ON u.id = e.uploaded_by
         WHERE e.id=$1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return e, err
}

// FindByReference returns the entry holding the reference on either channel,
// or ErrNotFound.
func (r *TaxEntryRepository) FindByReference(ctx context.Context, reference string) (*models.TaxEntry, error) {
	if reference == "" {
		return nil, models.ErrNotFound
	}
	e, err := scanTaxEntry(r.DB.QueryRow(ctx,
		`SELECT `+taxEntryColumns+`
         FROM tax_entries e JOIN users u ON u.id = e.uploaded_by
         WHERE e.rrr=$1 OR e.paydirect_ref=$1`, reference))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	return e, err
}

// List returns entries matching the filter, newest first. Only the
// structured filter fields push down to SQL; substring matching runs here
// too via ILIKE.
func (r *TaxEntryRepository) List(ctx context.Context, f reporting.EntryFilter) ([]*models.TaxEntry, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.UploaderID != 0 {
		conds = append(conds, "e.uploaded_by = "+arg(f.UploaderID))
	}
	if f.From != nil {
		conds = append(conds, "e.date_uploaded >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "e.date_uploaded <= "+arg(*f.To))
	}
	if f.Month != 0 {
		conds = append(conds, "EXTRACT(MONTH FROM e.date_uploaded AT TIME ZONE 'Africa/Lagos') = "+arg(f.Month))
	}
	if f.Year != 0 {
		conds = append(conds, "EXTRACT(YEAR FROM e.date_uploaded AT TIME ZONE 'Africa/Lagos') = "+arg(f.Year))
	}
	if f.TaxItem != "" {
		conds = append(conds, "e.tax_item ILIKE "+arg("%"+f.TaxItem+"%"))
	}
	if f.Subhead != "" {
		conds = append(conds, "e.subhead ILIKE "+arg("%"+f.Subhead+"%"))
	}

	query := `SELECT ` + taxEntryColumns + `
		FROM tax_entries e JOIN users u ON u.id = e.uploaded_by`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY e.date_uploaded DESC"
	if f.Limit > 0 {
		query += " LIMIT " + arg(f.Limit)
	}
	if f.Offset > 0 {
		query += " OFFSET " + arg(f.Offset)
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.TaxEntry
	for rows.Next() {
		e, err := scanTaxEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// UpdateVerification persists a re-verification result for one entry.
func (r *TaxEntryRepository) UpdateVerification(ctx context.Context, e *models.TaxEntry) error {
	tag, err := r.DB.Exec(ctx,
		`UPDATE tax_entries
         SET rrr_verified=$1, rrr_amount=$2, paydirect_verified=$3, paydirect_amount=$4
         WHERE id=$5`,
		e.RRRVerified, e.RRRAmount, e.PayDirectVerified, e.PayDirectAmount, e.ID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteIfUnverified removes the entry only while neither channel has
// verified. The predicate runs inside the statement so a concurrent
// verification cannot race the delete.
func (r *TaxEntryRepository) DeleteIfUnverified(ctx context.Context, id int) error {
	tag, err := r.DB.Exec(ctx,
		`DELETE FROM tax_entries
         WHERE id=$1 AND rrr_verified=FALSE AND paydirect_verified=FALSE`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		// Distinguish a missing entry from a verified one.
		var exists bool
		if err := r.DB.QueryRow(ctx,
			`SELECT EXISTS(SELECT 1 FROM tax_entries WHERE id=$1)`, id).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return models.ErrEntryVerified
		}
		return models.ErrNotFound
	}
	return nil
}
