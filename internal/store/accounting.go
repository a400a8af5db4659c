package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AccountingPeriod marks a month for which a bookkeeping sheet exists.
// The period date identifies the sheet; re-creating it only updates the type.
type AccountingPeriod struct {
	ID        uuid.UUID
	Period    time.Time
	Type      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Store) UpsertAccountingPeriod(ctx context.Context, period time.Time, periodType string) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO accounting_periods (period, type)
		VALUES ($1, $2)
		ON CONFLICT (period) DO UPDATE SET
			type = EXCLUDED.type,
			updated_at = now()
	`, period, periodType)
	return err
}

func (s *Store) ListAccountingPeriods(ctx context.Context, limit, offset int) ([]AccountingPeriod, int, error) {
	var total int
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM accounting_periods`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.Query(ctx, `
		SELECT id, period, type, created_at, updated_at
		FROM accounting_periods
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []AccountingPeriod
	for rows.Next() {
		var p AccountingPeriod
		if err := rows.Scan(&p.ID, &p.Period, &p.Type, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}
