package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	RoleUser    = "user"
	RoleAdmin   = "admin"
	RoleManager = "manager"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Store wraps the Postgres pool. All mutation goes through per-record
// upserts keyed by a unique business or external identifier, so re-running
// a sync over the same data never duplicates rows.
type Store struct {
	db *pgxpool.Pool
}

func New(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

// EnsureSchema creates the tables on first boot. Field payloads coming from
// the remote systems (customer, addresses, line items) live in JSONB columns.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			login TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS products (
			ms_id TEXT PRIMARY KEY,
			article TEXT,
			name TEXT NOT NULL,
			image_url TEXT,
			supplier JSONB,
			purchase_price_minor BIGINT,
			kaspi_price_minor BIGINT,
			kaspi_link TEXT,
			source_updated_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS products_article_idx ON products (article);

		CREATE TABLE IF NOT EXISTS orders (
			km_id TEXT PRIMARY KEY,
			code TEXT,
			creation_date_ms BIGINT,
			total_price_kzt BIGINT,
			delivery_cost_kzt BIGINT,
			state TEXT,
			status TEXT,
			is_kaspi_delivery BOOLEAN NOT NULL DEFAULT FALSE,
			pre_order BOOLEAN NOT NULL DEFAULT FALSE,
			signature_required BOOLEAN NOT NULL DEFAULT FALSE,
			assembled BOOLEAN NOT NULL DEFAULT FALSE,
			payment_mode TEXT,
			delivery_mode TEXT,
			customer JSONB,
			delivery_address JSONB,
			kaspi_delivery JSONB,
			entries JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE INDEX IF NOT EXISTS orders_creation_date_idx ON orders (creation_date_ms);

		CREATE TABLE IF NOT EXISTS categories (
			code TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);

		CREATE TABLE IF NOT EXISTS accounting_periods (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			period DATE NOT NULL UNIQUE,
			type TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
	`)
	return err
}

func IsNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, ErrNotFound)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
