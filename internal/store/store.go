// Package store persists members and their colored results in PostgreSQL.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound is returned when a member or result does not exist.
var ErrNotFound = errors.New("store: not found")

// Store wraps a PostgreSQL connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// New connects to the database and verifies the connection.
func New(ctx context.Context, dsn string) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

// schema is the development bootstrap DDL, applied by Init.
const schema = `
CREATE TABLE IF NOT EXISTS member (
	id         BIGSERIAL PRIMARY KEY,
	number     TEXT NOT NULL UNIQUE,
	name       TEXT NOT NULL,
	memo       TEXT,
	height_cm  DOUBLE PRECISION,
	weight_kg  DOUBLE PRECISION,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS member_name_idx ON member (name);

CREATE TABLE IF NOT EXISTS colored_result (
	id            BIGSERIAL PRIMARY KEY,
	member_id     BIGINT NOT NULL REFERENCES member (id),
	filename      TEXT NOT NULL,
	mime          TEXT NOT NULL DEFAULT 'image/png',
	original_id   BIGINT,
	selected_date DATE,
	note          TEXT,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS colored_result_member_idx ON colored_result (member_id);
CREATE INDEX IF NOT EXISTS colored_result_date_idx ON colored_result (selected_date);
`

// Init creates the tables if they do not exist yet.
func (s *Store) Init(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("store: init schema: %w", err)
	}
	return nil
}

// mapNoRows converts pgx's no-rows sentinel into ErrNotFound.
func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
