package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the table the Postgres source reads from.
const Schema = `
CREATE TABLE IF NOT EXISTS support_options (
    position        INTEGER PRIMARY KEY,
    id              TEXT NOT NULL UNIQUE,
    kind            TEXT NOT NULL,
    title           TEXT NOT NULL,
    body            TEXT NOT NULL DEFAULT '',
    url             TEXT NOT NULL DEFAULT '',
    networks        TEXT[] NOT NULL DEFAULT '{}',
    wallets         TEXT[] NOT NULL DEFAULT '{}',
    min_age_seconds BIGINT NOT NULL DEFAULT 0,
    max_age_seconds BIGINT NOT NULL DEFAULT 0
)`

// Store reads and replaces catalog rules kept in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store with the given database connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// EnsureSchema creates the support_options table if it does not exist.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("failed to create support_options table: %w", err)
	}
	return nil
}

// Load returns all rules ordered by position.
func (s *Store) Load(ctx context.Context) ([]Rule, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, kind, title, body, url, networks, wallets, min_age_seconds, max_age_seconds
		FROM support_options
		ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("failed to query support options: %w", err)
	}

	rules, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (Rule, error) {
		var (
			r              Rule
			kind           string
			minAge, maxAge int64
		)
		err := row.Scan(&r.ID, &kind, &r.Title, &r.Body, &r.URL, &r.Networks, &r.Wallets, &minAge, &maxAge)
		r.Kind = Kind(kind)
		r.MinAge = time.Duration(minAge) * time.Second
		r.MaxAge = time.Duration(maxAge) * time.Second
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan support options: %w", err)
	}

	return rules, nil
}

// Replace swaps the stored catalog for rules in a single transaction.
// Rules are validated first so a bad catalog never reaches the table.
func (s *Store) Replace(ctx context.Context, rules []Rule) error {
	if err := Validate(rules); err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM support_options"); err != nil {
			return fmt.Errorf("failed to clear support options: %w", err)
		}

		batch := &pgx.Batch{}
		for i, r := range rules {
			batch.Queue(`
				INSERT INTO support_options
					(position, id, kind, title, body, url, networks, wallets, min_age_seconds, max_age_seconds)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				i, r.ID, string(r.Kind), r.Title, r.Body, r.URL,
				nonNil(r.Networks), nonNil(r.Wallets),
				int64(r.MinAge/time.Second), int64(r.MaxAge/time.Second),
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("failed to insert support options: %w", err)
		}
		return nil
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
