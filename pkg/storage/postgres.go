package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `CREATE TABLE IF NOT EXISTS links (
	short_code TEXT PRIMARY KEY,
	original_identifier TEXT NOT NULL DEFAULT '',
	target_url TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

type PostgresLinkStorage struct {
	pool *pgxpool.Pool
}

func NewPostgresLinkStorage(pool *pgxpool.Pool) *PostgresLinkStorage {
	return &PostgresLinkStorage{pool: pool}
}

func (s *PostgresLinkStorage) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchema); err != nil {
		return fmt.Errorf("create links table: %w", err)
	}
	return nil
}

// Upsert relies on ON CONFLICT taking a row lock on the conflicting key, so
// concurrent writers on one short code are serialized by Postgres itself.
func (s *PostgresLinkStorage) Upsert(ctx context.Context, shortCode, originalIdentifier, targetURL string) error {
	query := `INSERT INTO links (short_code, original_identifier, target_url) VALUES ($1, $2, $3)
		ON CONFLICT (short_code) DO UPDATE
		SET original_identifier = EXCLUDED.original_identifier, target_url = EXCLUDED.target_url, updated_at = now()`
	_, err := s.pool.Exec(ctx, query, shortCode, originalIdentifier, targetURL)
	return err
}

func (s *PostgresLinkStorage) Lookup(ctx context.Context, shortCode string) (*LinkRecord, error) {
	query := `SELECT short_code, original_identifier, target_url, created_at, updated_at FROM links WHERE short_code = $1`
	row := s.pool.QueryRow(ctx, query, shortCode)
	var link LinkRecord
	err := row.Scan(&link.ShortCode, &link.OriginalIdentifier, &link.TargetURL, &link.CreatedAt, &link.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &link, nil
}

func (s *PostgresLinkStorage) Close() error {
	s.pool.Close()
	return nil
}
