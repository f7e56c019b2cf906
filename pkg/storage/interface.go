package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Lookup when no record has the requested short code.
var ErrNotFound = errors.New("link not found")

// LinkStore persists link records keyed by short code.
//
// Upsert inserts a record or replaces the target URL and original identifier of
// the record already holding the short code; the original creation time is
// kept. Concurrent upserts on one key must leave exactly one writer's values.
type LinkStore interface {
	Migrate(ctx context.Context) error
	Upsert(ctx context.Context, shortCode, originalIdentifier, targetURL string) error
	Lookup(ctx context.Context, shortCode string) (*LinkRecord, error)
	Close() error
}
