package storage

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

type Options struct {
	Driver      string
	DataDir     string
	DatabaseURL string
	RedisURL    string
}

// Open connects to the configured engine and creates its schema if absent.
func Open(ctx context.Context, opts Options) (LinkStore, error) {
	var (
		store LinkStore
		err   error
	)

	switch opts.Driver {
	case DriverSQLite, "":
		store, err = OpenSQLite(filepath.Join(opts.DataDir, SQLiteFileName))
	case DriverPostgres:
		var pool *pgxpool.Pool
		pool, err = pgxpool.New(ctx, opts.DatabaseURL)
		if err == nil {
			store = NewPostgresLinkStorage(pool)
		}
	case DriverRedis:
		var opt *redis.Options
		opt, err = redis.ParseURL(opts.RedisURL)
		if err == nil {
			store = NewRedisLinkStorage(redis.NewClient(opt))
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", opts.Driver, err)
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("initialize %s store: %w", opts.Driver, err)
	}
	return store, nil
}
