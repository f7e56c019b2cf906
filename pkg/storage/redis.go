package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	fieldOriginalIdentifier = "original_identifier"
	fieldTargetURL          = "target_url"
	fieldCreatedAt          = "created_at"
	fieldUpdatedAt          = "updated_at"
)

// RedisLinkStorage keeps each record in a hash under "link:<code>". Keys have
// no TTL.
type RedisLinkStorage struct {
	client *redis.Client
}

func NewRedisLinkStorage(client *redis.Client) *RedisLinkStorage {
	return &RedisLinkStorage{client: client}
}

func linkKey(code string) string {
	return "link:" + code
}

// Migrate has no schema to create; it only checks the server is reachable.
func (s *RedisLinkStorage) Migrate(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisLinkStorage) Upsert(ctx context.Context, shortCode, originalIdentifier, targetURL string) error {
	key := linkKey(shortCode)
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSetNX(ctx, key, fieldCreatedAt, now)
		pipe.HSet(ctx, key,
			fieldOriginalIdentifier, originalIdentifier,
			fieldTargetURL, targetURL,
			fieldUpdatedAt, now,
		)
		return nil
	})
	return err
}

func (s *RedisLinkStorage) Lookup(ctx context.Context, shortCode string) (*LinkRecord, error) {
	vals, err := s.client.HGetAll(ctx, linkKey(shortCode)).Result()
	if err != nil {
		return nil, err
	}
	if len(vals) == 0 {
		return nil, ErrNotFound
	}

	link := &LinkRecord{
		ShortCode:          shortCode,
		OriginalIdentifier: vals[fieldOriginalIdentifier],
		TargetURL:          vals[fieldTargetURL],
	}
	if link.CreatedAt, err = parseRedisTime(vals[fieldCreatedAt]); err != nil {
		return nil, fmt.Errorf("link %s: %w", shortCode, err)
	}
	if link.UpdatedAt, err = parseRedisTime(vals[fieldUpdatedAt]); err != nil {
		return nil, fmt.Errorf("link %s: %w", shortCode, err)
	}
	return link, nil
}

func (s *RedisLinkStorage) Close() error {
	return s.client.Close()
}

func parseRedisTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, v)
}
