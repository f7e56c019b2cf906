package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testLinkStore exercises the LinkStore contract against a freshly migrated store.
func testLinkStore(t *testing.T, store LinkStore) {
	ctx := context.Background()

	t.Run("MigrateIsIdempotent", func(t *testing.T) {
		require.NoError(t, store.Migrate(ctx))
	})

	t.Run("LookupMissing", func(t *testing.T) {
		link, err := store.Lookup(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.Nil(t, link)
	})

	t.Run("UpsertThenLookup", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, "7pU4", "1aF9c0", "https://drive.example/file1"))

		link, err := store.Lookup(ctx, "7pU4")
		require.NoError(t, err)
		assert.Equal(t, "7pU4", link.ShortCode)
		assert.Equal(t, "1aF9c0", link.OriginalIdentifier)
		assert.Equal(t, "https://drive.example/file1", link.TargetURL)
		assert.False(t, link.CreatedAt.IsZero())
	})

	t.Run("LastWriteWinsAndCreatedAtRetained", func(t *testing.T) {
		require.NoError(t, store.Upsert(ctx, "dupCode", "aaaa", "https://first.example"))
		first, err := store.Lookup(ctx, "dupCode")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, store.Upsert(ctx, "dupCode", "bbbb", "https://second.example"))

		second, err := store.Lookup(ctx, "dupCode")
		require.NoError(t, err)
		assert.Equal(t, "https://second.example", second.TargetURL)
		assert.Equal(t, "bbbb", second.OriginalIdentifier)
		assert.True(t, first.CreatedAt.Equal(second.CreatedAt), "created_at must survive an overwrite")
		assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))
	})

	t.Run("ConcurrentUpsertsOnOneKey", func(t *testing.T) {
		const writers = 8
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs <- store.Upsert(ctx, "raced", fmt.Sprintf("id%d", i), fmt.Sprintf("https://example.com/%d", i))
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		link, err := store.Lookup(ctx, "raced")
		require.NoError(t, err)
		var idx int
		_, err = fmt.Sscanf(link.OriginalIdentifier, "id%d", &idx)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("https://example.com/%d", idx), link.TargetURL, "fields must come from a single writer")
	})
}
