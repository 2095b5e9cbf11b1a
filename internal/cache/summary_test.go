package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chat-core/internal/models"
)

func TestLocalSummaryCacheExpires(t *testing.T) {
	ctx := context.Background()
	c := NewLocalSummaryCache(16, 50*time.Millisecond)
	parent := uuid.New()

	_, generation, ok, err := c.Get(ctx, parent)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, parent, generation, models.ThreadSummary{Count: 3, LastReplierName: "bob"}))
	got, _, ok, err := c.Get(ctx, parent)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, got.Count)

	assert.Eventually(t, func() bool {
		_, _, ok, _ := c.Get(ctx, parent)
		return !ok
	}, time.Second, 10*time.Millisecond)
}

func TestLocalSummaryCacheInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLocalSummaryCache(16, time.Minute)
	parent := uuid.New()

	_, generation, _, err := c.Get(ctx, parent)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, parent, generation, models.ThreadSummary{Count: 1}))
	require.NoError(t, c.Invalidate(ctx, parent))

	_, _, ok, err := c.Get(ctx, parent)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocalSummaryCacheIgnoresWritesFromBeforeInvalidate(t *testing.T) {
	ctx := context.Background()
	c := NewLocalSummaryCache(16, time.Minute)
	parent := uuid.New()

	_, stale, _, err := c.Get(ctx, parent)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, parent))
	require.NoError(t, c.Set(ctx, parent, stale, models.ThreadSummary{Count: 1}))

	_, current, ok, err := c.Get(ctx, parent)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NotEqual(t, stale, current)

	require.NoError(t, c.Set(ctx, parent, current, models.ThreadSummary{Count: 2}))
	got, _, ok, err := c.Get(ctx, parent)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, got.Count)
}

func TestLocalSummaryCacheIsBounded(t *testing.T) {
	ctx := context.Background()
	c := NewLocalSummaryCache(4, time.Minute)

	for i := 0; i < 20; i++ {
		parent := uuid.New()
		_, generation, _, err := c.Get(ctx, parent)
		require.NoError(t, err)
		require.NoError(t, c.Set(ctx, parent, generation, models.ThreadSummary{Count: i}))
	}
	assert.Equal(t, 4, c.Len())
}

func TestLocalSummaryCacheRejectsWritesAfterEviction(t *testing.T) {
	ctx := context.Background()
	c := NewLocalSummaryCache(1, time.Minute)
	parent := uuid.New()

	_, stale, _, err := c.Get(ctx, parent)
	require.NoError(t, err)
	require.NoError(t, c.Invalidate(ctx, parent))
	// pushes the invalidation marker out
	require.NoError(t, c.Invalidate(ctx, uuid.New()))

	require.NoError(t, c.Set(ctx, parent, stale, models.ThreadSummary{Count: 1}))
	_, _, ok, err := c.Get(ctx, parent)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisSummaryCacheSurfacesConnectionErrors(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	c := NewRedisSummaryCache(client, time.Minute, zap.NewNop())

	_, _, ok, err := c.Get(context.Background(), uuid.New())
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Error(t, c.Invalidate(context.Background(), uuid.New()))
}

func TestSummaryKeys(t *testing.T) {
	id := uuid.MustParse("7f1c2c1e-2b0a-4f7e-9d2a-3c4b5a6d7e8f")
	assert.Equal(t, "thread:summary:7f1c2c1e-2b0a-4f7e-9d2a-3c4b5a6d7e8f:3", summaryKey(id, 3))
	assert.Equal(t, "thread:summary:gen:7f1c2c1e-2b0a-4f7e-9d2a-3c4b5a6d7e8f", generationKey(id))
}
