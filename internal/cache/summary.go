package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"chat-core/internal/models"
)

const keyPrefix = "thread:summary:"

func summaryKey(parentID uuid.UUID, generation uint64) string {
	return keyPrefix + parentID.String() + ":" + strconv.FormatUint(generation, 10)
}

func generationKey(parentID uuid.UUID) string {
	return keyPrefix + "gen:" + parentID.String()
}

// RedisSummaryCache keeps thread summaries in Redis as JSON. Each summary is
// stored under the generation it was computed for, so a write that raced an
// Invalidate lands on a key nobody reads anymore.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewRedisSummaryCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisSummaryCache {
	return &RedisSummaryCache{client: client, ttl: ttl, log: log.Named("summary-cache")}
}

func (c *RedisSummaryCache) Get(ctx context.Context, parentID uuid.UUID) (models.ThreadSummary, uint64, bool, error) {
	generation, err := c.client.Get(ctx, generationKey(parentID)).Uint64()
	if err != nil && !errors.Is(err, redis.Nil) {
		return models.ThreadSummary{}, 0, false, err
	}

	raw, err := c.client.Get(ctx, summaryKey(parentID, generation)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.ThreadSummary{}, generation, false, nil
	}
	if err != nil {
		return models.ThreadSummary{}, 0, false, err
	}

	var summary models.ThreadSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		// a stale encoding is a miss, the caller recomputes and overwrites it
		c.log.Debug("discarding undecodable summary", zap.Stringer("parent_id", parentID), zap.Error(err))
		return models.ThreadSummary{}, generation, false, nil
	}
	return summary, generation, true, nil
}

func (c *RedisSummaryCache) Set(ctx context.Context, parentID uuid.UUID, generation uint64, summary models.ThreadSummary) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	_, err = c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, summaryKey(parentID, generation), raw, c.ttl)
		// the counter must outlive every summary stored under it
		p.Expire(ctx, generationKey(parentID), 2*c.ttl)
		return nil
	})
	return err
}

func (c *RedisSummaryCache) Invalidate(ctx context.Context, parentID uuid.UUID) error {
	_, err := c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, generationKey(parentID))
		p.Expire(ctx, generationKey(parentID), 2*c.ttl)
		return nil
	})
	return err
}

type localEntry struct {
	generation uint64
	summary    models.ThreadSummary
	filled     bool
}

// LocalSummaryCache is the self-contained stand-in used when no Redis is
// configured. It holds at most size parents and forgets them after ttl.
type LocalSummaryCache struct {
	mu      sync.Mutex
	entries *expirable.LRU[uuid.UUID, localEntry]
	// seq numbers invalidations; floor is seq when an entry last left the cache
	seq   atomic.Uint64
	floor atomic.Uint64
}

func NewLocalSummaryCache(size int, ttl time.Duration) *LocalSummaryCache {
	c := &LocalSummaryCache{}
	c.entries = expirable.NewLRU[uuid.UUID, localEntry](size, func(uuid.UUID, localEntry) {
		c.floor.Store(c.seq.Load())
	}, ttl)
	return c
}

func (c *LocalSummaryCache) Get(_ context.Context, parentID uuid.UUID) (models.ThreadSummary, uint64, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(parentID)
	if !ok {
		return models.ThreadSummary{}, c.seq.Load(), false, nil
	}
	return e.summary, e.generation, e.filled, nil
}

// Set stores summary unless parentID was invalidated after generation was read.
func (c *LocalSummaryCache) Set(_ context.Context, parentID uuid.UUID, generation uint64, summary models.ThreadSummary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries.Peek(parentID); ok {
		if e.generation != generation {
			return nil
		}
	} else if generation < c.floor.Load() {
		return nil
	}
	c.entries.Add(parentID, localEntry{generation: generation, summary: summary, filled: true})
	return nil
}

func (c *LocalSummaryCache) Invalidate(_ context.Context, parentID uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(parentID, localEntry{generation: c.seq.Add(1)})
	return nil
}

func (c *LocalSummaryCache) Len() int {
	return c.entries.Len()
}
