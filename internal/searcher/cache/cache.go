package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Adithya-Monish-Kumar-K/keyword-index/internal/searcher/executor"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/metrics"
	pkgredis "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/redis"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "topk:"

// Store is the subset of the redis client the cache uses.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FlushByPattern(ctx context.Context, pattern string) (int64, error)
}

// QueryCache caches top-k results in redis. Keys carry the index generation
// so results of a previous build are never served.
type QueryCache struct {
	store      Store
	cfg        config.RedisConfig
	generation int64
	group      singleflight.Group
	metrics    *metrics.Metrics
	logger     *slog.Logger
	hits       atomic.Int64
	misses     atomic.Int64
}

// New creates a QueryCache for the index identified by generation. m may be
// nil.
func New(store Store, cfg config.RedisConfig, generation int64, m *metrics.Metrics) *QueryCache {
	return &QueryCache{
		store:      store,
		cfg:        cfg,
		generation: generation,
		metrics:    m,
		logger:     slog.Default().With("component", "query-cache"),
	}
}

func (c *QueryCache) Get(ctx context.Context, kw1, kw2 string, k int) (*executor.SearchResult, bool) {
	key := c.buildKey(kw1, kw2, k)
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !pkgredis.IsNilError(err) {
			c.logger.Error("cache get failed", "key", key, "error", err)
		}
		c.miss()
		return nil, false
	}
	var result executor.SearchResult
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		c.logger.Error("cache unmarshal failed", "key", key, "error", err)
		c.miss()
		return nil, false
	}
	c.hits.Add(1)
	if c.metrics != nil {
		c.metrics.CacheHitsTotal.Inc()
	}
	c.logger.Debug("cache hit", "kw1", kw1, "kw2", kw2, "key", key)
	return &result, true
}

func (c *QueryCache) Set(ctx context.Context, kw1, kw2 string, k int, result *executor.SearchResult) {
	key := c.buildKey(kw1, kw2, k)
	data, err := json.Marshal(result)
	if err != nil {
		c.logger.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.store.Set(ctx, key, data, c.cfg.CacheTTL); err != nil {
		c.logger.Error("cache set failed", "key", key, "error", err)
	}
}

// GetOrCompute returns the cached result or computes and stores it.
// Concurrent misses for the same key share one computation. The bool reports
// a cache hit.
func (c *QueryCache) GetOrCompute(
	ctx context.Context,
	kw1, kw2 string,
	k int,
	computeFn func() (*executor.SearchResult, error),
) (*executor.SearchResult, bool, error) {
	if result, ok := c.Get(ctx, kw1, kw2, k); ok {
		return result, true, nil
	}
	key := c.buildKey(kw1, kw2, k)
	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		result, err := computeFn()
		if err != nil {
			return nil, err
		}
		c.Set(ctx, kw1, kw2, k, result)
		return result, nil
	})
	if err != nil {
		return nil, false, err
	}
	return val.(*executor.SearchResult), false, nil
}

// Invalidate deletes every cached result of every generation.
func (c *QueryCache) Invalidate(ctx context.Context) error {
	deleted, err := c.store.FlushByPattern(ctx, keyPrefix+"*")
	if err != nil {
		return fmt.Errorf("invalidating cache: %w", err)
	}
	c.logger.Info("cache invalidate", "keys_deleted", deleted)
	return nil
}

func (c *QueryCache) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

func (c *QueryCache) miss() {
	c.misses.Add(1)
	if c.metrics != nil {
		c.metrics.CacheMissesTotal.Inc()
	}
}

// buildKey keeps the keyword order: the first keyword wins ties, so
// "cat dog" and "dog cat" can rank differently.
func (c *QueryCache) buildKey(kw1, kw2 string, k int) string {
	raw := fmt.Sprintf("%s|%s|%d", kw1, kw2, k)
	hash := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%d:%x", keyPrefix, c.generation, hash[:16])
}
