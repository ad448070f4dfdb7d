package cache

import (
	"context"
	"time"

	pkgredis "github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/keyword-index/pkg/resilience"
)

// guardedStore stops calling a failing store until the breaker lets a probe
// through, so a redis outage costs one error per call instead of one
// network timeout per call.
type guardedStore struct {
	store   Store
	breaker *resilience.CircuitBreaker
}

// Guard wraps store with a circuit breaker. A key miss is not a failure.
func Guard(store Store, cfg resilience.CircuitBreakerConfig) Store {
	cfg.IsFailure = func(err error) bool {
		return err != nil && !pkgredis.IsNilError(err)
	}
	return &guardedStore{
		store:   store,
		breaker: resilience.NewCircuitBreaker("query-cache", cfg),
	}
}

func (g *guardedStore) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := g.breaker.Execute(func() error {
		var err error
		value, err = g.store.Get(ctx, key)
		return err
	})
	return value, err
}

func (g *guardedStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	return g.breaker.Execute(func() error {
		return g.store.Set(ctx, key, value, ttl)
	})
}

func (g *guardedStore) FlushByPattern(ctx context.Context, pattern string) (int64, error) {
	var deleted int64
	err := g.breaker.Execute(func() error {
		var err error
		deleted, err = g.store.FlushByPattern(ctx, pattern)
		return err
	})
	return deleted, err
}
