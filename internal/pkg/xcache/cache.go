// Package xcache wraps gocache behind a small typed facade. Callers pick a
// backend through Config: in-process memory, redis, or a two-level chain of
// both. An unset mode yields a noop cache so call sites stay unconditional.
package xcache

import (
	"context"
	"fmt"
	"time"

	cachelib "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	gocachestore "github.com/eko/gocache/store/go_cache/v4"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"github.com/PerryRichardson/storefront/internal/log"
	redisstore "github.com/PerryRichardson/storefront/internal/pkg/xcache/redis"
	"github.com/PerryRichardson/storefront/internal/pkg/xredis"
)

type Cache[T any] = cachelib.CacheInterface[T]

type SetterCache[T any] = cachelib.SetterCacheInterface[T]

// NewMemory builds an in-process cache over patrickmn/go-cache.
func NewMemory[T any](client *gocache.Cache, options ...Option) SetterCache[T] {
	return cachelib.New[T](gocachestore.NewGoCache(client, options...))
}

// NewMemoryWithOptions builds the go-cache client from the given intervals.
func NewMemoryWithOptions[T any](defaultExpiration, cleanupInterval time.Duration, options ...Option) SetterCache[T] {
	return NewMemory[T](gocache.New(defaultExpiration, cleanupInterval), options...)
}

// NewRedis builds a redis-backed cache over an existing client.
func NewRedis[T any](client *redis.Client, options ...Option) SetterCache[T] {
	return cachelib.New[T](redisstore.NewStore[T](client, options...))
}

// NewTwoLevel chains a memory cache in front of a redis cache.
func NewTwoLevel[T any](memory, redis SetterCache[T]) Cache[T] {
	return cachelib.NewChain[T](memory, redis)
}

// NewFromConfig builds a typed cache for the configured mode. Redis modes
// dial and ping at build time.
func NewFromConfig[T any](cfg Config) (Cache[T], error) {
	if cfg.Mode == "" {
		return NewNoop[T](), nil
	}

	memExpiration := defaultIfZero(cfg.Memory.Expiration, 5*time.Minute)
	mem := NewMemoryWithOptions[T](
		memExpiration,
		defaultIfZero(cfg.Memory.CleanupInterval, 10*time.Minute),
		store.WithExpiration(memExpiration),
	)

	var rds SetterCache[T]

	if cfg.Mode != ModeMemory && (cfg.Redis.Addr != "" || cfg.Redis.URL != "") {
		client, err := xredis.NewClient(cfg.Redis)
		if err != nil {
			return nil, fmt.Errorf("xcache: connect redis: %w", err)
		}

		rds = NewRedis[T](client, store.WithExpiration(defaultIfZero(cfg.Redis.Expiration, 30*time.Minute)))
	}

	switch cfg.Mode {
	case ModeTwoLevel:
		if rds == nil {
			return mem, nil
		}

		log.Info(context.Background(), "Using two-level cache")

		return NewTwoLevel[T](mem, rds), nil
	case ModeRedis:
		if rds == nil {
			return nil, fmt.Errorf("xcache: redis mode needs an addr or url")
		}

		log.Info(context.Background(), "Using redis cache")

		return rds, nil
	case ModeMemory:
		log.Info(context.Background(), "Using memory cache")

		return mem, nil
	default:
		log.Info(context.Background(), "Disable cache", log.String("mode", cfg.Mode))

		return NewNoop[T](), nil
	}
}

func defaultIfZero(d, def time.Duration) time.Duration {
	if d == 0 {
		return def
	}

	return d
}
