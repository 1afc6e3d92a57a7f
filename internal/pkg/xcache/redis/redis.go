// Package redis is a typed gocache store over go-redis. Values are stored
// as JSON strings.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	libstore "github.com/eko/gocache/lib/v4/store"
	"github.com/redis/go-redis/v9"
)

// Client is the subset of go-redis the store needs.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	FlushAll(ctx context.Context) *redis.StatusCmd
}

const storeType = "redis"

// Store is a typed redis backend for gocache.
type Store[T any] struct {
	client  Client
	options *libstore.Options
}

func NewStore[T any](client Client, options ...libstore.Option) *Store[T] {
	return &Store[T]{
		client:  client,
		options: libstore.ApplyOptions(options...),
	}
}

func (s *Store[T]) Get(ctx context.Context, key any) (any, error) {
	result, _, err := s.load(ctx, key, false)
	return result, err
}

func (s *Store[T]) GetWithTTL(ctx context.Context, key any) (any, time.Duration, error) {
	return s.load(ctx, key, true)
}

func (s *Store[T]) load(ctx context.Context, key any, withTTL bool) (T, time.Duration, error) {
	var result T

	keyString, ok := key.(string)
	if !ok {
		return result, 0, libstore.NotFoundWithCause(fmt.Errorf("expected string key, got %T", key))
	}

	raw, err := s.client.Get(ctx, keyString).Result()
	if errors.Is(err, redis.Nil) {
		return result, 0, libstore.NotFoundWithCause(err)
	}

	if err != nil {
		return result, 0, err
	}

	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		var zero T
		return zero, 0, err
	}

	if !withTTL {
		return result, 0, nil
	}

	ttl, err := s.client.TTL(ctx, keyString).Result()
	if err != nil {
		var zero T
		return zero, 0, err
	}

	return result, ttl, nil
}

func (s *Store[T]) Set(ctx context.Context, key any, value any, options ...libstore.Option) error {
	keyString, ok := key.(string)
	if !ok {
		return fmt.Errorf("expected string key, got %T", key)
	}

	opts := libstore.ApplyOptionsWithDefault(s.options, options...)

	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return s.client.Set(ctx, keyString, string(raw), opts.Expiration).Err()
}

func (s *Store[T]) Delete(ctx context.Context, key any) error {
	keyString, ok := key.(string)
	if !ok {
		return fmt.Errorf("expected string key, got %T", key)
	}

	return s.client.Del(ctx, keyString).Err()
}

func (s *Store[T]) Clear(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *Store[T]) Invalidate(ctx context.Context, options ...libstore.InvalidateOption) error {
	return s.client.FlushAll(ctx).Err()
}

func (s *Store[T]) GetType() string {
	return storeType
}
