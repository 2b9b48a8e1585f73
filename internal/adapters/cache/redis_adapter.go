// Package cache provides the Redis-backed CacheProvider implementation.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medzoshop/medzo-backend/internal/domain/providers"
	redisclient "github.com/medzoshop/medzo-backend/internal/infrastructure/clients/redis"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned by Get when the key does not exist. Callers treat
// any Get error as a miss, so this mostly matters for logging.
var ErrCacheMiss = errors.New("cache miss")

// RedisAdapter stores opaque byte payloads under string keys with per-entry
// TTLs. Serialization is the caller's concern.
type RedisAdapter struct {
	client *redisclient.Client
}

// NewRedisAdapter creates a CacheProvider backed by the given Redis client
func NewRedisAdapter(client *redisclient.Client) providers.CacheProvider {
	return &RedisAdapter{client: client}
}

// Get fetches the payload stored under key, or ErrCacheMiss
func (a *RedisAdapter) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := a.client.Client().Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrCacheMiss, key)
	}
	if err != nil {
		return nil, fmt.Errorf("cache get %s: %w", key, err)
	}
	return payload, nil
}

// Set stores payload under key for expirationSeconds
func (a *RedisAdapter) Set(ctx context.Context, key string, payload []byte, expirationSeconds int) error {
	ttl := time.Duration(expirationSeconds) * time.Second
	if err := a.client.Client().Set(ctx, key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete drops key; deleting an absent key is not an error
func (a *RedisAdapter) Delete(ctx context.Context, key string) error {
	if err := a.client.Client().Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// Exists reports whether key is currently cached
func (a *RedisAdapter) Exists(ctx context.Context, key string) (bool, error) {
	n, err := a.client.Client().Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("cache exists %s: %w", key, err)
	}
	return n > 0, nil
}
