// Package cache provides a small Redis-backed cache for expensive
// lookups, primarily the Telegram chat listing which costs a subprocess
// round-trip to produce.
package cache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key is absent or the cache is
// disabled.
var ErrMiss = errors.New("cache miss")

// NewRedisClient parses redisURL and verifies connectivity.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL(%q): %w", redisURL, err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return client, nil
}

// Cache wraps a redis client with a key prefix and default TTL. A Cache
// built over a nil client is a no-op: Get always misses, Set does
// nothing. That lets callers treat Redis as strictly optional.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// New creates a Cache. rdb may be nil to disable caching.
func New(rdb *redis.Client, prefix string, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		logger: logger.With("component", "cache"),
	}
}

// Enabled reports whether a Redis client is wired in.
func (c *Cache) Enabled() bool {
	return c != nil && c.rdb != nil
}

// Get returns the cached payload for key, or ErrMiss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	if !c.Enabled() {
		return nil, ErrMiss
	}

	data, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	switch {
	case errors.Is(err, redis.Nil):
		return nil, ErrMiss
	case err != nil:
		// A broken cache must never break the lookup it fronts.
		c.logger.WarnContext(ctx, "Cache read failed, treating as miss", "key", key, "error", err)
		return nil, ErrMiss
	}
	return data, nil
}

// Set stores the payload under key with the cache's default TTL.
// Failures are logged and swallowed.
func (c *Cache) Set(ctx context.Context, key string, payload []byte) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Set(ctx, c.prefix+key, payload, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache write failed", "key", key, "error", err)
	}
}

// Invalidate drops the cached payload for key.
func (c *Cache) Invalidate(ctx context.Context, key string) {
	if !c.Enabled() {
		return
	}
	if err := c.rdb.Del(ctx, c.prefix+key).Err(); err != nil {
		c.logger.WarnContext(ctx, "Cache invalidation failed", "key", key, "error", err)
	}
}
