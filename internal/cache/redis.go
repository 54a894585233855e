package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"contacts/internal/observability/metrics"

	"github.com/redis/go-redis/v9"
)

// opTimeout bounds every cache round trip so a stalled backend cannot hold
// up request handling.
const opTimeout = 500 * time.Millisecond

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(addr string, db int) *RedisCache {
	return &RedisCache{
		client: redis.NewClient(&redis.Options{
			Addr:        addr,
			DB:          db,
			DialTimeout: opTimeout,
			ReadTimeout: opTimeout,
		}),
	}
}

// Get returns the cached value. Any backend error (including timeouts and
// an unreachable server) is reported as a miss: the caller falls back to
// the data store rather than failing the request.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			metrics.UserCacheLookupsTotal.WithLabelValues("error").Inc()
			slog.Warn("cache get failed, treating as miss", "key", key, "error", err)
			return nil, false
		}
		metrics.UserCacheLookupsTotal.WithLabelValues("miss").Inc()
		return nil, false
	}
	metrics.UserCacheLookupsTotal.WithLabelValues("hit").Inc()
	return val, true
}

// Set writes best-effort; failures are logged and swallowed.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		slog.Warn("cache set failed", "key", key, "error", err)
	}
}

// Delete removes a key best-effort. Used to drop a cached user snapshot
// when their password changes.
func (c *RedisCache) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()

	if err := c.client.Del(ctx, key).Err(); err != nil {
		slog.Warn("cache delete failed", "key", key, "error", err)
	}
}

// Close releases the underlying client. Called once at shutdown.
func (c *RedisCache) Close() error { return c.client.Close() }
