// Package cache provides the user lookup cache sitting in front of the
// data store on the authenticated hot path. The cache is strictly derived
// state: it may be stale up to its TTL and is never the system of record.
package cache

import (
	"context"
	"time"
)

// UserCache is a per-key get/set/delete store with TTL. Implementations
// must bound their I/O and treat backend failure as a miss so callers can
// degrade to the source of truth.
type UserCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
}

// UserKey builds the cache key for a username.
func UserKey(username string) string { return "user:" + username }
