package port

import (
	"context"
	"time"
)

// PairCache is a TTL key-value cache for catalog snapshots.
// Implementations must degrade when the backing store is unreachable:
// every read is a miss and every write a no-op, never an error.
type PairCache interface {
	// Get unmarshals the cached value into dest and reports whether
	// a live entry was found.
	Get(ctx context.Context, key string, dest any) bool

	// Set stores value under key with the given TTL and reports
	// whether the write reached the cache.
	Set(ctx context.Context, key string, value any, ttl time.Duration) bool

	// Delete removes a single key.
	Delete(ctx context.Context, key string) bool

	// ClearPrefix deletes all keys matching pattern and returns the
	// number of keys removed.
	ClearPrefix(ctx context.Context, pattern string) int
}
