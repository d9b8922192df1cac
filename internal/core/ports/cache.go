package ports

import (
	"context"
	"time"
)

// Cache is a minimal key-value cache. Implementations must degrade
// gracefully: a cache error should never prevent callers from falling back
// to the primary datastore.
type Cache interface {
	// Get returns the raw bytes for key; ok is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value under key for the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes the key; deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
