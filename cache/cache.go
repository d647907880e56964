package cache

import (
	"context"
	"time"
)

// Store is a key/value cache holding JSON-serialized entity snapshots. It is
// never a source of truth: every value must be re-derivable from the durable
// store, and dropping the cache costs performance, not correctness.
type Store interface {
	// Get unmarshals the cached value for key into dest and reports whether
	// the key was present. A missing key is a miss, not an error.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set overwrites the value for key with the store's default TTL.
	Set(ctx context.Context, key string, value interface{}) error
	// SetWithTTL overwrites the value for key with an explicit TTL;
	// ttl <= 0 means no expiry.
	SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete removes the given keys; missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}
