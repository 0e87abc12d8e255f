package shared

import (
	"context"
	"time"
)

// KeyValueStore is the small shared cache behind the outbound access token and the
// menu push cooldown. Implementations must be safe for concurrent use.
type KeyValueStore interface {
	// SetIfAbsent stores value under key for ttl unless a live entry exists.
	// Returns true if the value was stored, false if the key was already held.
	SetIfAbsent(ctx context.Context, key, value string, ttl time.Duration) (bool, error)

	// Get returns the live value under key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key for ttl, replacing any existing entry
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// TTL returns the remaining lifetime of key, or 0 when it does not exist
	TTL(ctx context.Context, key string) (time.Duration, error)

	// Close releases resources
	Close() error
}
