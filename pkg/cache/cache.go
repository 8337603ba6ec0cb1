// Package cache memoizes computed specifications and rendered artifacts
// within one process.
//
// Entries are keyed by a content hash of everything that determines them
// (parameters, constants, render options), so a hit is always safe to reuse.
// Nothing is persisted: the cache lives and dies with the process.
//
// # Implementations
//
//   - [MemoryCache]: map-backed store with optional per-entry TTL
//   - [NullCache]: stores nothing; every Get is a miss
//
// # Keys
//
// A [Keyer] derives keys. [DefaultKeyer] hashes its inputs with SHA-256;
// [ScopedKeyer] prefixes another keyer, for example to keep specs computed
// under different constants profiles apart.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values by key.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
