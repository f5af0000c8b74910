// Package cache stores rendered charts and intermediate scenes.
//
// # Backends
//
//   - [FileCache]: entries as files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] derives keys from content hashes and the options that affect the
// cached value, so changing any option produces a different key:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.ArtifactKey(sceneHash, cache.ArtifactKeyOpts{Format: "svg"})
//
// [ScopedKeyer] prefixes every key to isolate tenants sharing one backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found. Expired entries
	// are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Time-to-live values for cached entries.
const (
	TTLScene    = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
