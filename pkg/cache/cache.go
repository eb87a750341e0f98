// Package cache stores computed layouts and rendered artifacts keyed by a
// content hash of the snapshot that produced them.
//
// Backends:
//   - [NullCache]: caching disabled
//   - [MemoryCache]: process-local, used by the HTTP server by default
//   - [FileCache]: on-disk cache for the CLI (~/.cache/infinityflow)
//   - [RedisCache]: shared cache for multi-instance servers
//
// Keys are produced by a [Keyer]. A [ScopedKeyer] prefixes every key so
// several tenants can share one backend.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Default time-to-live values for cached entries.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value cache with expiry.
type Cache interface {
	// Get returns the data stored under key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
type Clearer interface {
	Clear(ctx context.Context) error
}

// GetJSON decodes the entry under key into v. A miss, or an entry that no
// longer decodes, returns ErrCacheMiss.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		return errors.Join(ErrCacheMiss, err)
	}
	return nil
}

// SetJSON stores v encoded as JSON under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, data, ttl)
}
