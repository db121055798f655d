// Package cache stores search results keyed by graph content and options.
//
// Counting maximal cliques on a dense graph can take minutes, while the
// answer for a given graph and search configuration never changes. The
// [Cache] interface abstracts where answers are kept:
//
//   - [NullCache]: caching disabled
//   - [FileCache]: one JSON file per entry under the user cache directory
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Keys come from a [Keyer], so the CLI and the HTTP API agree on them.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// Implementations are safe for concurrent use.
type Cache interface {
	// Get returns the stored value and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any connections held by the cache.
	Close() error
}

// Entry lifetimes.
const (
	// TTLResult is how long a counted result stays cached. Results are
	// deterministic, so this only bounds disk and memory use.
	TTLResult = 30 * 24 * time.Hour

	// TTLRender is how long a rendered SVG stays cached.
	TTLRender = 7 * 24 * time.Hour
)

// Backend names accepted by configuration.
const (
	BackendNone  = "none"
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
)

// GetJSON loads key and decodes it into v. It returns [ErrCacheMiss] when
// the key is absent or the stored value no longer decodes.
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, hit, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if !hit {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, v); err != nil {
		_ = c.Delete(ctx, key)
		return ErrCacheMiss
	}
	return nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}
