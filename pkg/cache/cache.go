// Package cache provides byte caches for repository metadata.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: one JSON entry per key below a directory, for local runs
//   - [RedisCache]: a shared Redis instance, for CI runners on many hosts
//   - [NullCache]: caching disabled (--no-cache, or --refresh runs)
//
// Keys come from a [Keyer] so every backend sees the same key space:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.MetadataKey("https://repo.maven.apache.org/maven2", coord)
//	data, ok, err := c.Get(ctx, key)
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// TTLMetadata is the default lifetime of cached maven-metadata.xml content.
const TTLMetadata = time.Hour

// Cache stores opaque byte values under string keys.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// DefaultDir returns ~/.cache/versionrange.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "versionrange"), nil
}
