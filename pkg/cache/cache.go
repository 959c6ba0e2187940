// Package cache stores rendered artifacts and layouts between runs.
//
// [Cache] is a small byte store with per-entry TTLs. Three backends ship:
//
//   - [FileCache]: one JSON-wrapped file per entry, for the CLI
//     (~/.cache/topoview/artifacts).
//   - [RedisCache]: shared cache for the HTTP server.
//   - [NullCache]: disables caching.
//
// Keys come from a [Keyer] so that every option that changes the output
// also changes the key. [ScopedKeyer] prefixes keys to separate tenants
// sharing one Redis.
package cache

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Cache is a byte store with expiring entries. Implementations are safe
// for concurrent use.
type Cache interface {
	// Get returns the entry for key. A miss is (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of 0 never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend resources.
	Close() error
}

// Entry lifetimes.
const (
	// TTLLayout covers computed node positions.
	TTLLayout = 7 * 24 * time.Hour
	// TTLArtifact covers rendered SVG, PNG and JSON output.
	TTLArtifact = 24 * time.Hour
)

// DefaultDir returns the artifact cache directory,
// $XDG_CACHE_HOME/topoview/artifacts (~/.cache/topoview/artifacts).
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		home, herr := os.UserHomeDir()
		if herr != nil {
			return "", err
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "topoview", "artifacts"), nil
}
