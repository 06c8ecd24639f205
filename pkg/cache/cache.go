// Package cache stores fetched upstream documents between generator runs.
//
// Every backend implements [Cache]: a byte store with per-entry TTL. The
// file backend is the default for local runs; sqlite keeps everything in one
// database file; redis and mongo let several build hosts share fetched feeds.
// [NullCache] disables caching.
//
// Keys are built by a [Keyer] so the same feed fetched by different commands
// lands on the same entry.
package cache

import (
	"context"
	"fmt"
	"path/filepath"
	"time"
)

// Cache is a byte store with expiring entries. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry they own.
// Clear returns the number of removed entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}

// Backend names accepted by [Open].
const (
	BackendFile   = "file"
	BackendNone   = "none"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Options selects and configures a backend.
type Options struct {
	Backend string // one of the Backend* constants; empty means file
	Dir     string // directory of the file backend and default sqlite location
	URL     string // sqlite path, redis:// URL or mongodb:// URI
}

// Open creates the backend described by opts.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileCache(opts.Dir)
	case BackendNone:
		return NewNullCache(), nil
	case BackendSQLite:
		path := opts.URL
		if path == "" {
			path = SQLitePath(opts.Dir)
		}
		return NewSQLiteCache(ctx, path)
	case BackendRedis:
		return NewRedisCache(ctx, opts.URL)
	case BackendMongo:
		return NewMongoCache(ctx, opts.URL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// SQLitePath is the default database location of the sqlite backend in dir.
func SQLitePath(dir string) string {
	return filepath.Join(dir, "cache.db")
}
