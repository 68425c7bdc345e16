// Package cache provides content-addressed storage for compiled trees,
// layouts, and rendered artifacts.
//
// # Overview
//
// Everything the pipeline produces is a pure function of its inputs: the same
// expression always compiles to the same tree, the same tree and frame
// always produce the same layout, and the same layout and render options
// always produce the same bytes. Keys are therefore hashes of the inputs and
// entries never need invalidation, only expiry.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache
//
// # Keys
//
// A [Keyer] builds keys for each stage. [DefaultKeyer] hashes stage inputs
// with SHA-256; [ScopedKeyer] prefixes every key with a namespace so several
// tenants can share one backend.
//
//	k := cache.NewDefaultKeyer()
//	key := k.LayoutKey(treeHash, cache.LayoutKeyOpts{Width: 800, Height: 600})
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys.
//
// Get reports a miss as (nil, false, nil); errors are reserved for backend
// failures. A ttl of zero means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
