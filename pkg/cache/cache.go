// Package cache provides byte-level caching for quantized previews.
//
// A [Cache] stores opaque values under string keys with an optional TTL.
// Keys come from a [Keyer] so every backend agrees on their layout:
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.NewDefaultKeyer().PreviewKey(cache.Hash(src), cache.PreviewKeyOpts{WidthMM: 127})
//
// Backends:
//   - [FileCache]: sharded JSON files, used by the CLI
//   - [RedisCache]: shared cache for several machines
//   - [NullCache]: disables caching
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLPreview = 7 * 24 * time.Hour
	TTLInspect = 24 * time.Hour
)

// Cache is a key-value store for encoded images and reports.
//
// Get reports a miss with ok=false and a nil error. Implementations must be
// safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}
