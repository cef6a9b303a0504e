// Package cache stores rendered artifacts between CLI runs.
//
// The graph command renders DOT source to SVG with an embedded Graphviz,
// which is the slowest step in the CLI. Renders are keyed by a hash of
// their DOT source, so an unchanged package renders once.
//
//	c, _ := cache.NewFileCache(dir)
//	key := cache.RenderKey("svg", dot)
//	if svg, ok, _ := c.Get(ctx, key); ok {
//	    return svg
//	}
//
// [NullCache] disables caching without changing call sites.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// RenderKey is the key of a render of source in format.
func RenderKey(format, source string) string {
	return "render:" + format + ":" + Hash([]byte(source))
}
