// Package cache stores rendered artifacts keyed by scenario content.
//
// Rendering a large fibre network through Graphviz is the slowest step of the
// CLI, and a scenario file that has not changed always renders to the same
// bytes. The render pipeline therefore keys every artifact by the scenario
// hash plus the render options and consults a [Cache] before calling
// Graphviz.
//
// # Backends
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON entries under a directory, for local CLI use
//   - [RedisCache]: a shared Redis instance
//   - [MongoCache]: a MongoDB collection with a TTL index
//
// Only rendered bytes are cached. Beacon and fibre state always lives in
// memory and is rebuilt from the scenario on every run.
//
// # Keys
//
// A [Keyer] builds keys from a scenario hash and [RenderKeyOpts]. Wrap it in
// a [ScopedKeyer] to give different tools or users separate namespaces.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// TTLRender is the default lifetime of a rendered artifact.
const TTLRender = 7 * 24 * time.Hour

// Cache is a byte store with per-entry expiry.
//
// Get returns (nil, false, nil) on a miss. Backends that talk to a server
// wrap transient failures with [Retryable].
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop every entry at once.
type Clearer interface {
	Clear(ctx context.Context) error
}

// ViewClearer is implemented by backends that can drop the artifacts of one
// view, such as every "beams" drawing, and keep the rest.
type ViewClearer interface {
	ClearView(ctx context.Context, view string) error
}

// checkView rejects view names that cannot be a single key segment or
// directory name.
func checkView(view string) error {
	if view == "" || view == "." || view == ".." || strings.ContainsAny(view, `:/\*?[]`) {
		return fmt.Errorf("%w: %q", ErrInvalidView, view)
	}
	return nil
}

// =============================================================================
// NullCache
// =============================================================================

// NullCache stores nothing. It backs "--no-cache" and the "none" backend, so
// every render goes to Graphviz.
type NullCache struct{}

// NewNullCache returns a cache that always misses.
func NewNullCache() Cache {
	return &NullCache{}
}

func (*NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (*NullCache) Delete(context.Context, string) error { return nil }

func (*NullCache) Close() error { return nil }

var _ Cache = (*NullCache)(nil)
