// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks
// at startup to receive events about lacing runs and cache operations.
//
// # Architecture
//
// Hook interfaces are defined per event category, each with a no-op default.
// Registration happens in main, never in libraries, which keeps the library
// packages free of backend imports and avoids import cycles.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetLaceHooks(&myLaceHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Lace().OnBlockStart(ctx, index, source)
//	// ... load and fold the block ...
//	observability.Lace().OnBlockComplete(ctx, index, source, nodes, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Lace Hooks
// =============================================================================

// LaceHooks receives events from a lacing run.
type LaceHooks interface {
	// Block events, one pair per input block in input order.
	OnBlockStart(ctx context.Context, index int, source string)
	OnBlockComplete(ctx context.Context, index int, source string, nodes int, duration time.Duration, err error)

	// OnOverlap reports two ranges of one locus that share coordinates.
	// first and second are rendered as [start,end).
	OnOverlap(ctx context.Context, locus, first, second string)

	// OnLaceComplete fires after paths are built, before the graph is written.
	OnLaceComplete(ctx context.Context, paths, newEdges int, duration time.Duration, err error)

	// OnWriteComplete fires after the combined graph is serialized.
	OnWriteComplete(ctx context.Context, output string, size int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopLaceHooks is a no-op implementation of LaceHooks.
type NoopLaceHooks struct{}

func (NoopLaceHooks) OnBlockStart(context.Context, int, string) {}
func (NoopLaceHooks) OnBlockComplete(context.Context, int, string, int, time.Duration, error) {
}
func (NoopLaceHooks) OnOverlap(context.Context, string, string, string)                {}
func (NoopLaceHooks) OnLaceComplete(context.Context, int, int, time.Duration, error)    {}
func (NoopLaceHooks) OnWriteComplete(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	laceHooks  LaceHooks  = NoopLaceHooks{}
	cacheHooks CacheHooks = NoopCacheHooks{}
	hooksMu    sync.RWMutex
)

// SetLaceHooks registers custom lace hooks. Call it once at startup; nil is
// ignored.
func SetLaceHooks(h LaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		laceHooks = h
	}
}

// SetCacheHooks registers custom cache hooks. Call it once at startup; nil is
// ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Lace returns the registered lace hooks.
func Lace() LaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return laceHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	laceHooks = NoopLaceHooks{}
	cacheHooks = NoopCacheHooks{}
}
