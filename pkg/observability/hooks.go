// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about tree mutations, layout passes, cache operations and
// snapshot persistence.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the core packages stay
// free of observability frameworks.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetMutationHooks(&myMutationHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	start := time.Now()
//	res := layout.Compute(tree)
//	observability.Layout().OnLayout(ctx, "tree", len(res.Nodes), time.Since(start), nil)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Mutation Hooks
// =============================================================================

// MutationHooks receives events from the interaction controller.
type MutationHooks interface {
	// OnMutation records an attempted tree mutation. err is the coded
	// rejection, nil on success.
	OnMutation(ctx context.Context, op string, nodeCount int, err error)

	// OnChange records an onChange notification carrying size bytes.
	OnChange(ctx context.Context, size int)
}

// =============================================================================
// Layout Hooks
// =============================================================================

// LayoutHooks receives events from layout and render passes.
type LayoutHooks interface {
	OnLayout(ctx context.Context, strategy string, nodeCount int, duration time.Duration, err error)
	OnRender(ctx context.Context, format string, size int, duration time.Duration, err error)
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
// Store Hooks
// =============================================================================

// StoreHooks receives events from snapshot persistence.
type StoreHooks interface {
	OnSave(ctx context.Context, backend, id string, size int, duration time.Duration, err error)
	OnLoad(ctx context.Context, backend, id string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopMutationHooks is a no-op implementation of MutationHooks.
type NoopMutationHooks struct{}

func (NoopMutationHooks) OnMutation(context.Context, string, int, error) {}
func (NoopMutationHooks) OnChange(context.Context, int)                  {}

// NoopLayoutHooks is a no-op implementation of LayoutHooks.
type NoopLayoutHooks struct{}

func (NoopLayoutHooks) OnLayout(context.Context, string, int, time.Duration, error) {}
func (NoopLayoutHooks) OnRender(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	mutationHooks MutationHooks = NoopMutationHooks{}
	layoutHooks   LayoutHooks   = NoopLayoutHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	storeHooks    StoreHooks    = NoopStoreHooks{}
	hooksMu       sync.RWMutex
)

// SetMutationHooks registers custom mutation hooks.
func SetMutationHooks(h MutationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		mutationHooks = h
	}
}

// SetLayoutHooks registers custom layout hooks.
func SetLayoutHooks(h LayoutHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		layoutHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetStoreHooks registers custom store hooks.
func SetStoreHooks(h StoreHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		storeHooks = h
	}
}

// Mutation returns the registered mutation hooks.
func Mutation() MutationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return mutationHooks
}

// Layout returns the registered layout hooks.
func Layout() LayoutHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return layoutHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	mutationHooks = NoopMutationHooks{}
	layoutHooks = NoopLayoutHooks{}
	cacheHooks = NoopCacheHooks{}
	storeHooks = NoopStoreHooks{}
}
