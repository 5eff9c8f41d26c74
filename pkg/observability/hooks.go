// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries emit events through the hooks registered here instead of
// importing a backend. The defaults are no-ops; the CLI registers
// implementations that forward events to its logger.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSnapHooks(&mySnapHooks{})
//	    observability.SetStoreHooks(&myStoreHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Persist().OnDeserialize(len(records), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Snap Hooks
// =============================================================================

// SnapHooks receives events from the snap engine. Calls happen on the
// event loop during a drag, so implementations must return quickly.
type SnapHooks interface {
	// OnSnap records an attach, detach or attached decision.
	OnSnap(action, connector, grip, target string)

	// OnFlush records how many snap actions a gesture left in the undo log.
	OnFlush(recorded int)
}

// =============================================================================
// Persist Hooks
// =============================================================================

// PersistHooks receives events from serialization.
type PersistHooks interface {
	OnSerialize(records int, duration time.Duration)
	OnDeserialize(records int, duration time.Duration, err error)
}

// =============================================================================
// Store Hooks
// =============================================================================

// StoreHooks receives events from document stores.
type StoreHooks interface {
	// OnSave records a document write.
	OnSave(ctx context.Context, backend, name string, size int, duration time.Duration, err error)

	// OnLoad records a document read.
	OnLoad(ctx context.Context, backend, name string, duration time.Duration, err error)

	// OnRetry records a failed connection attempt that will be retried.
	OnRetry(ctx context.Context, backend string, attempt int, err error)
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

// NoopSnapHooks is a no-op implementation of SnapHooks.
type NoopSnapHooks struct{}

func (NoopSnapHooks) OnSnap(string, string, string, string) {}
func (NoopSnapHooks) OnFlush(int)                           {}

// NoopPersistHooks is a no-op implementation of PersistHooks.
type NoopPersistHooks struct{}

func (NoopPersistHooks) OnSerialize(int, time.Duration)          {}
func (NoopPersistHooks) OnDeserialize(int, time.Duration, error) {}

// NoopStoreHooks is a no-op implementation of StoreHooks.
type NoopStoreHooks struct{}

func (NoopStoreHooks) OnSave(context.Context, string, string, int, time.Duration, error) {}
func (NoopStoreHooks) OnLoad(context.Context, string, string, time.Duration, error)      {}
func (NoopStoreHooks) OnRetry(context.Context, string, int, error)                       {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	snapHooks    SnapHooks    = NoopSnapHooks{}
	persistHooks PersistHooks = NoopPersistHooks{}
	storeHooks   StoreHooks   = NoopStoreHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
	hooksMu      sync.RWMutex
)

// SetSnapHooks registers custom snap hooks.
// This should be called once at application startup.
func SetSnapHooks(h SnapHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		snapHooks = h
	}
}

// SetPersistHooks registers custom persist hooks.
func SetPersistHooks(h PersistHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		persistHooks = h
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

// SetCacheHooks registers custom cache hooks.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Snap returns the registered snap hooks.
func Snap() SnapHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return snapHooks
}

// Persist returns the registered persist hooks.
func Persist() PersistHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return persistHooks
}

// Store returns the registered store hooks.
func Store() StoreHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return storeHooks
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
	snapHooks = NoopSnapHooks{}
	persistHooks = NoopPersistHooks{}
	storeHooks = NoopStoreHooks{}
	cacheHooks = NoopCacheHooks{}
}
