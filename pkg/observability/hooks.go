// Package observability provides hooks for metrics and tracing.
//
// The core packages never import a metrics backend. Instead they emit events
// through the hook interfaces below, and the binary registers a concrete
// implementation at startup (see internal/metrics for the Prometheus one).
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    m := metrics.New(prometheus.NewRegistry())
//	    observability.SetHTTPHooks(m)
//	    observability.SetPluginHooks(m)
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Plugin().OnPluginStart(ctx, "timeline")
//	// ... run plugin ...
//	observability.Plugin().OnPluginComplete(ctx, "timeline", len(alerts), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Plugin Hooks
// =============================================================================

// PluginHooks receives events from the smell engine.
type PluginHooks interface {
	// OnPluginStart is called before a plugin's Setup.
	OnPluginStart(ctx context.Context, plugin string)

	// OnPluginComplete is called after Cleanup, with the number of alerts the
	// plugin produced and the error from Run (if any).
	OnPluginComplete(ctx context.Context, plugin string, alerts int, duration time.Duration, err error)

	// OnAlert is called once per alert raised.
	OnAlert(ctx context.Context, plugin, severity string)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from the in-run response memo.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, namespace string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, namespace string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, namespace string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from registry and git-hosting API calls.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPluginHooks is a no-op implementation of PluginHooks.
type NoopPluginHooks struct{}

func (NoopPluginHooks) OnPluginStart(context.Context, string)                               {}
func (NoopPluginHooks) OnPluginComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPluginHooks) OnAlert(context.Context, string, string)                             {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pluginHooks PluginHooks = NoopPluginHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetPluginHooks registers custom plugin hooks.
// This should be called once at application startup before any evaluation.
func SetPluginHooks(h PluginHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pluginHooks = h
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

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Plugin returns the registered plugin hooks.
func Plugin() PluginHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pluginHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	pluginHooks = NoopPluginHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
