// Package observability provides hooks for metrics, tracing, and logging.
//
// Libraries in topoview emit events through package-level hook registries
// instead of depending on a metrics backend. The binary registers concrete
// hooks at startup; everything defaults to no-ops.
//
// # Usage
//
// Register hooks at application startup:
//
//	observability.Register(observability.LogHooks(logger))
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnRenderStart(ctx, len(nodes))
//	// ... draw ...
//	observability.Pipeline().OnRenderComplete(ctx, len(nodes), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the diagram pipeline.
type PipelineHooks interface {
	// Build events (topology -> nodes)
	OnBuildStart(ctx context.Context, nodeCount int)
	OnBuildComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)

	// Render events (nodes -> scene)
	OnRenderStart(ctx context.Context, nodeCount int)
	OnRenderComplete(ctx context.Context, nodeCount int, duration time.Duration, err error)

	// Layout events
	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)

	// Export events (scene -> bytes)
	OnExport(ctx context.Context, format string, size int, duration time.Duration, err error)
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
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations, e.g. icon fetches.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// Interaction Hooks
// =============================================================================

// InteractionHooks receives events from node shortcuts.
type InteractionHooks interface {
	// OnShortcut records an attempt to open a node shortcut. err is the
	// opener's failure, if any.
	OnShortcut(ctx context.Context, node, url string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnBuildStart(context.Context, int) {}
func (NoopPipelineHooks) OnBuildComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, int)                             {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, int, time.Duration, error)    {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                     {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error) {}
func (NoopPipelineHooks) OnExport(context.Context, string, int, time.Duration, error)    {}

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

// NoopInteractionHooks is a no-op implementation of InteractionHooks.
type NoopInteractionHooks struct{}

func (NoopInteractionHooks) OnShortcut(context.Context, string, string, error) {}

// =============================================================================
// Registry
// =============================================================================

// Hooks bundles one implementation per event family.
type Hooks struct {
	Pipeline    PipelineHooks
	Cache       CacheHooks
	HTTP        HTTPHooks
	Interaction InteractionHooks
}

func noop() Hooks {
	return Hooks{
		Pipeline:    NoopPipelineHooks{},
		Cache:       NoopCacheHooks{},
		HTTP:        NoopHTTPHooks{},
		Interaction: NoopInteractionHooks{},
	}
}

var (
	mu      sync.RWMutex
	current = noop()
)

// Register installs the non-nil fields of h, leaving the other families
// untouched. Call it at startup, before the pipeline runs.
func Register(h Hooks) {
	mu.Lock()
	defer mu.Unlock()
	if h.Pipeline != nil {
		current.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
	if h.HTTP != nil {
		current.HTTP = h.HTTP
	}
	if h.Interaction != nil {
		current.Interaction = h.Interaction
	}
}

// SetPipelineHooks registers pipeline hooks. Nil is ignored.
func SetPipelineHooks(h PipelineHooks) { Register(Hooks{Pipeline: h}) }

// SetCacheHooks registers cache hooks. Nil is ignored.
func SetCacheHooks(h CacheHooks) { Register(Hooks{Cache: h}) }

// SetHTTPHooks registers HTTP hooks. Nil is ignored.
func SetHTTPHooks(h HTTPHooks) { Register(Hooks{HTTP: h}) }

// SetInteractionHooks registers interaction hooks. Nil is ignored.
func SetInteractionHooks(h InteractionHooks) { Register(Hooks{Interaction: h}) }

func load() Hooks {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

func Pipeline() PipelineHooks       { return load().Pipeline }
func Cache() CacheHooks             { return load().Cache }
func HTTP() HTTPHooks               { return load().HTTP }
func Interaction() InteractionHooks { return load().Interaction }

// Reset restores the no-op hooks. Tests use it between cases.
func Reset() {
	mu.Lock()
	current = noop()
	mu.Unlock()
}
