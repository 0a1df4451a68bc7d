// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about program loading and compilation stages.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the compiler packages
// stay free of any metrics or tracing framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCompileHooks(&myCompileHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Compile().OnBuildStart(ctx, runID, len(prog.Tensors()))
//	// ... build graph ...
//	observability.Compile().OnBuildComplete(ctx, runID, g.NodeCount(), g.EdgeCount(), duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Compile Hooks
// =============================================================================

// CompileHooks receives events from the build → prune → schedule pipeline.
// run identifies one compilation across its events.
type CompileHooks interface {
	// Build events
	OnBuildStart(ctx context.Context, run string, tensors int)
	OnBuildComplete(ctx context.Context, run string, nodes, edges int, duration time.Duration, err error)

	// OnPruneComplete records how many bookkeeping nodes were contracted.
	OnPruneComplete(ctx context.Context, run string, removed, remaining int, duration time.Duration)

	// OnScheduleComplete records the schedule length, or the internal error.
	OnScheduleComplete(ctx context.Context, run string, length int, duration time.Duration, err error)
}

// =============================================================================
// Load Hooks
// =============================================================================

// LoadHooks receives events from reading program descriptions.
type LoadHooks interface {
	// OnLoad records one program file being read and validated.
	OnLoad(ctx context.Context, path, format string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCompileHooks is a no-op implementation of CompileHooks.
type NoopCompileHooks struct{}

func (NoopCompileHooks) OnBuildStart(context.Context, string, int) {}
func (NoopCompileHooks) OnBuildComplete(context.Context, string, int, int, time.Duration, error) {
}
func (NoopCompileHooks) OnPruneComplete(context.Context, string, int, int, time.Duration)      {}
func (NoopCompileHooks) OnScheduleComplete(context.Context, string, int, time.Duration, error) {}

// NoopLoadHooks is a no-op implementation of LoadHooks.
type NoopLoadHooks struct{}

func (NoopLoadHooks) OnLoad(context.Context, string, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	compileHooks CompileHooks = NoopCompileHooks{}
	loadHooks    LoadHooks    = NoopLoadHooks{}
	hooksMu      sync.RWMutex
)

// SetCompileHooks registers custom compile hooks.
// This should be called once at application startup before any compilation.
func SetCompileHooks(h CompileHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		compileHooks = h
	}
}

// SetLoadHooks registers custom load hooks.
func SetLoadHooks(h LoadHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		loadHooks = h
	}
}

// Compile returns the registered compile hooks.
func Compile() CompileHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return compileHooks
}

// Load returns the registered load hooks.
func Load() LoadHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return loadHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	compileHooks = NoopCompileHooks{}
	loadHooks = NoopLoadHooks{}
}
