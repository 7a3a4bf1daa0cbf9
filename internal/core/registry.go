package core

import (
	"sync"

	"github.com/dop251/goja"
)

// EngineFor returns the Engine for the given test and runtime, creating one if needed.
// Multiple calls with the same TestReporter and runtime return the same Engine, so helpers
// spread across a test share one ledger of substitutions.
//
// If the TestReporter supports Cleanup (like *testing.T), every substitution the engine made
// is restored when the test completes, and the engine is removed from the registry. Options
// only apply when the engine is created.
func EngineFor(t TestReporter, rt *goja.Runtime, options ...Option) *Engine {
	panicIfNilRuntime(rt)

	key := registryKey{t: t, rt: rt}

	registryMu.Lock()
	defer registryMu.Unlock()

	if engine, ok := registry[key]; ok {
		return engine
	}

	engine := NewEngine(rt, options...)
	registry[key] = engine

	if cr, ok := t.(cleanupRegistrar); ok {
		cr.Cleanup(func() {
			registryMu.Lock()
			delete(registry, key)
			registryMu.Unlock()

			if err := engine.RestoreAll(); err != nil {
				reportCleanupError(t, err)
			}
		})
	}

	return engine
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Package-level registry is intentional for test coordination
	registry = make(map[registryKey]*Engine)
	//nolint:gochecknoglobals // Mutex for registry
	registryMu sync.Mutex
)

// cleanupRegistrar is the interface needed for registering cleanup functions.
// This is satisfied by *testing.T and *testing.B.
type cleanupRegistrar interface {
	Cleanup(cleanupFunc func())
}

// errorReporter is satisfied by reporters that can fail a test without stopping it.
type errorReporter interface {
	Errorf(format string, args ...any)
}

type registryKey struct {
	t  TestReporter
	rt *goja.Runtime
}

func reportCleanupError(t TestReporter, err error) {
	t.Helper()

	if er, ok := t.(errorReporter); ok {
		er.Errorf("impjs: restoring mocks at cleanup: %v", err)

		return
	}

	t.Fatalf("impjs: restoring mocks at cleanup: %v", err)
}
