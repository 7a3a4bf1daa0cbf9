package impjs

import (
	"github.com/dop251/goja"
	"github.com/toejough/impjs/internal/core"
)

// ForTest returns the Engine for the given test and runtime, creating one if needed.
// Multiple calls with the same TestReporter and runtime return the same Engine.
//
// If the TestReporter supports Cleanup (like *testing.T), every mock the engine installed is
// restored when the test completes.
func ForTest(t TestReporter, rt *goja.Runtime, options ...Option) *Engine {
	return core.EngineFor(t, rt, options...)
}
