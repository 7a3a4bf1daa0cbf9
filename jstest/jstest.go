// Package jstest builds goja runtimes for tests and evaluates fixture scripts in them.
package jstest

import (
	"github.com/dop251/goja"
	"github.com/dop251/goja_nodejs/console"
	"github.com/dop251/goja_nodejs/require"
	"go.uber.org/zap"
)

// Tester is a subset of testing.TB.
type Tester interface {
	Fatalf(format string, args ...any)
	Helper()
}

// MustObject evaluates src and returns the resulting object, failing the test if the script
// throws or does not produce an object.
func MustObject(t Tester, rt *goja.Runtime, src string) *goja.Object {
	t.Helper()

	value := MustRun(t, rt, src)

	obj, ok := value.(*goja.Object)
	if !ok {
		t.Fatalf("script produced %v, not an object:\n%s", value, src)

		return nil
	}

	return obj
}

// MustRun evaluates src, failing the test if it throws.
func MustRun(t Tester, rt *goja.Runtime, src string) goja.Value {
	t.Helper()

	value, err := rt.RunString(src)
	if err != nil {
		t.Fatalf("script failed: %v\n%s", err, src)

		return nil
	}

	return value
}

// NewRuntime returns a goja runtime with require() and console enabled. console output goes
// to logger under the name "console"; a nil logger discards it.
func NewRuntime(logger *zap.Logger) *goja.Runtime {
	if logger == nil {
		logger = zap.NewNop()
	}

	rt := goja.New()

	registry := require.NewRegistry()
	registry.RegisterNativeModule(console.ModuleName, console.RequireWithPrinter(printer{log: logger.Named("console")}))
	registry.Enable(rt)
	console.Enable(rt)

	return rt
}

// printer routes console methods to zap levels.
type printer struct {
	log *zap.Logger
}

func (p printer) Error(s string) { p.log.Error(s) }

func (p printer) Log(s string) { p.log.Info(s) }

func (p printer) Warn(s string) { p.log.Warn(s) }
