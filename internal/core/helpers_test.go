package core_test

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/toejough/impjs/internal/core"
	"github.com/toejough/impjs/jstest"
	"go.uber.org/zap/zaptest"
)

// callMethod calls obj[key](args...) from Go, failing the test if the call throws.
func callMethod(t *testing.T, rt *goja.Runtime, obj *goja.Object, key string, args ...any) goja.Value {
	t.Helper()

	result, err := tryMethod(rt, obj, key, args...)
	if err != nil {
		t.Fatalf("calling %s: %v", key, err)
	}

	return result
}

// hasOwn reports whether obj has an own property key.
func hasOwn(t *testing.T, rt *goja.Runtime, obj *goja.Object, key string) bool {
	t.Helper()

	objectProto := rt.Get("Object").ToObject(rt).Get("prototype").ToObject(rt)

	hasOwnProperty, ok := goja.AssertFunction(objectProto.Get("hasOwnProperty"))
	if !ok {
		t.Fatal("Object.prototype.hasOwnProperty is not a function")
	}

	result, err := hasOwnProperty(obj, rt.ToValue(key))
	if err != nil {
		t.Fatalf("hasOwnProperty: %v", err)
	}

	return result.ToBoolean()
}

// newEngine returns an engine over a fresh runtime, both logging to the test.
func newEngine(t *testing.T) (*core.Engine, *goja.Runtime) {
	t.Helper()

	logger := zaptest.NewLogger(t)
	rt := jstest.NewRuntime(logger)

	return core.NewEngine(rt, core.WithLogger(logger)), rt
}

// tryMethod calls obj[key](args...) from Go and returns what it returned or threw.
func tryMethod(rt *goja.Runtime, obj *goja.Object, key string, args ...any) (goja.Value, error) {
	fn, ok := goja.AssertFunction(obj.Get(key))
	if !ok {
		return nil, &notAFunctionError{key: key}
	}

	values := make([]goja.Value, len(args))
	for i, arg := range args {
		values[i] = rt.ToValue(arg)
	}

	return fn(obj, values...)
}

type notAFunctionError struct {
	key string
}

func (e *notAFunctionError) Error() string {
	return e.key + " is not a function"
}
