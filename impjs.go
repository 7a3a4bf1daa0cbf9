// Package impjs replaces methods of goja JavaScript objects with recording mocks in tests,
// and puts the originals back afterwards.
//
// A method is named either by its key or by the function value it currently holds:
//
//	engine := impjs.ForTest(t, rt)
//	greeter := jstest.MustObject(t, rt, `({ greet(name) { return "hi " + name } })`)
//
//	sub, err := engine.MockMethod(greeter, greeter.Get("greet"))
//	sub.Mock.Return("mocked")
//	...
//	sub.Restore()
//
// Mocks are always defined on the target object itself. An inherited method is shadowed on
// that one instance, and the prototype it came from is never changed.
//
// This is the public API entry point. Implementation lives in internal/core.
package impjs

import (
	"github.com/dop251/goja"
	"github.com/toejough/impjs/internal/core"
	"go.uber.org/zap"
)

// AccessorError reports a getter/setter property met by MockAllMethods.
type AccessorError = core.AccessorError

// BoundMocker mocks methods of one target object.
type BoundMocker = core.BoundMocker

// BulkOption configures MockAllMethods.
type BulkOption = core.BulkOption

// Call is one recorded invocation of a mock.
type Call = core.Call

// Engine installs mocks on the objects of one goja runtime.
type Engine = core.Engine

// Matcher defines the interface for flexible value matching.
type Matcher = core.Matcher

// Mock is the recording function installed in place of a method.
type Mock = core.Mock

// NotCallableError reports a property whose value is not a function.
type NotCallableError = core.NotCallableError

// NotFoundError reports a method reference that resolves to no property.
type NotFoundError = core.NotFoundError

// Option configures an Engine.
type Option = core.Option

// Substitution is one installed mock and the means to undo it.
type Substitution = core.Substitution

// Substitutions is the ordered result of MockAllMethods.
type Substitutions = core.Substitutions

// TestReporter is the minimal interface impjs needs from test frameworks.
type TestReporter = core.TestReporter

// Error sentinels, for errors.Is.
var (
	ErrAccessor    = core.ErrAccessor
	ErrNotCallable = core.ErrNotCallable
	ErrNotFound    = core.ErrNotFound
)

// IncludeInherited makes MockAllMethods walk the whole prototype chain.
func IncludeInherited() BulkOption {
	return core.IncludeInherited()
}

// IncludeInstanceProperties makes MockAllMethods also mock functions held by the target itself.
func IncludeInstanceProperties() BulkOption {
	return core.IncludeInstanceProperties()
}

// MatchValue checks if actual matches expected.
func MatchValue(actual, expected any) (bool, string) {
	return core.MatchValue(actual, expected)
}

// New creates an Engine for rt. Prefer ForTest inside tests.
func New(rt *goja.Runtime, options ...Option) *Engine {
	return core.NewEngine(rt, options...)
}

// WithFilter limits MockAllMethods to keys for which keep returns true.
func WithFilter(keep func(key string) bool) BulkOption {
	return core.WithFilter(keep)
}

// WithLogger sets the logger for debug output about substitutions.
func WithLogger(logger *zap.Logger) Option {
	return core.WithLogger(logger)
}
