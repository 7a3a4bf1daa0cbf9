package core

import "github.com/dop251/goja"

// BoundMocker mocks methods of one target object.
type BoundMocker struct {
	engine *Engine
	target *goja.Object
}

// Bind returns a mocker for target, for tests that replace several of its methods one by one.
func (e *Engine) Bind(target *goja.Object) *BoundMocker {
	panicIfNilTarget(target)

	return &BoundMocker{engine: e, target: target}
}

// MockMethod resolves method on target and substitutes it. method is a property name or the
// function value currently held by the property.
func (e *Engine) MockMethod(target *goja.Object, method any) (*Substitution, error) {
	key, err := e.Resolve(target, method)
	if err != nil {
		return nil, err
	}

	return e.Substitute(target, key)
}

// Mock substitutes method on the bound target.
func (b *BoundMocker) Mock(method any) (*Substitution, error) {
	return b.engine.MockMethod(b.target, method)
}

// MustMock substitutes method on the bound target and returns its mock, failing the test if
// that is not possible.
func (b *BoundMocker) MustMock(t TestReporter, method any) *Mock {
	t.Helper()

	sub, err := b.Mock(method)
	if err != nil {
		t.Fatalf("impjs: mocking %v on %s: %v", method, typeName(b.target), err)

		return nil
	}

	return sub.Mock
}

// Target returns the bound object.
func (b *BoundMocker) Target() *goja.Object {
	return b.target
}

// MockAllMethods substitutes every method target inherits from its prototype, and with
// IncludeInstanceProperties its own functions too. See SubstituteAll for the walk order and
// failure behavior.
func (e *Engine) MockAllMethods(target *goja.Object, options ...BulkOption) (*Substitutions, error) {
	return e.SubstituteAll(target, options...)
}
