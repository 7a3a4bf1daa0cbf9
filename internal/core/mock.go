package core

import (
	"slices"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dop251/goja"
)

// Call is one recorded invocation of a mock.
type Call struct {
	This   goja.Value
	Values []goja.Value
}

// Args returns the call's arguments exported to Go values.
func (c Call) Args() []any {
	if len(c.Values) == 0 {
		return nil
	}

	args := make([]any, len(c.Values))
	for i, v := range c.Values {
		args[i] = exportValue(v)
	}

	return args
}

// Mock is the function installed in place of a real method. It records every call and
// answers with whatever it was last configured to do. Answers queued with the *Once
// methods are used first, in order.
//
// An unconfigured mock returns undefined.
type Mock struct {
	rt       *goja.Runtime
	name     string
	original goja.Value
	fn       *goja.Object

	mu       sync.Mutex
	calls    []Call
	once     []answer
	fallback answer
}

// CallCount returns how many times the mock has been called.
func (m *Mock) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.calls)
}

// CallThrough makes the mock delegate to the method it replaced, with the same this and
// arguments. Calls are still recorded.
func (m *Mock) CallThrough() *Mock {
	return m.setFallback(m.callOriginal)
}

// Calls returns a copy of the recorded calls, oldest first.
func (m *Mock) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.calls)
}

// Function returns the JS function object that is installed on the target.
func (m *Mock) Function() *goja.Object {
	return m.fn
}

// Implement makes the mock answer with fn.
func (m *Mock) Implement(fn func(call goja.FunctionCall) goja.Value) *Mock {
	return m.setFallback(fn)
}

// ImplementOnce queues fn as the answer to the next unanswered call.
func (m *Mock) ImplementOnce(fn func(call goja.FunctionCall) goja.Value) *Mock {
	return m.queue(fn)
}

// LastCall returns the most recent call, and false if there has been none.
func (m *Mock) LastCall() (Call, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.calls) == 0 {
		return Call{}, false
	}

	return m.calls[len(m.calls)-1], true
}

// Name returns the key the mock was installed under.
func (m *Mock) Name() string {
	return m.name
}

// Original returns the value the mock replaced.
func (m *Mock) Original() goja.Value {
	return m.original
}

// Reject makes the mock return a promise rejected with reason. Go errors become JS errors.
func (m *Mock) Reject(reason any) *Mock {
	return m.setFallback(func(goja.FunctionCall) goja.Value { return m.settled(reason, true) })
}

// RejectOnce queues a rejected promise as the answer to the next unanswered call.
func (m *Mock) RejectOnce(reason any) *Mock {
	return m.queue(func(goja.FunctionCall) goja.Value { return m.settled(reason, true) })
}

// Reset forgets recorded calls and configured answers.
func (m *Mock) Reset() *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = nil
	m.once = nil
	m.fallback = nil

	return m
}

// Resolve makes the mock return a promise resolved with value.
func (m *Mock) Resolve(value any) *Mock {
	return m.setFallback(func(goja.FunctionCall) goja.Value { return m.settled(value, false) })
}

// ResolveOnce queues a resolved promise as the answer to the next unanswered call.
func (m *Mock) ResolveOnce(value any) *Mock {
	return m.queue(func(goja.FunctionCall) goja.Value { return m.settled(value, false) })
}

// Return makes the mock return value.
func (m *Mock) Return(value any) *Mock {
	return m.setFallback(func(goja.FunctionCall) goja.Value { return m.toJS(value) })
}

// ReturnOnce queues value as the answer to the next unanswered call.
func (m *Mock) ReturnOnce(value any) *Mock {
	return m.queue(func(goja.FunctionCall) goja.Value { return m.toJS(value) })
}

// Throw makes the mock throw value into the calling script. Go errors become JS errors.
func (m *Mock) Throw(value any) *Mock {
	return m.setFallback(func(goja.FunctionCall) goja.Value { panic(m.toJS(value)) })
}

// ThrowOnce queues a throw as the answer to the next unanswered call.
func (m *Mock) ThrowOnce(value any) *Mock {
	return m.queue(func(goja.FunctionCall) goja.Value { panic(m.toJS(value)) })
}

type answer func(call goja.FunctionCall) goja.Value

// callOriginal invokes the replaced method.
func (m *Mock) callOriginal(call goja.FunctionCall) goja.Value {
	original, ok := goja.AssertFunction(m.original)
	if !ok {
		panic(m.rt.NewTypeError("impjs: original %s is not callable", m.name))
	}

	result, err := original(call.This, call.Arguments...)
	if err != nil {
		var ex *goja.Exception
		if errors.As(err, &ex) {
			panic(ex)
		}

		panic(m.rt.NewGoError(err))
	}

	return result
}

// invoke is the native body of the installed function.
func (m *Mock) invoke(call goja.FunctionCall) goja.Value {
	m.mu.Lock()
	m.calls = append(m.calls, Call{This: call.This, Values: slices.Clone(call.Arguments)})

	respond := m.fallback
	if len(m.once) > 0 {
		respond = m.once[0]
		m.once = m.once[1:]
	}
	m.mu.Unlock()

	if respond == nil {
		return goja.Undefined()
	}

	return respond(call)
}

func (m *Mock) queue(respond answer) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.once = append(m.once, respond)

	return m
}

func (m *Mock) setFallback(respond answer) *Mock {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.fallback = respond

	return m
}

// settled returns a promise already resolved or rejected with value.
func (m *Mock) settled(value any, rejected bool) goja.Value {
	promise, resolve, reject := m.rt.NewPromise()

	settle := resolve
	if rejected {
		settle = reject
	}

	if err := settle(m.toJS(value)); err != nil {
		panic(m.rt.NewGoError(err))
	}

	return m.rt.ToValue(promise)
}

// toJS converts a configured Go value for the runtime. Errors become JS Error objects.
func (m *Mock) toJS(value any) goja.Value {
	if err, ok := value.(error); ok {
		return m.rt.NewGoError(err)
	}

	return m.rt.ToValue(value)
}

// exportValue exports v to Go. A missing value exports as nil, like undefined.
func exportValue(v goja.Value) any {
	if v == nil {
		return nil
	}

	return v.Export()
}

// newMock builds the JS function for a mock of key that replaces original.
func newMock(rt *goja.Runtime, key string, original goja.Value) *Mock {
	mock := &Mock{rt: rt, name: key, original: original}
	mock.fn = rt.ToValue(mock.invoke).ToObject(rt)

	// native functions are named after the Go method; name it after the key for JS stack
	// traces. name is configurable, so this cannot fail.
	_ = mock.fn.DefineDataProperty("name", rt.ToValue(key), goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)

	return mock
}
