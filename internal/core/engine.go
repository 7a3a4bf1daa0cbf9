package core

import (
	"fmt"
	"sync"

	"github.com/dop251/goja"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Engine installs mocks on the objects of a single goja runtime and remembers every
// substitution it made, so that they can all be undone together.
//
// goja runtimes are not goroutine safe, and neither is the substitution work: use an Engine
// from the goroutine that owns its runtime.
type Engine struct {
	rt  *goja.Runtime
	log *zap.Logger

	// captured at construction so that tests mocking Object/Function builtins cannot
	// change how the engine inspects properties.
	getOwnPropertyDescriptor goja.Callable
	roots                    []*goja.Object

	mu     sync.Mutex
	ledger []*Substitution
}

// Option configures an Engine.
type Option func(*Engine) *Engine

// NewEngine creates an Engine for the given runtime.
func NewEngine(rt *goja.Runtime, options ...Option) *Engine {
	panicIfNilRuntime(rt)

	objectCtor := rt.Get("Object").ToObject(rt)

	getOwnPropertyDescriptor, ok := goja.AssertFunction(objectCtor.Get("getOwnPropertyDescriptor"))
	if !ok {
		panic("impjs: Object.getOwnPropertyDescriptor is not a function in this runtime")
	}

	engine := &Engine{
		rt:                       rt,
		log:                      zap.NewNop(),
		getOwnPropertyDescriptor: getOwnPropertyDescriptor,
		roots: []*goja.Object{
			objectCtor.Get("prototype").ToObject(rt),
			rt.Get("Function").ToObject(rt).Get("prototype").ToObject(rt),
		},
	}

	for _, o := range options {
		engine = o(engine)
	}

	return engine
}

// WithLogger sets the logger used for debug output about substitutions.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) *Engine {
		if logger != nil {
			e.log = logger
		}

		return e
	}
}

// RestoreAll restores every substitution this engine has made that is still installed.
// Substitutions are undone most recent first, so stacked mocks of one key unwind to the
// original.
func (e *Engine) RestoreAll() error {
	e.mu.Lock()
	ledger := e.ledger
	e.ledger = nil
	e.mu.Unlock()

	var err error

	for i := len(ledger) - 1; i >= 0; i-- {
		err = multierr.Append(err, ledger[i].Restore())
	}

	e.log.Debug("restored all substitutions", zap.Int("count", len(ledger)), zap.Error(err))

	return err
}

// Runtime returns the runtime whose objects this engine mutates.
func (e *Engine) Runtime() *goja.Runtime {
	return e.rt
}

// record adds a substitution to the engine-wide ledger.
func (e *Engine) record(sub *Substitution) {
	e.mu.Lock()
	e.ledger = append(e.ledger, sub)
	e.mu.Unlock()
}

// panicIfNilRuntime panics if the engine would have no runtime to work with.
func panicIfNilRuntime(rt *goja.Runtime) {
	if rt == nil {
		panic("impjs: a goja runtime is required")
	}
}

// panicIfNilTarget panics if the target object is missing.
func panicIfNilTarget(target *goja.Object) {
	if target == nil {
		panic(fmt.Sprintf("impjs: target must be a non-nil %T", target))
	}
}
