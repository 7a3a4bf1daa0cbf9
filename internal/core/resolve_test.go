package core_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/dop251/goja"
	. "github.com/onsi/gomega"
	"github.com/toejough/impjs/internal/core"
	"github.com/toejough/impjs/jstest"
)

func TestResolve_AccessorIsSkippedWithoutCallingGetter(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	jstest.MustRun(t, rt, `
		var getterCalls = 0;
		function target() {}
		var holder = { get g() { getterCalls++; return target; } };
	`)
	holder := rt.Get("holder").ToObject(rt)

	_, err := engine.Resolve(holder, rt.Get("target"))

	g.Expect(err).To(MatchError(core.ErrNotFound))
	g.Expect(rt.Get("getterCalls").ToInteger()).To(BeZero(), "resolution must not invoke getters")
}

func TestResolve_InheritedFromGrandparent(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	child := jstest.MustObject(t, rt, `
		class Base { f() { return 1 } }
		class Middle extends Base {}
		class Child extends Middle {}
		new Child()
	`)

	key, err := engine.Resolve(child, child.Get("f"))

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key).To(Equal("f"))
}

func TestResolve_NameIsPassedThrough(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	obj := jstest.MustObject(t, rt, `({})`)

	key, err := engine.Resolve(obj, "doesNotExist")

	g.Expect(err).NotTo(HaveOccurred(), "names are only checked at substitution")
	g.Expect(key).To(Equal("doesNotExist"))
}

func TestResolve_NonFunctionReferenceIsNotFound(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	obj := jstest.MustObject(t, rt, `({ count: 3 })`)

	_, err := engine.Resolve(obj, obj.Get("count"))

	g.Expect(err).To(MatchError(core.ErrNotFound))
}

func TestResolve_OwnBeforePrototype(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	obj := jstest.MustObject(t, rt, `
		class Greeter { greet() { return "hi" } }
		const greeter = new Greeter();
		greeter.alias = greeter.greet;
		greeter
	`)

	key, err := engine.Resolve(obj, obj.Get("greet"))

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key).To(Equal("alias"), "own properties are searched before the prototype")
}

func TestResolve_OwnMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	obj := jstest.MustObject(t, rt, `({ greet(name) { return "hi " + name } })`)

	key, err := engine.Resolve(obj, obj.Get("greet"))

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key).To(Equal("greet"))
}

func TestResolve_PrototypeMethod(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	obj := jstest.MustObject(t, rt, `
		class Greeter { greet() { return "hi" } }
		new Greeter()
	`)

	key, err := engine.Resolve(obj, obj.Get("greet"))

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key).To(Equal("greet"))
}

func TestResolve_SameFunctionTwiceUsesPropertyOrder(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	jstest.MustRun(t, rt, `
		function shared() {}
		var twice = { second: shared, first: shared };
	`)

	key, err := engine.Resolve(rt.Get("twice").ToObject(rt), rt.Get("shared"))

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(key).To(Equal("second"), "the first key in own-property order wins")
}

func TestResolve_UnknownFunctionIsNotFound(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	jstest.MustRun(t, rt, `
		function stray() {}
		class Service { run() {} }
		var service = new Service();
	`)

	_, err := engine.Resolve(rt.Get("service").ToObject(rt), rt.Get("stray"))

	g.Expect(err).To(MatchError(core.ErrNotFound))

	var notFound *core.NotFoundError

	g.Expect(errors.As(err, &notFound)).To(BeTrue())
	g.Expect(notFound.Ref).To(Equal("function stray"))
	g.Expect(notFound.TypeName).To(Equal("Service"))
}

func TestResolve_UnsupportedReferencePanics(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	engine, rt := newEngine(t)
	obj := jstest.MustObject(t, rt, `({ f() {} })`)

	g.Expect(func() { _, _ = engine.Resolve(obj, 42) }).To(Panic())
	g.Expect(func() { _, _ = engine.Resolve(nil, "f") }).To(Panic())
	g.Expect(func() { _, _ = engine.Resolve(obj, goja.Value(nil)) }).To(Panic())
}
