package core

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Resolve turns a method reference into a property key on target.
//
// A string is returned unchanged; whether it exists is checked when substituting. A function
// value is searched for among target's own properties, then the own properties of each
// prototype, nearest first. Within one object, keys are checked in goja's own-property order,
// and the first data property holding that exact function object wins. Accessor properties
// are skipped without calling their getters.
//
// Any other Go type is a programmer error and panics.
func (e *Engine) Resolve(target *goja.Object, method any) (string, error) {
	panicIfNilTarget(target)

	switch ref := method.(type) {
	case string:
		return ref, nil
	case goja.Value:
		return e.resolveValue(target, ref)
	default:
		panic(fmt.Sprintf("impjs: method must be a string or a goja function value, received %T", method))
	}
}

// resolveValue finds the key whose value is ref.
func (e *Engine) resolveValue(target *goja.Object, ref goja.Value) (string, error) {
	if _, ok := goja.AssertFunction(ref); !ok {
		return "", errors.WithStack(&NotFoundError{Ref: describeRef(ref), TypeName: typeName(target)})
	}

	for holder := target; holder != nil; holder = holder.Prototype() {
		for _, key := range holder.GetOwnPropertyNames() {
			prop, err := e.ownProperty(holder, key)
			if err != nil {
				return "", err
			}

			if prop.kind == kindData && ref.SameAs(prop.value) {
				e.log.Debug("resolved method reference",
					zap.String("key", key),
					zap.String("type", typeName(target)),
				)

				return key, nil
			}
		}
	}

	return "", errors.WithStack(&NotFoundError{Ref: describeRef(ref), TypeName: typeName(target)})
}

// describeRef gives a short string form of a reference for error messages.
func describeRef(ref goja.Value) string {
	if ref == nil {
		return "<nil>"
	}

	if obj, ok := ref.(*goja.Object); ok {
		if _, isFunc := goja.AssertFunction(obj); isFunc {
			if name := stringProp(obj, "name"); name != "" {
				return "function " + name
			}

			return "anonymous function"
		}
	}

	return ref.String()
}
