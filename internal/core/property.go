package core

import (
	"github.com/cockroachdb/errors"
	"github.com/dop251/goja"
	"github.com/samber/lo"
)

// property is a snapshot of one own property descriptor.
type property struct {
	kind         propertyKind
	value        goja.Value
	writable     bool
	enumerable   bool
	configurable bool
}

// callable reports whether the property is a data property holding a function.
func (p property) callable() bool {
	if p.kind != kindData {
		return false
	}

	_, ok := goja.AssertFunction(p.value)

	return ok
}

type propertyKind int

const (
	kindMissing propertyKind = iota
	kindData
	kindAccessor
)

// unexported constants.
const (
	constructorKey = "constructor"
)

// flag converts a descriptor boolean into goja's tri-state flag.
func flag(b bool) goja.Flag {
	if b {
		return goja.FLAG_TRUE
	}

	return goja.FLAG_FALSE
}

// isRoot reports whether obj is one of the builtin prototypes that end a walk.
func (e *Engine) isRoot(obj *goja.Object) bool {
	return lo.ContainsBy(e.roots, func(root *goja.Object) bool { return root.SameAs(obj) })
}

// lookup finds key on obj or the nearest prototype that defines it. The returned holder is
// nil when no object in the chain has the key.
func (e *Engine) lookup(obj *goja.Object, key string) (property, *goja.Object, error) {
	for holder := obj; holder != nil; holder = holder.Prototype() {
		prop, err := e.ownProperty(holder, key)
		if err != nil {
			return property{}, nil, err
		}

		if prop.kind != kindMissing {
			return prop, holder, nil
		}
	}

	return property{}, nil, nil
}

// ownNames lists obj's own string keys in goja's property order, without the constructor slot.
func ownNames(obj *goja.Object) []string {
	return lo.Without(obj.GetOwnPropertyNames(), constructorKey)
}

// ownProperty reads obj's own descriptor for key without invoking any getter.
func (e *Engine) ownProperty(obj *goja.Object, key string) (property, error) {
	raw, err := e.getOwnPropertyDescriptor(goja.Undefined(), obj, e.rt.ToValue(key))
	if err != nil {
		return property{}, errors.Wrapf(err, "reading descriptor of %q", key)
	}

	if raw == nil || goja.IsUndefined(raw) || goja.IsNull(raw) {
		return property{}, nil
	}

	desc := raw.ToObject(e.rt)
	prop := property{
		enumerable:   desc.Get("enumerable").ToBoolean(),
		configurable: desc.Get("configurable").ToBoolean(),
	}

	// accessor descriptors always carry both get and set, data descriptors neither.
	if desc.Get("get") != nil || desc.Get("set") != nil {
		prop.kind = kindAccessor

		return prop, nil
	}

	prop.kind = kindData
	prop.value = desc.Get("value")
	prop.writable = desc.Get("writable").ToBoolean()

	return prop, nil
}

// typeName names obj for diagnostics: a function's own name, else its constructor's name,
// else goja's class name.
func typeName(obj *goja.Object) string {
	if _, ok := goja.AssertFunction(obj); ok {
		if name := stringProp(obj, "name"); name != "" {
			return name
		}
	}

	if ctor, ok := obj.Get(constructorKey).(*goja.Object); ok {
		if name := stringProp(ctor, "name"); name != "" {
			return name
		}
	}

	return obj.ClassName()
}

// stringProp returns obj[key] as a string, or "" when it is absent or not a string.
func stringProp(obj *goja.Object, key string) string {
	value := obj.Get(key)
	if value == nil || goja.IsUndefined(value) || goja.IsNull(value) {
		return ""
	}

	if _, ok := value.Export().(string); !ok {
		return ""
	}

	return value.String()
}
