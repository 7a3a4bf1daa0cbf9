package core

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/dop251/goja"
	"go.uber.org/zap"
)

// Substitution is one mock installed on one object. Restore puts the original back.
type Substitution struct {
	Key    string
	Target *goja.Object
	Mock   *Mock

	owned    bool
	original property
	log      *zap.Logger

	once sync.Once
	err  error
}

// Restore undoes the substitution. An own property gets its original value and flags back;
// an inherited method becomes visible again once the instance shadow is deleted. Only the
// first call does anything; later calls return the first call's result.
//
// Substitutions stacked on one key of one target must be restored newest first, as
// Engine.RestoreAll does; restoring an older one first reinstalls the mock it replaced.
func (s *Substitution) Restore() error {
	s.once.Do(func() {
		if s.owned {
			s.err = s.Target.DefineDataProperty(s.Key, s.original.value,
				flag(s.original.writable), flag(s.original.configurable), flag(s.original.enumerable))
		} else {
			s.err = s.Target.Delete(s.Key)
		}

		if s.err != nil {
			s.err = errors.Wrapf(s.err, "restoring %q", s.Key)
		}

		s.log.Debug("restored method", zap.String("key", s.Key), zap.Bool("own", s.owned), zap.Error(s.err))
	})

	return s.err
}

// Substitute installs a fresh mock at key on target.
//
// The key must reach a data property holding a function, on target itself or anywhere up its
// prototype chain; otherwise NotFoundError or NotCallableError is returned and target is left
// untouched. The mock is always defined on target itself, shadowing an inherited method rather
// than changing the prototype, so other objects sharing that prototype are unaffected.
func (e *Engine) Substitute(target *goja.Object, key string) (*Substitution, error) {
	panicIfNilTarget(target)

	prop, holder, err := e.lookup(target, key)
	if err != nil {
		return nil, err
	}

	switch {
	case holder == nil:
		return nil, errors.WithStack(&NotFoundError{Ref: key, TypeName: typeName(target)})
	case prop.kind == kindAccessor:
		return nil, errors.WithStack(&NotCallableError{Key: key, TypeName: typeName(target), Accessor: true})
	case !prop.callable():
		return nil, errors.WithStack(&NotCallableError{Key: key, TypeName: typeName(target)})
	}

	return e.install(target, key, prop, holder.SameAs(target))
}

// install defines the mock on target. prop is the property being replaced and owned says
// whether it lives on target itself.
func (e *Engine) install(target *goja.Object, key string, prop property, owned bool) (*Substitution, error) {
	mock := newMock(e.rt, key, prop.value)

	// own properties keep their flags; new shadows are hidden from enumeration like class methods.
	writable, configurable, enumerable := true, true, false
	if owned {
		writable, configurable, enumerable = prop.writable, prop.configurable, prop.enumerable
	}

	err := target.DefineDataProperty(key, mock.Function(), flag(writable), flag(configurable), flag(enumerable))
	if err != nil {
		return nil, errors.Wrapf(err, "installing mock for %q on %s", key, typeName(target))
	}

	sub := &Substitution{
		Key:      key,
		Target:   target,
		Mock:     mock,
		owned:    owned,
		original: prop,
		log:      e.log,
	}
	e.record(sub)

	e.log.Debug("substituted method",
		zap.String("key", key),
		zap.String("type", typeName(target)),
		zap.Bool("own", owned),
	)

	return sub, nil
}
