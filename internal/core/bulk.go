package core

import (
	"github.com/cockroachdb/errors"
	"github.com/dop251/goja"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// BulkOption configures SubstituteAll.
type BulkOption func(*bulkConfig) *bulkConfig

// Substitutions is the ordered result of SubstituteAll.
type Substitutions struct {
	records []*Substitution
	byKey   map[string]*Substitution
}

// Keys returns the substituted keys in the order the mocks were installed.
func (s *Substitutions) Keys() []string {
	return lo.Map(s.records, func(sub *Substitution, _ int) string { return sub.Key })
}

// Len returns how many methods were substituted.
func (s *Substitutions) Len() int {
	return len(s.records)
}

// Mock returns the mock installed for key, or nil.
func (s *Substitutions) Mock(key string) *Mock {
	sub, ok := s.byKey[key]
	if !ok {
		return nil
	}

	return sub.Mock
}

// Mocks returns every installed mock by key.
func (s *Substitutions) Mocks() map[string]*Mock {
	return lo.MapValues(s.byKey, func(sub *Substitution, _ string) *Mock { return sub.Mock })
}

// RestoreAll restores every substitution in the order they were made. Repeat calls do nothing.
func (s *Substitutions) RestoreAll() error {
	var err error

	for _, sub := range s.records {
		err = multierr.Append(err, sub.Restore())
	}

	return err
}

// Substitutions returns the individual records, oldest first.
func (s *Substitutions) Substitutions() []*Substitution {
	return append([]*Substitution(nil), s.records...)
}

// IncludeInherited walks every prototype up to the builtin Object/Function prototypes,
// instead of only the immediate one.
func IncludeInherited() BulkOption {
	return func(c *bulkConfig) *bulkConfig {
		c.inherited = true
		return c
	}
}

// IncludeInstanceProperties also substitutes functions held directly by the target, after
// the prototype walk.
func IncludeInstanceProperties() BulkOption {
	return func(c *bulkConfig) *bulkConfig {
		c.instance = true
		return c
	}
}

// WithFilter limits substitution to keys for which keep returns true. The filter runs before
// a property is inspected, so it is also how accessor properties are excluded.
func WithFilter(keep func(key string) bool) BulkOption {
	return func(c *bulkConfig) *bulkConfig {
		c.keep = keep
		return c
	}
}

// SubstituteAll mocks every method target gets from its prototype: the immediate prototype
// only, or the whole chain with IncludeInherited. The builtin Object and Function prototypes
// are never walked. Levels are visited nearest first, keys in goja's own-property order, and
// the constructor slot is skipped. A key already mocked at a nearer level is not mocked again.
//
// An unfiltered getter/setter aborts the call with AccessorError. Mocks installed before it
// stay installed and are returned alongside the error so the caller can restore them.
func (e *Engine) SubstituteAll(target *goja.Object, options ...BulkOption) (*Substitutions, error) {
	panicIfNilTarget(target)

	config := &bulkConfig{keep: func(string) bool { return true }}
	for _, o := range options {
		config = o(config)
	}

	result := &Substitutions{byKey: map[string]*Substitution{}}

	for level := target.Prototype(); level != nil && !e.isRoot(level); level = level.Prototype() {
		if err := e.substituteLevel(target, level, config, result); err != nil {
			return result, err
		}

		if !config.inherited {
			break
		}
	}

	if config.instance {
		if err := e.substituteLevel(target, target, config, result); err != nil {
			return result, err
		}
	}

	e.log.Debug("substituted methods",
		zap.String("type", typeName(target)),
		zap.Strings("keys", result.Keys()),
	)

	return result, nil
}

type bulkConfig struct {
	keep      func(key string) bool
	inherited bool
	instance  bool
}

// substituteLevel mocks the callable own properties of level on target.
func (e *Engine) substituteLevel(target, level *goja.Object, config *bulkConfig, result *Substitutions) error {
	owned := level.SameAs(target)

	for _, key := range ownNames(level) {
		if _, done := result.byKey[key]; done || !config.keep(key) {
			continue
		}

		prop, err := e.ownProperty(level, key)
		if err != nil {
			return err
		}

		if prop.kind == kindAccessor {
			return errors.WithStack(&AccessorError{Key: key, TypeName: typeName(target)})
		}

		if !prop.callable() {
			continue
		}

		replaced, replacedOwn := prop, owned
		if !owned {
			// an own property on target hides the prototype's method; that is what gets
			// replaced and later restored.
			own, err := e.ownProperty(target, key)
			if err != nil {
				return err
			}

			switch own.kind {
			case kindAccessor:
				return errors.WithStack(&AccessorError{Key: key, TypeName: typeName(target)})
			case kindData:
				if !own.callable() {
					continue
				}

				replaced, replacedOwn = own, true
			case kindMissing:
			}
		}

		sub, err := e.install(target, key, replaced, replacedOwn)
		if err != nil {
			return err
		}

		result.records = append(result.records, sub)
		result.byKey[key] = sub
	}

	return nil
}
