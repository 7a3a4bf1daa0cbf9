package core

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinels for the three ways a method reference can be rejected. Errors from goja itself,
// such as defining a property on a frozen object, match none of them.
var (
	ErrAccessor    = errors.New("accessor property cannot be mocked")
	ErrNotCallable = errors.New("property is not callable")
	ErrNotFound    = errors.New("method not found")
)

// AccessorError reports a getter/setter property met during a bulk substitution that the
// caller's filter did not exclude.
type AccessorError struct {
	Key      string
	TypeName string
}

func (e *AccessorError) Error() string {
	return fmt.Sprintf("%s: %q on %s (exclude it with a filter)", ErrAccessor, e.Key, e.TypeName)
}

func (e *AccessorError) Unwrap() error { return ErrAccessor }

// NotCallableError reports a property whose current value is not a function.
// Accessor is set when the property is a getter/setter pair.
type NotCallableError struct {
	Key      string
	TypeName string
	Accessor bool
}

func (e *NotCallableError) Error() string {
	if e.Accessor {
		return fmt.Sprintf("%s: %q on %s is an accessor", ErrNotCallable, e.Key, e.TypeName)
	}

	return fmt.Sprintf("%s: %q on %s", ErrNotCallable, e.Key, e.TypeName)
}

func (e *NotCallableError) Unwrap() error { return ErrNotCallable }

// NotFoundError reports a name or function reference that does not resolve to a property
// reachable from the target. Ref is the name, or the string form of the function.
type NotFoundError struct {
	Ref      string
	TypeName string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s: %s on %s", ErrNotFound, e.Ref, e.TypeName)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }
