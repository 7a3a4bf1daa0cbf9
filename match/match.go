// Package match provides matchers for use with impjs's ExpectCalledWith.
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/impjs/match"
//	)
//
//	greet.ExpectCalledWith(t, HavePrefix("x"), BeAny, BeFunction())
//
// Plain matchers (BeAny, Satisfy, any gomega matcher) see the argument exported to Go, so JS
// numbers arrive as int64 or float64. BeFunction and BeUndefined look at the JS value itself.
package match

import (
	"errors"
	"fmt"

	"github.com/dop251/goja"
)

// errTypeMismatch is a sentinel error for type assertion failures.
var errTypeMismatch = errors.New("type mismatch")

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// BeFunction matches an argument that is a JS function, such as a callback.
func BeFunction() Matcher {
	return jsMatcher{
		description: "a function",
		match: func(v goja.Value) bool {
			_, ok := goja.AssertFunction(v)
			return ok
		},
	}
}

// BeUndefined matches an argument that is undefined.
func BeUndefined() Matcher {
	return jsMatcher{
		description: "undefined",
		match:       func(v goja.Value) bool { return v == nil || goja.IsUndefined(v) },
	}
}

// Satisfy returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	mock.ExpectCalledWith(t, Satisfy(func(x int64) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	}))
func Satisfy[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

// jsMatcher inspects goja values directly.
type jsMatcher struct {
	description string
	match       func(goja.Value) bool
}

func (m jsMatcher) FailureMessage(actual any) string {
	return fmt.Sprintf("expected %v to be %s", actual, m.description)
}

func (m jsMatcher) Match(actual any) (bool, error) {
	if actual == nil {
		return m.match(nil), nil
	}

	value, ok := actual.(goja.Value)
	if !ok {
		return false, fmt.Errorf("%w: expected goja.Value, got %T", errTypeMismatch, actual)
	}

	return m.match(value), nil
}

// MatchesJSValue asks impjs to hand this matcher the raw goja.Value.
func (jsMatcher) MatchesJSValue() {}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}
