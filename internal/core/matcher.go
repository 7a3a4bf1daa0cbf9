package core

import (
	"fmt"
	"reflect"

	"github.com/dop251/goja"
)

// Matcher is the interface for flexible value matching. It is satisfied by gomega matchers.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// MatchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func MatchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %#v, got %#v", expected, actual)
}

// matchArg compares one JS argument against an expected value. Matchers see the exported Go
// value, or the raw goja.Value when they declare they want one. Plain expected values are
// pushed through the runtime first so that, say, a Go int matches a JS number.
func matchArg(rt *goja.Runtime, actual goja.Value, expected any) (bool, string) {
	switch want := expected.(type) {
	case valueMatcher:
		return MatchValue(actual, want)
	case Matcher:
		return MatchValue(exportValue(actual), want)
	case goja.Value:
		if actual != nil && actual.StrictEquals(want) {
			return true, ""
		}

		return MatchValue(exportValue(actual), exportValue(want))
	default:
		return MatchValue(exportValue(actual), exportValue(rt.ToValue(expected)))
	}
}

// matchArgs compares a call's arguments with the expected list, position by position.
func matchArgs(rt *goja.Runtime, call Call, expected []any) (bool, string) {
	if len(call.Values) != len(expected) {
		return false, fmt.Sprintf("expected %d args, got %d", len(expected), len(call.Values))
	}

	for i, want := range expected {
		if ok, msg := matchArg(rt, call.Values[i], want); !ok {
			return false, fmt.Sprintf("arg %d: %s", i, msg)
		}
	}

	return true, ""
}

// valueMatcher marks matchers that inspect the goja.Value itself rather than its export.
type valueMatcher interface {
	Matcher
	MatchesJSValue()
}
