package core

import (
	"fmt"
	"strings"

	"github.com/akedrou/textdiff"
)

// TestReporter is the minimal interface impjs needs from test frameworks.
type TestReporter interface {
	Fatalf(format string, args ...any)
	Helper()
}

// ExpectCallCount fails the test unless the mock was called exactly count times.
func (m *Mock) ExpectCallCount(t TestReporter, count int) {
	t.Helper()

	if actual := m.CallCount(); actual != count {
		t.Fatalf("expected %s to be called %d times, but it was called %d times:\n%s",
			m.name, count, actual, formatCalls(m.Calls()))
	}
}

// ExpectCalled fails the test if the mock was never called.
func (m *Mock) ExpectCalled(t TestReporter) {
	t.Helper()

	if m.CallCount() == 0 {
		t.Fatalf("expected %s to be called, but it was not", m.name)
	}
}

// ExpectCalledWith fails the test unless some recorded call matches the expected arguments.
// Each expected value is either a Matcher (gomega matchers work) or a plain value compared
// with the JS argument after both are exported to Go.
func (m *Mock) ExpectCalledWith(t TestReporter, expected ...any) Call {
	t.Helper()

	calls := m.Calls()
	mismatches := make([]string, 0, len(calls))

	for _, call := range calls {
		ok, msg := matchArgs(m.rt, call, expected)
		if ok {
			return call
		}

		mismatches = append(mismatches, msg)
	}

	if len(calls) == 0 {
		t.Fatalf("expected %s to be called with %#v, but it was not called", m.name, expected)

		return Call{}
	}

	last := calls[len(calls)-1]
	diff := textdiff.Unified("expected", "last call", formatArgs(expected), formatArgs(last.Args()))

	t.Fatalf("expected %s to be called with %#v, but no call matched.\n"+
		"mismatches:\n  %s\n"+
		"diff against the last call:\n%s",
		m.name, expected, strings.Join(mismatches, "\n  "), diff)

	return Call{}
}

// ExpectNotCalled fails the test if the mock was called.
func (m *Mock) ExpectNotCalled(t TestReporter) {
	t.Helper()

	if calls := m.Calls(); len(calls) > 0 {
		t.Fatalf("expected %s not to be called, but it was called %d times:\n%s",
			m.name, len(calls), formatCalls(calls))
	}
}

// formatArgs renders one argument per line, for diffing.
func formatArgs(args []any) string {
	var builder strings.Builder

	for i, arg := range args {
		fmt.Fprintf(&builder, "%d: %#v\n", i, arg)
	}

	return builder.String()
}

func formatCalls(calls []Call) string {
	lines := make([]string, len(calls))
	for i, call := range calls {
		lines[i] = fmt.Sprintf("  call %d: %#v", i, call.Args())
	}

	return strings.Join(lines, "\n")
}
