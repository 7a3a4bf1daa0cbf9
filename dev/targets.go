//go:build targ

package main

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/akedrou/textdiff"
	"github.com/toejough/go-reorder"
	"github.com/toejough/targ"
	"github.com/toejough/targ/sh"
)

// Check tidies, reorders, tests and lints, fixing what it can.
func Check() error {
	fmt.Println("Checking...")

	return targ.Deps(
		Tidy,
		ReorderDecls,
		CheckCoverage,
		Lint,
	)
}

// CheckCoverage fails if any function is below the coverage floor.
func CheckCoverage() error {
	fmt.Println("Checking coverage...")

	if err := targ.Deps(Test); err != nil {
		return err
	}

	out, err := output("go", "tool", "cover", "-func=coverage.out")
	if err != nil {
		return err
	}

	const floor = 80.0

	percent := regexp.MustCompile(`(\d+\.\d)%$`)
	lowest := ""
	lowestPercent := 100.0

	for _, line := range strings.Split(out, "\n") {
		m := percent.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil || strings.HasPrefix(line, "total:") {
			continue
		}

		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return err
		}

		if value < lowestPercent {
			lowest, lowestPercent = line, value
		}
	}

	if lowestPercent < floor {
		return fmt.Errorf("function coverage below %.1f%%:\n  %s", floor, lowest)
	}

	return nil
}

// CheckForFail runs every check without fixing anything, fastest first.
func CheckForFail() error {
	fmt.Println("Checking for failures...")

	return targ.Deps(
		ReorderDeclsCheck,
		Lint,
		TestForFail,
		CheckCoverage,
	)
}

// Lint runs golangci-lint.
func Lint() error {
	fmt.Println("Linting...")
	return sh.Run("golangci-lint", "run")
}

// Mutate runs the ooze mutation suite in dev/.
func Mutate() error {
	fmt.Println("Running mutation tests...")

	if err := targ.Deps(TestForFail); err != nil {
		return err
	}

	return sh.Run("go", "test", "-timeout=6000s", "-tags=mutation", "-ooze.v", "./dev/...", "-run=TestMutation")
}

// ReorderDecls rewrites source files into go-reorder's declaration order.
func ReorderDecls() error {
	fmt.Println("Reordering declarations...")

	return eachOutOfOrder(func(path, _, reordered string) error {
		fmt.Printf("  Reordered: %s\n", path)
		return os.WriteFile(path, []byte(reordered), 0o600)
	})
}

// ReorderDeclsCheck reports files whose declarations are out of order, with a diff.
func ReorderDeclsCheck() error {
	fmt.Println("Checking declaration order...")

	count := 0

	err := eachOutOfOrder(func(path, current, reordered string) error {
		count++

		fmt.Println(textdiff.Unified(path+" (current)", path+" (reordered)", current, reordered))

		return nil
	})
	if err != nil {
		return err
	}

	if count > 0 {
		return fmt.Errorf("%d file(s) need reordering; run 'targ reorder-decls'", count)
	}

	return nil
}

// Test runs the tests with the race detector and writes coverage.out.
func Test() error {
	fmt.Println("Running unit tests...")

	return sh.Run("go", "test", "-timeout=2m", "-race", "-count=1",
		"-coverprofile=coverage.out", "-coverpkg=./...", "./...")
}

// TestForFail runs the tests, stopping at the first failure.
func TestForFail() error {
	fmt.Println("Running unit tests for pass/fail...")
	return sh.Run("go", "test", "-timeout=30s", "-failfast", "./...")
}

// Tidy tidies go.mod.
func Tidy() error {
	fmt.Println("Tidying go.mod...")
	return sh.Run("go", "mod", "tidy")
}

// eachOutOfOrder calls visit for every hand-written Go file go-reorder would change.
// The pack under _examples/ and hidden directories are skipped.
func eachOutOfOrder(visit func(path, current, reordered string) error) error {
	return filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != "." && (strings.HasPrefix(d.Name(), "_") || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}

			return nil
		}

		if filepath.Ext(path) != ".go" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		if slices.ContainsFunc([]string{"Code generated", "DO NOT EDIT"}, func(marker string) bool {
			return bytes.Contains(content, []byte(marker))
		}) {
			return nil
		}

		reordered, err := reorder.Source(string(content))
		if err != nil {
			fmt.Printf("Warning: failed to reorder %s: %v\n", path, err)
			return nil
		}

		if reordered == string(content) {
			return nil
		}

		return visit(path, string(content), reordered)
	})
}

// output runs a command and returns its stdout; stderr passes through.
func output(command string, args ...string) (string, error) {
	buf := &bytes.Buffer{}
	cmd := exec.Command(command, args...)
	cmd.Stdout = buf
	cmd.Stderr = os.Stderr
	err := cmd.Run()

	return strings.TrimSuffix(buf.String(), "\n"), err
}
