// Package tester holds the small assertion helpers shared by package tests.
package tester

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"
)

// Eq asserts that got == want using reflect.DeepEqual for non-comparable types.
func Eq[T any](t testing.TB, got, want T, msgAndArgs ...any) {
	t.Helper()
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("%sgot=%v want=%v", prefix(msgAndArgs), got, want)
	}
}

// True asserts that cond is true.
func True(t testing.TB, cond bool, msgAndArgs ...any) {
	t.Helper()
	if !cond {
		t.Fatalf("%sexpected condition to be true", prefix(msgAndArgs))
	}
}

// False asserts that cond is false.
func False(t testing.TB, cond bool, msgAndArgs ...any) {
	t.Helper()
	if cond {
		t.Fatalf("%sexpected condition to be false", prefix(msgAndArgs))
	}
}

// NoErr asserts that err is nil.
func NoErr(t testing.TB, err error, msgAndArgs ...any) {
	t.Helper()
	if err != nil {
		t.Fatalf("%sunexpected error: %v", prefix(msgAndArgs), err)
	}
}

// ErrIs asserts that errors.Is(err, target).
func ErrIs(t testing.TB, err, target error, msgAndArgs ...any) {
	t.Helper()
	if !errors.Is(err, target) {
		t.Fatalf("%serror %v is not %v", prefix(msgAndArgs), err, target)
	}
}

// Contains asserts that s contains substr.
func Contains(t testing.TB, s, substr string, msgAndArgs ...any) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Fatalf("%sexpected %q to contain %q", prefix(msgAndArgs), s, substr)
	}
}

func prefix(msgAndArgs []any) string {
	if len(msgAndArgs) == 0 {
		return ""
	}
	return fmt.Sprint(msgAndArgs[0]) + ": "
}
