// Package testutil provides shared helpers for package tests.
package testutil

import "testing"

// Given, When, and Then name nested subtests in scenario form, e.g.
// "Given a file with one bad entry/When loading/Then the bad entry is skipped".
func Given(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Given "+desc, fn)
}

func When(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("When "+desc, fn)
}

func Then(t *testing.T, desc string, fn func(t *testing.T)) {
	t.Helper()
	t.Run("Then "+desc, fn)
}
