package main

import (
	"strings"
	"testing"
)

func assertStringEqual(t *testing.T, actual, expected string) {
	t.Helper()
	if actual == expected {
		return
	}

	// Find first differing byte to point at separator and formatting slips.
	diffPos := 0
	for diffPos < len(actual) && diffPos < len(expected) && actual[diffPos] == expected[diffPos] {
		diffPos++
	}
	t.Errorf("Strings differ at position %d:\nExpected: %q\n  Actual: %q", diffPos, expected, actual)
}

func checkErrorContainsSubstring(t *testing.T, err error, substring string) {
	t.Helper()
	if !strings.Contains(err.Error(), substring) {
		t.Errorf(
			"Expected error message to contain '%s', got '%s'",
			substring,
			err.Error(),
		)
	}
}
