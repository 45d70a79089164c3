package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

// AssertDecimalEqual compares two decimals by value, reporting both as strings
// on failure so the diff is readable.
func AssertDecimalEqual(t *testing.T, expected, actual decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, expected.Equal(actual), "expected %s, got %s: %v", expected, actual, msgAndArgs)
}

// AssertDecimalWithin asserts |expected-actual| <= tolerance.
func AssertDecimalWithin(t *testing.T, expected, actual, tolerance decimal.Decimal) {
	t.Helper()
	diff := expected.Sub(actual).Abs()
	assert.True(t, diff.LessThanOrEqual(tolerance),
		"expected %s within %s of %s (off by %s)", actual, tolerance, expected, diff)
}

// AssertErrorContains checks that err contains the expected substring.
func AssertErrorContains(t *testing.T, err error, expected string) {
	t.Helper()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), expected)
}
