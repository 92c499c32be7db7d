// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/loan-estimate/internal/scenario"
	"github.com/iwvelando/loan-estimate/pkg/output"
	"github.com/shopspring/decimal"
)

// FindEstimate finds an estimate by scenario name.
// Returns a pointer to the estimate if found, nil otherwise.
func FindEstimate(estimates []output.Estimate, name string) *output.Estimate {
	for i := range estimates {
		if estimates[i].Name == name {
			return &estimates[i]
		}
	}
	return nil
}

// RequireResult returns the result with the given label or fails the test.
func RequireResult(t testing.TB, batch *scenario.Batch, label string) scenario.Result {
	t.Helper()
	result, ok := batch.Find(label)
	if !ok {
		t.Fatalf("no result labeled %q", label)
	}
	return result
}

// AssertMoney fails the test when got does not equal the decimal in expected.
func AssertMoney(t testing.TB, field string, got decimal.Decimal, expected string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(expected)) {
		t.Errorf("%s = %s, expected %s", field, got, expected)
	}
}
