// Package mathutil provides common mathematical utility functions on decimal
// currency values.
package mathutil

import (
	"github.com/iwvelando/loan-estimate/pkg/constants"
	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(constants.PercentageMultiplier)
	cent    = decimal.New(1, -constants.CentsPlaces)
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.CentsPlaces)
}

// RoundPercent rounds a percentage to the precision used for display and comparison.
func RoundPercent(val decimal.Decimal) decimal.Decimal {
	return val.Round(constants.PercentPlaces)
}

// IsZero checks if a value is effectively zero (within one cent)
func IsZero(val decimal.Decimal) bool {
	return val.Abs().LessThan(cent)
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance decimal.Decimal) bool {
	return val1.Sub(val2).Abs().LessThanOrEqual(tolerance)
}

// Min returns the minimum of two values
func Min(a, b decimal.Decimal) decimal.Decimal {
	return decimal.Min(a, b)
}

// Max returns the maximum of two values
func Max(a, b decimal.Decimal) decimal.Decimal {
	return decimal.Max(a, b)
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// CalculatePercentage calculates what percentage value is of total
func CalculatePercentage(value, total decimal.Decimal) decimal.Decimal {
	if total.IsZero() {
		return decimal.Zero
	}
	return value.Div(total).Mul(hundred)
}

// ApplyPercentage applies a percentage (e.g. 1.75 for 1.75%) to a value
func ApplyPercentage(value, percentage decimal.Decimal) decimal.Decimal {
	return value.Mul(percentage).Div(hundred)
}

// PercentToFraction converts a percentage to a fraction, e.g. 6.5 to 0.065.
func PercentToFraction(percentage decimal.Decimal) decimal.Decimal {
	return percentage.Div(hundred)
}
