// Package datetime provides date utility functions for closing dates.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/iwvelando/loan-estimate/pkg/constants"
)

const (
	// ClosingDateLayout is the canonical closing date format.
	ClosingDateLayout = constants.ClosingDateLayout
)

// ParseClosingDate parses a closing date in either YYYY-MM-DD or MM/DD/YYYY form.
func ParseClosingDate(value string) (civil.Date, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return civil.Date{}, fmt.Errorf("closing date is empty")
	}
	if d, err := civil.ParseDate(trimmed); err == nil {
		return d, nil
	}
	t, err := time.Parse(constants.USClosingDateLayout, trimmed)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid closing date %q: expected %s or %s",
			value, constants.ClosingDateLayout, constants.USClosingDateLayout)
	}
	return civil.DateOf(t), nil
}

// MustParseClosingDate parses a closing date and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseClosingDate(value string) civil.Date {
	d, err := ParseClosingDate(value)
	if err != nil {
		panic(err)
	}
	return d
}

// LastDayOfMonth returns the final calendar day of the month containing date.
func LastDayOfMonth(date civil.Date) civil.Date {
	// Day 0 of the following month normalizes to the last day of this one.
	return civil.DateOf(time.Date(date.Year, date.Month+1, 0, 0, 0, 0, 0, time.UTC))
}

// InterimDays counts the days from the closing date through the end of its
// month, inclusive of the closing date itself.
func InterimDays(closing civil.Date) int {
	return LastDayOfMonth(closing).DaysSince(closing) + 1
}
