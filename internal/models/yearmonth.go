package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidYearMonth is returned when a YYYY-MM string cannot be parsed.
var ErrInvalidYearMonth = errors.New("invalid year-month")

// ParseYearMonth normalizes a "YYYY-MM" string to the first day of that
// month in UTC. Callers only ever have month granularity; the first-of-month
// date is what gets persisted.
func ParseYearMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidYearMonth, s)
	}
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

// FormatYearMonth renders a date back to "YYYY-MM" form.
func FormatYearMonth(t time.Time) string {
	return t.Format("2006-01")
}

// YearRange returns the half-open interval [Jan 1 year, Jan 1 year+1).
// Range filters keep aggregation queries portable across dialects.
func YearRange(year int) (from, to time.Time) {
	from = time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(1, 0, 0)
}

// MonthRange returns the half-open interval covering one calendar month.
func MonthRange(year int, month time.Month) (from, to time.Time) {
	from = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 1, 0)
}
