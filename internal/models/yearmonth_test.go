package models

import (
	"testing"
	"time"
)

func TestParseYearMonth(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2026-01", time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC), false},
		{"2025-12", time.Date(2025, time.December, 1, 0, 0, 0, 0, time.UTC), false},
		{"2026-13", time.Time{}, true},
		{"2026-00", time.Time{}, true},
		{"2026-1", time.Time{}, true},
		{"janeiro", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseYearMonth(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseYearMonth(%q) expected error, got %v", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseYearMonth(%q): %v", tt.in, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseYearMonth(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatYearMonthRoundTrip(t *testing.T) {
	d, err := ParseYearMonth("2026-07")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := FormatYearMonth(d); got != "2026-07" {
		t.Errorf("FormatYearMonth = %q, want 2026-07", got)
	}
}

func TestYearRange(t *testing.T) {
	from, to := YearRange(2026)
	if from != time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("from = %v", from)
	}
	if to != time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("to = %v", to)
	}
}

func TestMonthRange(t *testing.T) {
	from, to := MonthRange(2026, time.December)
	if from != time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("from = %v", from)
	}
	// Rolls over to the next year.
	if to != time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("to = %v", to)
	}
}
