package staleness

import (
	"testing"
	"time"
)

func TestQualifiesStrictInequality(t *testing.T) {
	cases := []struct {
		name      string
		days      float64
		threshold int
		want      bool
	}{
		{"exactly at threshold", 3.0, 3, false},
		{"just over threshold", 3.0001, 3, true},
		{"well over threshold", 10.0, 3, true},
		{"under threshold", 2.9, 3, false},
		{"zero age", 0, 3, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Qualifies(tc.days, tc.threshold); got != tc.want {
				t.Fatalf("Qualifies(%v, %d) = %v, want %v", tc.days, tc.threshold, got, tc.want)
			}
		})
	}
}

func TestDisplayDaysTruncates(t *testing.T) {
	cases := []struct {
		days float64
		want int
	}{
		{3.1, 3},
		{3.9, 3},
		{3.0, 3},
		{0.5, 0},
		{-1, 0},
	}

	for _, tc := range cases {
		if got := DisplayDays(tc.days); got != tc.want {
			t.Fatalf("DisplayDays(%v) = %d, want %d", tc.days, got, tc.want)
		}
	}

	// Truncation never exceeds the fractional value.
	for _, days := range []float64{0.1, 1.5, 3.99999, 42.0} {
		if float64(DisplayDays(days)) > days {
			t.Fatalf("DisplayDays(%v) exceeds fractional value", days)
		}
	}
}

func TestDaysPending(t *testing.T) {
	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	placed := now.Add(-84 * time.Hour) // 3.5 days
	if got := DaysPending(placed, now); got != 3.5 {
		t.Fatalf("DaysPending = %v, want 3.5", got)
	}

	if got := DaysPending(now.Add(time.Hour), now); got != 0 {
		t.Fatalf("future order date should clamp to zero, got %v", got)
	}
}
