// Package staleness holds the rule that classifies an order as long pending.
//
// The qualification test uses the unfloored fractional age; only the value
// shown to operators is truncated. An order 3.1 days old against a 3-day
// threshold qualifies and displays as "3 days pending".
package staleness

import (
	"math"
	"time"
)

const hoursPerDay = 24

// DaysPending returns the fractional number of days elapsed between the
// order placement and the reference time. Never negative.
func DaysPending(orderDate, now time.Time) float64 {
	days := now.Sub(orderDate).Hours() / hoursPerDay
	if days < 0 {
		return 0
	}
	return days
}

// Qualifies reports whether an order pending for daysPending days exceeds
// the threshold. Strict inequality: exactly thresholdDays does not qualify.
func Qualifies(daysPending float64, thresholdDays int) bool {
	return daysPending > float64(thresholdDays)
}

// DisplayDays truncates the fractional pending age for presentation.
func DisplayDays(daysPending float64) int {
	if daysPending < 0 {
		return 0
	}
	return int(math.Floor(daysPending))
}
