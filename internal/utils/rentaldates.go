package utils

import (
	"fmt"
	"math"
	"time"
)

// DateLayout is the wire format for rental dates.
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-mm-dd date string into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected yyyy-mm-dd: %w", s, err)
	}
	return t, nil
}

// Midnight truncates an instant to its calendar day.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// RentalDays counts billable days for a half-open rental window [start, end).
// A same-day or inverted window is invalid.
func RentalDays(start, end time.Time) (int, error) {
	if !end.After(start) {
		return 0, fmt.Errorf("rental end %s must be after start %s",
			end.Format(DateLayout), start.Format(DateLayout))
	}
	days := int(math.Ceil(end.Sub(start).Hours() / 24))
	return days, nil
}

// DaysLate counts whole days elapsed past the rental end, rounding any
// partial day up. Zero when the return is on time.
func DaysLate(rentalEnd, now time.Time) int {
	if !now.After(rentalEnd) {
		return 0
	}
	return int(math.Ceil(now.Sub(rentalEnd).Hours() / 24))
}

// DaysInMonth returns the number of calendar days in a month.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
