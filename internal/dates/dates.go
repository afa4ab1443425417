package dates

import (
	"time"

	"github.com/julianstephens/remindue/internal/models"
)

// AddDays shifts t by n calendar days, preserving time-of-day.
func AddDays(t time.Time, n int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+n,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddMonths shifts t by n calendar months. The day-of-month is clamped to
// the last valid day of the target month, so Jan 31 + 1 month is Feb 28
// (or Feb 29 in a leap year), never Mar 3.
func AddMonths(t time.Time, n int) time.Time {
	// Anchor on the first of the target month so time.Date normalization
	// cannot overflow into the following month.
	first := time.Date(t.Year(), t.Month()+time.Month(n), 1,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())

	day := t.Day()
	if last := DaysInMonth(first.Year(), first.Month()); day > last {
		day = last
	}

	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// AddYears shifts t by n calendar years. Feb 29 clamps to Feb 28 when the
// target year is not a leap year.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextOccurrence returns the next natural due instant after due for the
// given frequency. One-time and weekly obligations are returned unchanged:
// one-time obligations never recur, and weekly ones repeat at the gateway
// level rather than by date advancement.
func NextOccurrence(freq models.Frequency, due time.Time) time.Time {
	switch freq {
	case models.FrequencyMonthly:
		return AddMonths(due, 1)
	case models.FrequencyYearly:
		return AddYears(due, 1)
	default:
		return due
	}
}

// DaysUntil returns the whole-day distance from now's date to due's date.
// Negative values mean due is in the past.
func DaysUntil(now, due time.Time) int {
	a := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(due.Year(), due.Month(), due.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
