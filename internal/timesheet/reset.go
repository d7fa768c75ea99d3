package timesheet

import "time"

// ShouldReset reports whether the weekly reset fires at now: it must be
// Sunday 23:59 or later in now's location, and the last reset (if any) must
// belong to a different ISO week.
func ShouldReset(now time.Time, last *time.Time) bool {
	if now.Weekday() != time.Sunday || now.Hour() != 23 || now.Minute() < 59 {
		return false
	}
	if last == nil {
		return true
	}
	return !SameISOWeek(now, *last, now.Location())
}
