// Package timesheet holds the pure time-bucketing algorithms: week and month
// boundaries, weekly aggregation, monthly grouping, reconciliation of open
// records and the weekly reset rule.
package timesheet

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// DateLayout is used for week labels and day headings.
const DateLayout = "2006-01-02"

// StartOfDay returns midnight of t's date in loc.
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// StartOfWeek returns Monday 00:00 of the week containing t in loc.
func StartOfWeek(t time.Time, loc *time.Location) time.Time {
	day := StartOfDay(t, loc)
	return day.AddDate(0, 0, -domain.DayIndex(day.Weekday()))
}

// WeekBounds returns [Monday 00:00, next Monday 00:00) for the week of t.
func WeekBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	start := StartOfWeek(t, loc)
	return start, start.AddDate(0, 0, 7)
}

// MonthBounds returns [first of month 00:00, first of next month 00:00) in loc.
func MonthBounds(year int, month time.Month, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0)
}

// WeekLabel formats a Monday-start week as "start - end".
func WeekLabel(weekStart time.Time) string {
	return fmt.Sprintf("%s - %s", weekStart.Format(DateLayout), weekStart.AddDate(0, 0, 6).Format(DateLayout))
}

// SameISOWeek reports whether a and b fall in the same ISO-8601 week, both
// read in loc.
func SameISOWeek(a, b time.Time, loc *time.Location) bool {
	ay, aw := a.In(loc).ISOWeek()
	by, bw := b.In(loc).ISOWeek()
	return ay == by && aw == bw
}
