package domain

import "time"

type ClockState string

const (
	StateIdle        ClockState = "idle"
	StateClockedIn   ClockState = "clocked_in"
	StatePendingNote ClockState = "pending_note"
)

// DayKey identifies a weekday bucket in a Monday-start week.
type DayKey string

const (
	Mon DayKey = "Mon"
	Tue DayKey = "Tue"
	Wed DayKey = "Wed"
	Thu DayKey = "Thu"
	Fri DayKey = "Fri"
	Sat DayKey = "Sat"
	Sun DayKey = "Sun"
)

// WeekDays lists the day keys in week order, Monday first.
var WeekDays = [7]DayKey{Mon, Tue, Wed, Thu, Fri, Sat, Sun}

// DayKeyOf maps a time.Weekday to its bucket key.
func DayKeyOf(d time.Weekday) DayKey {
	return WeekDays[DayIndex(d)]
}

// DayIndex returns the Monday-based index (0..6) of a weekday.
func DayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// Index returns the Monday-based position of the key, or -1 for unknown keys.
func (k DayKey) Index() int {
	for i, d := range WeekDays {
		if d == k {
			return i
		}
	}
	return -1
}

// LongName returns the full English weekday name.
func (k DayKey) LongName() string {
	i := k.Index()
	if i < 0 {
		return string(k)
	}
	return time.Weekday((i + 1) % 7).String()
}
