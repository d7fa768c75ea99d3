package domain

import (
	"sort"
	"time"
)

// DayTotal is one weekday's accumulated hours and notes.
type DayTotal struct {
	Key        DayKey
	Date       time.Time
	Hours      float64
	Notes      []string
	LatestNote string

	latestAt time.Time
	noteAt   []time.Time
}

// AddNote records a note written at the given time. Notes stay ordered by
// time and the most recent one becomes LatestNote.
func (d *DayTotal) AddNote(note string, at time.Time) {
	if note == "" {
		return
	}
	i := sort.Search(len(d.noteAt), func(i int) bool { return d.noteAt[i].After(at) })
	d.noteAt = append(d.noteAt, time.Time{})
	copy(d.noteAt[i+1:], d.noteAt[i:])
	d.noteAt[i] = at
	d.Notes = append(d.Notes, "")
	copy(d.Notes[i+1:], d.Notes[i:])
	d.Notes[i] = note

	if d.LatestNote == "" || !at.Before(d.latestAt) {
		d.LatestNote = note
		d.latestAt = at
	}
}

// WeeklyBucket is the Monday-start histogram of a single week.
type WeeklyBucket struct {
	WeekStart time.Time
	Days      [7]DayTotal
}

// NewWeeklyBucket returns an empty bucket for the week starting at weekStart.
func NewWeeklyBucket(weekStart time.Time) WeeklyBucket {
	b := WeeklyBucket{WeekStart: weekStart}
	for i, k := range WeekDays {
		b.Days[i] = DayTotal{Key: k, Date: weekStart.AddDate(0, 0, i)}
	}
	return b
}

// Day returns the totals for the given key.
func (b *WeeklyBucket) Day(k DayKey) *DayTotal {
	i := k.Index()
	if i < 0 {
		return nil
	}
	return &b.Days[i]
}

// Total returns the sum of all seven days.
func (b WeeklyBucket) Total() float64 {
	var total float64
	for _, d := range b.Days {
		total += d.Hours
	}
	return total
}

// WeekEnd returns the last calendar day (Sunday) of the bucket.
func (b WeeklyBucket) WeekEnd() time.Time {
	return b.WeekStart.AddDate(0, 0, 6)
}

// Clone returns a deep copy that shares no note slices with b.
func (b WeeklyBucket) Clone() WeeklyBucket {
	out := b
	for i := range out.Days {
		out.Days[i].Notes = append([]string(nil), b.Days[i].Notes...)
		out.Days[i].noteAt = append([]time.Time(nil), b.Days[i].noteAt...)
	}
	return out
}
