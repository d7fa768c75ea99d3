package timesheet

import (
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// Aggregate builds the weekly histogram for the week containing now, read in
// the viewer zone loc. Records clocked in outside the week and open records
// are ignored. Each closed record lands on the viewer-local weekday of its
// clock-out, or of its clock-in when the shift ran past the end of the week.
func Aggregate(records []*domain.SessionRecord, now time.Time, loc *time.Location) domain.WeeklyBucket {
	bucket := domain.NewWeeklyBucket(StartOfWeek(now, loc))
	for _, r := range records {
		AddToBucket(&bucket, r, loc)
	}
	return bucket
}

// AddToBucket folds one record into bucket and reports whether it counted.
func AddToBucket(b *domain.WeeklyBucket, r *domain.SessionRecord, loc *time.Location) bool {
	if r == nil || r.IsOpen() || !InWeek(b.WeekStart, r.ClockIn) {
		return false
	}
	at := bucketAt(b, r, loc)
	day := b.Day(domain.DayKeyOf(at.Weekday()))
	day.Hours += r.Duration()
	day.AddNote(r.Note, at)
	return true
}

// AddNoteToBucket records a note saved after the record was already counted.
func AddNoteToBucket(b *domain.WeeklyBucket, r *domain.SessionRecord, note string, loc *time.Location) bool {
	if r == nil || note == "" || !InWeek(b.WeekStart, r.ClockIn) {
		return false
	}
	at := bucketAt(b, r, loc)
	b.Day(domain.DayKeyOf(at.Weekday())).AddNote(note, at)
	return true
}

// bucketAt picks the instant whose weekday keys the record: the clock-out,
// unless it falls after the week, in which case the clock-in.
func bucketAt(b *domain.WeeklyBucket, r *domain.SessionRecord, loc *time.Location) time.Time {
	at := r.BucketTime()
	if !InWeek(b.WeekStart, at) {
		at = r.ClockIn
	}
	return at.In(loc)
}

// InWeek reports whether t lies in [weekStart, weekStart+7d).
func InWeek(weekStart, t time.Time) bool {
	end := weekStart.AddDate(0, 0, 7)
	return !t.Before(weekStart) && t.Before(end)
}
