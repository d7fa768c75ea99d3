package domain

import (
	"time"
	"unicode/utf8"
)

// MaxNoteLength is the maximum number of characters kept for a session note.
const MaxNoteLength = 75

// LocalWallLayout is the offset-free layout used to persist wall-clock timestamps.
// The zone travels separately as an IANA name.
const LocalWallLayout = "2006-01-02T15:04:05"

// SessionRecord is one clock-in/clock-out interval. ClockIn and ClockOut carry
// the location named by Timezone.
type SessionRecord struct {
	ID         string
	UserID     string
	ClockIn    time.Time
	ClockOut   *time.Time
	Timezone   string
	Note       string
	AutoClosed bool
}

// IsOpen reports whether the record has no clock-out yet.
func (r *SessionRecord) IsOpen() bool {
	return r.ClockOut == nil
}

// Duration returns the worked hours. Open records report 0.
func (r *SessionRecord) Duration() float64 {
	if r.ClockOut == nil {
		return 0
	}
	h := r.ClockOut.Sub(r.ClockIn).Hours()
	if h < 0 {
		return 0
	}
	return h
}

// BucketTime returns the instant used to pick a record's day: the clock-out
// when present, otherwise the clock-in.
func (r *SessionRecord) BucketTime() time.Time {
	if r.ClockOut != nil {
		return *r.ClockOut
	}
	return r.ClockIn
}

// TruncateNote cuts the note to MaxNoteLength runes.
func TruncateNote(note string) string {
	if utf8.RuneCountInString(note) <= MaxNoteLength {
		return note
	}
	runes := []rune(note)
	return string(runes[:MaxNoteLength])
}

// ParseWall parses a persisted wall-clock string in the named IANA zone.
func ParseWall(wall, zone string) (time.Time, error) {
	loc, err := LoadZone(zone)
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(LocalWallLayout, wall, loc)
	if err != nil {
		return time.Time{}, &ValidationError{Field: "timestamp", Reason: err.Error()}
	}
	return t, nil
}

// LoadZone resolves an IANA zone name. An empty name means UTC.
func LoadZone(zone string) (*time.Location, error) {
	if zone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, &ValidationError{Field: "timezone", Reason: err.Error()}
	}
	return loc, nil
}
