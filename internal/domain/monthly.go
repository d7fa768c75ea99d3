package domain

import "time"

// DaySummary aggregates one calendar date inside a week group.
type DaySummary struct {
	Date       time.Time
	Key        DayKey
	Hours      float64
	Notes      []string
	LatestNote string

	latestAt time.Time
}

// Add folds a record into the summary.
func (d *DaySummary) Add(r *SessionRecord) {
	d.Hours += r.Duration()
	if r.Note == "" {
		return
	}
	d.Notes = append(d.Notes, r.Note)
	at := r.BucketTime()
	if d.LatestNote == "" || !at.Before(d.latestAt) {
		d.LatestNote = r.Note
		d.latestAt = at
	}
}

// WeekGroup holds the records of one Monday..Sunday window within a month.
type WeekGroup struct {
	Label     string
	WeekStart time.Time
	WeekEnd   time.Time
	Days      []DaySummary
	Records   []*SessionRecord
}

// Total returns the hours summed over all days in the group.
func (g *WeekGroup) Total() float64 {
	var total float64
	for _, d := range g.Days {
		total += d.Hours
	}
	return total
}
