package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWeeklyBucket_DatesFollowWeekStart(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	b := NewWeeklyBucket(start)
	assert.Equal(t, start, b.Days[0].Date)
	assert.Equal(t, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), b.WeekEnd())
	assert.Equal(t, Sun, b.Days[6].Key)
	assert.Equal(t, 0.0, b.Total())
}

func TestWeeklyBucket_TotalMatchesHours(t *testing.T) {
	b := NewWeeklyBucket(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	b.Day(Mon).Hours = 8
	b.Day(Wed).Hours = 2.5
	b.Day(Sun).Hours = 1.25

	var sum float64
	for _, d := range b.Days {
		sum += d.Hours
	}
	assert.InDelta(t, sum, b.Total(), 1e-9)
	assert.InDelta(t, 11.75, b.Total(), 1e-9)
	assert.Nil(t, b.Day(DayKey("nope")))
}

func TestDayTotal_AddNote_KeepsAllAndLatest(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	var d DayTotal
	d.AddNote("afternoon", base.Add(5*time.Hour))
	d.AddNote("morning", base)
	d.AddNote("", base.Add(6*time.Hour))

	require.Len(t, d.Notes, 2)
	assert.Equal(t, []string{"morning", "afternoon"}, d.Notes)
	assert.Equal(t, "afternoon", d.LatestNote)
}

func TestDaySummary_Add(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	out1 := in.Add(2 * time.Hour)
	out2 := in.Add(6 * time.Hour)

	var d DaySummary
	d.Add(&SessionRecord{ClockIn: in, ClockOut: &out2, Note: "late"})
	d.Add(&SessionRecord{ClockIn: in, ClockOut: &out1, Note: "early"})
	d.Add(&SessionRecord{ClockIn: in})

	assert.InDelta(t, 8.0, d.Hours, 1e-9)
	assert.Equal(t, []string{"late", "early"}, d.Notes)
	assert.Equal(t, "late", d.LatestNote)
}

func TestWeeklyBucket_CloneIsIndependent(t *testing.T) {
	b := NewWeeklyBucket(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	b.Day(Mon).AddNote("one", time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC))

	c := b.Clone()
	c.Day(Mon).AddNote("two", time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	c.Day(Mon).Hours = 3

	assert.Equal(t, []string{"one"}, b.Day(Mon).Notes)
	assert.Zero(t, b.Day(Mon).Hours)
	assert.Equal(t, []string{"two", "one"}, c.Day(Mon).Notes)
}
