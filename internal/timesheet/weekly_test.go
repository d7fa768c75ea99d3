package timesheet

import (
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func closed(in time.Time, hours float64, note string) *domain.SessionRecord {
	out := in.Add(time.Duration(hours * float64(time.Hour)))
	return &domain.SessionRecord{ID: in.Format(time.RFC3339), ClockIn: in, ClockOut: &out, Note: note, Timezone: in.Location().String()}
}

func TestAggregate_MondayShift(t *testing.T) {
	in := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rec := closed(in, 8, "Wrote design doc")

	b := Aggregate([]*domain.SessionRecord{rec}, in.Add(9*time.Hour), time.UTC)

	mon := b.Day(domain.Mon)
	assert.InDelta(t, 8.0, mon.Hours, 1e-9)
	assert.Equal(t, []string{"Wrote design doc"}, mon.Notes)
	assert.Equal(t, "Wrote design doc", mon.LatestNote)
	assert.InDelta(t, 8.0, b.Total(), 1e-9)
	for _, k := range domain.WeekDays[1:] {
		assert.Zero(t, b.Day(k).Hours, "day %s", k)
	}
}

func TestAggregate_TotalIsSumOfDays(t *testing.T) {
	mon := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	recs := []*domain.SessionRecord{
		closed(mon, 2.5, ""),
		closed(mon.Add(4*time.Hour), 1.25, "after lunch"),
		closed(mon.AddDate(0, 0, 2), 7, ""),
		closed(mon.AddDate(0, 0, 6), 3, "weekend"),
	}
	b := Aggregate(recs, mon, time.UTC)

	var sum float64
	for _, d := range b.Days {
		sum += d.Hours
	}
	assert.InDelta(t, sum, b.Total(), 1e-9)
	assert.InDelta(t, 13.75, b.Total(), 1e-9)
	assert.InDelta(t, 3.75, b.Day(domain.Mon).Hours, 1e-9)
	assert.InDelta(t, 3.0, b.Day(domain.Sun).Hours, 1e-9)
}

func TestAggregate_SkipsOpenAndOutOfWeek(t *testing.T) {
	mon := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	open := &domain.SessionRecord{ClockIn: mon.Add(time.Hour)}
	lastWeek := closed(mon.AddDate(0, 0, -1), 4, "old")
	nextWeek := closed(mon.AddDate(0, 0, 7), 4, "future")
	counted := closed(mon, 1, "")

	b := Aggregate([]*domain.SessionRecord{open, lastWeek, nextWeek, counted}, mon, time.UTC)
	assert.InDelta(t, 1.0, b.Total(), 1e-9)
	for _, d := range b.Days {
		assert.Empty(t, d.Notes)
	}
}

func TestAggregate_OvernightLandsOnClockOutDay(t *testing.T) {
	in := time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC)
	rec := closed(in, 4, "night shift")

	b := Aggregate([]*domain.SessionRecord{rec}, in, time.UTC)
	assert.Zero(t, b.Day(domain.Mon).Hours)
	assert.InDelta(t, 4.0, b.Day(domain.Tue).Hours, 1e-9)
	assert.Equal(t, "night shift", b.Day(domain.Tue).LatestNote)
}

func TestAggregate_ShiftPastWeekEndStaysOnSunday(t *testing.T) {
	sun := time.Date(2025, 3, 16, 22, 0, 0, 0, time.UTC)
	rec := closed(sun, 4, "release night")

	b := Aggregate([]*domain.SessionRecord{rec}, sun, time.UTC)
	assert.Zero(t, b.Day(domain.Mon).Hours)
	assert.InDelta(t, 4.0, b.Day(domain.Sun).Hours, 1e-9)
	assert.Equal(t, "release night", b.Day(domain.Sun).LatestNote)

	require.True(t, AddNoteToBucket(&b, rec, "follow-up", time.UTC))
	assert.Equal(t, []string{"release night", "follow-up"}, b.Day(domain.Sun).Notes)
	assert.Empty(t, b.Day(domain.Mon).Notes)
}

func TestAggregate_ViewerZoneDecidesDay(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	// Captured in UTC, clocked out Tuesday 20:00 UTC which is Wednesday in Tokyo.
	rec := closed(time.Date(2025, 3, 11, 16, 0, 0, 0, time.UTC), 4, "")

	b := Aggregate([]*domain.SessionRecord{rec}, time.Date(2025, 3, 12, 12, 0, 0, 0, tokyo), tokyo)
	assert.InDelta(t, 4.0, b.Day(domain.Wed).Hours, 1e-9)
	assert.Zero(t, b.Day(domain.Tue).Hours)
}

func TestAggregate_KeepsAllNotesLatestWins(t *testing.T) {
	mon := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	late := closed(mon.Add(6*time.Hour), 2, "review")
	early := closed(mon, 3, "standup")

	b := Aggregate([]*domain.SessionRecord{late, early}, mon, time.UTC)
	day := b.Day(domain.Mon)
	assert.Equal(t, []string{"standup", "review"}, day.Notes)
	assert.Equal(t, "review", day.LatestNote)
}

func TestAddNoteToBucket(t *testing.T) {
	mon := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	rec := closed(mon, 8, "")
	b := domain.NewWeeklyBucket(StartOfWeek(mon, time.UTC))
	require.True(t, AddToBucket(&b, rec, time.UTC))

	assert.True(t, AddNoteToBucket(&b, rec, "Wrote design doc", time.UTC))
	assert.Equal(t, "Wrote design doc", b.Day(domain.Mon).LatestNote)
	assert.False(t, AddNoteToBucket(&b, rec, "", time.UTC))
	assert.False(t, AddNoteToBucket(&b, closed(mon.AddDate(0, 0, 7), 1, ""), "x", time.UTC))
}
