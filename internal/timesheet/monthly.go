package timesheet

import (
	"sort"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// GroupMonth groups the records clocked in during year/month (read in loc)
// into Monday-start weeks. Groups are ordered by week start and days by date.
// Open records are listed with zero hours.
func GroupMonth(records []*domain.SessionRecord, year int, month time.Month, loc *time.Location) []domain.WeekGroup {
	start, end := MonthBounds(year, month, loc)

	byWeek := make(map[time.Time]*domain.WeekGroup)
	days := make(map[time.Time]*domain.DaySummary)
	for _, r := range records {
		in := r.ClockIn.In(loc)
		if in.Before(start) || !in.Before(end) {
			continue
		}
		weekStart := StartOfWeek(in, loc)
		g, ok := byWeek[weekStart]
		if !ok {
			g = &domain.WeekGroup{
				Label:     WeekLabel(weekStart),
				WeekStart: weekStart,
				WeekEnd:   weekStart.AddDate(0, 0, 6),
			}
			byWeek[weekStart] = g
		}
		g.Records = append(g.Records, r)

		date := StartOfDay(in, loc)
		d, ok := days[date]
		if !ok {
			d = &domain.DaySummary{Date: date, Key: domain.DayKeyOf(date.Weekday())}
			days[date] = d
		}
		d.Add(r)
	}

	groups := make([]domain.WeekGroup, 0, len(byWeek))
	for weekStart, g := range byWeek {
		for date, d := range days {
			if InWeek(weekStart, date) {
				g.Days = append(g.Days, *d)
			}
		}
		sort.Slice(g.Days, func(i, j int) bool { return g.Days[i].Date.Before(g.Days[j].Date) })
		sort.SliceStable(g.Records, func(i, j int) bool { return g.Records[i].ClockIn.Before(g.Records[j].ClockIn) })
		groups = append(groups, *g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].WeekStart.Before(groups[j].WeekStart) })
	return groups
}
