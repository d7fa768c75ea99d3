package report

import (
	"fmt"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

const dayLayout = "2006-01-02"

// WeeklyInput lays out one week as a single group with a row per weekday,
// Monday first.
func WeeklyInput(b domain.WeeklyBucket, subject string, generatedAt time.Time) Input {
	g := Group{Label: weekLabel(b.WeekStart, b.WeekEnd())}
	for _, d := range b.Days {
		g.Rows = append(g.Rows, Row{
			Label: d.Key.LongName(),
			Hours: d.Hours,
			Notes: d.Notes,
		})
	}
	return Input{
		Title:       "Weekly Report",
		Subject:     subject,
		GeneratedAt: generatedAt,
		FooterLabel: "Downloaded on",
		Groups:      []Group{g},
	}
}

// MonthlyInput lays out a month as one group per week with a row per worked
// day.
func MonthlyInput(groups []domain.WeekGroup, year int, month time.Month, subject string, generatedAt time.Time) Input {
	in := Input{
		Title:       fmt.Sprintf("%s %d Monthly Report", month, year),
		Subject:     subject,
		GeneratedAt: generatedAt,
	}
	for _, wg := range groups {
		g := Group{Label: wg.Label}
		for _, d := range wg.Days {
			g.Rows = append(g.Rows, Row{
				Label: fmt.Sprintf("%s %s", d.Key, d.Date.Format(dayLayout)),
				Hours: d.Hours,
				Notes: d.Notes,
			})
		}
		in.Groups = append(in.Groups, g)
	}
	return in
}

func weekLabel(start, end time.Time) string {
	return fmt.Sprintf("%s - %s", start.Format(dayLayout), end.Format(dayLayout))
}
