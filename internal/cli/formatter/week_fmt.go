package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

const (
	histogramWidth = 16
	noteCellWidth  = 40
)

// FormatWeek renders the weekly histogram: one row per weekday with hours, a
// bar scaled to scale hours and the day's notes, followed by the total.
func FormatWeek(b domain.WeeklyBucket, scale float64) string {
	var out strings.Builder
	fmt.Fprintf(&out, "%s %s - %s\n\n", Bold("Week"), b.WeekStart.Format("2006-01-02"), b.WeekEnd().Format("2006-01-02"))

	rows := make([][]string, 0, len(b.Days))
	for _, d := range b.Days {
		hours := FormatHours(d.Hours)
		if d.Hours == 0 {
			hours = Dim(hours)
		}
		rows = append(rows, []string{
			string(d.Key),
			d.Date.Format("2006-01-02"),
			hours,
			RenderBar(d.Hours, scale, histogramWidth),
			JoinNotes(d.Notes, noteCellWidth),
		})
	}
	out.WriteString(RenderTable([]string{"DAY", "DATE", "HOURS", "CHART", "NOTES"}, rows, 2))
	fmt.Fprintf(&out, "\nTotal: %sh\n", Bold(FormatHours(b.Total())))
	return out.String()
}
