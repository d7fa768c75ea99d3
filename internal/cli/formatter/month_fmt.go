package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// FormatMonth lists a month week by week with per-day hours and notes.
func FormatMonth(groups []domain.WeekGroup, year int, month time.Month) string {
	title := fmt.Sprintf("%s %d", month, year)
	if len(groups) == 0 {
		return fmt.Sprintf("No sessions in %s.\n", title)
	}

	var out strings.Builder
	out.WriteString(Header(title) + "\n\n")

	var total float64
	for _, g := range groups {
		out.WriteString(Bold("Week "+g.Label) + "\n")
		rows := make([][]string, 0, len(g.Days))
		for _, d := range g.Days {
			rows = append(rows, []string{
				d.Date.Format("2006-01-02"),
				string(d.Key),
				FormatHours(d.Hours),
				JoinNotes(d.Notes, noteCellWidth),
			})
		}
		out.WriteString(RenderTable([]string{"DATE", "DAY", "HOURS", "NOTES"}, rows, 2))
		fmt.Fprintf(&out, "Week total: %sh\n\n", FormatHours(g.Total()))
		total += g.Total()
	}
	fmt.Fprintf(&out, "Month total: %sh\n", Bold(FormatHours(total)))
	return out.String()
}
