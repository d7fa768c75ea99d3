package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
)

// StatusView is what the status screen shows about the current shift.
type StatusView struct {
	User      string
	State     domain.ClockState
	Since     time.Time
	Elapsed   time.Duration
	WeekTotal float64
	// PendingHours is the length of the shift waiting for a note.
	PendingHours float64
}

// FormatStatus renders the clock state and this week's running total.
func FormatStatus(v StatusView) string {
	rows := [][]string{
		{Dim("User"), Bold(v.User)},
		{Dim("State"), StateBadge(v.State)},
	}
	switch v.State {
	case domain.StateClockedIn:
		rows = append(rows,
			[]string{Dim("Since"), FormatClock(v.Since)},
			[]string{Dim("Elapsed"), StyleGreen.Render(FormatElapsed(v.Elapsed))},
		)
	case domain.StatePendingNote:
		rows = append(rows, []string{Dim("Shift"), FormatHours(v.PendingHours) + "h"})
	}
	rows = append(rows, []string{Dim("This week"), FormatHours(v.WeekTotal) + "h"})

	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%-*s%s\n", 12+len(r[0])-len(StripANSI(r[0])), r[0], r[1])
	}
	return RenderBox("Status", strings.TrimRight(b.String(), "\n"))
}
