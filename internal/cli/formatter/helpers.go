package formatter

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded-border box with an optional title.
func RenderBox(title string, content string) string {
	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		PaddingLeft(2).
		PaddingRight(2).
		PaddingTop(1).
		PaddingBottom(1)

	if title != "" {
		titleRendered := StyleHeader.Render(strings.ToUpper(title))
		return boxStyle.Render(titleRendered + "\n\n" + content)
	}
	return boxStyle.Render(content)
}

// FormatHours renders hours with two decimals, e.g. "8.00".
func FormatHours(h float64) string {
	return fmt.Sprintf("%.2f", h)
}

// FormatElapsed renders a running duration as H:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)
	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

// FormatClock renders a wall-clock time as "Mon 2006-01-02 15:04".
func FormatClock(t time.Time) string {
	return t.Format("Mon 2006-01-02 15:04")
}

// Truncate shortens s to max runes, ending in "..." when cut.
func Truncate(s string, max int) string {
	if max <= 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max-3]) + "..."
}

// JoinNotes joins a day's notes for a single table cell.
func JoinNotes(notes []string, max int) string {
	if len(notes) == 0 {
		return ""
	}
	return Truncate(strings.Join(notes, " | "), max)
}
