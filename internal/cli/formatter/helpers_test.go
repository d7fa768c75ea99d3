package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "0:00:00", FormatElapsed(0))
	assert.Equal(t, "0:00:00", FormatElapsed(-time.Minute))
	assert.Equal(t, "1:30:05", FormatElapsed(90*time.Minute+5*time.Second+400*time.Millisecond))
	assert.Equal(t, "12:00:00", FormatElapsed(12*time.Hour))
}

func TestTruncateAndJoinNotes(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))
	assert.Equal(t, "héllo w...", Truncate("héllo wörld!", 10))
	assert.Empty(t, JoinNotes(nil, 10))
	assert.Equal(t, "a | b", JoinNotes([]string{"a", "b"}, 10))
}

func TestRenderBar(t *testing.T) {
	assert.Equal(t, "████░░░░", StripANSI(RenderBar(4, 8, 8)))
	assert.Equal(t, "░░░░░░░░", StripANSI(RenderBar(0, 8, 8)))
	assert.Equal(t, "████████", StripANSI(RenderBar(12, 8, 8)), "clamped past the scale")
	assert.Equal(t, "░", StripANSI(RenderBar(-1, 0, 0)))
}

func TestRenderTable_RightAligned(t *testing.T) {
	out := StripANSI(RenderTable([]string{"A", "N"}, [][]string{{"x", "1"}, {"yy", "10"}}, 1))
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, []string{"A    N", "──  ──", "x    1", "yy  10"}, lines)
	assert.Empty(t, RenderTable(nil, nil))
}

func TestFormatStatus(t *testing.T) {
	out := StripANSI(FormatStatus(StatusView{
		User:      "Ada",
		State:     domain.StateClockedIn,
		Since:     time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		Elapsed:   90 * time.Minute,
		WeekTotal: 6.5,
	}))
	assert.Contains(t, out, "STATUS")
	assert.Contains(t, out, "CLOCKED IN")
	assert.Contains(t, out, "Mon 2025-03-10 09:00")
	assert.Contains(t, out, "1:30:00")
	assert.Contains(t, out, "6.50h")

	idle := StripANSI(FormatStatus(StatusView{User: "Ada", State: domain.StateIdle}))
	assert.Contains(t, idle, "IDLE")
	assert.NotContains(t, idle, "Elapsed")

	pending := StripANSI(FormatStatus(StatusView{User: "Ada", State: domain.StatePendingNote, PendingHours: 8}))
	assert.Contains(t, pending, "NOTE PENDING")
	assert.Contains(t, pending, "8.00h")
}
