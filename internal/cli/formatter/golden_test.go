package formatter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// goldenTest compares got against testdata/<name>.golden after stripping ANSI
// codes. Set GOLDEN_UPDATE=1 to regenerate golden files.
func goldenTest(t *testing.T, name, got string) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")
	stripped := StripANSI(got)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll("testdata", 0o755))
		require.NoError(t, os.WriteFile(goldenPath, []byte(stripped), 0o644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)
	assert.Equal(t, string(expected), stripped,
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

var weekStart = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func TestFormatWeek_Golden(t *testing.T) {
	b := domain.NewWeeklyBucket(weekStart)
	b.Day(domain.Mon).Hours = 8
	b.Day(domain.Mon).AddNote("Wrote design doc", weekStart.Add(17*time.Hour))
	b.Day(domain.Wed).Hours = 2.5
	b.Day(domain.Wed).AddNote("standup", weekStart.AddDate(0, 0, 2).Add(10*time.Hour))
	b.Day(domain.Wed).AddNote("review", weekStart.AddDate(0, 0, 2).Add(15*time.Hour))
	b.Day(domain.Fri).Hours = 10

	goldenTest(t, "week_histogram", FormatWeek(b, 8))
}

func TestFormatMonth_Golden(t *testing.T) {
	groups := []domain.WeekGroup{
		{
			Label:     "2025-03-10 - 2025-03-16",
			WeekStart: weekStart,
			Days: []domain.DaySummary{
				{Date: weekStart, Key: domain.Mon, Hours: 8},
				{Date: weekStart.AddDate(0, 0, 1), Key: domain.Tue, Hours: 4, Notes: []string{"pairing"}},
			},
		},
		{
			Label:     "2025-03-31 - 2025-04-06",
			WeekStart: weekStart.AddDate(0, 0, 21),
			Days: []domain.DaySummary{
				{Date: weekStart.AddDate(0, 0, 21), Key: domain.Mon, Hours: 1.5, Notes: []string{"Sprint planning", "retro"}},
			},
		},
	}

	goldenTest(t, "month_listing", FormatMonth(groups, 2025, time.March))
}

func TestFormatMonth_Empty(t *testing.T) {
	assert.Equal(t, "No sessions in February 2025.\n", FormatMonth(nil, 2025, time.February))
}
