package report

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alexanderramin/shiftlog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var genAt = time.Date(2025, 3, 17, 10, 30, 0, 0, time.UTC)

func pageText(p Page) string {
	return strings.Join(p.Texts(), "\n")
}

func TestRender_SinglePage(t *testing.T) {
	doc := Render(Input{
		Title:       "Weekly Report",
		Subject:     "Ada",
		GeneratedAt: genAt,
		Groups: []Group{{
			Label: "2025-03-10 - 2025-03-16",
			Rows:  []Row{{Label: "Monday", Hours: 8, Notes: []string{"Wrote design doc"}}},
		}},
	})

	require.Len(t, doc.Pages, 1)
	p := doc.Pages[0]
	assert.Equal(t, PageWidth, p.Width)
	assert.Equal(t, PageHeight, p.Height)
	text := pageText(p)
	for _, want := range []string{
		"Weekly Report",
		"Name: Ada",
		"Week: 2025-03-10 - 2025-03-16",
		"Monday", "8.00", "Wrote design doc",
		"Total Hours: 8.00",
		"Generated on 2025-03-17 10:30",
		"Page 1 of 1",
	} {
		assert.Contains(t, text, want)
	}
}

func TestRender_Bands(t *testing.T) {
	doc := Render(Input{Title: "T"})
	var rects int
	for _, op := range doc.Pages[0].Ops {
		if op.Kind == KindRect && op.H == BandHeight {
			rects++
		}
	}
	assert.Equal(t, 2*BandSlices, rects)
}

func TestRender_TitleCentered(t *testing.T) {
	doc := Render(Input{Title: "Weekly Report"})
	for _, op := range doc.Pages[0].Ops {
		if op.Kind == KindText && op.Text == "Weekly Report" {
			w := TextWidth(op.Text, TitleSize, true)
			assert.InDelta(t, PageWidth-w-op.X, op.X, 1e-9)
			assert.True(t, op.Bold)
			assert.Equal(t, White, op.Color)
			return
		}
	}
	t.Fatal("title not drawn")
}

func TestRender_EmptyNotesPlaceholder(t *testing.T) {
	doc := Render(Input{Groups: []Group{{Label: "w", Rows: []Row{{Label: "Tuesday"}}}}})
	assert.Contains(t, pageText(doc.Pages[0]), "No note")
}

func TestRender_Deterministic(t *testing.T) {
	in := bigInput(5, 9, 4)
	assert.Equal(t, Render(in), Render(in))
}

func bigInput(groups, rows, noteWords int) Input {
	in := Input{Title: "Monthly", Subject: "Ada", GeneratedAt: genAt}
	for g := 0; g < groups; g++ {
		grp := Group{Label: fmt.Sprintf("week %d", g)}
		for r := 0; r < rows; r++ {
			note := strings.Repeat("longer note text ", noteWords+r%5)
			grp.Rows = append(grp.Rows, Row{Label: fmt.Sprintf("day %d", r), Hours: 1.5, Notes: []string{note, "second"}})
		}
		in.Groups = append(in.Groups, grp)
	}
	return in
}

func TestRender_NeverSplitsRow(t *testing.T) {
	doc := Render(bigInput(6, 12, 15))
	require.Greater(t, len(doc.Pages), 2)

	pagesByRow := map[int]map[int]bool{}
	for _, p := range doc.Pages {
		for _, op := range p.Ops {
			if op.Row == 0 {
				continue
			}
			if pagesByRow[op.Row] == nil {
				pagesByRow[op.Row] = map[int]bool{}
			}
			pagesByRow[op.Row][p.Number] = true
			assert.GreaterOrEqual(t, op.Y, Margin, "row %d drawn into the bottom margin", op.Row)
		}
	}
	assert.Len(t, pagesByRow, 6*12)
	for row, pages := range pagesByRow {
		assert.Len(t, pages, 1, "row %d spans pages", row)
	}
}

func TestRender_ContinuationPageRedrawsColumnHeader(t *testing.T) {
	doc := Render(bigInput(1, 40, 10))
	require.Greater(t, len(doc.Pages), 1)
	for _, p := range doc.Pages {
		assert.Contains(t, p.Texts(), "Day", "page %d", p.Number)
		assert.Contains(t, p.Texts(), "Hours", "page %d", p.Number)
	}
	last := doc.Pages[len(doc.Pages)-1]
	assert.Contains(t, pageText(last), "Total Hours: 60.00")
}

func TestRender_PageNumbers(t *testing.T) {
	doc := Render(bigInput(6, 12, 15))
	n := len(doc.Pages)
	for i, p := range doc.Pages {
		assert.Equal(t, i+1, p.Number)
		assert.Contains(t, p.Texts(), fmt.Sprintf("Page %d of %d", i+1, n))
		assert.Contains(t, pageText(p), "Generated on")
	}
	assert.NotContains(t, pageText(doc.Pages[1]), "Name: Ada", "subject only on the first page")
}

func TestRender_OversizedRowClamped(t *testing.T) {
	huge := strings.Repeat("lorem ipsum dolor sit amet ", 400)
	doc := Render(Input{Groups: []Group{{Label: "w", Rows: []Row{{Label: "Monday", Hours: 1, Notes: []string{huge}}}}}})

	var lines []string
	for _, p := range doc.Pages {
		for _, op := range p.Ops {
			if op.Row == 1 && op.X == colNote {
				lines = append(lines, op.Text)
			}
		}
	}
	require.Len(t, lines, maxRowLines)
	assert.True(t, strings.HasSuffix(lines[len(lines)-1], Ellipsis))
}

func TestRender_GroupBreaksNearBottom(t *testing.T) {
	doc := Render(bigInput(4, 7, 2))
	for _, p := range doc.Pages {
		for _, op := range p.Ops {
			if op.Kind == KindText && strings.HasPrefix(op.Text, "Week: ") {
				assert.GreaterOrEqual(t, op.Y, Margin+6*LineHeight, "group header too low on page %d", p.Number)
			}
		}
	}
}

func TestWeeklyInput(t *testing.T) {
	b := domain.NewWeeklyBucket(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
	b.Day(domain.Mon).Hours = 8
	b.Day(domain.Mon).AddNote("Wrote design doc", time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC))

	in := WeeklyInput(b, "Ada", genAt)
	assert.Equal(t, "Weekly Report", in.Title)
	assert.Equal(t, "Downloaded on", in.FooterLabel)
	require.Len(t, in.Groups, 1)
	g := in.Groups[0]
	assert.Equal(t, "2025-03-10 - 2025-03-16", g.Label)
	require.Len(t, g.Rows, 7)
	assert.Equal(t, "Monday", g.Rows[0].Label)
	assert.Equal(t, "Sunday", g.Rows[6].Label)
	assert.Equal(t, []string{"Wrote design doc"}, g.Rows[0].Notes)

	doc := Render(in)
	assert.Contains(t, pageText(doc.Pages[0]), "Total Hours: 8.00")
}

func TestMonthlyInput(t *testing.T) {
	groups := []domain.WeekGroup{{
		Label: "2025-03-31 - 2025-04-06",
		Days: []domain.DaySummary{
			{Date: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), Key: domain.Tue, Hours: 2, Notes: []string{"a", "b"}},
		},
	}}
	in := MonthlyInput(groups, 2025, time.April, "Ada", genAt)
	assert.Equal(t, "April 2025 Monthly Report", in.Title)
	require.Len(t, in.Groups, 1)
	assert.Equal(t, "Tue 2025-04-01", in.Groups[0].Rows[0].Label)

	doc := Render(in)
	assert.Contains(t, pageText(doc.Pages[0]), "a | b")
}
