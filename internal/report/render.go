package report

import (
	"fmt"
	"math"
	"time"
)

// FooterLayout formats the generation stamp in the footer band.
const FooterLayout = "2006-01-02 15:04"

// Row is one table line: a day and everything noted for it.
type Row struct {
	Label string
	Hours float64
	Notes []string
}

// Group is a titled table followed by its total.
type Group struct {
	Label string
	Rows  []Row
}

// Input is everything the layout needs.
type Input struct {
	Title       string
	Subject     string
	GeneratedAt time.Time
	// FooterLabel precedes the generation stamp; "Generated on" when empty.
	FooterLabel string
	Groups      []Group
}

type layoutState int

const (
	stateNewPage layoutState = iota
	stateHeaderDrawn
	stateRowsFlowing
	stateDone
)

func (s layoutState) String() string {
	switch s {
	case stateNewPage:
		return "new_page"
	case stateHeaderDrawn:
		return "header_drawn"
	case stateRowsFlowing:
		return "rows_flowing"
	default:
		return "done"
	}
}

type layout struct {
	in    Input
	doc   Document
	y     float64
	state layoutState
	row   int
}

// maxRowLines is the most note lines a row may carry and still fit on a page
// that holds only the group and column headers.
var maxRowLines = int(math.Floor((PageHeight - Margin - 2*LineHeight - (Margin + 3*LineHeight)) / NoteLineHeight))

// Render lays the input out on A4 pages. The result depends only on the
// input. Rows are never split across pages.
func Render(in Input) Document {
	if in.FooterLabel == "" {
		in.FooterLabel = "Generated on"
	}
	l := &layout{in: in, doc: Document{Title: in.Title}}
	l.newPage()
	l.text(Margin, l.y, "Name: "+in.Subject, BodySize, false, Black)
	l.y -= 2 * LineHeight

	for _, g := range in.Groups {
		l.group(g)
	}
	l.state = stateDone
	l.numberPages()
	return l.doc
}

func (l *layout) page() *Page {
	return &l.doc.Pages[len(l.doc.Pages)-1]
}

func (l *layout) emit(op Instruction) {
	p := l.page()
	p.Ops = append(p.Ops, op)
}

func (l *layout) text(x, y float64, s string, size float64, bold bool, c Color) {
	l.emit(Instruction{Kind: KindText, X: x, Y: y, Text: s, Size: size, Bold: bold, Color: c})
}

func (l *layout) newPage() {
	l.doc.Pages = append(l.doc.Pages, Page{
		Number: len(l.doc.Pages) + 1,
		Width:  PageWidth,
		Height: PageHeight,
	})
	l.band(PageHeight - BandHeight)
	l.band(0)

	titleX := (PageWidth - TextWidth(l.in.Title, TitleSize, true)) / 2
	l.text(titleX, PageHeight-20, l.in.Title, TitleSize, true, White)
	footer := fmt.Sprintf("%s %s", l.in.FooterLabel, l.in.GeneratedAt.Format(FooterLayout))
	l.text(Margin, 11, footer, FooterSize, false, White)

	l.y = PageHeight - Margin
	l.state = stateNewPage
}

// band draws a horizontal gradient strip of BandSlices rectangles.
func (l *layout) band(y float64) {
	slice := PageWidth / BandSlices
	for i := 0; i < BandSlices; i++ {
		t := float64(i) / float64(BandSlices-1)
		l.emit(Instruction{
			Kind:  KindRect,
			X:     float64(i) * slice,
			Y:     y,
			W:     slice + 0.5,
			H:     BandHeight,
			Color: mix(bandFrom, bandTo, t),
		})
	}
}

func mix(a, b Color, t float64) Color {
	return Color{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

func (l *layout) group(g Group) {
	need := Margin + 6*LineHeight
	if len(g.Rows) > 0 {
		// Keep the header together with the first row.
		need = math.Max(need, rowThreshold(l.rowLines(g.Rows[0]))+2*LineHeight)
	}
	if l.y < need && l.state != stateNewPage {
		l.newPage()
	}

	l.text(Margin, l.y, "Week: "+g.Label, BodySize, true, Black)
	l.y -= LineHeight
	l.columnHeader()

	var total float64
	for _, r := range g.Rows {
		l.drawRow(r)
		total += r.Hours
	}

	l.emit(Instruction{
		Kind: KindLine, X: Margin, Y: l.y, X2: PageWidth - Margin, Y2: l.y,
		Thickness: 1, Color: RuleColor,
	})
	l.y -= 18
	l.text(Margin, l.y, fmt.Sprintf("Total Hours: %.2f", total), TotalSize, true, Black)
	l.y -= 2 * LineHeight
}

func (l *layout) columnHeader() {
	l.emit(Instruction{
		Kind: KindRect, X: Margin, Y: l.y - 5, W: PageWidth - 2*Margin, H: LineHeight,
		Color: HeaderFill,
	})
	l.text(colDay, l.y, "Day", RowSize, true, Black)
	l.text(colHours, l.y, "Hours", RowSize, true, Black)
	l.text(colNote, l.y, "Note", RowSize, true, Black)
	l.y -= LineHeight
	l.state = stateHeaderDrawn
}

func (l *layout) rowLines(r Row) []string {
	return clampLines(Wrap(noteText(r.Notes), NoteSize, NoteWrapWidth, false), maxRowLines)
}

func rowThreshold(lines []string) float64 {
	return Margin + 3*LineHeight + float64(len(lines))*NoteLineHeight
}

func (l *layout) drawRow(r Row) {
	lines := l.rowLines(r)
	if l.y < rowThreshold(lines) && l.state == stateRowsFlowing {
		l.newPage()
		l.columnHeader()
	}

	l.row++
	id := l.row
	l.emit(Instruction{Kind: KindText, X: colDay, Y: l.y, Text: r.Label, Size: RowSize, Color: Black, Row: id})
	l.emit(Instruction{Kind: KindText, X: colHours, Y: l.y, Text: fmt.Sprintf("%.2f", r.Hours), Size: RowSize, Color: Black, Row: id})
	for i, line := range lines {
		l.emit(Instruction{
			Kind: KindText, X: colNote, Y: l.y - float64(i)*NoteLineHeight,
			Text: line, Size: NoteSize, Color: NoteColor, Row: id,
		})
	}
	l.y -= math.Max(LineHeight, float64(len(lines))*NoteLineHeight) + RowGap
	l.state = stateRowsFlowing
}

func (l *layout) numberPages() {
	total := len(l.doc.Pages)
	for i := range l.doc.Pages {
		label := fmt.Sprintf("Page %d of %d", i+1, total)
		x := PageWidth - Margin - TextWidth(label, FooterSize, false)
		p := &l.doc.Pages[i]
		p.Ops = append(p.Ops, Instruction{Kind: KindText, X: x, Y: 11, Text: label, Size: FooterSize, Color: White})
	}
}
