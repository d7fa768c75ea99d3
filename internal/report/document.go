// Package report lays out weekly and monthly summaries as paginated drawing
// instructions and encodes them as PDF.
package report

// Page geometry and typography, in PDF points.
const (
	PageWidth  = 595.0
	PageHeight = 842.0
	Margin     = 50.0

	BandHeight = 30.0
	BandSlices = 50

	TitleSize  = 18.0
	BodySize   = 13.0
	RowSize    = 12.0
	NoteSize   = 10.0
	TotalSize  = 14.0
	FooterSize = 10.0

	NoteWrapWidth  = 300.0
	NoteLineHeight = 13.0
	RowGap         = 5.0
	LineHeight     = 18.0
)

// Column x positions of the day table.
const (
	colDay   = Margin + 5
	colHours = Margin + 125
	colNote  = Margin + 190
)

// Color is an RGB triple with components in [0, 1].
type Color struct {
	R, G, B float64
}

var (
	White      = Color{1, 1, 1}
	Black      = Color{0, 0, 0}
	HeaderFill = Color{0.9, 0.9, 0.92}
	RuleColor  = Color{0.6, 0.6, 0.6}
	NoteColor  = Color{0.25, 0.25, 0.25}

	bandFrom = Color{0.16, 0.32, 0.75}
	bandTo   = Color{0.45, 0.22, 0.7}
)

// Kind selects which fields of an Instruction apply.
type Kind int

const (
	KindText Kind = iota
	KindRect
	KindLine
)

// Instruction is one drawing primitive. Text uses X, Y, Text, Size, Bold.
// Rect uses X, Y, W, H as a filled rectangle. Line runs from (X, Y) to
// (X2, Y2) with Thickness. Coordinates have their origin bottom-left.
type Instruction struct {
	Kind      Kind
	X, Y      float64
	X2, Y2    float64
	W, H      float64
	Text      string
	Size      float64
	Bold      bool
	Thickness float64
	Color     Color

	// Row is the 1-based table row an instruction belongs to, 0 otherwise.
	Row int
}

// Page is one laid-out page.
type Page struct {
	Number int
	Width  float64
	Height float64
	Ops    []Instruction
}

// Document is the complete laid-out report.
type Document struct {
	Title string
	Pages []Page
}

// Texts returns the text of every text instruction on the page, in order.
func (p Page) Texts() []string {
	var out []string
	for _, op := range p.Ops {
		if op.Kind == KindText {
			out = append(out, op.Text)
		}
	}
	return out
}
