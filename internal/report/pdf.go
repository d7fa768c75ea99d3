package report

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"
)

const fontFamily = "Helvetica"

// newPDF returns an empty point-unit document without margins or automatic
// page breaks. Every position comes from the layout.
func newPDF() *fpdf.Fpdf {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: PageWidth, Ht: PageHeight},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return pdf
}

func fontStyle(bold bool) string {
	if bold {
		return "B"
	}
	return ""
}

// buildPDF replays the document's instructions. fpdf measures y from the top
// of the page, so every y is flipped against the page height.
func buildPDF(doc Document) *fpdf.Fpdf {
	pdf := newPDF()
	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("shiftlog", true)
	toWinAnsi := pdf.UnicodeTranslatorFromDescriptor("")

	for _, p := range doc.Pages {
		pdf.AddPageFormat("P", fpdf.SizeType{Wd: p.Width, Ht: p.Height})
		for _, op := range p.Ops {
			switch op.Kind {
			case KindRect:
				pdf.SetFillColor(rgb(op.Color))
				pdf.Rect(op.X, p.Height-op.Y-op.H, op.W, op.H, "F")
			case KindLine:
				pdf.SetDrawColor(rgb(op.Color))
				pdf.SetLineWidth(op.Thickness)
				pdf.Line(op.X, p.Height-op.Y, op.X2, p.Height-op.Y2)
			case KindText:
				pdf.SetFont(fontFamily, fontStyle(op.Bold), op.Size)
				pdf.SetTextColor(rgb(op.Color))
				pdf.Text(op.X, p.Height-op.Y, toWinAnsi(op.Text))
			}
		}
	}
	return pdf
}

// EncodePDF renders the document with the standard Helvetica fonts.
func EncodePDF(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := WritePDF(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePDF encodes doc to out.
func WritePDF(out io.Writer, doc Document) error {
	if err := buildPDF(doc).Output(out); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func rgb(c Color) (int, int, int) {
	return channel(c.R), channel(c.G), channel(c.B)
}

func channel(v float64) int {
	return int(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
