package report

import (
	"sync"

	"github.com/go-pdf/fpdf"
)

// measure is a scratch document used only for string widths. fpdf is not
// safe for concurrent use.
var measure struct {
	once      sync.Once
	mu        sync.Mutex
	pdf       *fpdf.Fpdf
	toWinAnsi func(string) string
}

// TextWidth returns the rendered width of s in points at the given size, using
// the same Helvetica metrics the encoder embeds.
func TextWidth(s string, size float64, bold bool) float64 {
	measure.once.Do(func() {
		measure.pdf = newPDF()
		measure.toWinAnsi = measure.pdf.UnicodeTranslatorFromDescriptor("")
	})
	measure.mu.Lock()
	defer measure.mu.Unlock()
	measure.pdf.SetFont(fontFamily, fontStyle(bold), size)
	return measure.pdf.GetStringWidth(measure.toWinAnsi(s))
}
