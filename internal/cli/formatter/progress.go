package formatter

import (
	"math"
	"strings"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders a fixed-width histogram bar for value against scale.
// Bars are green up to the scale and red past it.
func RenderBar(value, scale float64, width int) string {
	if width < 1 {
		width = 1
	}
	if value < 0 {
		value = 0
	}
	if scale <= 0 {
		scale = 1
	}
	filled := int(math.Round(value / scale * float64(width)))
	if filled > width {
		filled = width
	}
	bar := StyleGreen.Render(strings.Repeat(filledBlock, filled))
	if value > scale {
		bar = StyleRed.Render(strings.Repeat(filledBlock, filled))
	}
	return bar + StyleDim.Render(strings.Repeat(emptyBlock, width-filled))
}
