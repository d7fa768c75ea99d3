package report

import "strings"

// Ellipsis marks a note cut short to fit on one page.
const Ellipsis = "..."

// Wrap breaks text into lines no wider than maxWidth at the given size,
// filling greedily word by word. A word wider than maxWidth gets a line of
// its own and is never split.
func Wrap(text string, size, maxWidth float64, bold bool) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	current := words[0]
	for _, w := range words[1:] {
		candidate := current + " " + w
		if TextWidth(candidate, size, bold) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = w
	}
	return append(lines, current)
}

// clampLines keeps at most max lines, marking the last kept line with an
// ellipsis when anything was dropped.
func clampLines(lines []string, max int) []string {
	if max < 1 {
		max = 1
	}
	if len(lines) <= max {
		return lines
	}
	out := append([]string(nil), lines[:max]...)
	out[max-1] += Ellipsis
	return out
}

// noteText joins a row's notes for display.
func noteText(notes []string) string {
	var kept []string
	for _, n := range notes {
		if strings.TrimSpace(n) != "" {
			kept = append(kept, n)
		}
	}
	if len(kept) == 0 {
		return "No note"
	}
	return strings.Join(kept, " | ")
}
