package formatter

import "regexp"

// ansiPattern matches ANSI SGR escape sequences.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes, leaving the visible text.
func StripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}
