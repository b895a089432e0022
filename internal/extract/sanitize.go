// Package extract implements the pattern extraction layer: a fixed catalogue
// of textual patterns that turns raw test-runner output into per-category
// candidate matches with confidence grades.
package extract

import (
	"regexp"
	"strings"
)

// Truncation limits for raw output. Anything beyond these bounds carries no
// extra diagnostic signal and only slows pattern matching down.
const (
	MaxChars = 3000
	MaxLines = 25
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)

// Sanitize normalizes raw runner output for pattern matching: strips ANSI
// color codes, normalizes line endings, drops NUL bytes from binary blobs,
// and truncates to MaxLines lines / MaxChars characters.
func Sanitize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\x00", "")
	s = ansiEscape.ReplaceAllString(s, "")

	if lines := strings.SplitN(s, "\n", MaxLines+1); len(lines) > MaxLines {
		s = strings.Join(lines[:MaxLines], "\n")
	}
	if len(s) > MaxChars {
		s = s[:MaxChars]
	}

	return strings.TrimSpace(s)
}
