package helpers

import (
	"strings"
)

// TruncateRunes shortens s to at most max runes, appending an ellipsis when
// anything was cut.
func TruncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// CollapseWhitespace joins all whitespace-separated fragments of s with
// single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
