// Package common holds small helpers shared by the parsers and the mapper.
package common

import "strings"

// UnknownStr is the display name for enum values outside their known range.
const UnknownStr = "unknown"

// SplitTrim splits s on sep and trims surrounding whitespace from every part.
// Empty parts are kept; positional callers count them as slots.
func SplitTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}

	return parts
}

// CutTrim splits s around the first sep and trims both halves.
func CutTrim(s, sep string) (before, after string, found bool) {
	before, after, found = strings.Cut(s, sep)

	return strings.TrimSpace(before), strings.TrimSpace(after), found
}
