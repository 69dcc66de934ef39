package util

import (
	"strings"
	"unicode/utf8"
)

// SanitizePostgresText drops invalid UTF-8 and NUL bytes, both of which
// Postgres rejects in text columns.
func SanitizePostgresText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

// TruncateRunes cuts value to at most maxRunes runes. maxRunes <= 0 disables
// truncation.
func TruncateRunes(value string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(value) <= maxRunes {
		return value
	}
	n := 0
	for i := range value {
		if n == maxRunes {
			return value[:i]
		}
		n++
	}
	return value
}
