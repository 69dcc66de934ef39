package common

import (
	"maps"
	"strings"
	"unicode"
)

// CanonicalName turns a display name into the deduplication key: lower-cased,
// punctuation other than hyphens and underscores removed, whitespace runs
// collapsed to a single space and trimmed.
func CanonicalName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSpace := false
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = b.Len() > 0
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_', r == '-':
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// MergeAttributes merges incoming into existing. Keys already present in
// existing keep their value. Neither input is modified.
func MergeAttributes(existing, incoming map[string]any) map[string]any {
	out := make(map[string]any, len(existing)+len(incoming))
	maps.Copy(out, incoming)
	maps.Copy(out, existing)
	return out
}

// ClampConfidence maps anything outside [0,1] (including NaN) to
// DefaultConfidence.
func ClampConfidence(v float64) float64 {
	if v != v || v < 0 || v > 1 {
		return DefaultConfidence
	}
	return v
}
