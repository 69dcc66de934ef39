package graph

import (
	"strings"
	"unicode/utf8"
)

const paragraphSeparator = "\n\n"

// ChunkText splits content at paragraph boundaries (blank lines) into chunks
// of at most maxChars characters.
//
// Content that already fits is returned unchanged as a single chunk; blank
// content yields no chunks. Paragraphs are trimmed and never split, so a
// single paragraph longer than maxChars is kept whole. When a chunk is closed,
// the next one starts with the closed chunk's last paragraph as context, so a
// chunk may exceed maxChars when that paragraph and the next one are both
// large.
func ChunkText(content string, maxChars int) []string {
	if strings.TrimSpace(content) == "" {
		return nil
	}
	if maxChars <= 0 || utf8.RuneCountInString(content) <= maxChars {
		return []string{content}
	}

	var (
		chunks     []string
		current    []string
		currentLen int
	)
	for _, raw := range strings.Split(content, paragraphSeparator) {
		para := strings.TrimSpace(raw)
		if para == "" {
			continue
		}
		cost := utf8.RuneCountInString(para) + len(paragraphSeparator)

		if len(current) > 0 && currentLen+cost > maxChars {
			chunks = append(chunks, strings.Join(current, paragraphSeparator))

			last := current[len(current)-1]
			current = []string{last}
			currentLen = utf8.RuneCountInString(last) + len(paragraphSeparator)
		}

		current = append(current, para)
		currentLen += cost
	}
	if len(current) > 0 {
		chunks = append(chunks, strings.Join(current, paragraphSeparator))
	}

	return chunks
}
