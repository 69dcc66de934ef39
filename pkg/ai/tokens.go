package ai

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

const tokenEncoding = "o200k_base"

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
	encErr  error
)

// CountTokens estimates the number of tokens in text with the o200k_base
// encoding. If the encoding cannot be loaded it falls back to a
// four-characters-per-token estimate.
func CountTokens(text string) int {
	encOnce.Do(func() {
		enc, encErr = tiktoken.GetEncoding(tokenEncoding)
	})
	if encErr != nil || enc == nil {
		return (len(text) + 3) / 4
	}
	return len(enc.Encode(text, nil, nil))
}
