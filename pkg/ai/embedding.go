package ai

import (
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
)

// FitVector pads with zeros or truncates values to exactly dim entries, so
// that provider vectors always match the column dimension of the store.
// Every mismatch is logged as a warning.
func FitVector(values []float32, dim int) []float32 {
	if dim <= 0 {
		return values
	}
	if len(values) == dim {
		return values
	}
	logger.Warn("Embedding dimension mismatch", "got", len(values), "want", dim)
	out := make([]float32, dim)
	copy(out, values)
	return out
}

// IsBlank reports whether an embedding input carries no text.
func IsBlank(input []byte) bool {
	return len(strings.TrimSpace(string(input))) == 0
}
