package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
)

// EmbeddingInput is the text embedded for an entity.
func EmbeddingInput(name, entityType string) []byte {
	return fmt.Appendf(nil, "%s %s", name, entityType)
}

// LazyEmbedding computes an embedding at most once, on first use. A failed
// call is remembered as well, so a retried transaction does not hit the
// model again.
type LazyEmbedding struct {
	client ai.GraphAIClient
	input  []byte

	once sync.Once
	vec  []float32
	err  error
}

func NewLazyEmbedding(client ai.GraphAIClient, input []byte) *LazyEmbedding {
	return &LazyEmbedding{client: client, input: input}
}

func (l *LazyEmbedding) Get(ctx context.Context) ([]float32, error) {
	l.once.Do(func() {
		if l.client == nil {
			l.err = fmt.Errorf("ai client is nil")
			return
		}
		l.vec, l.err = l.client.GenerateEmbedding(ctx, l.input)
	})
	return l.vec, l.err
}
