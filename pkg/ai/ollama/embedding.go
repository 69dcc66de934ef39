package ollama

import (
	"context"
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"

	"github.com/ollama/ollama/api"
)

// GenerateEmbedding creates a vector embedding for the given input text
// using the configured embedding model on Ollama. The result always has the
// configured number of dimensions; blank input yields a zero vector.
func (c *GraphOllamaClient) GenerateEmbedding(
	ctx context.Context,
	input []byte,
) ([]float32, error) {
	if ai.IsBlank(input) {
		return make([]float32, c.dimensions), nil
	}

	req := &api.EmbedRequest{
		Model: c.embeddingModel,
		Input: string(input),
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	res, err := c.Client.Embed(ctx, req)
	if err != nil {
		return nil, err
	}

	c.modifyMetrics(ai.ModelMetrics{
		InputTokens: res.PromptEvalCount,
		TotalTokens: res.PromptEvalCount,
		DurationMs:  res.TotalDuration.Milliseconds(),
	})

	if len(res.Embeddings) == 0 {
		return nil, fmt.Errorf("ollama returned no embeddings: %w", ai.ErrEmptyResponse)
	}
	return ai.FitVector(res.Embeddings[0], c.dimensions), nil
}
