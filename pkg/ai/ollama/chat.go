package ollama

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"

	"github.com/ollama/ollama/api"
)

const (
	defaultContext = 4096
	// headroom added to the prompt estimate for the answer
	answerTokens = 2048
)

// GenerateCompletion sends a single-turn prompt and returns assistant text.
// A requested response format is passed to Ollama as a JSON schema.
func (c *GraphOllamaClient) GenerateCompletion(
	ctx context.Context,
	prompt string,
	opts ...ai.GenerateOption,
) (string, error) {
	options := ai.GenerateOptions{
		Model:       c.extractionModel,
		Temperature: 0.1,
	}
	for _, o := range opts {
		o(&options)
	}

	msgs := make([]api.Message, 0, len(options.SystemPrompts)+1)
	for _, sp := range options.SystemPrompts {
		msgs = append(msgs, api.Message{Role: "system", Content: sp})
	}
	msgs = append(msgs, api.Message{Role: "user", Content: prompt})

	stream := false
	req := &api.ChatRequest{
		Model:    options.Model,
		Messages: msgs,
		Stream:   &stream,
		Options:  map[string]any{"temperature": options.Temperature},
	}
	if options.MaxTokens > 0 {
		req.Options["num_predict"] = options.MaxTokens
	}
	if options.Format != nil {
		format, err := json.Marshal(options.Format.Schema)
		if err != nil {
			return "", fmt.Errorf("marshal response schema: %w", err)
		}
		req.Format = format
	}

	// Ollama silently truncates prompts beyond num_ctx.
	promptTokens := ai.CountTokens(prompt)
	if need := promptTokens + answerTokens; need > defaultContext {
		req.Options["num_ctx"] = need
	}

	if err := c.reqLock.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer c.reqLock.Release(1)

	var final api.ChatResponse
	if err := c.Client.Chat(ctx, req, func(cr api.ChatResponse) error {
		final.Message.Content += cr.Message.Content
		if cr.Done {
			final.Done = true
			final.Metrics = cr.Metrics
		}
		return nil
	}); err != nil {
		return "", err
	}

	input := final.Metrics.PromptEvalCount
	if input == 0 {
		input = promptTokens
	}
	c.modifyMetrics(ai.ModelMetrics{
		InputTokens:  input,
		OutputTokens: final.Metrics.EvalCount,
		TotalTokens:  input + final.Metrics.EvalCount,
		DurationMs:   final.Metrics.TotalDuration.Milliseconds(),
	})

	if final.Message.Content == "" {
		return "", ai.ErrEmptyResponse
	}
	return final.Message.Content, nil
}
