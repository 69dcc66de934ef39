package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned by clients when the provider answered without
// any content.
var ErrEmptyResponse = errors.New("empty model response")

// GenerateOptions holds configuration for AI generation requests.
type GenerateOptions struct {
	Model         string          // Model identifier to use for generation
	SystemPrompts []string        // System prompts prepended to the request
	Temperature   float64         // Sampling temperature (0.0-2.0)
	MaxTokens     int             // Upper bound for generated tokens, 0 = provider default
	Format        *ResponseFormat // Requested structured output, nil = free text
}

// ResponseFormat asks the provider for JSON that follows Schema. Providers
// that cannot enforce a schema fall back to plain JSON mode; callers still
// validate the result.
type ResponseFormat struct {
	Name        string
	Description string
	Schema      any
}

// ModelMetrics contains performance metrics from AI model operations.
type ModelMetrics struct {
	Requests       int     `json:"requests"`
	InputTokens    int     `json:"input_tokens"`
	OutputTokens   int     `json:"output_tokens"`
	TotalTokens    int     `json:"total_tokens"`
	DurationMs     int64   `json:"duration_ms"`
	TokenPerSecond float32 `json:"tokens_per_second"`
}

// GenerateOption is a functional option for configuring AI generation requests.
type GenerateOption func(*GenerateOptions)

// WithSystemPrompts returns a GenerateOption that sets the system prompts
// to prepend to the generation request.
func WithSystemPrompts(prompts ...string) GenerateOption {
	return func(o *GenerateOptions) {
		o.SystemPrompts = prompts
	}
}

// WithTemperature returns a GenerateOption that sets the sampling temperature.
// Higher values (e.g., 1.0) produce more random outputs, while lower values
// (e.g., 0.2) make outputs more focused and deterministic.
func WithTemperature(temp float64) GenerateOption {
	return func(o *GenerateOptions) {
		o.Temperature = temp
	}
}

// WithMaxTokens caps the length of the generated answer.
func WithMaxTokens(n int) GenerateOption {
	return func(o *GenerateOptions) {
		o.MaxTokens = n
	}
}

// WithFormat requests JSON output shaped like the schema of out. out is only
// used for reflection, see GenerateSchema.
func WithFormat(name, description string, out any) GenerateOption {
	return func(o *GenerateOptions) {
		o.Format = &ResponseFormat{
			Name:        name,
			Description: description,
			Schema:      GenerateSchema(out),
		}
	}
}

// GraphAIClient is the model surface used by the knowledge graph engine.
//
// GenerateCompletion must fail on provider errors and when ctx expires; it
// never retries on its own. GenerateEmbedding returns a vector with exactly the
// configured number of dimensions and a zero vector for blank input.
type GraphAIClient interface {
	GenerateCompletion(
		ctx context.Context,
		prompt string,
		opts ...GenerateOption,
	) (string, error)
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)

	ResetMetrics()
	GetMetrics() ModelMetrics
}
