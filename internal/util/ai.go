package util

import (
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	oai "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai/ollama"
	gai "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai/openai"
)

// NewAIClientFromEnv builds the model client selected by AI_ADAPTER
// ("openai" by default, or "ollama").
func NewAIClientFromEnv() (ai.GraphAIClient, error) {
	dimensions := GetEnvInt("AI_EMBED_DIM", 512)
	maxRequests := int64(GetEnvInt("AI_PARALLEL_REQ", 15))

	switch adapter := GetEnvString("AI_ADAPTER", "openai"); adapter {
	case "ollama":
		client, err := oai.NewGraphOllamaClient(oai.NewGraphOllamaClientParams{
			ExtractionModel: GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:  GetEnv("AI_EMBED_MODEL"),
			Dimensions:      dimensions,

			BaseURL: GetEnv("AI_CHAT_URL"),
			ApiKey:  GetEnvString("AI_CHAT_KEY", ""),

			MaxConcurrentRequests: maxRequests,
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		return client, nil
	case "openai":
		return gai.NewGraphOpenAIClient(gai.NewGraphOpenAIClientParams{
			ExtractionModel: GetEnv("AI_CHAT_EXTRACT_MODEL"),
			EmbeddingModel:  GetEnv("AI_EMBED_MODEL"),
			Dimensions:      dimensions,

			EmbeddingURL: GetEnvString("AI_EMBED_URL", ""),
			EmbeddingKey: GetEnvString("AI_EMBED_KEY", ""),
			ChatURL:      GetEnvString("AI_CHAT_URL", ""),
			ChatKey:      GetEnvString("AI_CHAT_KEY", ""),

			MaxConcurrentRequests: maxRequests,
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI_ADAPTER %q", adapter)
	}
}
