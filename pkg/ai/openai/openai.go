package openai

import (
	"sync"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

// GraphOpenAIClient talks to any OpenAI compatible endpoint. Chat and
// embedding requests may go to different base URLs and keys.
//
// A GraphOpenAIClient should be created using NewGraphOpenAIClient.
type GraphOpenAIClient struct {
	extractionModel string
	embeddingModel  string
	dimensions      int

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	ChatClient      *openai.Client
	EmbeddingClient *openai.Client
}

// NewGraphOpenAIClientParams defines the configuration parameters for
// creating a new GraphOpenAIClient.
//
// Dimensions is the vector size of the store; provider vectors are padded or
// truncated to it. MaxConcurrentRequests caps in-flight requests across chat
// and embeddings (defaults to 15).
type NewGraphOpenAIClientParams struct {
	ExtractionModel string
	EmbeddingModel  string
	Dimensions      int

	EmbeddingURL string
	EmbeddingKey string
	ChatURL      string
	ChatKey      string

	MaxConcurrentRequests int64
}

// NewGraphOpenAIClient creates a client for the given endpoints.
//
// Example:
//
//	client := openai.NewGraphOpenAIClient(openai.NewGraphOpenAIClientParams{
//		ExtractionModel: "gpt-4o-mini",
//		EmbeddingModel:  "text-embedding-3-small",
//		Dimensions:      512,
//		ChatKey:         os.Getenv("OPENAI_API_KEY"),
//		EmbeddingKey:    os.Getenv("OPENAI_API_KEY"),
//	})
func NewGraphOpenAIClient(
	params NewGraphOpenAIClientParams,
) *GraphOpenAIClient {
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = 15
	}
	embedKey := params.EmbeddingKey
	if embedKey == "" {
		embedKey = params.ChatKey
	}

	return &GraphOpenAIClient{
		extractionModel: params.ExtractionModel,
		embeddingModel:  params.EmbeddingModel,
		dimensions:      params.Dimensions,

		reqLock: semaphore.NewWeighted(params.MaxConcurrentRequests),

		ChatClient:      newOpenaiClient(params.ChatURL, params.ChatKey),
		EmbeddingClient: newOpenaiClient(params.EmbeddingURL, embedKey),
	}
}

func newOpenaiClient(
	baseURL string,
	apiKey string,
) *openai.Client {
	if apiKey == "" {
		return nil
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
	}

	if baseURL != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(options...)

	return &client
}
