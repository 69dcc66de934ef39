package graph

import (
	"time"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
)

const (
	defaultMaxChunkChars  = 3000
	defaultModelTimeout   = 120 * time.Second
	defaultParallelChunks = 4
)

// GraphClient turns document text into entity and relationship candidates.
// It owns the chunking limits, the per-call model budget and the number of
// chunks extracted concurrently.
//
// A GraphClient should be created using NewGraphClient.
type GraphClient struct {
	aiClient       ai.GraphAIClient
	maxChunkChars  int
	modelTimeout   time.Duration
	maxRetries     int
	parallelChunks int
}

// NewGraphClientParams defines the configuration parameters for creating
// a new GraphClient.
//
// MaxChunkChars is the soft upper bound for a chunk, measured in characters.
// ModelTimeout bounds a single model attempt. MaxRetries is the number of
// attempts after the first one; zero or less disables retrying. ParallelChunks
// controls how many chunks are extracted at the same time. Zero values of the
// other fields select the defaults (3000, 120s, 4).
type NewGraphClientParams struct {
	AIClient       ai.GraphAIClient
	MaxChunkChars  int
	ModelTimeout   time.Duration
	MaxRetries     int
	ParallelChunks int
}

// NewGraphClient creates and returns a new GraphClient configured with
// the provided parameters.
//
// Example:
//
//	client := graph.NewGraphClient(graph.NewGraphClientParams{
//		AIClient:       aiClient,
//		MaxChunkChars:  3000,
//		MaxRetries:     2,
//		ParallelChunks: 4,
//	})
//	entities, relationships := client.Extract(ctx, text, metadata)
func NewGraphClient(params NewGraphClientParams) *GraphClient {
	g := &GraphClient{
		aiClient:       params.AIClient,
		maxChunkChars:  params.MaxChunkChars,
		modelTimeout:   params.ModelTimeout,
		maxRetries:     params.MaxRetries,
		parallelChunks: params.ParallelChunks,
	}
	if g.maxChunkChars <= 0 {
		g.maxChunkChars = defaultMaxChunkChars
	}
	if g.modelTimeout <= 0 {
		g.modelTimeout = defaultModelTimeout
	}
	if g.maxRetries < 0 {
		g.maxRetries = 0
	}
	if g.parallelChunks <= 0 {
		g.parallelChunks = defaultParallelChunks
	}

	return g
}
