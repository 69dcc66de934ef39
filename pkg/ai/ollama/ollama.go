package ollama

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

// GraphOllamaClient implements ai.GraphAIClient against an Ollama server.
type GraphOllamaClient struct {
	extractionModel string
	embeddingModel  string
	dimensions      int

	reqLock *semaphore.Weighted

	metricsLock sync.Mutex
	metrics     ai.ModelMetrics

	Client *api.Client
}

// NewGraphOllamaClientParams contains configuration options for creating a new GraphOllamaClient.
type NewGraphOllamaClientParams struct {
	ExtractionModel string
	EmbeddingModel  string
	Dimensions      int

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
}

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// clone so original request isn't modified
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewGraphOllamaClient connects to the Ollama server at BaseURL, or to the
// default local address when BaseURL is empty. ApiKey is sent as a bearer
// token for servers behind an authenticating proxy.
func NewGraphOllamaClient(
	params NewGraphOllamaClientParams,
) (*GraphOllamaClient, error) {
	var (
		u   *url.URL
		err error
	)

	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}
	if params.MaxConcurrentRequests <= 0 {
		params.MaxConcurrentRequests = 15
	}

	headers := map[string]string{}
	if params.ApiKey != "" {
		headers["Authorization"] = "Bearer " + params.ApiKey
	}
	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: headers,
			rt:      http.DefaultTransport,
		},
	}

	return &GraphOllamaClient{
		extractionModel: params.ExtractionModel,
		embeddingModel:  params.EmbeddingModel,
		dimensions:      params.Dimensions,

		reqLock: semaphore.NewWeighted(params.MaxConcurrentRequests),

		Client: api.NewClient(u, httpClient),
	}, nil
}
