package graph

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

type fakeAI struct {
	mu      sync.Mutex
	prompts []string
	options []ai.GenerateOptions
	respond func(ctx context.Context, prompt string) (string, error)
}

func (f *fakeAI) GenerateCompletion(ctx context.Context, prompt string, opts ...ai.GenerateOption) (string, error) {
	options := ai.GenerateOptions{Temperature: 1}
	for _, opt := range opts {
		opt(&options)
	}
	f.mu.Lock()
	f.prompts = append(f.prompts, prompt)
	f.options = append(f.options, options)
	f.mu.Unlock()
	return f.respond(ctx, prompt)
}

func (f *fakeAI) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return make([]float32, 4), nil
}

func (f *fakeAI) ResetMetrics() {}

func (f *fakeAI) GetMetrics() ai.ModelMetrics { return ai.ModelMetrics{} }

func (f *fakeAI) count(kind string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, p := range f.prompts {
		if strings.Contains(p, kind) {
			n++
		}
	}
	return n
}

const (
	entityPass       = "entity extractor"
	relationshipPass = "relationship extractor"
)

func TestExtract_EmptyContent(t *testing.T) {
	fake := &fakeAI{respond: func(context.Context, string) (string, error) {
		t.Errorf("model must not be called")
		return "", nil
	}}
	client := NewGraphClient(NewGraphClientParams{AIClient: fake})

	entities, relationships := client.Extract(context.Background(), "   ", common.DocumentMetadata{})
	if len(entities) != 0 || len(relationships) != 0 {
		t.Fatalf("expected no candidates, got %d/%d", len(entities), len(relationships))
	}
}

func TestExtract_SingleChunk(t *testing.T) {
	fake := &fakeAI{respond: func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, relationshipPass) {
			if !strings.Contains(prompt, "- SES (Agency)") {
				t.Errorf("relationship prompt misses entity list: %s", prompt)
			}
			return `{"relationships":[{"source_name":"SES","source_type":"Agency","target_name":"Riverside","target_type":"Community","relationship_type":"serves","confidence":0.85,"evidence_text":"The SES serves Riverside."}]}`, nil
		}
		if !strings.Contains(prompt, "Document title: Flood plan") {
			t.Errorf("entity prompt misses metadata: %s", prompt)
		}
		return `{"entities":[
			{"entity_type":"Agency","name":"SES","confidence":0.9,"evidence_text":"The SES"},
			{"entity_type":"Community","name":"Riverside","confidence":0.8}
		]}`, nil
	}}
	client := NewGraphClient(NewGraphClientParams{AIClient: fake})

	entities, relationships := client.Extract(
		context.Background(),
		"The SES serves Riverside.",
		common.DocumentMetadata{Title: "Flood plan"},
	)
	if len(entities) != 2 || entities[0].Name != "SES" || entities[1].Name != "Riverside" {
		t.Fatalf("unexpected entities %#v", entities)
	}
	if len(relationships) != 1 || relationships[0].Type != "serves" || relationships[0].Confidence != 0.85 {
		t.Fatalf("unexpected relationships %#v", relationships)
	}
	if fake.count(entityPass) != 1 || fake.count(relationshipPass) != 1 {
		t.Fatalf("expected one call per pass, got %d/%d", fake.count(entityPass), fake.count(relationshipPass))
	}
}

func TestExtract_RequestsDeterministicJSON(t *testing.T) {
	fake := &fakeAI{respond: func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, relationshipPass) {
			return `{"relationships":[]}`, nil
		}
		return `{"entities":[{"entity_type":"Agency","name":"SES"}]}`, nil
	}}
	client := NewGraphClient(NewGraphClientParams{AIClient: fake})

	client.Extract(context.Background(), "The SES.", common.DocumentMetadata{})

	if len(fake.options) != 2 {
		t.Fatalf("expected one call per pass, got %d", len(fake.options))
	}
	for i, want := range []string{"entities", "relationships"} {
		opts := fake.options[i]
		if opts.Format == nil || opts.Format.Name != want {
			t.Errorf("call %d: format = %+v, want %s", i, opts.Format, want)
		}
		if opts.Temperature != 0 {
			t.Errorf("call %d: temperature = %v, want 0", i, opts.Temperature)
		}
		if len(opts.SystemPrompts) != 1 || opts.SystemPrompts[0] != ai.JSONSystemPrompt {
			t.Errorf("call %d: system prompts = %q", i, opts.SystemPrompts)
		}
	}
}

func TestNewGraphClient_Retries(t *testing.T) {
	tests := []struct {
		name       string
		maxRetries int
		wantCalls  int
	}{
		{name: "zero disables retries", maxRetries: 0, wantCalls: 1},
		{name: "negative disables retries", maxRetries: -3, wantCalls: 1},
		{name: "two retries", maxRetries: 2, wantCalls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeAI{respond: func(context.Context, string) (string, error) {
				return "", errors.New("model unavailable")
			}}
			client := NewGraphClient(NewGraphClientParams{AIClient: fake, MaxRetries: tt.maxRetries})

			client.Extract(context.Background(), "Some text.", common.DocumentMetadata{})
			if got := fake.count(entityPass); got != tt.wantCalls {
				t.Fatalf("entity attempts = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestExtract_RetryExhaustionYieldsNothing(t *testing.T) {
	fake := &fakeAI{respond: func(context.Context, string) (string, error) {
		return "", errors.New("model unavailable")
	}}
	client := NewGraphClient(NewGraphClientParams{AIClient: fake, MaxRetries: 2})

	entities, relationships := client.Extract(context.Background(), "Some text.", common.DocumentMetadata{})
	if len(entities) != 0 || len(relationships) != 0 {
		t.Fatalf("expected no candidates, got %d/%d", len(entities), len(relationships))
	}
	if got := fake.count(entityPass); got != 3 {
		t.Fatalf("expected 3 entity attempts, got %d", got)
	}
	if got := fake.count(relationshipPass); got != 0 {
		t.Fatalf("relationship pass must not run without entities, got %d calls", got)
	}
}

func TestExtract_RetriesAfterTimeout(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	fake := &fakeAI{respond: func(ctx context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, relationshipPass) {
			return `{"relationships":[]}`, nil
		}
		mu.Lock()
		calls++
		first := calls == 1
		mu.Unlock()
		if first {
			<-ctx.Done()
			return "", ctx.Err()
		}
		return `{"entities":[{"entity_type":"HazardType","name":"Flood"}]}`, nil
	}}
	client := NewGraphClient(NewGraphClientParams{
		AIClient:     fake,
		ModelTimeout: 20 * time.Millisecond,
		MaxRetries:   1,
	})

	entities, relationships := client.Extract(context.Background(), "Floods happen.", common.DocumentMetadata{})
	if len(entities) != 1 || entities[0].Name != "Flood" || entities[0].Confidence != common.DefaultConfidence {
		t.Fatalf("unexpected entities %#v", entities)
	}
	if len(relationships) != 0 {
		t.Fatalf("unexpected relationships %#v", relationships)
	}
	if got := fake.count(relationshipPass); got != 2 {
		t.Fatalf("expected 2 relationship attempts for an empty answer, got %d", got)
	}
}

func TestExtract_EmptyEntityAnswerSkipsRelationships(t *testing.T) {
	fake := &fakeAI{respond: func(context.Context, string) (string, error) {
		return `{"entities":[{"entity_type":"Person","name":"Jane"}]}`, nil
	}}
	client := NewGraphClient(NewGraphClientParams{AIClient: fake, MaxRetries: -1})

	entities, _ := client.Extract(context.Background(), "Jane lives here.", common.DocumentMetadata{})
	if len(entities) != 0 {
		t.Fatalf("expected invalid entities to be dropped, got %#v", entities)
	}
	if fake.count(entityPass) != 1 || fake.count(relationshipPass) != 0 {
		t.Fatalf("unexpected calls %d/%d", fake.count(entityPass), fake.count(relationshipPass))
	}
}

func TestExtract_DeduplicatesAcrossChunks(t *testing.T) {
	first := "The SES coordinates flood response in the region."
	second := "Volunteers from the SES filled sandbags near the river."
	content := first + "\n\n" + second

	fake := &fakeAI{respond: func(_ context.Context, prompt string) (string, error) {
		if strings.Contains(prompt, relationshipPass) {
			if strings.Contains(prompt, second) {
				return `{"relationships":[{"source_name":"SES","target_name":"River","relationship_type":"locatedIn"}]}`, nil
			}
			return `{"relationships":[{"source_name":"SES","target_name":"Region","relationship_type":"responsibleFor"}]}`, nil
		}
		if strings.Contains(prompt, second) {
			return `{"entities":[{"entity_type":"Agency","name":"ses","confidence":0.95},{"entity_type":"Location","name":"River"}]}`, nil
		}
		return `{"entities":[{"entity_type":"Agency","name":"SES","confidence":0.6},{"entity_type":"Location","name":"Region"}]}`, nil
	}}
	client := NewGraphClient(NewGraphClientParams{AIClient: fake, MaxChunkChars: 60, ParallelChunks: 2})

	entities, relationships := client.Extract(context.Background(), content, common.DocumentMetadata{})

	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	if strings.Join(names, ",") != "ses,Region,River" {
		t.Fatalf("unexpected entity order %v", names)
	}
	if entities[0].Confidence != 0.95 {
		t.Fatalf("expected max confidence to win, got %v", entities[0].Confidence)
	}
	if len(relationships) != 2 || relationships[0].Type != "responsibleFor" || relationships[1].Type != "locatedIn" {
		t.Fatalf("unexpected relationships %#v", relationships)
	}
}
