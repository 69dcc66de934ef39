package ai

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

type scriptedClient struct {
	answer  string
	err     error
	prompts []string
	opts    GenerateOptions
}

func (c *scriptedClient) GenerateCompletion(ctx context.Context, prompt string, opts ...GenerateOption) (string, error) {
	c.prompts = append(c.prompts, prompt)
	for _, opt := range opts {
		opt(&c.opts)
	}
	return c.answer, c.err
}

func (c *scriptedClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	return nil, errors.New("not used")
}

func (c *scriptedClient) ResetMetrics() {}

func (c *scriptedClient) GetMetrics() ModelMetrics { return ModelMetrics{} }

func TestExtractDocumentMetadata(t *testing.T) {
	client := &scriptedClient{
		answer: "Here you go: {\"title\": \" Riverside Flood Plan \", \"hazard_type\": \"Flood\", " +
			"\"location\": \"Riverside\", \"tags\": [\"Evacuation\", \" \", \"sandbags\", \"a\", \"b\", \"c\", \"d\"]}",
	}

	got, err := ExtractDocumentMetadata(context.Background(), client, "riverside.docx", "The SES serves Riverside.")
	if err != nil {
		t.Fatalf("ExtractDocumentMetadata: %v", err)
	}

	want := common.DocumentMetadata{
		Title:      "Riverside Flood Plan",
		HazardType: "flood",
		Location:   "Riverside",
		Tags:       []string{"evacuation", "sandbags", "a", "b", "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("metadata = %+v, want %+v", got, want)
	}
	if len(client.prompts) != 1 || !strings.Contains(client.prompts[0], "riverside.docx") {
		t.Errorf("prompt does not name the file: %q", client.prompts)
	}
	if client.opts.Format == nil || client.opts.Format.Name != "metadata" {
		t.Errorf("structured output not requested: %+v", client.opts.Format)
	}
	if client.opts.MaxTokens != metadataMaxTokens {
		t.Errorf("max tokens = %d, want %d", client.opts.MaxTokens, metadataMaxTokens)
	}
	if !reflect.DeepEqual(client.opts.SystemPrompts, []string{JSONSystemPrompt}) {
		t.Errorf("system prompts = %q", client.opts.SystemPrompts)
	}
}

func TestExtractDocumentMetadataErrors(t *testing.T) {
	tests := []struct {
		name   string
		client *scriptedClient
	}{
		{name: "model error", client: &scriptedClient{err: ErrEmptyResponse}},
		{name: "not json", client: &scriptedClient{answer: "I cannot help with that"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ExtractDocumentMetadata(context.Background(), tt.client, "", "text"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExtractFirstNWords(t *testing.T) {
	if got := ExtractFirstNWords("one  two\nthree four", 3); got != "one two three" {
		t.Errorf("ExtractFirstNWords = %q", got)
	}
	if got := ExtractFirstNWords("short text", 5); got != "short text" {
		t.Errorf("ExtractFirstNWords = %q", got)
	}
}
