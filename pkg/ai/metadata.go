package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

const (
	metadataExcerptWords = 500
	maxMetadataTags      = 5
	metadataMaxTokens    = 512
)

// ExtractDocumentMetadata asks the model to describe a document from its file
// name and the first words of its content.
func ExtractDocumentMetadata(
	ctx context.Context,
	aiClient GraphAIClient,
	fileName string,
	content string,
) (common.DocumentMetadata, error) {
	prompt := fmt.Sprintf(MetadataPrompt,
		formatFileName(fileName),
		ExtractFirstNWords(content, metadataExcerptWords),
	)

	answer, err := aiClient.GenerateCompletion(
		ctx,
		prompt,
		WithSystemPrompts(JSONSystemPrompt),
		WithMaxTokens(metadataMaxTokens),
		WithFormat("metadata", "Catalogue entry of a document", common.DocumentMetadata{}),
	)
	if err != nil {
		return common.DocumentMetadata{}, fmt.Errorf("metadata extraction failed: %w", err)
	}

	var metadata common.DocumentMetadata
	if err := UnmarshalFlexible(answer, &metadata); err != nil {
		return common.DocumentMetadata{}, fmt.Errorf("metadata extraction failed: %w", err)
	}

	metadata.Title = strings.TrimSpace(metadata.Title)
	metadata.HazardType = strings.ToLower(strings.TrimSpace(metadata.HazardType))
	metadata.Location = strings.TrimSpace(metadata.Location)
	tags := metadata.Tags[:0]
	for _, tag := range metadata.Tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" && len(tags) < maxMetadataTags {
			tags = append(tags, tag)
		}
	}
	metadata.Tags = tags
	return metadata, nil
}

// ExtractFirstNWords returns the first N words from content.
// If content has fewer words, returns entire content.
func ExtractFirstNWords(content string, n int) string {
	words := strings.Fields(content)
	if len(words) <= n {
		return content
	}
	return strings.Join(words[:n], " ")
}

func formatFileName(fileName string) string {
	if fileName == "" {
		return "Not present"
	}
	return fileName
}
