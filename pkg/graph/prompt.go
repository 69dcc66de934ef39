package graph

import (
	"fmt"
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

func buildEntityPrompt(chunk string, metadata common.DocumentMetadata) string {
	var types strings.Builder
	for i, t := range common.EntityTypes {
		if i > 0 {
			types.WriteByte('\n')
		}
		fmt.Fprintf(&types, "- %s: %s", t, common.EntityTypeDescriptions[t])
	}

	return fmt.Sprintf(
		ai.EntityExtractionPrompt,
		types.String(),
		metadataSection(metadata),
		chunk,
		strings.Join(common.EntityTypes, ", "),
	)
}

func buildRelationshipPrompt(chunk string, entities []common.EntityCandidate) string {
	var list strings.Builder
	for i, e := range entities {
		if i > 0 {
			list.WriteByte('\n')
		}
		fmt.Fprintf(&list, "- %s (%s)", e.Name, e.Type)
	}

	var glosses strings.Builder
	for i, t := range common.RelationshipTypes {
		if i > 0 {
			glosses.WriteByte('\n')
		}
		fmt.Fprintf(&glosses, "- %s: %s", t, common.RelationshipTypeDescriptions[t])
	}

	relTypes := strings.Join(common.RelationshipTypes, ", ")
	return fmt.Sprintf(
		ai.RelationshipExtractionPrompt,
		list.String(),
		relTypes,
		glosses.String(),
		chunk,
		relTypes,
	)
}

func metadataSection(metadata common.DocumentMetadata) string {
	var lines []string
	if v := strings.TrimSpace(metadata.Title); v != "" {
		lines = append(lines, "Document title: "+v)
	}
	if v := strings.TrimSpace(metadata.HazardType); v != "" {
		lines = append(lines, "Hazard type: "+v)
	}
	if v := strings.TrimSpace(metadata.Location); v != "" {
		lines = append(lines, "Location context: "+v)
	}
	if len(metadata.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(metadata.Tags, ", "))
	}
	if len(lines) == 0 {
		return ai.NoMetadata
	}
	return strings.Join(lines, "\n")
}
