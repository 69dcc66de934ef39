package graph

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// Extraction should be repeatable for the same chunk.
const extractionTemperature = 0.0

type chunkResult struct {
	entities      []common.EntityCandidate
	relationships []common.RelationshipCandidate
}

// Extract chunks content and asks the model for entity candidates per chunk,
// followed by relationship candidates among the entities of that chunk.
//
// Extract never fails: model errors, timeouts and unparseable answers only
// reduce what a chunk contributes and are logged. Entities are deduplicated
// across chunks by lower-cased name and type; relationships are returned as
// found.
func (g *GraphClient) Extract(
	ctx context.Context,
	content string,
	metadata common.DocumentMetadata,
) ([]common.EntityCandidate, []common.RelationshipCandidate) {
	log := logger.With("run_id", util.NewRunID())
	start := time.Now()

	chunks := ChunkText(content, g.maxChunkChars)
	if len(chunks) == 0 {
		log.Info("Nothing to extract, document content is empty")
		return nil, nil
	}
	log.Info("Extracting knowledge graph",
		"chunks", len(chunks),
		"chars", utf8.RuneCountInString(content),
		"title", metadata.Title,
	)

	results := make([]chunkResult, len(chunks))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(g.parallelChunks)
	for i, chunk := range chunks {
		eg.Go(func() error {
			log.Debug("Processing chunk",
				"chunk", fmt.Sprintf("%d/%d", i+1, len(chunks)),
				"chars", utf8.RuneCountInString(chunk),
				"tokens", ai.CountTokens(chunk),
			)

			entities := g.extractEntities(gCtx, log, i, chunk, metadata)
			results[i].entities = entities
			if len(entities) == 0 {
				return nil
			}
			results[i].relationships = g.extractRelationships(gCtx, log, i, chunk, entities)
			return nil
		})
	}
	_ = eg.Wait()

	var (
		entities      []common.EntityCandidate
		relationships []common.RelationshipCandidate
	)
	for _, r := range results {
		entities = append(entities, r.entities...)
		relationships = append(relationships, r.relationships...)
	}
	entities = dedupeEntities(entities)

	log.Info("Extraction complete",
		"entities", len(entities),
		"relationships", len(relationships),
		"duration", time.Since(start).String(),
	)
	return entities, relationships
}

func (g *GraphClient) extractEntities(
	ctx context.Context,
	log *logger.Logger,
	index int,
	chunk string,
	metadata common.DocumentMetadata,
) []common.EntityCandidate {
	prompt := buildEntityPrompt(chunk, metadata)
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(ai.JSONSystemPrompt),
		ai.WithTemperature(extractionTemperature),
		ai.WithFormat("entities", "Entities extracted from a text chunk", entityResponse{}),
	}

	entities, attempts, err := util.RetryWithTimeout(
		ctx,
		g.maxRetries+1,
		g.modelTimeout,
		func(ctx context.Context) ([]common.EntityCandidate, error) {
			answer, err := g.aiClient.GenerateCompletion(ctx, prompt, opts...)
			if err != nil {
				return nil, err
			}
			entities, err := parseEntities(answer)
			if err != nil {
				return nil, err
			}
			if len(entities) == 0 {
				return nil, errNoCandidates
			}
			return entities, nil
		},
	)
	if err != nil {
		log.Warn("Entity extraction failed", "chunk", index+1, "attempts", attempts, "err", err)
		return nil
	}
	return entities
}

func (g *GraphClient) extractRelationships(
	ctx context.Context,
	log *logger.Logger,
	index int,
	chunk string,
	entities []common.EntityCandidate,
) []common.RelationshipCandidate {
	prompt := buildRelationshipPrompt(chunk, entities)
	opts := []ai.GenerateOption{
		ai.WithSystemPrompts(ai.JSONSystemPrompt),
		ai.WithTemperature(extractionTemperature),
		ai.WithFormat("relationships", "Relationships between extracted entities", relationshipResponse{}),
	}

	relationships, attempts, err := util.RetryWithTimeout(
		ctx,
		g.maxRetries+1,
		g.modelTimeout,
		func(ctx context.Context) ([]common.RelationshipCandidate, error) {
			answer, err := g.aiClient.GenerateCompletion(ctx, prompt, opts...)
			if err != nil {
				return nil, err
			}
			relationships, err := parseRelationships(answer)
			if err != nil {
				return nil, err
			}
			if len(relationships) == 0 {
				return nil, errNoCandidates
			}
			return relationships, nil
		},
	)
	if err != nil {
		log.Warn("Relationship extraction failed", "chunk", index+1, "attempts", attempts, "err", err)
		return nil
	}
	return relationships
}
