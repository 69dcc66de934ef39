// Package pgx implements store.GraphStorage on the pgdb query layer.
package pgx

import (
	"context"
	"fmt"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store"
)

// GraphDBStorage resolves extraction candidates against the stored graph.
// The AI client is only used for entity embeddings.
type GraphDBStorage struct {
	db       pgdb.Store
	aiClient ai.GraphAIClient
}

var _ store.GraphStorage = (*GraphDBStorage)(nil)

func NewGraphDBStorage(db pgdb.Store, aiClient ai.GraphAIClient) *GraphDBStorage {
	return &GraphDBStorage{
		db:       db,
		aiClient: aiClient,
	}
}

// StoreResults writes entities first and relationships second, so that
// relationships of the same batch can resolve against freshly inserted
// entities. Every candidate gets its own transaction.
func (s *GraphDBStorage) StoreResults(
	ctx context.Context,
	documentID int64,
	entities []common.EntityCandidate,
	relationships []common.RelationshipCandidate,
) store.StoreResult {
	log := logger.With("document_id", documentID)
	result := store.StoreResult{
		EntityIDs:       make([]int64, 0, len(entities)),
		RelationshipIDs: make([]int64, 0, len(relationships)),
	}

	for _, candidate := range entities {
		id, err := s.storeEntity(ctx, documentID, candidate)
		if err != nil {
			log.Error("[Store][StoreResults] Failed to store entity",
				"name", candidate.Name, "type", candidate.Type, "err", err)
			continue
		}
		result.EntityIDs = append(result.EntityIDs, id)
	}

	for _, candidate := range relationships {
		id, ok, err := s.storeRelationship(ctx, documentID, candidate)
		if err != nil {
			log.Error("[Store][StoreResults] Failed to store relationship",
				"source", candidate.SourceName, "target", candidate.TargetName,
				"type", candidate.Type, "err", err)
			continue
		}
		if !ok {
			log.Warn("[Store][StoreResults] Skipping relationship with unresolved endpoint",
				"source", candidate.SourceName, "source_type", candidate.SourceType,
				"target", candidate.TargetName, "target_type", candidate.TargetType,
				"type", candidate.Type)
			continue
		}
		result.RelationshipIDs = append(result.RelationshipIDs, id)
	}

	log.Info("[Store][StoreResults] Stored extraction results",
		"entities", len(result.EntityIDs), "entity_candidates", len(entities),
		"relationships", len(result.RelationshipIDs), "relationship_candidates", len(relationships))
	return result
}

// SetExtractionStatus records the extraction state of a document.
func (s *GraphDBStorage) SetExtractionStatus(ctx context.Context, documentID int64, status string) error {
	switch status {
	case common.ExtractionStatusPending, common.ExtractionStatusProcessing,
		common.ExtractionStatusCompleted, common.ExtractionStatusFailed:
	default:
		return fmt.Errorf("unknown extraction status %q", status)
	}

	n, err := s.db.UpdateDocumentExtractionStatus(ctx, pgdb.UpdateDocumentExtractionStatusParams{
		ID:                 documentID,
		KgExtractionStatus: status,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("document %d: %w", documentID, store.ErrNotFound)
	}
	return nil
}

// execWithRetry runs fn in a transaction. A unique violation means another
// writer inserted the same row first; the rolled back candidate is replayed
// once in a fresh transaction where the lookup sees the winner.
func (s *GraphDBStorage) execWithRetry(ctx context.Context, fn func(q pgdb.Querier) error) error {
	err := s.db.ExecTx(ctx, fn)
	if err != nil && pgdb.IsUniqueViolation(err) {
		logger.Debug("[Store] Unique violation, retrying candidate", "err", err)
		err = s.db.ExecTx(ctx, fn)
	}
	return err
}

func (s *GraphDBStorage) insertEvidence(
	ctx context.Context,
	q pgdb.Querier,
	documentID int64,
	entityID, relationshipID *int64,
	text string,
	confidence float64,
) error {
	params := pgdb.InsertEvidenceParams{
		DocumentID:           documentID,
		EvidenceText:         util.SanitizePostgresText(text),
		ExtractionConfidence: pgdb.Float8(confidence),
	}
	if entityID != nil {
		params.EntityID = pgdb.Int8(*entityID)
	}
	if relationshipID != nil {
		params.RelationshipID = pgdb.Int8(*relationshipID)
	}
	_, err := q.InsertEvidence(ctx, params)
	return err
}
