package pgx

import (
	"context"
	"fmt"
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store"
)

func (s *GraphDBStorage) storeEntity(
	ctx context.Context,
	documentID int64,
	candidate common.EntityCandidate,
) (int64, error) {
	name := strings.TrimSpace(candidate.Name)
	canonical := common.CanonicalName(name)
	if canonical == "" || !common.IsEntityType(candidate.Type) {
		return 0, fmt.Errorf("%w: name %q type %q", store.ErrInvalidEntity, candidate.Name, candidate.Type)
	}
	confidence := common.ClampConfidence(candidate.Confidence)
	attrs := common.EncodeAttributes(candidate.Attributes)
	location := util.SanitizePostgresText(strings.TrimSpace(candidate.LocationText))
	embedding := store.NewLazyEmbedding(s.aiClient, store.EmbeddingInput(name, candidate.Type))

	var id int64
	err := s.execWithRetry(ctx, func(q pgdb.Querier) error {
		existing, err := q.GetEntityByCanonical(ctx, pgdb.GetEntityByCanonicalParams{
			CanonicalName: canonical,
			EntityType:    candidate.Type,
		})
		switch {
		case err == nil:
			id = existing.ID
			err = q.MergeEntity(ctx, pgdb.MergeEntityParams{
				ID:              existing.ID,
				ConfidenceScore: confidence,
				Attributes:      attrs,
				LocationText:    pgdb.Text(location),
			})
			if err != nil {
				return err
			}
		case pgdb.IsNotFound(err):
			vec, embErr := embedding.Get(ctx)
			if embErr != nil {
				logger.Warn("[Store][Entity] Embedding failed, storing entity without vector",
					"name", name, "type", candidate.Type, "err", embErr)
			}
			id, err = q.InsertEntity(ctx, pgdb.InsertEntityParams{
				EntityType:       candidate.Type,
				EntitySubtype:    pgdb.Text(util.SanitizePostgresText(strings.TrimSpace(candidate.Subtype))),
				Name:             util.SanitizePostgresText(name),
				CanonicalName:    canonical,
				Attributes:       attrs,
				LocationText:     pgdb.Text(location),
				ConfidenceScore:  confidence,
				ExtractionMethod: common.ExtractionMethodLLM,
				Embedding:        pgdb.Vector(vec),
			})
			if err != nil {
				return err
			}
		default:
			return err
		}

		return s.insertEvidence(ctx, q, documentID, &id, nil, candidate.EvidenceText, confidence)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// resolveEntity finds the live entity a relationship endpoint refers to. The
// claimed type is tried first; the model often mislabels endpoint types, so
// any type matching the canonical name is accepted as a fallback.
func resolveEntity(ctx context.Context, q pgdb.Querier, name, entityType string) (int64, bool, error) {
	canonical := common.CanonicalName(name)
	if canonical == "" {
		return 0, false, nil
	}

	if common.IsEntityType(entityType) {
		e, err := q.GetEntityByCanonical(ctx, pgdb.GetEntityByCanonicalParams{
			CanonicalName: canonical,
			EntityType:    entityType,
		})
		if err == nil {
			return e.ID, true, nil
		}
		if !pgdb.IsNotFound(err) {
			return 0, false, err
		}
	}

	e, err := q.GetEntityByCanonicalAnyType(ctx, canonical)
	if err == nil {
		return e.ID, true, nil
	}
	if pgdb.IsNotFound(err) {
		return 0, false, nil
	}
	return 0, false, err
}
