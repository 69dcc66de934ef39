package pgx

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/internal/util"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/store"
)

func validConfidence(v *float64) bool {
	return v == nil || (!math.IsNaN(*v) && *v >= 0 && *v <= 1)
}

// CreateEntity inserts an editor-supplied entity. Manual entities never merge
// into existing ones; a live entity with the same canonical name and type is a
// conflict.
func (s *GraphDBStorage) CreateEntity(ctx context.Context, entity store.ManualEntity) (int64, error) {
	name := strings.TrimSpace(entity.Name)
	canonical := common.CanonicalName(name)
	if canonical == "" || !common.IsEntityType(entity.Type) || !validConfidence(entity.Confidence) {
		return 0, store.ErrInvalidEntity
	}
	confidence := 1.0
	if entity.Confidence != nil {
		confidence = *entity.Confidence
	}

	vec, err := store.NewLazyEmbedding(s.aiClient, store.EmbeddingInput(name, entity.Type)).Get(ctx)
	if err != nil {
		logger.Warn("[Store][CreateEntity] Embedding failed, storing entity without vector",
			"name", name, "err", err)
	}

	var id int64
	err = s.db.ExecTx(ctx, func(q pgdb.Querier) error {
		_, err := q.GetEntityByCanonical(ctx, pgdb.GetEntityByCanonicalParams{
			CanonicalName: canonical,
			EntityType:    entity.Type,
		})
		if err == nil {
			return store.ErrEntityExists
		}
		if !pgdb.IsNotFound(err) {
			return err
		}

		id, err = q.InsertEntity(ctx, pgdb.InsertEntityParams{
			EntityType:       entity.Type,
			EntitySubtype:    pgdb.Text(util.SanitizePostgresText(strings.TrimSpace(entity.Subtype))),
			Name:             util.SanitizePostgresText(name),
			CanonicalName:    canonical,
			Attributes:       common.EncodeAttributes(entity.Attributes),
			LocationText:     pgdb.Text(util.SanitizePostgresText(strings.TrimSpace(entity.LocationText))),
			ConfidenceScore:  confidence,
			ExtractionMethod: common.ExtractionMethodManual,
			Embedding:        pgdb.Vector(vec),
		})
		return err
	})
	if pgdb.IsUniqueViolation(err) {
		return 0, store.ErrEntityExists
	}
	if err != nil {
		return 0, err
	}

	logger.Info("[Store][CreateEntity] Created entity", "id", id, "name", name, "type", entity.Type)
	return id, nil
}

// UpdateEntity applies a partial update. Renaming recomputes the canonical
// name and the embedding.
func (s *GraphDBStorage) UpdateEntity(ctx context.Context, id int64, patch store.EntityPatch) error {
	if !validConfidence(patch.Confidence) {
		return store.ErrInvalidEntity
	}

	err := s.db.ExecTx(ctx, func(q pgdb.Querier) error {
		current, err := q.GetEntity(ctx, id)
		if pgdb.IsNotFound(err) {
			return store.ErrNotFound
		}
		if err != nil {
			return err
		}

		params := pgdb.UpdateEntityParams{
			ID:              current.ID,
			EntitySubtype:   current.EntitySubtype,
			Name:            current.Name,
			CanonicalName:   current.CanonicalName,
			Attributes:      current.Attributes,
			LocationText:    current.LocationText,
			ConfidenceScore: current.ConfidenceScore,
			Embedding:       current.Embedding,
		}

		if patch.Name != nil {
			name := strings.TrimSpace(*patch.Name)
			canonical := common.CanonicalName(name)
			if canonical == "" {
				return store.ErrInvalidEntity
			}
			vec, err := store.NewLazyEmbedding(s.aiClient, store.EmbeddingInput(name, current.EntityType)).Get(ctx)
			if err != nil {
				logger.Warn("[Store][UpdateEntity] Embedding failed, clearing vector",
					"id", id, "err", err)
				vec = nil
			}
			params.Name = util.SanitizePostgresText(name)
			params.CanonicalName = canonical
			params.Embedding = pgdb.Vector(vec)
		}
		if patch.Subtype != nil {
			params.EntitySubtype = pgdb.Text(util.SanitizePostgresText(strings.TrimSpace(*patch.Subtype)))
		}
		if patch.Attributes != nil {
			params.Attributes = common.EncodeAttributes(patch.Attributes)
		}
		if patch.LocationText != nil {
			params.LocationText = pgdb.Text(util.SanitizePostgresText(strings.TrimSpace(*patch.LocationText)))
		}
		if patch.Confidence != nil {
			params.ConfidenceScore = *patch.Confidence
		}

		n, err := q.UpdateEntity(ctx, params)
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNotFound
		}
		return nil
	})
	if pgdb.IsUniqueViolation(err) {
		return store.ErrEntityExists
	}
	if err != nil {
		return err
	}

	logger.Info("[Store][UpdateEntity] Updated entity", "id", id)
	return nil
}

// DeleteEntity soft-deletes an entity. Its relationships and evidence stay
// in place.
func (s *GraphDBStorage) DeleteEntity(ctx context.Context, id int64) error {
	n, err := s.db.SoftDeleteEntity(ctx, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("entity %d: %w", id, store.ErrNotFound)
	}
	logger.Info("[Store][DeleteEntity] Soft-deleted entity", "id", id)
	return nil
}
