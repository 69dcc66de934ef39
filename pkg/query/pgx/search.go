package pgx

import (
	"context"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/logger"

	"github.com/pgvector/pgvector-go"
)

// SearchEntities runs a substring match on name and location first. Only if
// that leaves room under limit are the nearest neighbours of the query
// embedding appended. Text matches always come first.
func (s *GraphQueryService) SearchEntities(
	ctx context.Context,
	q string,
	entityTypes []string,
	limit int,
) ([]common.Entity, error) {
	if limit <= 0 {
		return []common.Entity{}, nil
	}

	textMatches, err := s.db.SearchEntitiesByName(ctx, pgdb.SearchEntitiesByNameParams{
		Query:       q,
		EntityTypes: entityTypes,
		Limit:       int32(limit),
	})
	if err != nil {
		return nil, err
	}
	results := toEntities(textMatches)

	remaining := limit - len(results)
	if remaining <= 0 || s.aiClient == nil {
		return results, nil
	}

	emb, err := s.aiClient.GenerateEmbedding(ctx, []byte(q))
	if err != nil {
		logger.Warn("[Query][SearchEntities] Embedding failed, returning text matches only", "err", err)
		return results, nil
	}

	seen := make([]int64, len(results))
	for i, e := range results {
		seen[i] = e.ID
	}
	vectorMatches, err := s.db.SearchEntitiesByEmbedding(ctx, pgdb.SearchEntitiesByEmbeddingParams{
		Embedding:   pgvector.NewVector(emb),
		EntityTypes: entityTypes,
		ExcludeIDs:  seen,
		Limit:       int32(remaining),
	})
	if err != nil {
		logger.Warn("[Query][SearchEntities] Vector search failed, returning text matches only", "err", err)
		return results, nil
	}
	return append(results, toEntities(vectorMatches)...), nil
}
