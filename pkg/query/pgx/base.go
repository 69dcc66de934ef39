// Package pgx implements query.GraphQueryClient on the pgdb query layer.
package pgx

import (
	"context"
	"math"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/ai"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/query"

	"github.com/jackc/pgx/v5/pgtype"
)

// GraphQueryService answers read requests against the stored graph. The AI
// client is only used to embed search queries.
type GraphQueryService struct {
	db       pgdb.Querier
	aiClient ai.GraphAIClient
}

var _ query.GraphQueryClient = (*GraphQueryService)(nil)

func NewGraphQueryService(db pgdb.Querier, aiClient ai.GraphAIClient) *GraphQueryService {
	return &GraphQueryService{
		db:       db,
		aiClient: aiClient,
	}
}

func (s *GraphQueryService) ListEntities(ctx context.Context, filter query.EntityFilter) ([]common.Entity, int64, error) {
	typ := pgdb.Text(filter.Type)
	search := pgdb.Text(filter.Search)

	total, err := s.db.CountEntities(ctx, pgdb.CountEntitiesParams{EntityType: typ, Search: search})
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.ListEntities(ctx, pgdb.ListEntitiesParams{
		EntityType: typ,
		Search:     search,
		Limit:      int32(filter.Limit),
		Offset:     int32(filter.Offset),
	})
	if err != nil {
		return nil, 0, err
	}
	return toEntities(rows), total, nil
}

func (s *GraphQueryService) ListRelationships(ctx context.Context, filter query.RelationshipFilter) ([]query.RelationshipView, int64, error) {
	typ := pgdb.Text(filter.Type)
	search := pgdb.Text(filter.Search)
	sourceID := optionalID(filter.SourceEntityID)
	targetID := optionalID(filter.TargetEntityID)

	total, err := s.db.CountRelationships(ctx, pgdb.CountRelationshipsParams{
		RelationshipType: typ,
		SourceEntityID:   sourceID,
		TargetEntityID:   targetID,
		Search:           search,
	})
	if err != nil {
		return nil, 0, err
	}
	rows, err := s.db.ListRelationships(ctx, pgdb.ListRelationshipsParams{
		RelationshipType: typ,
		SourceEntityID:   sourceID,
		TargetEntityID:   targetID,
		Search:           search,
		Limit:            int32(filter.Limit),
		Offset:           int32(filter.Offset),
	})
	if err != nil {
		return nil, 0, err
	}

	items := make([]query.RelationshipView, len(rows))
	for i, row := range rows {
		items[i] = query.RelationshipView{
			Relationship: toRelationship(row.KgRelationship),
			SourceName:   row.SourceName,
			TargetName:   row.TargetName,
		}
	}
	return items, total, nil
}

// optionalID maps the zero id to NULL.
func optionalID(id int64) pgtype.Int8 {
	return pgtype.Int8{Int64: id, Valid: id != 0}
}

func (s *GraphQueryService) GetStatistics(ctx context.Context) (query.Statistics, error) {
	stats := query.Statistics{
		EntityCounts:       map[string]int64{},
		RelationshipCounts: map[string]int64{},
	}

	entityRows, err := s.db.CountEntitiesByType(ctx)
	if err != nil {
		return stats, err
	}
	for _, row := range entityRows {
		stats.EntityCounts[row.EntityType] = row.Count
		stats.TotalEntities += row.Count
	}

	relRows, err := s.db.CountRelationshipsByType(ctx)
	if err != nil {
		return stats, err
	}
	for _, row := range relRows {
		stats.RelationshipCounts[row.RelationshipType] = row.Count
		stats.TotalRelationships += row.Count
	}

	avg, err := s.db.AverageEntityConfidence(ctx)
	if err != nil {
		return stats, err
	}
	if avg.Valid {
		stats.AvgConfidence = math.Round(avg.Float64*1000) / 1000
	}
	return stats, nil
}

// FindCoverageGaps returns the entities of entityType without an outgoing
// requiredRelationship edge to a live entity of targetType, ordered by name.
func (s *GraphQueryService) FindCoverageGaps(
	ctx context.Context,
	entityType, requiredRelationship, targetType string,
) ([]common.Entity, error) {
	covered, err := s.db.GetSourceIDsWithRelationship(ctx, pgdb.GetSourceIDsWithRelationshipParams{
		RelationshipType: requiredRelationship,
		TargetType:       targetType,
	})
	if err != nil {
		return nil, err
	}
	rows, err := s.db.ListEntitiesByTypeExcluding(ctx, pgdb.ListEntitiesByTypeExcludingParams{
		EntityType: entityType,
		ExcludeIDs: covered,
	})
	if err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}
