package pgx

import (
	"context"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/query"
)

// GetEntityDetail loads an entity with both directions of its relationships
// and its evidence. Endpoints that are gone are reported as "Unknown".
func (s *GraphQueryService) GetEntityDetail(ctx context.Context, id int64) (query.EntityDetail, error) {
	row, err := s.db.GetEntity(ctx, id)
	if pgdb.IsNotFound(err) {
		return query.EntityDetail{}, query.ErrNotFound
	}
	if err != nil {
		return query.EntityDetail{}, err
	}

	outgoing, err := s.db.GetOutgoingRelationships(ctx, id)
	if err != nil {
		return query.EntityDetail{}, err
	}
	incoming, err := s.db.GetIncomingRelationships(ctx, id)
	if err != nil {
		return query.EntityDetail{}, err
	}
	evidence, err := s.db.GetEntityEvidence(ctx, pgdb.Int8(id))
	if err != nil {
		return query.EntityDetail{}, err
	}

	connectedIDs := make([]int64, 0, len(outgoing)+len(incoming))
	for _, r := range outgoing {
		connectedIDs = append(connectedIDs, r.TargetEntityID)
	}
	for _, r := range incoming {
		connectedIDs = append(connectedIDs, r.SourceEntityID)
	}
	connected, err := s.db.GetEntitiesByIDs(ctx, connectedIDs)
	if err != nil {
		return query.EntityDetail{}, err
	}
	byID := make(map[int64]pgdb.KgEntity, len(connected))
	for _, e := range connected {
		byID[e.ID] = e
	}

	detail := query.EntityDetail{
		Entity:   toEntity(row),
		Outgoing: make([]query.LinkedRelationship, 0, len(outgoing)),
		Incoming: make([]query.LinkedRelationship, 0, len(incoming)),
		Evidence: make([]common.Evidence, 0, len(evidence)),
	}
	for _, r := range outgoing {
		detail.Outgoing = append(detail.Outgoing, link(r, r.TargetEntityID, byID))
	}
	for _, r := range incoming {
		detail.Incoming = append(detail.Incoming, link(r, r.SourceEntityID, byID))
	}
	for _, e := range evidence {
		detail.Evidence = append(detail.Evidence, toEvidence(e))
	}
	return detail, nil
}

func link(r pgdb.KgRelationship, otherID int64, entities map[int64]pgdb.KgEntity) query.LinkedRelationship {
	out := query.LinkedRelationship{
		ID:         r.ID,
		Type:       r.RelationshipType,
		Confidence: r.ConfidenceScore,
		Attributes: common.DecodeAttributes(r.Attributes),
		EntityName: query.UnknownEntity,
		EntityType: query.UnknownEntity,
	}
	if e, ok := entities[otherID]; ok {
		id := e.ID
		out.EntityID = &id
		out.EntityName = e.Name
		out.EntityType = e.EntityType
	}
	return out
}
