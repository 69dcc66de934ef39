package pgx

import (
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
)

func toEntity(e pgdb.KgEntity) common.Entity {
	out := common.Entity{
		ID:               e.ID,
		Type:             e.EntityType,
		Subtype:          pgdb.StringPtr(e.EntitySubtype),
		Name:             e.Name,
		CanonicalName:    e.CanonicalName,
		Attributes:       common.DecodeAttributes(e.Attributes),
		LocationText:     pgdb.StringPtr(e.LocationText),
		Confidence:       e.ConfidenceScore,
		ExtractionMethod: e.ExtractionMethod,
		CreatedAt:        e.CreatedAt.Time,
		UpdatedAt:        e.UpdatedAt.Time,
		IsDeleted:        e.IsDeleted,
	}
	if e.Embedding != nil {
		out.Embedding = e.Embedding.Slice()
	}
	return out
}

func toEntities(rows []pgdb.KgEntity) []common.Entity {
	out := make([]common.Entity, len(rows))
	for i := range rows {
		out[i] = toEntity(rows[i])
	}
	return out
}

func toRelationship(r pgdb.KgRelationship) common.Relationship {
	return common.Relationship{
		ID:               r.ID,
		SourceEntityID:   r.SourceEntityID,
		TargetEntityID:   r.TargetEntityID,
		Type:             r.RelationshipType,
		Attributes:       common.DecodeAttributes(r.Attributes),
		Confidence:       r.ConfidenceScore,
		ExtractionMethod: r.ExtractionMethod,
		CreatedAt:        r.CreatedAt.Time,
		UpdatedAt:        r.UpdatedAt.Time,
		IsDeleted:        r.IsDeleted,
	}
}

func toEvidence(e pgdb.KgEvidence) common.Evidence {
	out := common.Evidence{
		ID:           e.ID,
		DocumentID:   e.DocumentID,
		EvidenceText: e.EvidenceText,
		CreatedAt:    e.CreatedAt.Time,
	}
	if e.EntityID.Valid {
		id := e.EntityID.Int64
		out.EntityID = &id
	}
	if e.RelationshipID.Valid {
		id := e.RelationshipID.Int64
		out.RelationshipID = &id
	}
	if e.ExtractionConfidence.Valid {
		c := e.ExtractionConfidence.Float64
		out.ExtractionConfidence = &c
	}
	return out
}
