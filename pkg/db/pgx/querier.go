package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	AverageEntityConfidence(ctx context.Context) (pgtype.Float8, error)
	CountEntities(ctx context.Context, arg CountEntitiesParams) (int64, error)
	CountEntitiesByType(ctx context.Context) ([]CountEntitiesByTypeRow, error)
	CountRelationships(ctx context.Context, arg CountRelationshipsParams) (int64, error)
	CountRelationshipsByType(ctx context.Context) ([]CountRelationshipsByTypeRow, error)
	GetDocument(ctx context.Context, id int64) (Document, error)
	GetEntitiesByIDs(ctx context.Context, ids []int64) ([]KgEntity, error)
	GetEntity(ctx context.Context, id int64) (KgEntity, error)
	GetEntityByCanonical(ctx context.Context, arg GetEntityByCanonicalParams) (KgEntity, error)
	GetEntityByCanonicalAnyType(ctx context.Context, canonicalName string) (KgEntity, error)
	GetEntityEvidence(ctx context.Context, entityID pgtype.Int8) ([]KgEvidence, error)
	GetIncomingRelationships(ctx context.Context, targetEntityID int64) ([]KgRelationship, error)
	GetOutgoingRelationships(ctx context.Context, sourceEntityID int64) ([]KgRelationship, error)
	GetRelationshipByTriple(ctx context.Context, arg GetRelationshipByTripleParams) (KgRelationship, error)
	GetSourceIDsWithRelationship(ctx context.Context, arg GetSourceIDsWithRelationshipParams) ([]int64, error)
	InsertEntity(ctx context.Context, arg InsertEntityParams) (int64, error)
	InsertEvidence(ctx context.Context, arg InsertEvidenceParams) (int64, error)
	InsertRelationship(ctx context.Context, arg InsertRelationshipParams) (int64, error)
	ListEntities(ctx context.Context, arg ListEntitiesParams) ([]KgEntity, error)
	ListEntitiesByTypeExcluding(ctx context.Context, arg ListEntitiesByTypeExcludingParams) ([]KgEntity, error)
	ListRelationships(ctx context.Context, arg ListRelationshipsParams) ([]ListRelationshipsRow, error)
	MergeEntity(ctx context.Context, arg MergeEntityParams) error
	MergeRelationship(ctx context.Context, arg MergeRelationshipParams) error
	SearchEntitiesByEmbedding(ctx context.Context, arg SearchEntitiesByEmbeddingParams) ([]KgEntity, error)
	SearchEntitiesByName(ctx context.Context, arg SearchEntitiesByNameParams) ([]KgEntity, error)
	SoftDeleteEntity(ctx context.Context, id int64) (int64, error)
	UpdateDocumentExtractionStatus(ctx context.Context, arg UpdateDocumentExtractionStatusParams) (int64, error)
	UpdateEntity(ctx context.Context, arg UpdateEntityParams) (int64, error)
}

var _ Querier = (*Queries)(nil)
