package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

const entityColumns = `id, entity_type, entity_subtype, name, canonical_name, attributes, location_text,
       confidence_score, extraction_method, embedding, created_at, updated_at, is_deleted`

func scanEntity(row pgx.Row) (KgEntity, error) {
	var i KgEntity
	err := row.Scan(
		&i.ID,
		&i.EntityType,
		&i.EntitySubtype,
		&i.Name,
		&i.CanonicalName,
		&i.Attributes,
		&i.LocationText,
		&i.ConfidenceScore,
		&i.ExtractionMethod,
		&i.Embedding,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.IsDeleted,
	)
	return i, err
}

func scanEntities(rows pgx.Rows) ([]KgEntity, error) {
	defer rows.Close()
	var items []KgEntity
	for rows.Next() {
		i, err := scanEntity(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getEntity = `-- name: GetEntity :one
SELECT ` + entityColumns + `
FROM kg_entities
WHERE id = $1 AND NOT is_deleted
`

func (q *Queries) GetEntity(ctx context.Context, id int64) (KgEntity, error) {
	return scanEntity(q.db.QueryRow(ctx, getEntity, id))
}

const getEntitiesByIDs = `-- name: GetEntitiesByIDs :many
SELECT ` + entityColumns + `
FROM kg_entities
WHERE id = ANY($1::bigint[]) AND NOT is_deleted
ORDER BY id
`

func (q *Queries) GetEntitiesByIDs(ctx context.Context, ids []int64) ([]KgEntity, error) {
	rows, err := q.db.Query(ctx, getEntitiesByIDs, ids)
	if err != nil {
		return nil, err
	}
	return scanEntities(rows)
}

const getEntityByCanonical = `-- name: GetEntityByCanonical :one
SELECT ` + entityColumns + `
FROM kg_entities
WHERE canonical_name = $1 AND entity_type = $2 AND NOT is_deleted
LIMIT 1
`

type GetEntityByCanonicalParams struct {
	CanonicalName string `json:"canonical_name"`
	EntityType    string `json:"entity_type"`
}

func (q *Queries) GetEntityByCanonical(ctx context.Context, arg GetEntityByCanonicalParams) (KgEntity, error) {
	return scanEntity(q.db.QueryRow(ctx, getEntityByCanonical, arg.CanonicalName, arg.EntityType))
}

const getEntityByCanonicalAnyType = `-- name: GetEntityByCanonicalAnyType :one
SELECT ` + entityColumns + `
FROM kg_entities
WHERE canonical_name = $1 AND NOT is_deleted
ORDER BY id
LIMIT 1
`

func (q *Queries) GetEntityByCanonicalAnyType(ctx context.Context, canonicalName string) (KgEntity, error) {
	return scanEntity(q.db.QueryRow(ctx, getEntityByCanonicalAnyType, canonicalName))
}

const insertEntity = `-- name: InsertEntity :one
INSERT INTO kg_entities (
    entity_type, entity_subtype, name, canonical_name, attributes,
    location_text, confidence_score, extraction_method, embedding
) VALUES (
    $1, $2, $3, $4, $5, $6, $7, $8, $9
)
RETURNING id
`

type InsertEntityParams struct {
	EntityType       string           `json:"entity_type"`
	EntitySubtype    pgtype.Text      `json:"entity_subtype"`
	Name             string           `json:"name"`
	CanonicalName    string           `json:"canonical_name"`
	Attributes       []byte           `json:"attributes"`
	LocationText     pgtype.Text      `json:"location_text"`
	ConfidenceScore  float64          `json:"confidence_score"`
	ExtractionMethod string           `json:"extraction_method"`
	Embedding        *pgvector.Vector `json:"embedding"`
}

func (q *Queries) InsertEntity(ctx context.Context, arg InsertEntityParams) (int64, error) {
	row := q.db.QueryRow(ctx, insertEntity,
		arg.EntityType,
		arg.EntitySubtype,
		arg.Name,
		arg.CanonicalName,
		arg.Attributes,
		arg.LocationText,
		arg.ConfidenceScore,
		arg.ExtractionMethod,
		arg.Embedding,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const mergeEntity = `-- name: MergeEntity :exec
UPDATE kg_entities
SET confidence_score = GREATEST(confidence_score, $2),
    attributes       = $3::jsonb || attributes,
    location_text    = COALESCE(NULLIF(location_text, ''), $4),
    updated_at       = now()
WHERE id = $1
`

type MergeEntityParams struct {
	ID              int64       `json:"id"`
	ConfidenceScore float64     `json:"confidence_score"`
	Attributes      []byte      `json:"attributes"`
	LocationText    pgtype.Text `json:"location_text"`
}

func (q *Queries) MergeEntity(ctx context.Context, arg MergeEntityParams) error {
	_, err := q.db.Exec(ctx, mergeEntity,
		arg.ID,
		arg.ConfidenceScore,
		arg.Attributes,
		arg.LocationText,
	)
	return err
}

const updateEntity = `-- name: UpdateEntity :execrows
UPDATE kg_entities
SET entity_subtype   = $2,
    name             = $3,
    canonical_name   = $4,
    attributes       = $5,
    location_text    = $6,
    confidence_score = $7,
    embedding        = $8,
    updated_at       = now()
WHERE id = $1 AND NOT is_deleted
`

type UpdateEntityParams struct {
	ID              int64            `json:"id"`
	EntitySubtype   pgtype.Text      `json:"entity_subtype"`
	Name            string           `json:"name"`
	CanonicalName   string           `json:"canonical_name"`
	Attributes      []byte           `json:"attributes"`
	LocationText    pgtype.Text      `json:"location_text"`
	ConfidenceScore float64          `json:"confidence_score"`
	Embedding       *pgvector.Vector `json:"embedding"`
}

func (q *Queries) UpdateEntity(ctx context.Context, arg UpdateEntityParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateEntity,
		arg.ID,
		arg.EntitySubtype,
		arg.Name,
		arg.CanonicalName,
		arg.Attributes,
		arg.LocationText,
		arg.ConfidenceScore,
		arg.Embedding,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const softDeleteEntity = `-- name: SoftDeleteEntity :execrows
UPDATE kg_entities
SET is_deleted = true,
    updated_at = now()
WHERE id = $1 AND NOT is_deleted
`

func (q *Queries) SoftDeleteEntity(ctx context.Context, id int64) (int64, error) {
	result, err := q.db.Exec(ctx, softDeleteEntity, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const listEntities = `-- name: ListEntities :many
SELECT ` + entityColumns + `
FROM kg_entities
WHERE NOT is_deleted
  AND ($1::text IS NULL OR entity_type = $1::text)
  AND ($2::text IS NULL
       OR name ILIKE '%' || $2::text || '%'
       OR location_text ILIKE '%' || $2::text || '%')
ORDER BY confidence_score DESC, name ASC, id ASC
LIMIT $3 OFFSET $4
`

type ListEntitiesParams struct {
	EntityType pgtype.Text `json:"entity_type"`
	Search     pgtype.Text `json:"search"`
	Limit      int32       `json:"limit"`
	Offset     int32       `json:"offset"`
}

func (q *Queries) ListEntities(ctx context.Context, arg ListEntitiesParams) ([]KgEntity, error) {
	rows, err := q.db.Query(ctx, listEntities,
		arg.EntityType,
		arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	return scanEntities(rows)
}

const countEntities = `-- name: CountEntities :one
SELECT count(*)
FROM kg_entities
WHERE NOT is_deleted
  AND ($1::text IS NULL OR entity_type = $1::text)
  AND ($2::text IS NULL
       OR name ILIKE '%' || $2::text || '%'
       OR location_text ILIKE '%' || $2::text || '%')
`

type CountEntitiesParams struct {
	EntityType pgtype.Text `json:"entity_type"`
	Search     pgtype.Text `json:"search"`
}

func (q *Queries) CountEntities(ctx context.Context, arg CountEntitiesParams) (int64, error) {
	row := q.db.QueryRow(ctx, countEntities, arg.EntityType, arg.Search)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const searchEntitiesByName = `-- name: SearchEntitiesByName :many
SELECT ` + entityColumns + `
FROM kg_entities
WHERE NOT is_deleted
  AND (COALESCE(cardinality($2::text[]), 0) = 0 OR entity_type = ANY($2::text[]))
  AND (name ILIKE '%' || $1::text || '%' OR location_text ILIKE '%' || $1::text || '%')
ORDER BY confidence_score DESC, id ASC
LIMIT $3
`

type SearchEntitiesByNameParams struct {
	Query       string   `json:"query"`
	EntityTypes []string `json:"entity_types"`
	Limit       int32    `json:"limit"`
}

func (q *Queries) SearchEntitiesByName(ctx context.Context, arg SearchEntitiesByNameParams) ([]KgEntity, error) {
	rows, err := q.db.Query(ctx, searchEntitiesByName, arg.Query, arg.EntityTypes, arg.Limit)
	if err != nil {
		return nil, err
	}
	return scanEntities(rows)
}

const searchEntitiesByEmbedding = `-- name: SearchEntitiesByEmbedding :many
SELECT ` + entityColumns + `
FROM kg_entities
WHERE NOT is_deleted
  AND embedding IS NOT NULL
  AND (COALESCE(cardinality($2::text[]), 0) = 0 OR entity_type = ANY($2::text[]))
  AND NOT (id = ANY(COALESCE($3::bigint[], '{}'::bigint[])))
ORDER BY embedding <-> $1
LIMIT $4
`

type SearchEntitiesByEmbeddingParams struct {
	Embedding   pgvector.Vector `json:"embedding"`
	EntityTypes []string        `json:"entity_types"`
	ExcludeIDs  []int64         `json:"exclude_ids"`
	Limit       int32           `json:"limit"`
}

func (q *Queries) SearchEntitiesByEmbedding(ctx context.Context, arg SearchEntitiesByEmbeddingParams) ([]KgEntity, error) {
	rows, err := q.db.Query(ctx, searchEntitiesByEmbedding,
		arg.Embedding,
		arg.EntityTypes,
		arg.ExcludeIDs,
		arg.Limit,
	)
	if err != nil {
		return nil, err
	}
	return scanEntities(rows)
}

const listEntitiesByTypeExcluding = `-- name: ListEntitiesByTypeExcluding :many
SELECT ` + entityColumns + `
FROM kg_entities
WHERE entity_type = $1
  AND NOT is_deleted
  AND NOT (id = ANY(COALESCE($2::bigint[], '{}'::bigint[])))
ORDER BY name ASC, id ASC
`

type ListEntitiesByTypeExcludingParams struct {
	EntityType string  `json:"entity_type"`
	ExcludeIDs []int64 `json:"exclude_ids"`
}

func (q *Queries) ListEntitiesByTypeExcluding(ctx context.Context, arg ListEntitiesByTypeExcludingParams) ([]KgEntity, error) {
	rows, err := q.db.Query(ctx, listEntitiesByTypeExcluding, arg.EntityType, arg.ExcludeIDs)
	if err != nil {
		return nil, err
	}
	return scanEntities(rows)
}
