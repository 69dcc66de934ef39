package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const relationshipColumns = `id, source_entity_id, target_entity_id, relationship_type, attributes,
       confidence_score, extraction_method, created_at, updated_at, is_deleted`

func scanRelationship(row pgx.Row) (KgRelationship, error) {
	var i KgRelationship
	err := row.Scan(
		&i.ID,
		&i.SourceEntityID,
		&i.TargetEntityID,
		&i.RelationshipType,
		&i.Attributes,
		&i.ConfidenceScore,
		&i.ExtractionMethod,
		&i.CreatedAt,
		&i.UpdatedAt,
		&i.IsDeleted,
	)
	return i, err
}

func scanRelationships(rows pgx.Rows) ([]KgRelationship, error) {
	defer rows.Close()
	var items []KgRelationship
	for rows.Next() {
		i, err := scanRelationship(rows)
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

const getRelationshipByTriple = `-- name: GetRelationshipByTriple :one
SELECT ` + relationshipColumns + `
FROM kg_relationships
WHERE source_entity_id = $1
  AND target_entity_id = $2
  AND relationship_type = $3
  AND NOT is_deleted
LIMIT 1
`

type GetRelationshipByTripleParams struct {
	SourceEntityID   int64  `json:"source_entity_id"`
	TargetEntityID   int64  `json:"target_entity_id"`
	RelationshipType string `json:"relationship_type"`
}

func (q *Queries) GetRelationshipByTriple(ctx context.Context, arg GetRelationshipByTripleParams) (KgRelationship, error) {
	return scanRelationship(q.db.QueryRow(ctx, getRelationshipByTriple,
		arg.SourceEntityID,
		arg.TargetEntityID,
		arg.RelationshipType,
	))
}

const insertRelationship = `-- name: InsertRelationship :one
INSERT INTO kg_relationships (
    source_entity_id, target_entity_id, relationship_type,
    attributes, confidence_score, extraction_method
) VALUES (
    $1, $2, $3, $4, $5, $6
)
RETURNING id
`

type InsertRelationshipParams struct {
	SourceEntityID   int64   `json:"source_entity_id"`
	TargetEntityID   int64   `json:"target_entity_id"`
	RelationshipType string  `json:"relationship_type"`
	Attributes       []byte  `json:"attributes"`
	ConfidenceScore  float64 `json:"confidence_score"`
	ExtractionMethod string  `json:"extraction_method"`
}

func (q *Queries) InsertRelationship(ctx context.Context, arg InsertRelationshipParams) (int64, error) {
	row := q.db.QueryRow(ctx, insertRelationship,
		arg.SourceEntityID,
		arg.TargetEntityID,
		arg.RelationshipType,
		arg.Attributes,
		arg.ConfidenceScore,
		arg.ExtractionMethod,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const mergeRelationship = `-- name: MergeRelationship :exec
UPDATE kg_relationships
SET confidence_score = GREATEST(confidence_score, $2),
    attributes       = $3::jsonb || attributes,
    updated_at       = now()
WHERE id = $1
`

type MergeRelationshipParams struct {
	ID              int64   `json:"id"`
	ConfidenceScore float64 `json:"confidence_score"`
	Attributes      []byte  `json:"attributes"`
}

func (q *Queries) MergeRelationship(ctx context.Context, arg MergeRelationshipParams) error {
	_, err := q.db.Exec(ctx, mergeRelationship, arg.ID, arg.ConfidenceScore, arg.Attributes)
	return err
}

const getOutgoingRelationships = `-- name: GetOutgoingRelationships :many
SELECT ` + relationshipColumns + `
FROM kg_relationships
WHERE source_entity_id = $1 AND NOT is_deleted
ORDER BY id
`

func (q *Queries) GetOutgoingRelationships(ctx context.Context, sourceEntityID int64) ([]KgRelationship, error) {
	rows, err := q.db.Query(ctx, getOutgoingRelationships, sourceEntityID)
	if err != nil {
		return nil, err
	}
	return scanRelationships(rows)
}

const getIncomingRelationships = `-- name: GetIncomingRelationships :many
SELECT ` + relationshipColumns + `
FROM kg_relationships
WHERE target_entity_id = $1 AND NOT is_deleted
ORDER BY id
`

func (q *Queries) GetIncomingRelationships(ctx context.Context, targetEntityID int64) ([]KgRelationship, error) {
	rows, err := q.db.Query(ctx, getIncomingRelationships, targetEntityID)
	if err != nil {
		return nil, err
	}
	return scanRelationships(rows)
}

const listRelationships = `-- name: ListRelationships :many
SELECT r.id, r.source_entity_id, r.target_entity_id, r.relationship_type, r.attributes,
       r.confidence_score, r.extraction_method, r.created_at, r.updated_at, r.is_deleted,
       s.name AS source_name, t.name AS target_name
FROM kg_relationships r
JOIN kg_entities s ON s.id = r.source_entity_id
JOIN kg_entities t ON t.id = r.target_entity_id
WHERE NOT r.is_deleted
  AND ($1::text IS NULL OR r.relationship_type = $1::text)
  AND ($2::bigint IS NULL OR r.source_entity_id = $2::bigint)
  AND ($3::bigint IS NULL OR r.target_entity_id = $3::bigint)
  AND ($4::text IS NULL
       OR s.name ILIKE '%' || $4::text || '%'
       OR t.name ILIKE '%' || $4::text || '%')
ORDER BY r.confidence_score DESC, r.relationship_type ASC, r.id ASC
LIMIT $5 OFFSET $6
`

type ListRelationshipsParams struct {
	RelationshipType pgtype.Text `json:"relationship_type"`
	SourceEntityID   pgtype.Int8 `json:"source_entity_id"`
	TargetEntityID   pgtype.Int8 `json:"target_entity_id"`
	Search           pgtype.Text `json:"search"`
	Limit            int32       `json:"limit"`
	Offset           int32       `json:"offset"`
}

type ListRelationshipsRow struct {
	KgRelationship KgRelationship `json:"kg_relationship"`
	SourceName     string         `json:"source_name"`
	TargetName     string         `json:"target_name"`
}

func (q *Queries) ListRelationships(ctx context.Context, arg ListRelationshipsParams) ([]ListRelationshipsRow, error) {
	rows, err := q.db.Query(ctx, listRelationships,
		arg.RelationshipType,
		arg.SourceEntityID,
		arg.TargetEntityID,
		arg.Search,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []ListRelationshipsRow
	for rows.Next() {
		var i ListRelationshipsRow
		if err := rows.Scan(
			&i.KgRelationship.ID,
			&i.KgRelationship.SourceEntityID,
			&i.KgRelationship.TargetEntityID,
			&i.KgRelationship.RelationshipType,
			&i.KgRelationship.Attributes,
			&i.KgRelationship.ConfidenceScore,
			&i.KgRelationship.ExtractionMethod,
			&i.KgRelationship.CreatedAt,
			&i.KgRelationship.UpdatedAt,
			&i.KgRelationship.IsDeleted,
			&i.SourceName,
			&i.TargetName,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRelationships = `-- name: CountRelationships :one
SELECT count(*)
FROM kg_relationships r
JOIN kg_entities s ON s.id = r.source_entity_id
JOIN kg_entities t ON t.id = r.target_entity_id
WHERE NOT r.is_deleted
  AND ($1::text IS NULL OR r.relationship_type = $1::text)
  AND ($2::bigint IS NULL OR r.source_entity_id = $2::bigint)
  AND ($3::bigint IS NULL OR r.target_entity_id = $3::bigint)
  AND ($4::text IS NULL
       OR s.name ILIKE '%' || $4::text || '%'
       OR t.name ILIKE '%' || $4::text || '%')
`

type CountRelationshipsParams struct {
	RelationshipType pgtype.Text `json:"relationship_type"`
	SourceEntityID   pgtype.Int8 `json:"source_entity_id"`
	TargetEntityID   pgtype.Int8 `json:"target_entity_id"`
	Search           pgtype.Text `json:"search"`
}

func (q *Queries) CountRelationships(ctx context.Context, arg CountRelationshipsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countRelationships,
		arg.RelationshipType,
		arg.SourceEntityID,
		arg.TargetEntityID,
		arg.Search,
	)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const getSourceIDsWithRelationship = `-- name: GetSourceIDsWithRelationship :many
SELECT DISTINCT r.source_entity_id
FROM kg_relationships r
JOIN kg_entities t ON t.id = r.target_entity_id
WHERE r.relationship_type = $1
  AND NOT r.is_deleted
  AND t.entity_type = $2
  AND NOT t.is_deleted
`

type GetSourceIDsWithRelationshipParams struct {
	RelationshipType string `json:"relationship_type"`
	TargetType       string `json:"target_type"`
}

func (q *Queries) GetSourceIDsWithRelationship(ctx context.Context, arg GetSourceIDsWithRelationshipParams) ([]int64, error) {
	rows, err := q.db.Query(ctx, getSourceIDsWithRelationship, arg.RelationshipType, arg.TargetType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		items = append(items, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
