package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const countEntitiesByType = `-- name: CountEntitiesByType :many
SELECT entity_type, count(*) AS count
FROM kg_entities
WHERE NOT is_deleted
GROUP BY entity_type
ORDER BY entity_type
`

type CountEntitiesByTypeRow struct {
	EntityType string `json:"entity_type"`
	Count      int64  `json:"count"`
}

func (q *Queries) CountEntitiesByType(ctx context.Context) ([]CountEntitiesByTypeRow, error) {
	rows, err := q.db.Query(ctx, countEntitiesByType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountEntitiesByTypeRow
	for rows.Next() {
		var i CountEntitiesByTypeRow
		if err := rows.Scan(&i.EntityType, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countRelationshipsByType = `-- name: CountRelationshipsByType :many
SELECT relationship_type, count(*) AS count
FROM kg_relationships
WHERE NOT is_deleted
GROUP BY relationship_type
ORDER BY relationship_type
`

type CountRelationshipsByTypeRow struct {
	RelationshipType string `json:"relationship_type"`
	Count            int64  `json:"count"`
}

func (q *Queries) CountRelationshipsByType(ctx context.Context) ([]CountRelationshipsByTypeRow, error) {
	rows, err := q.db.Query(ctx, countRelationshipsByType)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []CountRelationshipsByTypeRow
	for rows.Next() {
		var i CountRelationshipsByTypeRow
		if err := rows.Scan(&i.RelationshipType, &i.Count); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const averageEntityConfidence = `-- name: AverageEntityConfidence :one
SELECT avg(confidence_score)::float8
FROM kg_entities
WHERE NOT is_deleted
`

func (q *Queries) AverageEntityConfidence(ctx context.Context) (pgtype.Float8, error) {
	row := q.db.QueryRow(ctx, averageEntityConfidence)
	var avg pgtype.Float8
	err := row.Scan(&avg)
	return avg, err
}
