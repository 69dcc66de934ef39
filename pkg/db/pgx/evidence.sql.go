package pgdb

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const insertEvidence = `-- name: InsertEvidence :one
INSERT INTO kg_evidence (
    entity_id, relationship_id, document_id, evidence_text, extraction_confidence
) VALUES (
    $1, $2, $3, $4, $5
)
RETURNING id
`

type InsertEvidenceParams struct {
	EntityID             pgtype.Int8   `json:"entity_id"`
	RelationshipID       pgtype.Int8   `json:"relationship_id"`
	DocumentID           int64         `json:"document_id"`
	EvidenceText         string        `json:"evidence_text"`
	ExtractionConfidence pgtype.Float8 `json:"extraction_confidence"`
}

func (q *Queries) InsertEvidence(ctx context.Context, arg InsertEvidenceParams) (int64, error) {
	row := q.db.QueryRow(ctx, insertEvidence,
		arg.EntityID,
		arg.RelationshipID,
		arg.DocumentID,
		arg.EvidenceText,
		arg.ExtractionConfidence,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const getEntityEvidence = `-- name: GetEntityEvidence :many
SELECT id, entity_id, relationship_id, document_id, evidence_text, extraction_confidence, created_at
FROM kg_evidence
WHERE entity_id = $1
ORDER BY created_at, id
`

func (q *Queries) GetEntityEvidence(ctx context.Context, entityID pgtype.Int8) ([]KgEvidence, error) {
	rows, err := q.db.Query(ctx, getEntityEvidence, entityID)
	if err != nil {
		return nil, err
	}
	return scanEvidence(rows)
}

func scanEvidence(rows pgx.Rows) ([]KgEvidence, error) {
	defer rows.Close()
	var items []KgEvidence
	for rows.Next() {
		var i KgEvidence
		if err := rows.Scan(
			&i.ID,
			&i.EntityID,
			&i.RelationshipID,
			&i.DocumentID,
			&i.EvidenceText,
			&i.ExtractionConfidence,
			&i.CreatedAt,
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
