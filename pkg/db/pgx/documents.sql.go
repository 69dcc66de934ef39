package pgdb

import (
	"context"
)

const getDocument = `-- name: GetDocument :one
SELECT id, title, kg_extraction_status, created_at, updated_at
FROM documents
WHERE id = $1
`

func (q *Queries) GetDocument(ctx context.Context, id int64) (Document, error) {
	row := q.db.QueryRow(ctx, getDocument, id)
	var i Document
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.KgExtractionStatus,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const updateDocumentExtractionStatus = `-- name: UpdateDocumentExtractionStatus :execrows
UPDATE documents
SET kg_extraction_status = $2,
    updated_at           = now()
WHERE id = $1
`

type UpdateDocumentExtractionStatusParams struct {
	ID                 int64  `json:"id"`
	KgExtractionStatus string `json:"kg_extraction_status"`
}

func (q *Queries) UpdateDocumentExtractionStatus(ctx context.Context, arg UpdateDocumentExtractionStatusParams) (int64, error) {
	result, err := q.db.Exec(ctx, updateDocumentExtractionStatus, arg.ID, arg.KgExtractionStatus)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
