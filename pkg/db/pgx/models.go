package pgdb

import (
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pgvector/pgvector-go"
)

type Document struct {
	ID                 int64              `json:"id"`
	Title              string             `json:"title"`
	KgExtractionStatus string             `json:"kg_extraction_status"`
	CreatedAt          pgtype.Timestamptz `json:"created_at"`
	UpdatedAt          pgtype.Timestamptz `json:"updated_at"`
}

type KgEntity struct {
	ID               int64              `json:"id"`
	EntityType       string             `json:"entity_type"`
	EntitySubtype    pgtype.Text        `json:"entity_subtype"`
	Name             string             `json:"name"`
	CanonicalName    string             `json:"canonical_name"`
	Attributes       []byte             `json:"attributes"`
	LocationText     pgtype.Text        `json:"location_text"`
	ConfidenceScore  float64            `json:"confidence_score"`
	ExtractionMethod string             `json:"extraction_method"`
	Embedding        *pgvector.Vector   `json:"embedding"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
	IsDeleted        bool               `json:"is_deleted"`
}

type KgEvidence struct {
	ID                   int64              `json:"id"`
	EntityID             pgtype.Int8        `json:"entity_id"`
	RelationshipID       pgtype.Int8        `json:"relationship_id"`
	DocumentID           int64              `json:"document_id"`
	EvidenceText         string             `json:"evidence_text"`
	ExtractionConfidence pgtype.Float8      `json:"extraction_confidence"`
	CreatedAt            pgtype.Timestamptz `json:"created_at"`
}

type KgRelationship struct {
	ID               int64              `json:"id"`
	SourceEntityID   int64              `json:"source_entity_id"`
	TargetEntityID   int64              `json:"target_entity_id"`
	RelationshipType string             `json:"relationship_type"`
	Attributes       []byte             `json:"attributes"`
	ConfidenceScore  float64            `json:"confidence_score"`
	ExtractionMethod string             `json:"extraction_method"`
	CreatedAt        pgtype.Timestamptz `json:"created_at"`
	UpdatedAt        pgtype.Timestamptz `json:"updated_at"`
	IsDeleted        bool               `json:"is_deleted"`
}
