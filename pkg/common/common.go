package common

import "time"

// Entity is a node of the knowledge graph as it is persisted.
//
// At most one non-deleted entity exists per (CanonicalName, Type).
type Entity struct {
	ID               int64          `json:"id"`
	Type             string         `json:"entity_type"`
	Subtype          *string        `json:"entity_subtype"`
	Name             string         `json:"name"`
	CanonicalName    string         `json:"canonical_name"`
	Attributes       map[string]any `json:"attributes"`
	LocationText     *string        `json:"location_text"`
	Confidence       float64        `json:"confidence_score"`
	ExtractionMethod string         `json:"extraction_method"`
	Embedding        []float32      `json:"-"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	IsDeleted        bool           `json:"-"`
}

// Relationship is a directed, typed edge between two entities.
//
// At most one non-deleted relationship exists per (SourceEntityID,
// TargetEntityID, Type).
type Relationship struct {
	ID               int64          `json:"id"`
	SourceEntityID   int64          `json:"source_entity_id"`
	TargetEntityID   int64          `json:"target_entity_id"`
	Type             string         `json:"relationship_type"`
	Attributes       map[string]any `json:"attributes"`
	Confidence       float64        `json:"confidence_score"`
	ExtractionMethod string         `json:"extraction_method"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	IsDeleted        bool           `json:"-"`
}

// Evidence ties exactly one entity or exactly one relationship to the
// document span it was extracted from. Rows are append-only.
type Evidence struct {
	ID                   int64     `json:"id"`
	EntityID             *int64    `json:"entity_id"`
	RelationshipID       *int64    `json:"relationship_id"`
	DocumentID           int64     `json:"document_id"`
	EvidenceText         string    `json:"evidence_text"`
	ExtractionConfidence *float64  `json:"extraction_confidence"`
	CreatedAt            time.Time `json:"created_at"`
}

// EntityCandidate is an entity proposed by one extraction run, before it is
// resolved against the stored graph.
type EntityCandidate struct {
	Type         string         `json:"entity_type"`
	Subtype      string         `json:"entity_subtype,omitempty"`
	Name         string         `json:"name"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Confidence   float64        `json:"confidence"`
	EvidenceText string         `json:"evidence_text,omitempty"`
	LocationText string         `json:"location_text,omitempty"`
}

// RelationshipCandidate references its endpoints by name and claimed type.
// The names are resolved to entity ids by the storage layer.
type RelationshipCandidate struct {
	SourceName   string         `json:"source_name"`
	SourceType   string         `json:"source_type"`
	TargetName   string         `json:"target_name"`
	TargetType   string         `json:"target_type"`
	Type         string         `json:"relationship_type"`
	Attributes   map[string]any `json:"attributes,omitempty"`
	Confidence   float64        `json:"confidence"`
	EvidenceText string         `json:"evidence_text,omitempty"`
}

// DocumentMetadata is the document context handed to the model prompts.
type DocumentMetadata struct {
	Title      string   `json:"title,omitempty"`
	HazardType string   `json:"hazard_type,omitempty"`
	Location   string   `json:"location,omitempty"`
	Tags       []string `json:"tags,omitempty"`
}

// Document statuses owned by the extraction caller.
const (
	ExtractionStatusPending    = "pending"
	ExtractionStatusProcessing = "processing"
	ExtractionStatusCompleted  = "completed"
	ExtractionStatusFailed     = "failed"
)
