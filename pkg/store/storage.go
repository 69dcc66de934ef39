package store

import (
	"context"
	"errors"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

var (
	ErrNotFound      = errors.New("entity not found")
	ErrEntityExists  = errors.New("entity with this name and type already exists")
	ErrInvalidEntity = errors.New("invalid entity")
)

// GraphStorage persists extraction results into the knowledge graph and
// exposes the manual administration operations on entities.
//
// StoreResults never fails as a whole: every candidate is resolved in its own
// transaction and a failing candidate is logged and skipped.
type GraphStorage interface {
	StoreResults(
		ctx context.Context,
		documentID int64,
		entities []common.EntityCandidate,
		relationships []common.RelationshipCandidate,
	) StoreResult

	CreateEntity(ctx context.Context, entity ManualEntity) (int64, error)
	UpdateEntity(ctx context.Context, id int64, patch EntityPatch) error
	DeleteEntity(ctx context.Context, id int64) error

	SetExtractionStatus(ctx context.Context, documentID int64, status string) error
}

// StoreResult lists the ids touched by one StoreResults call, one entry per
// successfully stored candidate in input order. An id appears twice when two
// candidates resolved to the same row.
type StoreResult struct {
	EntityIDs       []int64 `json:"entity_ids"`
	RelationshipIDs []int64 `json:"relationship_ids"`
}

// ManualEntity is an entity created by an editor. Confidence defaults to 1.
type ManualEntity struct {
	Type         string         `json:"entity_type" validate:"required"`
	Subtype      string         `json:"entity_subtype"`
	Name         string         `json:"name" validate:"required"`
	Attributes   map[string]any `json:"attributes"`
	LocationText string         `json:"location_text"`
	Confidence   *float64       `json:"confidence_score"`
}

// EntityPatch is a partial update. Nil fields are left untouched and a
// non-nil Attributes replaces the whole map.
type EntityPatch struct {
	Name         *string        `json:"name"`
	Subtype      *string        `json:"entity_subtype"`
	Attributes   map[string]any `json:"attributes"`
	LocationText *string        `json:"location_text"`
	Confidence   *float64       `json:"confidence_score"`
}
