package query

import (
	"context"
	"errors"

	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/common"
)

var ErrNotFound = errors.New("entity not found")

// UnknownEntity labels a relationship endpoint that no longer resolves to a
// live entity.
const UnknownEntity = "Unknown"

// MaxNetworkDepth bounds GetEntityNetwork.
const MaxNetworkDepth = 4

// GraphQueryClient is the read side of the knowledge graph. Every operation
// skips soft-deleted rows.
type GraphQueryClient interface {
	ListEntities(ctx context.Context, filter EntityFilter) ([]common.Entity, int64, error)
	ListRelationships(ctx context.Context, filter RelationshipFilter) ([]RelationshipView, int64, error)
	GetEntityDetail(ctx context.Context, id int64) (EntityDetail, error)
	SearchEntities(ctx context.Context, query string, entityTypes []string, limit int) ([]common.Entity, error)
	GetStatistics(ctx context.Context) (Statistics, error)
	FindCoverageGaps(ctx context.Context, entityType, requiredRelationship, targetType string) ([]common.Entity, error)
	GetEntityNetwork(ctx context.Context, startID int64, maxDepth int) (Network, error)
}

type EntityFilter struct {
	Type   string
	Search string
	Limit  int
	Offset int
}

// RelationshipFilter matches Search against the source and target names.
type RelationshipFilter struct {
	Type           string
	SourceEntityID int64
	TargetEntityID int64
	Search         string
	Limit          int
	Offset         int
}

type RelationshipView struct {
	common.Relationship
	SourceName string `json:"source_name"`
	TargetName string `json:"target_name"`
}

// LinkedRelationship is a relationship seen from one of its endpoints. The
// Entity fields describe the other endpoint.
type LinkedRelationship struct {
	ID         int64          `json:"id"`
	Type       string         `json:"relationship_type"`
	Confidence float64        `json:"confidence_score"`
	Attributes map[string]any `json:"attributes"`
	EntityID   *int64         `json:"entity_id"`
	EntityName string         `json:"entity_name"`
	EntityType string         `json:"entity_type"`
}

type EntityDetail struct {
	common.Entity
	Outgoing []LinkedRelationship `json:"outgoing_relationships"`
	Incoming []LinkedRelationship `json:"incoming_relationships"`
	Evidence []common.Evidence    `json:"evidence"`
}

type Statistics struct {
	TotalEntities      int64            `json:"total_entities"`
	TotalRelationships int64            `json:"total_relationships"`
	EntityCounts       map[string]int64 `json:"entity_counts"`
	RelationshipCounts map[string]int64 `json:"relationship_counts"`
	AvgConfidence      float64          `json:"avg_confidence"`
}

type NetworkNode struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Type       string  `json:"entity_type"`
	Subtype    *string `json:"entity_subtype"`
	Confidence float64 `json:"confidence_score"`
}

type NetworkEdge struct {
	ID         int64   `json:"id"`
	Source     int64   `json:"source"`
	Target     int64   `json:"target"`
	Type       string  `json:"relationship_type"`
	Confidence float64 `json:"confidence_score"`
}

// Network is the result of a bounded traversal. Nodes are in visit order.
type Network struct {
	Nodes []NetworkNode `json:"nodes"`
	Edges []NetworkEdge `json:"edges"`
}
