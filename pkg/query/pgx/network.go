package pgx

import (
	"context"

	pgdb "github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/db/pgx"
	"github.com/SVR-Hub-Dev/community-resilience-mvp/backend/pkg/query"
)

type edgeKey struct {
	source, target int64
	typ            string
}

type hop struct {
	id    int64
	depth int
}

// GetEntityNetwork walks relationships in both directions breadth first.
// Nodes at maxDepth are included but not expanded. maxDepth is clamped to
// [0, query.MaxNetworkDepth].
func (s *GraphQueryService) GetEntityNetwork(ctx context.Context, startID int64, maxDepth int) (query.Network, error) {
	maxDepth = min(max(maxDepth, 0), query.MaxNetworkDepth)

	if _, err := s.db.GetEntity(ctx, startID); err != nil {
		if pgdb.IsNotFound(err) {
			return query.Network{}, query.ErrNotFound
		}
		return query.Network{}, err
	}

	network := query.Network{
		Nodes: []query.NetworkNode{},
		Edges: []query.NetworkEdge{},
	}
	visited := map[int64]bool{}
	seenEdges := map[edgeKey]bool{}
	queue := []hop{{id: startID}}

	addEdge := func(r pgdb.KgRelationship) {
		key := edgeKey{r.SourceEntityID, r.TargetEntityID, r.RelationshipType}
		if seenEdges[key] {
			return
		}
		seenEdges[key] = true
		network.Edges = append(network.Edges, query.NetworkEdge{
			ID:         r.ID,
			Source:     r.SourceEntityID,
			Target:     r.TargetEntityID,
			Type:       r.RelationshipType,
			Confidence: r.ConfidenceScore,
		})
	}

	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return query.Network{}, err
		}
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.id] || cur.depth > maxDepth {
			continue
		}
		visited[cur.id] = true

		e, err := s.db.GetEntity(ctx, cur.id)
		if pgdb.IsNotFound(err) {
			continue
		}
		if err != nil {
			return query.Network{}, err
		}
		network.Nodes = append(network.Nodes, query.NetworkNode{
			ID:         e.ID,
			Name:       e.Name,
			Type:       e.EntityType,
			Subtype:    pgdb.StringPtr(e.EntitySubtype),
			Confidence: e.ConfidenceScore,
		})

		if cur.depth >= maxDepth {
			continue
		}

		outgoing, err := s.db.GetOutgoingRelationships(ctx, cur.id)
		if err != nil {
			return query.Network{}, err
		}
		for _, r := range outgoing {
			addEdge(r)
			if !visited[r.TargetEntityID] {
				queue = append(queue, hop{r.TargetEntityID, cur.depth + 1})
			}
		}

		incoming, err := s.db.GetIncomingRelationships(ctx, cur.id)
		if err != nil {
			return query.Network{}, err
		}
		for _, r := range incoming {
			addEdge(r)
			if !visited[r.SourceEntityID] {
				queue = append(queue, hop{r.SourceEntityID, cur.depth + 1})
			}
		}
	}

	return network, nil
}
