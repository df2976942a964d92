package graph

import (
	"context"
	"fmt"

	"bibliograph/pkg/common"
	"bibliograph/pkg/logger"
)

// Reinforcement step applied to each edge of a validated hypothesis.
const (
	reinforceStep = 0.1
	maxEdgeWeight = 1.0
)

// Reinforce bumps the weight of every edge used by a validated hypothesis
// and persists citation edge weights. Similarity edges are reinforced in the
// cache only, since their weights are recomputed from embeddings on rebuild.
//
// The cached graph is never mutated: a published *common.Graph may be mid
// traversal in another goroutine, so reinforcement clones the edge slice,
// applies the new weights, and swaps in a fresh graph under the write lock.
func (s *Service) Reinforce(ctx context.Context, edges []common.Edge) error {
	reinforced := make([]common.Edge, 0, len(edges))
	for _, edge := range edges {
		weight := edge.Weight + reinforceStep
		if weight > maxEdgeWeight {
			weight = maxEdgeWeight
		}
		edge.Weight = weight

		if edge.EdgeType == common.EdgeTypeCitation {
			if err := s.store.UpdateEdgeWeight(ctx, edge); err != nil {
				return fmt.Errorf("failed to persist reinforced edge: %w", err)
			}
		}
		reinforced = append(reinforced, edge)
	}

	s.swapReinforced(reinforced)

	logger.Info("[Graph] Edges reinforced", "count", len(reinforced))
	return nil
}

func (s *Service) swapReinforced(reinforced []common.Edge) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached == nil {
		return
	}

	edges := make([]common.Edge, len(s.cached.Edges))
	copy(edges, s.cached.Edges)
	for i := range edges {
		for _, update := range reinforced {
			sameDirection := edges[i].Source == update.Source && edges[i].Target == update.Target
			reversed := edges[i].Source == update.Target && edges[i].Target == update.Source
			if edges[i].EdgeType == update.EdgeType && (sameDirection || reversed) {
				if update.Weight > edges[i].Weight {
					edges[i].Weight = update.Weight
				}
			}
		}
	}

	s.cached = &common.Graph{Nodes: s.cached.Nodes, Edges: edges}
}
