package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"bibliograph/pkg/common"
	"bibliograph/pkg/logger"
)

// hop damping applied per hop beyond the first when scoring paths.
const hopDamping = 0.8

// adjacency is an undirected view over the multilayer graph keeping the
// strongest edge per resource pair.
type adjacency struct {
	nodes     map[string]struct{}
	neighbors map[string]map[string]common.Edge
}

func buildAdjacency(graph *common.Graph) *adjacency {
	adj := &adjacency{
		nodes:     make(map[string]struct{}, len(graph.Nodes)),
		neighbors: make(map[string]map[string]common.Edge),
	}
	for _, node := range graph.Nodes {
		adj.nodes[node] = struct{}{}
	}
	for _, edge := range graph.Edges {
		adj.add(edge.Source, edge.Target, edge)
		adj.add(edge.Target, edge.Source, edge)
	}
	return adj
}

func (a *adjacency) add(from, to string, edge common.Edge) {
	a.nodes[from] = struct{}{}
	m, ok := a.neighbors[from]
	if !ok {
		m = make(map[string]common.Edge)
		a.neighbors[from] = m
	}
	if existing, ok := m[to]; !ok || edge.Weight > existing.Weight {
		m[to] = edge
	}
}

// OpenDiscovery walks two hops out from a known resource A over the cached
// multilayer graph: every C reachable via some bridge B, excluding A itself
// and A's direct neighbors, becomes a candidate. Plausibility is the best
// w(A,B)*w(B,C) over all bridges, damped per hop. Results below
// minPlausibility are dropped, the rest are sorted descending and truncated
// to limit.
//
// A resource with no edges yields an empty list; a resource that is not a
// graph node yields ErrUnknownResource.
func (c *Client) OpenDiscovery(
	ctx context.Context,
	resourceID string,
	limit int,
	minPlausibility float64,
	refreshCache bool,
) ([]common.GraphHypothesis, error) {
	if c.graphs == nil {
		return nil, errors.New("discovery client has no graph provider")
	}
	graph, err := c.graphs.MultilayerGraph(ctx, refreshCache)
	if err != nil {
		return nil, fmt.Errorf("failed to load multilayer graph: %w", err)
	}
	adj := buildAdjacency(graph)
	if _, ok := adj.nodes[resourceID]; !ok {
		return nil, ErrUnknownResource
	}
	if limit <= 0 {
		limit = c.defaultLimit
	}

	type candidate struct {
		score   float64
		bridges map[string]struct{}
		abEdge  common.Edge
		bcEdge  common.Edge
	}
	candidates := make(map[string]*candidate)

	direct := adj.neighbors[resourceID]
	for bID, abEdge := range direct {
		for cID, bcEdge := range adj.neighbors[bID] {
			if cID == resourceID {
				continue
			}
			if _, known := direct[cID]; known {
				continue
			}
			score := abEdge.Weight * bcEdge.Weight * hopDamping
			cand, ok := candidates[cID]
			if !ok {
				cand = &candidate{bridges: make(map[string]struct{})}
				candidates[cID] = cand
			}
			cand.bridges[bID] = struct{}{}
			if score > cand.score {
				cand.score = score
				cand.abEdge = abEdge
				cand.bcEdge = bcEdge
			}
		}
	}

	hypotheses := make([]common.GraphHypothesis, 0, len(candidates))
	for cID, cand := range candidates {
		if cand.score < minPlausibility {
			continue
		}
		bridges := make([]string, 0, len(cand.bridges))
		for bID := range cand.bridges {
			bridges = append(bridges, bID)
		}
		sort.Strings(bridges)
		hypotheses = append(hypotheses, common.GraphHypothesis{
			SourceResource:    resourceID,
			TargetResource:    cID,
			BResources:        bridges,
			PlausibilityScore: cand.score,
			UsedEdges:         []common.Edge{cand.abEdge, cand.bcEdge},
		})
	}

	sort.SliceStable(hypotheses, func(i, j int) bool {
		if hypotheses[i].PlausibilityScore != hypotheses[j].PlausibilityScore {
			return hypotheses[i].PlausibilityScore > hypotheses[j].PlausibilityScore
		}
		return hypotheses[i].TargetResource < hypotheses[j].TargetResource
	})
	if len(hypotheses) > limit {
		hypotheses = hypotheses[:limit]
	}

	logger.Info(
		"[Discovery] Open discovery completed",
		"resource", resourceID,
		"candidates", len(candidates),
		"returned", len(hypotheses),
	)
	return hypotheses, nil
}

// ClosedDiscovery enumerates simple paths of length <= maxHops between two
// known resources, best-first: shorter paths win, then higher scores. Path
// score is the product of edge weights damped per hop beyond the first.
// No connecting path is a valid outcome and returns an empty list.
func (c *Client) ClosedDiscovery(
	ctx context.Context,
	aResourceID string,
	cResourceID string,
	maxHops int,
	refreshCache bool,
) ([]common.Path, error) {
	if c.graphs == nil {
		return nil, errors.New("discovery client has no graph provider")
	}
	graph, err := c.graphs.MultilayerGraph(ctx, refreshCache)
	if err != nil {
		return nil, fmt.Errorf("failed to load multilayer graph: %w", err)
	}
	adj := buildAdjacency(graph)
	if _, ok := adj.nodes[aResourceID]; !ok {
		return nil, ErrUnknownResource
	}
	if _, ok := adj.nodes[cResourceID]; !ok {
		return nil, ErrUnknownResource
	}
	if maxHops <= 0 {
		maxHops = 3
	}

	paths := make([]common.Path, 0)
	visited := map[string]bool{aResourceID: true}
	trail := []string{aResourceID}
	var edges []common.Edge

	var walk func(node string)
	walk = func(node string) {
		if len(edges) > maxHops {
			return
		}
		if node == cResourceID {
			score := 1.0
			for i, edge := range edges {
				score *= edge.Weight
				if i > 0 {
					score *= hopDamping
				}
			}
			paths = append(paths, common.Path{
				Resources:         append([]string(nil), trail...),
				BResources:        append([]string(nil), trail[1:len(trail)-1]...),
				PathLength:        len(edges),
				PlausibilityScore: score,
				UsedEdges:         append([]common.Edge(nil), edges...),
			})
			return
		}
		if len(edges) == maxHops {
			return
		}
		for next, edge := range adj.neighbors[node] {
			if visited[next] {
				continue
			}
			visited[next] = true
			trail = append(trail, next)
			edges = append(edges, edge)
			walk(next)
			edges = edges[:len(edges)-1]
			trail = trail[:len(trail)-1]
			visited[next] = false
		}
	}
	walk(aResourceID)

	sort.SliceStable(paths, func(i, j int) bool {
		if paths[i].PathLength != paths[j].PathLength {
			return paths[i].PathLength < paths[j].PathLength
		}
		if paths[i].PlausibilityScore != paths[j].PlausibilityScore {
			return paths[i].PlausibilityScore > paths[j].PlausibilityScore
		}
		return fmt.Sprint(paths[i].Resources) < fmt.Sprint(paths[j].Resources)
	})

	logger.Info(
		"[Discovery] Closed discovery completed",
		"resource_a", aResourceID,
		"resource_c", cResourceID,
		"max_hops", maxHops,
		"paths", len(paths),
	)
	return paths, nil
}
