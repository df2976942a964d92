package graph

import (
	"context"
	"fmt"
	"sync"
	"time"

	"bibliograph/pkg/common"
	"bibliograph/pkg/logger"

	"golang.org/x/sync/errgroup"
)

// MultilayerGraph returns the cached graph, building it first when the cache
// is empty or refreshCache is set. Concurrent readers share the cached
// value; a rebuild assembles the new graph fully before swapping it in.
func (s *Service) MultilayerGraph(ctx context.Context, refreshCache bool) (*common.Graph, error) {
	if !refreshCache {
		s.mu.RLock()
		cached := s.cached
		s.mu.RUnlock()
		if cached != nil {
			return cached, nil
		}
	}

	built, err := s.build(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.cached = built
	s.mu.Unlock()
	return built, nil
}

func (s *Service) build(ctx context.Context) (*common.Graph, error) {
	start := time.Now()

	resources, err := s.store.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	citations, err := s.store.ListCitations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list citations: %w", err)
	}

	nodes := make([]string, 0, len(resources))
	for _, resource := range resources {
		nodes = append(nodes, resource.ID)
	}

	edges := make([]common.Edge, 0, len(citations))
	edges = append(edges, citations...)

	// similarity layer, one bounded NN query per node
	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.parallelQueries)
	mutex := sync.Mutex{}
	seen := make(map[string]struct{})

	for _, node := range nodes {
		n := node
		eg.Go(func() error {
			neighbors, err := s.store.NearestNeighbors(gCtx, n, s.similarityK)
			if err != nil {
				return fmt.Errorf("failed to query neighbors of %s: %w", n, err)
			}

			mutex.Lock()
			defer mutex.Unlock()
			for _, edge := range neighbors {
				if edge.Weight < s.similarityThreshold {
					continue
				}
				// keep one edge per unordered pair
				key := edge.Source + "\x00" + edge.Target
				if edge.Target < edge.Source {
					key = edge.Target + "\x00" + edge.Source
				}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				edges = append(edges, edge)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	logger.Info(
		"[Graph] Multilayer graph built",
		"nodes", len(nodes),
		"citation_edges", len(citations),
		"similarity_edges", len(edges)-len(citations),
		"duration", time.Since(start).String(),
	)
	return &common.Graph{Nodes: nodes, Edges: edges}, nil
}
