package graph

import (
	"sync"

	"bibliograph/pkg/common"
	"bibliograph/pkg/store"
)

// Service builds and caches the multilayer discovery graph: a citation layer
// from the citation table and an embedding-similarity layer from
// nearest-neighbor search over stored resource embeddings.
//
// The cached graph is shared across discovery requests. Rebuilds construct a
// fresh graph and swap it in under the write lock, so readers always see a
// complete graph.
//
// A Service should be created using NewService.
type Service struct {
	store store.ResourceStorage

	similarityK         int
	similarityThreshold float64
	parallelQueries     int

	mu     sync.RWMutex
	cached *common.Graph
}

// NewServiceParams configures a graph Service.
//
// SimilarityK is the number of similarity neighbors considered per resource.
// SimilarityThreshold drops similarity edges below the given weight.
// ParallelQueries bounds concurrent nearest-neighbor queries during a build.
type NewServiceParams struct {
	Store               store.ResourceStorage
	SimilarityK         int
	SimilarityThreshold float64
	ParallelQueries     int
}

// NewService creates a graph service. The graph is built lazily on first
// use.
func NewService(params NewServiceParams) *Service {
	k := params.SimilarityK
	if k <= 0 {
		k = 10
	}
	parallel := params.ParallelQueries
	if parallel <= 0 {
		parallel = 8
	}
	return &Service{
		store:               params.Store,
		similarityK:         k,
		similarityThreshold: params.SimilarityThreshold,
		parallelQueries:     parallel,
	}
}

// Invalidate drops the cached graph. The next MultilayerGraph call rebuilds.
func (s *Service) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cached = nil
}
