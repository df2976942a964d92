package discovery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"bibliograph/pkg/common"
	"bibliograph/pkg/logger"
	"bibliograph/pkg/store"
)

var (
	// ErrEmptyConcept is returned when a query concept normalizes to the
	// empty string. Boundary validation, never reached by the ranker.
	ErrEmptyConcept = errors.New("query concept is empty")

	// ErrUnknownResource is returned by graph discovery when the requested
	// resource is not a node of the multilayer graph.
	ErrUnknownResource = errors.New("resource is not part of the graph")
)

// GraphProvider exposes the cached multilayer graph to discovery. The
// refreshCache flag forces a rebuild before traversal.
type GraphProvider interface {
	MultilayerGraph(ctx context.Context, refreshCache bool) (*common.Graph, error)
}

// Client runs literature-based discovery: ABC bridging over concept
// co-occurrence, and open/closed discovery over the multilayer graph.
//
// A Client should be created using NewClient.
type Client struct {
	store        store.ResourceStorage
	graphs       GraphProvider
	defaultLimit int
}

// NewClientParams configures a discovery Client.
//
// Store provides read access to ingested resources.
// Graphs provides the cached multilayer graph for open/closed discovery.
// DefaultLimit caps hypothesis lists when the caller passes no limit.
type NewClientParams struct {
	Store        store.ResourceStorage
	Graphs       GraphProvider
	DefaultLimit int
}

// NewClient creates a discovery client.
func NewClient(params NewClientParams) (*Client, error) {
	if params.Store == nil {
		return nil, errors.New("discovery client requires a resource store")
	}
	limit := params.DefaultLimit
	if limit <= 0 {
		limit = 10
	}
	return &Client{
		store:        params.Store,
		graphs:       params.Graphs,
		defaultLimit: limit,
	}, nil
}

// DiscoverHypotheses finds plausible ABC connections between two concepts:
// resolve the resources mentioning each concept, intersect their derived
// concept sets into bridging candidates, annotate known direct connections,
// rank by confidence, and truncate to limit.
//
// No matching resources or no bridges is a valid outcome and returns an
// empty list. A negative limit falls back to the client default.
func (c *Client) DiscoverHypotheses(
	ctx context.Context,
	conceptA string,
	conceptC string,
	slice *common.TimeSlice,
	limit int,
) ([]common.Hypothesis, error) {
	start := time.Now()

	a := NormalizeConcept(conceptA)
	cc := NormalizeConcept(conceptC)
	if a == "" || cc == "" {
		return nil, ErrEmptyConcept
	}
	if limit < 0 {
		limit = c.defaultLimit
	}

	resources, err := c.store.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load resources: %w", err)
	}
	idx := NewIndex(resources)

	aResources := idx.FindResourcesWithConcept(a, slice)
	cResources := idx.FindResourcesWithConcept(cc, slice)
	if len(aResources) == 0 || len(cResources) == 0 {
		logger.Debug("[Discovery] Concept resolved to no resources", "concept_a", a, "concept_c", cc)
		return []common.Hypothesis{}, nil
	}

	bridges := FindBridgingConcepts(aResources, cResources, a, cc)
	bridges, _ = AnnotateKnownConnections(idx, a, cc, bridges, slice)

	hypotheses := RankHypotheses(idx, a, cc, bridges, slice)
	if len(hypotheses) > limit {
		hypotheses = hypotheses[:limit]
	}

	logger.Info(
		"[Discovery] Hypotheses ranked",
		"concept_a", a,
		"concept_c", cc,
		"resources", idx.Len(),
		"bridges", len(bridges),
		"returned", len(hypotheses),
		"duration", time.Since(start).String(),
	)
	return hypotheses, nil
}

// DiscoverABC is a deprecated alias for DiscoverHypotheses kept for callers
// of the old API name.
//
// Deprecated: use DiscoverHypotheses.
func (c *Client) DiscoverABC(
	ctx context.Context,
	conceptA string,
	conceptC string,
	slice *common.TimeSlice,
	limit int,
) ([]common.Hypothesis, error) {
	return c.DiscoverHypotheses(ctx, conceptA, conceptC, slice, limit)
}
