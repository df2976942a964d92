package store

import (
	"context"
	"time"

	"bibliograph/pkg/common"
)

// Validation is an audit record for a validated graph hypothesis. The edges
// it carried are persisted so reinforcement can be replayed.
type Validation struct {
	ID        string        `json:"id"`
	ResourceA string        `json:"resource_a"`
	ResourceC string        `json:"resource_c"`
	Edges     []common.Edge `json:"edges"`
	CreatedAt time.Time     `json:"created_at"`
}

// ResourceStorage is the read surface the discovery engine needs over
// ingested resources, plus the few writes the validation feedback loop
// performs. Implementations: base (in-memory) and pgx (Postgres+pgvector).
type ResourceStorage interface {
	// ListResources returns the full resource snapshot for concept indexing.
	ListResources(ctx context.Context) ([]common.Resource, error)
	// GetResource returns a single resource or nil when it does not exist.
	GetResource(ctx context.Context, id string) (*common.Resource, error)

	// ListCitations returns the citation layer of the multilayer graph.
	ListCitations(ctx context.Context) ([]common.Edge, error)
	// NearestNeighbors returns up to k embedding-similarity edges from the
	// given resource, weighted by similarity.
	NearestNeighbors(ctx context.Context, resourceID string, k int) ([]common.Edge, error)

	// UpdateEdgeWeight persists a reinforced citation edge weight.
	UpdateEdgeWeight(ctx context.Context, edge common.Edge) error
	// SaveValidation records a hypothesis validation for audit.
	SaveValidation(ctx context.Context, validation Validation) error
}
