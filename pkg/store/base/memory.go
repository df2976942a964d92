package base

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"bibliograph/pkg/common"
	"bibliograph/pkg/store"
)

// MemoryStorage is an in-memory ResourceStorage. It backs tests and small
// single-process deployments; the pgx implementation is the production one.
type MemoryStorage struct {
	mu          sync.RWMutex
	resources   map[string]common.Resource
	order       []string
	citations   []common.Edge
	embeddings  map[string][]float32
	validations []store.Validation
}

// NewMemoryStorage creates an empty in-memory store.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		resources:  make(map[string]common.Resource),
		embeddings: make(map[string][]float32),
	}
}

// AddResource inserts or replaces a resource.
func (m *MemoryStorage) AddResource(resource common.Resource) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.resources[resource.ID]; !ok {
		m.order = append(m.order, resource.ID)
	}
	m.resources[resource.ID] = resource
}

// AddCitation inserts a citation edge.
func (m *MemoryStorage) AddCitation(source, target string, weight float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.citations = append(m.citations, common.Edge{
		Source:   source,
		Target:   target,
		Weight:   weight,
		EdgeType: common.EdgeTypeCitation,
	})
}

// AddEmbedding stores a resource embedding for similarity queries.
func (m *MemoryStorage) AddEmbedding(resourceID string, embedding []float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embeddings[resourceID] = embedding
}

// Validations returns a copy of the recorded validations.
func (m *MemoryStorage) Validations() []store.Validation {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]store.Validation(nil), m.validations...)
}

func (m *MemoryStorage) ListResources(ctx context.Context) ([]common.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resources := make([]common.Resource, 0, len(m.order))
	for _, id := range m.order {
		resources = append(resources, m.resources[id])
	}
	return resources, nil
}

func (m *MemoryStorage) GetResource(ctx context.Context, id string) (*common.Resource, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	resource, ok := m.resources[id]
	if !ok {
		return nil, nil
	}
	return &resource, nil
}

func (m *MemoryStorage) ListCitations(ctx context.Context) ([]common.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]common.Edge(nil), m.citations...), nil
}

func (m *MemoryStorage) NearestNeighbors(ctx context.Context, resourceID string, k int) ([]common.Edge, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	query, ok := m.embeddings[resourceID]
	if !ok {
		return nil, nil
	}

	edges := make([]common.Edge, 0)
	for id, embedding := range m.embeddings {
		if id == resourceID {
			continue
		}
		similarity := cosineSimilarity(query, embedding)
		if similarity <= 0 {
			continue
		}
		edges = append(edges, common.Edge{
			Source:   resourceID,
			Target:   id,
			Weight:   similarity,
			EdgeType: common.EdgeTypeSimilarity,
		})
	}
	sort.SliceStable(edges, func(i, j int) bool {
		if edges[i].Weight != edges[j].Weight {
			return edges[i].Weight > edges[j].Weight
		}
		return edges[i].Target < edges[j].Target
	})
	if k > 0 && len(edges) > k {
		edges = edges[:k]
	}
	return edges, nil
}

func (m *MemoryStorage) UpdateEdgeWeight(ctx context.Context, edge common.Edge) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, citation := range m.citations {
		if citation.Source == edge.Source && citation.Target == edge.Target {
			m.citations[i].Weight = edge.Weight
			return nil
		}
	}
	return fmt.Errorf("citation %s -> %s not found", edge.Source, edge.Target)
}

func (m *MemoryStorage) SaveValidation(ctx context.Context, validation store.Validation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.validations = append(m.validations, validation)
	return nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
