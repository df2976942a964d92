package pgx

import (
	"context"
	"encoding/json"
	"fmt"

	"bibliograph/pkg/common"
	"bibliograph/pkg/store"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
}

// ResourceDBStorage implements store.ResourceStorage on PostgreSQL with
// pgvector for the embedding-similarity layer.
type ResourceDBStorage struct {
	conn pgxIConn
}

// NewResourceDBStorage creates a storage backed by an existing connection
// or pool.
func NewResourceDBStorage(conn pgxIConn) *ResourceDBStorage {
	return &ResourceDBStorage{conn: conn}
}

func (s *ResourceDBStorage) ListResources(ctx context.Context) ([]common.Resource, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT id, title, description, subject, classification_code, publication_year, date_created
		FROM resources
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer rows.Close()

	resources := make([]common.Resource, 0)
	for rows.Next() {
		var r common.Resource
		if err := rows.Scan(
			&r.ID,
			&r.Title,
			&r.Description,
			&r.Subject,
			&r.ClassificationCode,
			&r.PublicationYear,
			&r.DateCreated,
		); err != nil {
			return nil, fmt.Errorf("failed to scan resource: %w", err)
		}
		resources = append(resources, r)
	}
	return resources, rows.Err()
}

func (s *ResourceDBStorage) GetResource(ctx context.Context, id string) (*common.Resource, error) {
	var r common.Resource
	err := s.conn.QueryRow(ctx, `
		SELECT id, title, description, subject, classification_code, publication_year, date_created
		FROM resources
		WHERE id = $1
	`, id).Scan(
		&r.ID,
		&r.Title,
		&r.Description,
		&r.Subject,
		&r.ClassificationCode,
		&r.PublicationYear,
		&r.DateCreated,
	)
	if err == pgxv5.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get resource: %w", err)
	}
	return &r, nil
}

func (s *ResourceDBStorage) ListCitations(ctx context.Context) ([]common.Edge, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT source_id, target_id, weight
		FROM citations
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list citations: %w", err)
	}
	defer rows.Close()

	edges := make([]common.Edge, 0)
	for rows.Next() {
		edge := common.Edge{EdgeType: common.EdgeTypeCitation}
		if err := rows.Scan(&edge.Source, &edge.Target, &edge.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan citation: %w", err)
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

func (s *ResourceDBStorage) NearestNeighbors(ctx context.Context, resourceID string, k int) ([]common.Edge, error) {
	if k <= 0 {
		k = 10
	}
	rows, err := s.conn.Query(ctx, `
		SELECT e.resource_id, 1 - (e.embedding <=> q.embedding) AS similarity
		FROM resource_embeddings e,
			(SELECT embedding FROM resource_embeddings WHERE resource_id = $1) q
		WHERE e.resource_id <> $1
		ORDER BY e.embedding <=> q.embedding
		LIMIT $2
	`, resourceID, k)
	if err != nil {
		return nil, fmt.Errorf("failed to query nearest neighbors: %w", err)
	}
	defer rows.Close()

	edges := make([]common.Edge, 0, k)
	for rows.Next() {
		edge := common.Edge{Source: resourceID, EdgeType: common.EdgeTypeSimilarity}
		if err := rows.Scan(&edge.Target, &edge.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan neighbor: %w", err)
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

func (s *ResourceDBStorage) UpdateEdgeWeight(ctx context.Context, edge common.Edge) error {
	tag, err := s.conn.Exec(ctx, `
		UPDATE citations
		SET weight = $3
		WHERE source_id = $1 AND target_id = $2
	`, edge.Source, edge.Target, edge.Weight)
	if err != nil {
		return fmt.Errorf("failed to update edge weight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("citation %s -> %s not found", edge.Source, edge.Target)
	}
	return nil
}

func (s *ResourceDBStorage) SaveValidation(ctx context.Context, validation store.Validation) error {
	edges, err := json.Marshal(validation.Edges)
	if err != nil {
		return fmt.Errorf("failed to encode validation edges: %w", err)
	}
	_, err = s.conn.Exec(ctx, `
		INSERT INTO hypothesis_validations (id, resource_a, resource_c, edges, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, validation.ID, validation.ResourceA, validation.ResourceC, edges, validation.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to save validation: %w", err)
	}
	return nil
}
