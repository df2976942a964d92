package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bibliograph/pkg/common"
	"bibliograph/pkg/graph"
	"bibliograph/pkg/logger"
	"bibliograph/pkg/store"
)

// ReinforceMessage carries the edges of a validated hypothesis. Validating a
// hypothesis increases the weight of the edges along its supporting path.
type ReinforceMessage struct {
	ValidationID string        `json:"validation_id"`
	ResourceA    string        `json:"resource_a"`
	ResourceC    string        `json:"resource_c"`
	Edges        []common.Edge `json:"edges"`
}

// ProcessReinforceMessage records the validation and applies edge
// reinforcement to the cached graph and the citation table.
func ProcessReinforceMessage(
	ctx context.Context,
	graphs *graph.Service,
	storeClient store.ResourceStorage,
	body string,
) error {
	var msg ReinforceMessage
	if err := json.Unmarshal([]byte(body), &msg); err != nil {
		return fmt.Errorf("failed to decode reinforce message: %w", err)
	}
	if len(msg.Edges) == 0 {
		logger.Warn("[Queue] Reinforce message without edges", "validation_id", msg.ValidationID)
		return nil
	}

	err := storeClient.SaveValidation(ctx, store.Validation{
		ID:        msg.ValidationID,
		ResourceA: msg.ResourceA,
		ResourceC: msg.ResourceC,
		Edges:     msg.Edges,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to record validation: %w", err)
	}

	if err := graphs.Reinforce(ctx, msg.Edges); err != nil {
		return fmt.Errorf("failed to reinforce edges: %w", err)
	}

	logger.Info(
		"[Queue] Validation applied",
		"validation_id", msg.ValidationID,
		"edges", len(msg.Edges),
	)
	return nil
}
