package queue

import (
	"context"
	"fmt"
	"time"

	"bibliograph/pkg/graph"
	"bibliograph/pkg/leaselock"
	"bibliograph/pkg/logger"
)

// RebuildMessage requests a multilayer graph rebuild.
type RebuildMessage struct {
	RequestedBy string `json:"requested_by,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

const rebuildLockKey = "graph_rebuild"

// ProcessRebuildMessage rebuilds the multilayer graph. The rebuild runs
// under a lease lock so only one worker instance rebuilds at a time; a busy
// lock means another instance is already doing the work and the message is
// dropped successfully.
func ProcessRebuildMessage(
	ctx context.Context,
	graphs *graph.Service,
	locks *leaselock.Client,
	body string,
) error {
	logger.Info("[Queue] Rebuilding multilayer graph")

	err := locks.WithLease(ctx, rebuildLockKey, leaselock.Options{
		TTL:         5 * time.Minute,
		TokenPrefix: "rebuild-",
	}, func(ctx context.Context) error {
		_, err := graphs.MultilayerGraph(ctx, true)
		return err
	})
	if err == leaselock.ErrBusy {
		logger.Info("[Queue] Rebuild already in progress elsewhere, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to rebuild graph: %w", err)
	}

	logger.Info("[Queue] Multilayer graph rebuilt")
	return nil
}
