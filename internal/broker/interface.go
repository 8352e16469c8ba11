// Package broker fetches raw account snapshots from the brokerage feed.
// Rows come back loosely typed; normalization happens downstream.
package broker

import (
	"context"

	"github.com/ogostos/optledger/internal/normalize"
)

// Snapshot is one consistent read of the account: position rows, the
// free-form summary blob, and recent execution rows.
type Snapshot struct {
	Positions  []normalize.Raw `json:"positions"`
	Summary    normalize.Raw   `json:"summary"`
	Executions []normalize.Raw `json:"executions"`
}

// SnapshotProvider defines the interface for fetching account snapshots.
type SnapshotProvider interface {
	GetPositions(ctx context.Context) ([]normalize.Raw, error)
	GetSummary(ctx context.Context) (normalize.Raw, error)
	GetExecutions(ctx context.Context) ([]normalize.Raw, error)
}

// Ensure implementations satisfy SnapshotProvider at compile time.
var (
	_ SnapshotProvider = (*Client)(nil)
	_ SnapshotProvider = (*CircuitBreakerProvider)(nil)
)
