package storage

import "github.com/ogostos/optledger/internal/models"

// Interface defines the contract for trade record persistence.
//
// Implementations must be safe for concurrent use; the engine reads one
// consistent trade list per reconciliation pass.
type Interface interface {
	// ListOpenTrades returns the open trades in stable insertion order.
	ListOpenTrades() []models.Trade
	// ListTrades returns all trades, open and closed.
	ListTrades() []models.Trade
	// UpsertTrade inserts or replaces a trade by ID and persists.
	UpsertTrade(t models.Trade) error
	// CloseTrade marks a trade closed with a reason and persists.
	CloseTrade(id, reason string) error

	Save() error
	Load() error
}

// NewStorage creates a new storage implementation (currently JSON-based).
func NewStorage(filepath string) (Interface, error) {
	return NewJSONStorage(filepath)
}

// Ensure JSONStorage implements Interface.
var _ Interface = (*JSONStorage)(nil)
