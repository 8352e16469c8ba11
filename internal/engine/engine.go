// Package engine runs one reconciliation pass: fetch a snapshot, normalize
// it, reconcile against the stored trades and summarize the account.
package engine

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/ogostos/optledger/internal/broker"
	"github.com/ogostos/optledger/internal/models"
	"github.com/ogostos/optledger/internal/normalize"
	"github.com/ogostos/optledger/internal/reconcile"
	"github.com/ogostos/optledger/internal/storage"
)

// Result is the output of one reconciliation pass.
type Result struct {
	Positions []models.ReconciledPosition `json:"positions"`
	Stocks    []models.StockRow           `json:"stocks"`
	Summary   models.AccountSummary       `json:"summary"`
}

// Engine wires the snapshot provider and trade store to the pure core.
type Engine struct {
	provider broker.SnapshotProvider
	store    storage.Interface
	logger   *logrus.Logger
}

// New creates an engine. logger may be nil, in which case a default is used.
func New(provider broker.SnapshotProvider, store storage.Interface, logger *logrus.Logger) *Engine {
	if logger == nil {
		logger = logrus.New()
	}
	return &Engine{provider: provider, store: store, logger: logger}
}

// Run fetches positions, summary and executions concurrently, then runs the
// normalize -> reconcile -> summarize pipeline over one consistent read of
// the trade store. Execution fetch failures degrade to hint-less grouping
// rather than failing the pass.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	var (
		posRows  []normalize.Raw
		sumBlob  normalize.Raw
		execRows []normalize.Raw
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := e.provider.GetPositions(gctx)
		if err != nil {
			return fmt.Errorf("fetching positions: %w", err)
		}
		posRows = rows
		return nil
	})
	g.Go(func() error {
		blob, err := e.provider.GetSummary(gctx)
		if err != nil {
			return fmt.Errorf("fetching summary: %w", err)
		}
		sumBlob = blob
		return nil
	})
	g.Go(func() error {
		rows, err := e.provider.GetExecutions(gctx)
		if err != nil {
			// Order hints are optional; grouping falls back to
			// ticker/expiry buckets.
			e.logger.WithError(err).Warn("execution fetch failed, grouping without order hints")
			return nil
		}
		execRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	legs, stocks := normalize.Snapshot(posRows)
	execs := normalize.Executions(execRows)
	trades := e.store.ListOpenTrades()

	positions := reconcile.Reconcile(legs, trades, execs)
	e.logger.WithFields(logrus.Fields{
		"legs":      len(legs),
		"stocks":    len(stocks),
		"trades":    len(trades),
		"positions": len(positions),
	}).Info("reconciliation pass complete")

	return &Result{
		Positions: positions,
		Stocks:    stocks,
		Summary:   normalize.Summary(sumBlob),
	}, nil
}
