package store

import (
	"context"

	"github.com/xraph/fareledger/journal"
)

// Store is the unified storage interface for the fare ledger. The journal is
// the only persisted state; everything else is folded from it on start.
type Store interface {
	// Journal methods
	AppendTransaction(ctx context.Context, t *journal.Transaction) error
	ListTransactions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transaction, error)
	LastSequence(ctx context.Context) (uint64, error)

	// Core methods
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

var _ journal.Store = Store(nil)
