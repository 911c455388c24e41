package journal

import "context"

// Store persists the transaction journal.
type Store interface {
	// AppendTransaction writes t. It must fail if a transaction with the same
	// sequence number already exists; backends report that as a journal
	// conflict.
	AppendTransaction(ctx context.Context, t *Transaction) error

	// ListTransactions returns transactions in ascending sequence order.
	ListTransactions(ctx context.Context, opts ListOpts) ([]*Transaction, error)

	// LastSequence returns the highest sequence written, or 0 for an empty
	// journal.
	LastSequence(ctx context.Context) (uint64, error)
}

// ListOpts filters and pages a journal listing.
type ListOpts struct {
	AfterSeq uint64
	Kind     Kind
	Limit    int
}
