// Package memory provides an in-process journal store for tests and
// single-process deployments.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/journal"
	"github.com/xraph/fareledger/store"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	txns   []*journal.Transaction
	closed bool

	// failNext makes the next append fail; used to exercise the ledger's
	// no-partial-commit behavior.
	failNext error
}

func New() *Store {
	return &Store{
		txns: make([]*journal.Transaction, 0),
	}
}

// FailNextAppend makes the next AppendTransaction call return err without
// writing anything.
func (s *Store) FailNextAppend(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

func (s *Store) AppendTransaction(_ context.Context, t *journal.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fareledger.ErrStoreClosed
	}
	if err := s.failNext; err != nil {
		s.failNext = nil
		return fmt.Errorf("fareledger/memory: append transaction: %w", err)
	}
	if err := t.Validate(); err != nil {
		return fmt.Errorf("fareledger/memory: append transaction: %w: %w", fareledger.ErrInvalidInput, err)
	}

	last := uint64(len(s.txns))
	if t.Seq <= last {
		return fmt.Errorf("fareledger/memory: append seq %d: %w", t.Seq, fareledger.ErrJournalConflict)
	}
	if t.Seq != last+1 {
		return fmt.Errorf("fareledger/memory: append seq %d after %d: %w", t.Seq, last, fareledger.ErrInvalidInput)
	}

	cp := *t
	s.txns = append(s.txns, &cp)
	return nil
}

func (s *Store) ListTransactions(_ context.Context, opts journal.ListOpts) ([]*journal.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, fareledger.ErrStoreClosed
	}

	var result []*journal.Transaction
	for _, t := range s.txns {
		if t.Seq <= opts.AfterSeq {
			continue
		}
		if opts.Kind != "" && t.Kind != opts.Kind {
			continue
		}
		cp := *t
		result = append(result, &cp)
		if opts.Limit > 0 && len(result) >= opts.Limit {
			break
		}
	}
	return result, nil
}

func (s *Store) LastSequence(_ context.Context) (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return 0, fareledger.ErrStoreClosed
	}
	return uint64(len(s.txns)), nil
}

// Core methods
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return fareledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
