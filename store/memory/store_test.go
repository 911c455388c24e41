package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/journal"
	"github.com/xraph/fareledger/store/memory"
	"github.com/xraph/fareledger/types"
)

var caller = account.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")

func fundTx(seq uint64) *journal.Transaction {
	return &journal.Transaction{
		ID:        id.NewTransactionID(),
		Seq:       seq,
		Kind:      journal.KindFundWallet,
		Caller:    caller,
		Amount:    types.ETH(100),
		Timestamp: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
}

func TestAppendAndList(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	for seq := uint64(1); seq <= 3; seq++ {
		if err := s.AppendTransaction(ctx, fundTx(seq)); err != nil {
			t.Fatalf("append %d: %v", seq, err)
		}
	}

	last, err := s.LastSequence(ctx)
	if err != nil || last != 3 {
		t.Fatalf("LastSequence = %d, %v", last, err)
	}

	all, err := s.ListTransactions(ctx, journal.ListOpts{})
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d transactions", len(all))
	}
	for i, tx := range all {
		if tx.Seq != uint64(i+1) {
			t.Errorf("position %d has seq %d", i, tx.Seq)
		}
	}

	page, err := s.ListTransactions(ctx, journal.ListOpts{AfterSeq: 1, Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(page) != 1 || page[0].Seq != 2 {
		t.Errorf("page: got %+v", page)
	}

	none, err := s.ListTransactions(ctx, journal.ListOpts{Kind: journal.KindStartTrip})
	if err != nil || len(none) != 0 {
		t.Errorf("kind filter: got %d, %v", len(none), err)
	}
}

func TestAppendConflict(t *testing.T) {
	ctx := context.Background()
	s := memory.New()

	if err := s.AppendTransaction(ctx, fundTx(1)); err != nil {
		t.Fatal(err)
	}
	err := s.AppendTransaction(ctx, fundTx(1))
	if !errors.Is(err, fareledger.ErrJournalConflict) {
		t.Errorf("duplicate seq: got %v", err)
	}

	err = s.AppendTransaction(ctx, fundTx(5))
	if !errors.Is(err, fareledger.ErrInvalidInput) {
		t.Errorf("gap: got %v", err)
	}
}

func TestFailNextAppend(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	boom := errors.New("disk full")

	s.FailNextAppend(boom)
	if err := s.AppendTransaction(ctx, fundTx(1)); !errors.Is(err, boom) {
		t.Fatalf("got %v", err)
	}
	if last, _ := s.LastSequence(ctx); last != 0 {
		t.Errorf("failed append wrote seq %d", last)
	}
	if err := s.AppendTransaction(ctx, fundTx(1)); err != nil {
		t.Errorf("second append: %v", err)
	}
}

func TestClosed(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	if err := s.Ping(ctx); !errors.Is(err, fareledger.ErrStoreClosed) {
		t.Errorf("Ping: got %v", err)
	}
	if err := s.AppendTransaction(ctx, fundTx(1)); !errors.Is(err, fareledger.ErrStoreClosed) {
		t.Errorf("Append: got %v", err)
	}
}
