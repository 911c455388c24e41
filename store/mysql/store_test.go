package mysql

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/journal"
	"github.com/xraph/fareledger/types"
)

var (
	rider = account.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
	at    = time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
)

var columns = []string{"seq", "id", "kind", "caller", "amount", "currency", "trip_code", "record_id", "genesis", "timestamp"}

func newMock(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet expectations: %v", err)
		}
	})
	return New(db), mock
}

func fundTx(seq uint64) *journal.Transaction {
	return &journal.Transaction{
		ID:        id.NewTransactionID(),
		Seq:       seq,
		Kind:      journal.KindFundWallet,
		Caller:    rider,
		Amount:    types.MustParseMoney("0.05", "eth"),
		Timestamp: at,
	}
}

func TestMigrate(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS fareledger_transactions").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
}

func TestAppendTransaction(t *testing.T) {
	s, mock := newMock(t)
	tx := fundTx(2)
	mock.ExpectExec("INSERT INTO fareledger_transactions").
		WithArgs(int64(2), tx.ID.String(), "fund_wallet", rider.String(), "50000000", "eth", "", "", nil, at).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.AppendTransaction(context.Background(), tx); err != nil {
		t.Fatalf("AppendTransaction: %v", err)
	}
}

func TestAppendTransactionDuplicateSeq(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("INSERT INTO fareledger_transactions").
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '2' for key 'PRIMARY'"})

	err := s.AppendTransaction(context.Background(), fundTx(2))
	if !errors.Is(err, fareledger.ErrJournalConflict) {
		t.Fatalf("err = %v, want ErrJournalConflict", err)
	}
}

func TestAppendTransactionOtherError(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectExec("INSERT INTO fareledger_transactions").
		WillReturnError(errors.New("connection reset"))

	err := s.AppendTransaction(context.Background(), fundTx(2))
	if err == nil || errors.Is(err, fareledger.ErrJournalConflict) {
		t.Fatalf("err = %v, want plain failure", err)
	}
}

func TestAppendTransactionInvalid(t *testing.T) {
	s, _ := newMock(t)
	tx := fundTx(0)

	err := s.AppendTransaction(context.Background(), tx)
	if !errors.Is(err, fareledger.ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}

func TestListTransactions(t *testing.T) {
	s, mock := newMock(t)
	first, second := fundTx(3), fundTx(4)

	query := regexp.QuoteMeta(`FROM fareledger_transactions WHERE seq > ? AND kind = ? ORDER BY seq ASC LIMIT ?`)
	mock.ExpectQuery(query).
		WithArgs(int64(2), "fund_wallet", int64(2)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(3), first.ID.String(), "fund_wallet", rider.String(), "50000000", "eth", "", "", nil, at).
			AddRow(int64(4), second.ID.String(), "fund_wallet", rider.String(), "50000000", "eth", "", "", nil, at))

	got, err := s.ListTransactions(context.Background(), journal.ListOpts{
		AfterSeq: 2,
		Kind:     journal.KindFundWallet,
		Limit:    2,
	})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	if got[0].Seq != 3 || got[1].Seq != 4 || got[0].ID != first.ID {
		t.Fatalf("unexpected order: %d, %d", got[0].Seq, got[1].Seq)
	}
	if !got[0].Amount.Equal(types.MustParseMoney("0.05", "eth")) {
		t.Fatalf("amount = %v", got[0].Amount)
	}
}

func TestListTransactionsCorruptRow(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery("FROM fareledger_transactions WHERE seq >").
		WithArgs(int64(0)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(1), "not-an-id", "deploy", rider.String(), "0", "", "", "", nil, at))

	if _, err := s.ListTransactions(context.Background(), journal.ListOpts{}); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLastSequence(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COALESCE(MAX(seq), 0) FROM fareledger_transactions`)).
		WillReturnRows(sqlmock.NewRows([]string{"seq"}).AddRow(int64(7)))

	last, err := s.LastSequence(context.Background())
	if err != nil {
		t.Fatalf("LastSequence: %v", err)
	}
	if last != 7 {
		t.Fatalf("LastSequence = %d, want 7", last)
	}
}

func TestClose(t *testing.T) {
	s, mock := newMock(t)
	mock.ExpectClose()

	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
