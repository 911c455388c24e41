package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/sqlitedriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/journal"
	fstore "github.com/xraph/fareledger/store"
)

// compile-time interface check
var _ fstore.Store = (*Store)(nil)

// Store implements store.Store using SQLite via Grove ORM.
type Store struct {
	db  *grove.DB
	sdb *sqlitedriver.SqliteDB
}

// New creates a new SQLite store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db:  db,
		sdb: sqlitedriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the journal table using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.sdb)
	if err != nil {
		return fmt.Errorf("fareledger/sqlite: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("fareledger/sqlite: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Journal ====================

func (s *Store) AppendTransaction(ctx context.Context, t *journal.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("fareledger/sqlite: append transaction: %w: %w", fareledger.ErrInvalidInput, err)
	}
	m, err := toTransactionModel(t)
	if err != nil {
		return err
	}
	if _, err := s.sdb.NewInsert(m).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("fareledger/sqlite: seq %d: %w", t.Seq, fareledger.ErrJournalConflict)
		}
		return fmt.Errorf("fareledger/sqlite: append transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transaction, error) {
	var models []transactionModel
	q := s.sdb.NewSelect(&models).Where("seq > ?", int64(opts.AfterSeq)) //nolint:gosec // bounded by stored seqs
	if opts.Kind != "" {
		q = q.Where("kind = ?", string(opts.Kind))
	}
	q = q.OrderExpr("seq ASC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("fareledger/sqlite: list transactions: %w", err)
	}

	result := make([]*journal.Transaction, len(models))
	for i := range models {
		t, err := fromTransactionModel(&models[i])
		if err != nil {
			return nil, err
		}
		result[i] = t
	}
	return result, nil
}

func (s *Store) LastSequence(ctx context.Context) (uint64, error) {
	var last int64
	err := s.sdb.NewRaw(`SELECT COALESCE(MAX(seq), 0) FROM fareledger_transactions`).Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("fareledger/sqlite: last sequence: %w", err)
	}
	return uint64(last), nil //nolint:gosec // seq column is never negative
}

// isUniqueViolation reports whether err is SQLite rejecting a duplicate
// seq (primary key) or transaction id.
func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
			return true
		}
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
