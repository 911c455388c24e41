package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/xraph/grove"
	"github.com/xraph/grove/drivers/pgdriver"
	"github.com/xraph/grove/migrate"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/journal"
	fstore "github.com/xraph/fareledger/store"
)

// uniqueViolation is the SQLSTATE postgres reports for a duplicate key.
const uniqueViolation = "23505"

// compile-time interface check
var _ fstore.Store = (*Store)(nil)

// Store implements store.Store using PostgreSQL via Grove ORM.
type Store struct {
	db *grove.DB
	pg *pgdriver.PgDB
}

// New creates a new PostgreSQL store backed by Grove ORM.
func New(db *grove.DB) *Store {
	return &Store{
		db: db,
		pg: pgdriver.Unwrap(db),
	}
}

// DB returns the underlying grove database for direct access.
func (s *Store) DB() *grove.DB { return s.db }

// Migrate creates the journal table using the grove orchestrator.
func (s *Store) Migrate(ctx context.Context) error {
	executor, err := migrate.NewExecutorFor(s.pg)
	if err != nil {
		return fmt.Errorf("fareledger/postgres: create migration executor: %w", err)
	}
	orch := migrate.NewOrchestrator(executor, Migrations)
	if _, err := orch.Migrate(ctx); err != nil {
		return fmt.Errorf("fareledger/postgres: migration failed: %w", err)
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
		return fmt.Errorf("fareledger/postgres: append transaction: %w: %w", fareledger.ErrInvalidInput, err)
	}
	m, err := toTransactionModel(t)
	if err != nil {
		return err
	}
	if _, err := s.pg.NewInsert(m).Exec(ctx); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("fareledger/postgres: seq %d: %w", t.Seq, fareledger.ErrJournalConflict)
		}
		return fmt.Errorf("fareledger/postgres: append transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transaction, error) {
	var models []transactionModel
	q := s.pg.NewSelect(&models).Where("seq > $1", int64(opts.AfterSeq)) //nolint:gosec // bounded by stored seqs
	if opts.Kind != "" {
		q = q.Where("kind = $2", string(opts.Kind))
	}
	q = q.OrderExpr("seq ASC")
	if opts.Limit > 0 {
		q = q.Limit(opts.Limit)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("fareledger/postgres: list transactions: %w", err)
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
	err := s.pg.NewRaw(`SELECT COALESCE(MAX(seq), 0) FROM fareledger_transactions`).Scan(ctx, &last)
	if err != nil {
		return 0, fmt.Errorf("fareledger/postgres: last sequence: %w", err)
	}
	return uint64(last), nil //nolint:gosec // seq column is never negative
}
