// Package mysql implements the FareLedger journal on MySQL through
// database/sql and github.com/go-sql-driver/mysql.
package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/journal"
	fstore "github.com/xraph/fareledger/store"
)

// errDuplicateEntry is ER_DUP_ENTRY.
const errDuplicateEntry = 1062

const createTransactions = `
CREATE TABLE IF NOT EXISTS fareledger_transactions (
    seq         BIGINT UNSIGNED NOT NULL PRIMARY KEY,
    id          VARCHAR(64) NOT NULL UNIQUE,
    kind        VARCHAR(32) NOT NULL,
    caller      CHAR(42) NOT NULL,
    amount      VARCHAR(20) NOT NULL DEFAULT '0',
    currency    VARCHAR(16) NOT NULL DEFAULT '',
    trip_code   VARCHAR(32) NOT NULL DEFAULT '',
    record_id   VARCHAR(64) NOT NULL DEFAULT '',
    genesis     JSON NULL,
    timestamp   DATETIME(6) NOT NULL,
    INDEX idx_fareledger_transactions_kind (kind, seq)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

const transactionColumns = `seq, id, kind, caller, amount, currency, trip_code, record_id, genesis, timestamp`

// compile-time interface check
var _ fstore.Store = (*Store)(nil)

// Store implements store.Store on a MySQL database.
type Store struct {
	db *sql.DB
}

// New wraps an open database handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to MySQL using dsn and verifies the connection. parseTime
// is forced on so DATETIME columns scan into time.Time.
func Open(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("fareledger/mysql: parse dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC

	connector, err := mysql.NewConnector(cfg)
	if err != nil {
		return nil, fmt.Errorf("fareledger/mysql: connector: %w", err)
	}
	db := sql.OpenDB(connector)
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fareledger/mysql: ping: %w", err)
	}
	return New(db), nil
}

// DB returns the underlying database handle.
func (s *Store) DB() *sql.DB { return s.db }

// Migrate creates the journal table.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createTransactions); err != nil {
		return fmt.Errorf("fareledger/mysql: migration failed: %w", err)
	}
	return nil
}

// Ping checks database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ==================== Journal ====================

func (s *Store) AppendTransaction(ctx context.Context, t *journal.Transaction) error {
	if err := t.Validate(); err != nil {
		return fmt.Errorf("fareledger/mysql: append transaction: %w: %w", fareledger.ErrInvalidInput, err)
	}
	c, err := journal.Flatten(t)
	if err != nil {
		return err
	}

	var genesis any
	if len(c.Genesis) > 0 {
		genesis = string(c.Genesis)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fareledger_transactions (`+transactionColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		int64(c.Seq), c.ID, c.Kind, c.Caller, c.Amount, c.Currency, c.TripCode, c.RecordID, genesis, c.Timestamp, //nolint:gosec // sequence numbers stay far below MaxInt64
	)
	if err != nil {
		var myErr *mysql.MySQLError
		if errors.As(err, &myErr) && myErr.Number == errDuplicateEntry {
			return fmt.Errorf("fareledger/mysql: seq %d: %w", t.Seq, fareledger.ErrJournalConflict)
		}
		return fmt.Errorf("fareledger/mysql: append transaction: %w", err)
	}
	return nil
}

func (s *Store) ListTransactions(ctx context.Context, opts journal.ListOpts) ([]*journal.Transaction, error) {
	var (
		q    strings.Builder
		args = []any{int64(opts.AfterSeq)} //nolint:gosec // bounded by stored seqs
	)
	q.WriteString(`SELECT ` + transactionColumns + ` FROM fareledger_transactions WHERE seq > ?`)
	if opts.Kind != "" {
		q.WriteString(` AND kind = ?`)
		args = append(args, string(opts.Kind))
	}
	q.WriteString(` ORDER BY seq ASC`)
	if opts.Limit > 0 {
		q.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, q.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("fareledger/mysql: list transactions: %w", err)
	}
	defer rows.Close()

	var result []*journal.Transaction
	for rows.Next() {
		var (
			c       journal.Columns
			seq     int64
			genesis []byte
		)
		if err := rows.Scan(&seq, &c.ID, &c.Kind, &c.Caller, &c.Amount, &c.Currency,
			&c.TripCode, &c.RecordID, &genesis, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("fareledger/mysql: scan transaction: %w", err)
		}
		c.Seq = uint64(seq) //nolint:gosec // seq column is unsigned
		c.Genesis = genesis

		t, err := journal.Unflatten(c)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("fareledger/mysql: list transactions: %w", err)
	}
	return result, nil
}

func (s *Store) LastSequence(ctx context.Context) (uint64, error) {
	var last uint64
	err := s.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) FROM fareledger_transactions`).Scan(&last)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("fareledger/mysql: last sequence: %w", err)
	}
	return last, nil
}
