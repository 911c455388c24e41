package sqlite

import (
	"context"

	"github.com/xraph/grove/migrate"

	// registers the "sqlite" executor used by migrate.NewExecutorFor
	_ "github.com/xraph/grove/drivers/sqlitedriver/sqlitemigrate"
)

// Migrations is the grove migration group for the FareLedger SQLite store.
var Migrations = migrate.NewGroup("fareledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_fareledger_transactions",
			Version: "20240301000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS fareledger_transactions (
    seq         INTEGER PRIMARY KEY,
    id          TEXT NOT NULL UNIQUE,
    kind        TEXT NOT NULL,
    caller      TEXT NOT NULL,
    amount      TEXT NOT NULL DEFAULT '0',
    currency    TEXT NOT NULL DEFAULT '',
    trip_code   TEXT NOT NULL DEFAULT '',
    record_id   TEXT NOT NULL DEFAULT '',
    genesis     TEXT NOT NULL DEFAULT '',
    timestamp   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fareledger_transactions_kind ON fareledger_transactions (kind, seq);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS fareledger_transactions`)
				return err
			},
		},
	)
}
