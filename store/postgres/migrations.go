package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"

	// registers the "pg" executor used by migrate.NewExecutorFor
	_ "github.com/xraph/grove/drivers/pgdriver/pgmigrate"
)

// Migrations is the grove migration group for the FareLedger store.
var Migrations = migrate.NewGroup("fareledger")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_fareledger_transactions",
			Version: "20240301000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS fareledger_transactions (
    seq         BIGINT PRIMARY KEY,
    id          TEXT NOT NULL UNIQUE,
    kind        TEXT NOT NULL,
    caller      TEXT NOT NULL,
    amount      TEXT NOT NULL DEFAULT '0',
    currency    TEXT NOT NULL DEFAULT '',
    trip_code   TEXT NOT NULL DEFAULT '',
    record_id   TEXT NOT NULL DEFAULT '',
    genesis     JSONB,
    timestamp   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    CONSTRAINT chk_fareledger_transactions_seq CHECK (seq > 0)
);

CREATE INDEX IF NOT EXISTS idx_fareledger_transactions_kind ON fareledger_transactions (kind, seq);
CREATE INDEX IF NOT EXISTS idx_fareledger_transactions_caller ON fareledger_transactions (caller);
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
