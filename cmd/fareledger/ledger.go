package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xraph/fareledger"
	audithook "github.com/xraph/fareledger/audit_hook"
	"github.com/xraph/fareledger/store"
	"github.com/xraph/fareledger/store/memory"
	"github.com/xraph/fareledger/store/mysql"
)

// openStore opens the journal backend named by cfg.
func openStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return memory.New(), nil
	case "mysql":
		return mysql.Open(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// ledgerOptions builds engine options from cfg.
func ledgerOptions(cfg *Config, logger *slog.Logger) ([]fareledger.Option, error) {
	minDeposit, err := fareledger.ParseMoney(cfg.Ledger.MinimumDeposit, "eth")
	if err != nil {
		return nil, fmt.Errorf("ledger.minimum_deposit: %w", err)
	}

	opts := []fareledger.Option{
		fareledger.WithLogger(logger),
		fareledger.WithMinimumDeposit(minDeposit),
	}
	if cfg.Ledger.StaffWindow > 0 {
		opts = append(opts, fareledger.WithStaffWindow(cfg.Ledger.StaffWindow))
	}
	if cfg.Ledger.PluginTimeout > 0 {
		opts = append(opts, fareledger.WithPluginTimeout(cfg.Ledger.PluginTimeout))
	}
	if cfg.Ledger.Audit {
		opts = append(opts, fareledger.WithPlugin(audithook.New(auditLogger(logger),
			audithook.WithLogger(logger),
			audithook.WithMetadata("network", cfg.Network),
		)))
	}
	return opts, nil
}

// auditLogger writes audit events to the command log.
func auditLogger(logger *slog.Logger) audithook.Recorder {
	return audithook.RecorderFunc(func(_ context.Context, evt *audithook.AuditEvent) error {
		logger.Info("audit",
			"action", evt.Action,
			"resource", evt.Resource,
			"resource_id", evt.ResourceID,
			"actor", evt.Actor,
			"outcome", evt.Outcome,
			"reason", evt.Reason,
		)
		return nil
	})
}

// startLedger opens the store and starts an engine over it. The caller
// must Stop the returned ledger.
func startLedger(ctx context.Context, cfg *Config, logger *slog.Logger) (*fareledger.Ledger, error) {
	opts, err := ledgerOptions(cfg, logger)
	if err != nil {
		return nil, err
	}
	s, err := openStore(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}

	l := fareledger.New(s, opts...)
	if err := l.Start(ctx); err != nil {
		_ = s.Close()
		return nil, err
	}
	return l, nil
}
