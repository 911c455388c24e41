package extension

import (
	"time"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/plugin"
	"github.com/xraph/fareledger/store"
)

// Option configures the FareLedger Forge extension.
type Option func(*Extension)

// WithStore sets the store for the ledger engine.
func WithStore(s store.Store) Option {
	return func(e *Extension) {
		e.store = s
	}
}

// WithLedgerOption passes a fareledger.Option through to the underlying engine.
func WithLedgerOption(opt fareledger.Option) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, opt)
	}
}

// WithPlugin registers a ledger plugin.
func WithPlugin(p plugin.Plugin) Option {
	return func(e *Extension) {
		e.ledgerOpts = append(e.ledgerOpts, fareledger.WithPlugin(p))
	}
}

// WithConfig sets the Forge extension configuration.
func WithConfig(cfg Config) Option {
	return func(e *Extension) { e.config = cfg }
}

// WithDisableMigrate skips store migrations on start.
func WithDisableMigrate() Option {
	return func(e *Extension) { e.config.DisableMigrate = true }
}

// WithMinimumDeposit sets the minimum wallet top-up, in ether.
func WithMinimumDeposit(amount string) Option {
	return func(e *Extension) { e.config.MinimumDeposit = amount }
}

// WithStaffWindow sets the minimum gap between attendance entries.
func WithStaffWindow(d time.Duration) Option {
	return func(e *Extension) { e.config.StaffWindow = d }
}

// WithPluginTimeout bounds each plugin hook call.
func WithPluginTimeout(d time.Duration) Option {
	return func(e *Extension) { e.config.PluginTimeout = d }
}

// WithDeployOwner deploys the ledger on start when it is not yet deployed.
func WithDeployOwner(owner string) Option {
	return func(e *Extension) { e.config.DeployOwner = owner }
}

// WithRequireConfig requires config to be present in YAML files.
// If true and no config is found, Register returns an error.
func WithRequireConfig(require bool) Option {
	return func(e *Extension) { e.config.RequireConfig = require }
}
