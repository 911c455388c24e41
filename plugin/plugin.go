// Package plugin provides an extensible plugin system for the fare ledger.
// Plugins can hook into lifecycle events to extend functionality.
package plugin

import (
	"context"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/passenger"
	"github.com/xraph/fareledger/staff"
	"github.com/xraph/fareledger/trip"
	"github.com/xraph/fareledger/types"
	"github.com/xraph/fareledger/withdrawal"
)

// Plugin is the base interface that all plugins must implement.
type Plugin interface {
	Name() string
}

// ──────────────────────────────────────────────────
// Lifecycle hooks
// ──────────────────────────────────────────────────

// OnInit is called when the ledger has started and replayed its journal.
type OnInit interface {
	Plugin
	OnInit(ctx context.Context, l any) error
}

// OnShutdown is called when the ledger is stopping.
type OnShutdown interface {
	Plugin
	OnShutdown(ctx context.Context) error
}

// OnDeployed is called once, after the genesis transaction is committed.
type OnDeployed interface {
	Plugin
	OnDeployed(ctx context.Context, ledgerID id.LedgerID, owner account.Address, at time.Time) error
}

// ──────────────────────────────────────────────────
// Operation hooks
// ──────────────────────────────────────────────────

// OnWalletFunded is called after a passenger funds their wallet.
type OnWalletFunded interface {
	Plugin
	OnWalletFunded(ctx context.Context, acct *passenger.Account, amount types.Money) error
}

// OnTripStarted is called after a trip record is appended.
type OnTripStarted interface {
	Plugin
	OnTripStarted(ctx context.Context, rec *trip.Record) error
}

// OnWithdrawal is called after the owner withdraws the ledger balance. It is
// the payout hook: plugins implementing it move the funds off the ledger.
type OnWithdrawal interface {
	Plugin
	OnWithdrawal(ctx context.Context, w *withdrawal.Withdrawal) error
}

// OnStaffRecorded is called after a staff attendance entry is recorded.
type OnStaffRecorded interface {
	Plugin
	OnStaffRecorded(ctx context.Context, rec *staff.Record) error
}

// OnRejected is called when an operation is refused with a named reason.
type OnRejected interface {
	Plugin
	OnRejected(ctx context.Context, op string, caller account.Address, reason string, err error) error
}
