// Package audithook bridges fare ledger lifecycle events to an audit trail
// backend.
//
// It defines a local Recorder interface so the package does not depend on any
// particular audit store. Callers inject a RecorderFunc adapter at wiring time.
package audithook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/passenger"
	"github.com/xraph/fareledger/plugin"
	"github.com/xraph/fareledger/staff"
	"github.com/xraph/fareledger/trip"
	"github.com/xraph/fareledger/types"
	"github.com/xraph/fareledger/withdrawal"
)

// Compile-time interface checks.
var (
	_ plugin.Plugin          = (*Extension)(nil)
	_ plugin.OnDeployed      = (*Extension)(nil)
	_ plugin.OnWalletFunded  = (*Extension)(nil)
	_ plugin.OnTripStarted   = (*Extension)(nil)
	_ plugin.OnWithdrawal    = (*Extension)(nil)
	_ plugin.OnStaffRecorded = (*Extension)(nil)
	_ plugin.OnRejected      = (*Extension)(nil)
)

// Recorder is the interface that audit backends must implement.
type Recorder interface {
	Record(ctx context.Context, event *AuditEvent) error
}

// AuditEvent is a single audit trail entry.
type AuditEvent struct {
	Action     string         `json:"action"`
	Resource   string         `json:"resource"`
	Category   string         `json:"category"`
	ResourceID string         `json:"resource_id,omitempty"`
	Actor      string         `json:"actor,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
	Outcome    string         `json:"outcome"`
	Severity   string         `json:"severity"`
	Reason     string         `json:"reason,omitempty"`
}

// RecorderFunc is an adapter to use a plain function as a Recorder.
type RecorderFunc func(ctx context.Context, event *AuditEvent) error

// Record implements Recorder.
func (f RecorderFunc) Record(ctx context.Context, event *AuditEvent) error {
	return f(ctx, event)
}

// Extension bridges fare ledger lifecycle events to an audit trail backend.
type Extension struct {
	recorder Recorder
	only     map[string]struct{} // nil = every action
	skip     map[string]struct{}
	minRank  int
	static   map[string]any
	logger   *slog.Logger
}

// New creates an Extension that emits audit events through the provided Recorder.
func New(r Recorder, opts ...Option) *Extension {
	e := &Extension{
		recorder: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Name implements plugin.Plugin.
func (e *Extension) Name() string { return "audit-hook" }

// OnDeployed implements plugin.OnDeployed.
func (e *Extension) OnDeployed(ctx context.Context, ledgerID id.LedgerID, owner account.Address, at time.Time) error {
	return e.record(ctx, ActionLedgerDeployed, SeverityInfo, OutcomeSuccess,
		ResourceLedger, ledgerID.String(), CategoryLedger, owner, "",
		"deployed_at", at.Format(time.RFC3339),
	)
}

// OnWalletFunded implements plugin.OnWalletFunded.
func (e *Extension) OnWalletFunded(ctx context.Context, acct *passenger.Account, amount types.Money) error {
	return e.record(ctx, ActionWalletFunded, SeverityInfo, OutcomeSuccess,
		ResourceWallet, acct.Address.String(), CategoryPayment, acct.Address, "",
		"amount", amount.String(),
		"balance", acct.Balance.String(),
		"passenger_index", acct.Index,
	)
}

// OnTripStarted implements plugin.OnTripStarted.
func (e *Extension) OnTripStarted(ctx context.Context, rec *trip.Record) error {
	return e.record(ctx, ActionTripStarted, SeverityInfo, OutcomeSuccess,
		ResourceTrip, rec.ID.String(), CategoryTravel, rec.Passenger, "",
		"trip_code", rec.TripCode,
		"price", rec.Price.String(),
		"trip_index", rec.Index,
	)
}

// OnWithdrawal implements plugin.OnWithdrawal.
func (e *Extension) OnWithdrawal(ctx context.Context, w *withdrawal.Withdrawal) error {
	return e.record(ctx, ActionWithdrawalCompleted, SeverityWarning, OutcomeSuccess,
		ResourceWithdrawal, w.ID.String(), CategoryPayment, w.Owner, "",
		"amount", w.Amount.String(),
	)
}

// OnStaffRecorded implements plugin.OnStaffRecorded.
func (e *Extension) OnStaffRecorded(ctx context.Context, rec *staff.Record) error {
	return e.record(ctx, ActionStaffRecorded, SeverityInfo, OutcomeSuccess,
		ResourceStaff, rec.LastEntryID.String(), CategoryStaffing, rec.Member, "",
		"entries", rec.Entries,
	)
}

// OnRejected implements plugin.OnRejected.
func (e *Extension) OnRejected(ctx context.Context, op string, caller account.Address, reason string, err error) error {
	severity := SeverityInfo
	if reason == "FareLedger__NotOwner" {
		severity = SeverityCritical
	}
	return e.record(ctx, ActionOperationRejected, severity, OutcomeFailure,
		ResourceOperation, op, CategoryAccess, caller, reason,
		"error", err.Error(),
	)
}

// ──────────────────────────────────────────────────
// Internal helpers
// ──────────────────────────────────────────────────

// wants reports whether an event passes the configured filters.
func (e *Extension) wants(action, severity string) bool {
	if e.only != nil {
		if _, ok := e.only[action]; !ok {
			return false
		}
	}
	if _, ok := e.skip[action]; ok {
		return false
	}
	return severityRank(severity) >= e.minRank
}

// record builds and sends an audit event if it passes the filters.
func (e *Extension) record(
	ctx context.Context,
	action, severity, outcome string,
	resource, resourceID, category string,
	actor account.Address,
	reason string,
	kvPairs ...any,
) error {
	if !e.wants(action, severity) {
		return nil
	}

	meta := make(map[string]any, len(kvPairs)/2+len(e.static))
	for k, v := range e.static {
		meta[k] = v
	}
	for i := 0; i+1 < len(kvPairs); i += 2 {
		key, ok := kvPairs[i].(string)
		if !ok {
			key = fmt.Sprintf("%v", kvPairs[i])
		}
		meta[key] = kvPairs[i+1]
	}

	evt := &AuditEvent{
		Action:     action,
		Resource:   resource,
		Category:   category,
		ResourceID: resourceID,
		Actor:      actor.String(),
		Metadata:   meta,
		Outcome:    outcome,
		Severity:   severity,
		Reason:     reason,
	}

	if recErr := e.recorder.Record(ctx, evt); recErr != nil {
		e.logger.Warn("audit_hook: failed to record audit event",
			"action", action,
			"resource_id", resourceID,
			"error", recErr,
		)
	}
	return nil
}
