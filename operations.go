package fareledger

import (
	"context"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/journal"
	"github.com/xraph/fareledger/passenger"
	"github.com/xraph/fareledger/staff"
	"github.com/xraph/fareledger/trip"
	"github.com/xraph/fareledger/types"
	"github.com/xraph/fareledger/withdrawal"
)

// Operation names, as reported in rejections and plugin events.
const (
	OpFundWallet  = "fund_wallet"
	OpStartTrip   = "start_trip"
	OpWithdraw    = "withdraw"
	OpStaffRecord = "staff_record"
)

// FundWallet credits amount to the caller's wallet. The first funding adds
// the caller to the passenger registry.
func (l *Ledger) FundWallet(ctx context.Context, caller account.Address, amount types.Money) (*passenger.Account, error) {
	t := &journal.Transaction{
		Kind:   journal.KindFundWallet,
		Caller: caller,
		Amount: amount,
	}

	l.mu.Lock()
	if err := l.commit(ctx, t); err != nil {
		l.mu.Unlock()
		return nil, l.rejected(ctx, OpFundWallet, caller, err)
	}
	acct := *l.st.accounts[caller]
	l.mu.Unlock()

	l.logger.Debug("wallet funded",
		"passenger", caller.String(),
		"amount", amount.String(),
		"balance", acct.Balance.String(),
	)
	l.plugins.EmitWalletFunded(ctx, &acct, amount)

	return &acct, nil
}

// StartTrip charges the caller the scheduled fare for tripCode and appends a
// trip record. The fare moves from the passenger balance to the ledger
// balance.
func (l *Ledger) StartTrip(ctx context.Context, caller account.Address, tripCode string) (*trip.Record, error) {
	t := &journal.Transaction{
		Kind:     journal.KindStartTrip,
		Caller:   caller,
		TripCode: tripCode,
		RecordID: id.NewTripID(),
	}

	l.mu.Lock()
	if err := l.commit(ctx, t); err != nil {
		l.mu.Unlock()
		return nil, l.rejected(ctx, OpStartTrip, caller, err)
	}
	rec := *l.st.trips[len(l.st.trips)-1]
	l.mu.Unlock()

	l.logger.Debug("trip started",
		"trip_id", rec.ID.String(),
		"passenger", caller.String(),
		"trip_code", tripCode,
		"price", rec.Price.String(),
	)
	l.plugins.EmitTripStarted(ctx, &rec)

	return &rec, nil
}

// Withdraw pays the whole ledger balance out to the owner and resets it to
// zero. Payout itself is delegated to OnWithdrawal plugins.
func (l *Ledger) Withdraw(ctx context.Context, caller account.Address) (*withdrawal.Withdrawal, error) {
	t := &journal.Transaction{
		Kind:     journal.KindWithdraw,
		Caller:   caller,
		RecordID: id.NewWithdrawalID(),
	}

	l.mu.Lock()
	if err := l.commit(ctx, t); err != nil {
		l.mu.Unlock()
		return nil, l.rejected(ctx, OpWithdraw, caller, err)
	}
	w := *l.st.withdrawals[len(l.st.withdrawals)-1]
	l.mu.Unlock()

	l.logger.Info("ledger balance withdrawn",
		"withdrawal_id", w.ID.String(),
		"owner", caller.String(),
		"amount", w.Amount.String(),
	)
	l.plugins.EmitWithdrawal(ctx, &w)

	return &w, nil
}

// RecordStaff logs an attendance entry for the caller. A member may record
// once per staff window.
func (l *Ledger) RecordStaff(ctx context.Context, caller account.Address) (*staff.Record, error) {
	t := &journal.Transaction{
		Kind:     journal.KindStaffRecord,
		Caller:   caller,
		RecordID: id.NewStaffEntryID(),
	}

	l.mu.Lock()
	if err := l.commit(ctx, t); err != nil {
		l.mu.Unlock()
		return nil, l.rejected(ctx, OpStaffRecord, caller, err)
	}
	rec := *l.st.staff[caller]
	l.mu.Unlock()

	l.logger.Debug("staff recorded",
		"member", caller.String(),
		"entries", rec.Entries,
	)
	l.plugins.EmitStaffRecorded(ctx, &rec)

	return &rec, nil
}

// rejected converts err into a *RejectionError when it is a named refusal
// and notifies plugins. Other errors pass through.
func (l *Ledger) rejected(ctx context.Context, op string, caller account.Address, err error) error {
	err = asRejection(op, err)
	reason := Reason(err)
	if reason == "" {
		l.logger.Warn("fareledger operation failed",
			"op", op,
			"caller", caller.String(),
			"error", err,
		)
		return err
	}

	l.logger.Info("fareledger operation rejected",
		"op", op,
		"caller", caller.String(),
		"reason", reason,
	)
	l.plugins.EmitRejected(ctx, op, caller, reason, err)
	return err
}
