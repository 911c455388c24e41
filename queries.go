package fareledger

import (
	"fmt"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/passenger"
	"github.com/xraph/fareledger/schedule"
	"github.com/xraph/fareledger/staff"
	"github.com/xraph/fareledger/trip"
	"github.com/xraph/fareledger/types"
	"github.com/xraph/fareledger/withdrawal"
)

// ──────────────────────────────────────────────────
// Read-only queries
// ──────────────────────────────────────────────────

// Deployment returns the genesis record.
func (l *Ledger) Deployment() (*Deployment, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return nil, ErrNotDeployed
	}
	d := *l.st.deployment
	return &d, nil
}

// IsDeployed reports whether the genesis transaction has been committed.
func (l *Ledger) IsDeployed() bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.deployment != nil
}

// Sequence returns the sequence number of the last applied transaction.
func (l *Ledger) Sequence() uint64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.st.seq
}

// Owner returns the deploying identity.
func (l *Ledger) Owner() (account.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return account.Zero, ErrNotDeployed
	}
	return l.st.deployment.Owner, nil
}

// Balance returns the ledger balance: fares collected and not yet withdrawn.
func (l *Ledger) Balance() (types.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return types.Money{}, ErrNotDeployed
	}
	return l.st.balance, nil
}

// TotalHeld returns every unit the ledger holds: the ledger balance plus all
// passenger balances.
func (l *Ledger) TotalHeld() (types.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return types.Money{}, ErrNotDeployed
	}
	return l.st.totalHeld, nil
}

// MinimumDeposit returns the smallest accepted wallet funding.
func (l *Ledger) MinimumDeposit() (types.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return types.Money{}, ErrNotDeployed
	}
	return l.st.minimumDeposit, nil
}

// StaffWindow returns the minimum gap between two records by one member.
func (l *Ledger) StaffWindow() (time.Duration, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return 0, ErrNotDeployed
	}
	return l.st.staffWindow, nil
}

// PassengerBalance returns addr's wallet balance; zero for an unknown identity.
func (l *Ledger) PassengerBalance(addr account.Address) (types.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return types.Money{}, ErrNotDeployed
	}
	if acct, ok := l.st.accounts[addr]; ok {
		return acct.Balance, nil
	}
	return types.Zero(l.st.schedule.Currency()), nil
}

// PassengerAccount returns the full wallet of addr.
func (l *Ledger) PassengerAccount(addr account.Address) (*passenger.Account, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	acct, ok := l.st.accounts[addr]
	if !ok {
		return nil, fmt.Errorf("%w: passenger %s", ErrNotFound, addr)
	}
	cp := *acct
	return &cp, nil
}

// Passenger returns the identity at position index of the passenger registry.
func (l *Ledger) Passenger(index int) (account.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.st.passengers) {
		return account.Zero, outOfRange("passenger", index, len(l.st.passengers))
	}
	return l.st.passengers[index], nil
}

// PassengerCount returns the number of identities that ever funded a wallet.
func (l *Ledger) PassengerCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.st.passengers)
}

// Schedule returns the deployed trip schedule.
func (l *Ledger) Schedule() (schedule.Schedule, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return schedule.Schedule{}, ErrNotDeployed
	}
	return l.st.schedule, nil
}

// TripPrice returns the fare scheduled for code.
func (l *Ledger) TripPrice(code string) (types.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return types.Money{}, ErrNotDeployed
	}
	price, ok := l.st.schedule.Price(code)
	if !ok {
		return types.Money{}, fmt.Errorf("%w: trip code %q", ErrNotFound, code)
	}
	return price, nil
}

// TripCode returns the trip code at position index of the schedule.
func (l *Ledger) TripCode(index int) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return "", ErrNotDeployed
	}
	code, ok := l.st.schedule.CodeAt(index)
	if !ok {
		return "", outOfRange("trip code", index, l.st.schedule.Len())
	}
	return code, nil
}

// TripCost returns the fare at position index of the schedule.
func (l *Ledger) TripCost(index int) (types.Money, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.st.deployment == nil {
		return types.Money{}, ErrNotDeployed
	}
	price, ok := l.st.schedule.PriceAt(index)
	if !ok {
		return types.Money{}, outOfRange("trip cost", index, l.st.schedule.Len())
	}
	return price, nil
}

// Trip returns the trip record at position index.
func (l *Ledger) Trip(index int) (*trip.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.st.trips) {
		return nil, outOfRange("trip", index, len(l.st.trips))
	}
	rec := *l.st.trips[index]
	return &rec, nil
}

// TripCount returns the number of trips started.
func (l *Ledger) TripCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.st.trips)
}

// Withdrawals returns every withdrawal in order.
func (l *Ledger) Withdrawals() []*withdrawal.Withdrawal {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make([]*withdrawal.Withdrawal, len(l.st.withdrawals))
	for i, w := range l.st.withdrawals {
		cp := *w
		result[i] = &cp
	}
	return result
}

// StaffRecord returns the attendance state of member.
func (l *Ledger) StaffRecord(member account.Address) (*staff.Record, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	rec, ok := l.st.staff[member]
	if !ok {
		return nil, fmt.Errorf("%w: staff member %s", ErrNotFound, member)
	}
	cp := *rec
	return &cp, nil
}

// StaffMember returns the identity at position index of the staff registry.
func (l *Ledger) StaffMember(index int) (account.Address, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if index < 0 || index >= len(l.st.staffMembers) {
		return account.Zero, outOfRange("staff member", index, len(l.st.staffMembers))
	}
	return l.st.staffMembers[index], nil
}

// StaffRecordCount returns the number of distinct members who ever recorded.
func (l *Ledger) StaffRecordCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.st.staffMembers)
}

func outOfRange(what string, index, length int) error {
	return fmt.Errorf("%w: %s %d of %d", ErrIndexOutOfRange, what, index, length)
}
