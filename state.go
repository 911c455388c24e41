package fareledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/journal"
	"github.com/xraph/fareledger/passenger"
	"github.com/xraph/fareledger/schedule"
	"github.com/xraph/fareledger/staff"
	"github.com/xraph/fareledger/trip"
	"github.com/xraph/fareledger/types"
	"github.com/xraph/fareledger/withdrawal"
)

// state is the fold of the journal. It is only touched under Ledger.mu.
type state struct {
	seq        uint64
	deployment *Deployment

	schedule       schedule.Schedule
	minimumDeposit types.Money
	staffWindow    time.Duration

	// balance is the ledger balance: fares earned and not yet withdrawn.
	// totalHeld is balance plus every passenger balance.
	balance   types.Money
	totalHeld types.Money

	accounts    map[account.Address]*passenger.Account
	passengers  []account.Address
	trips       []*trip.Record
	withdrawals []*withdrawal.Withdrawal

	staff        map[account.Address]*staff.Record
	staffMembers []account.Address
}

func newState() *state {
	return &state{
		accounts: make(map[account.Address]*passenger.Account),
		staff:    make(map[account.Address]*staff.Record),
	}
}

// apply validates t against the current state and folds it in. A non-nil
// error means nothing changed.
func (s *state) apply(t *journal.Transaction) error {
	commit, err := s.prepare(t)
	if err != nil {
		return err
	}
	commit()
	return nil
}

// fill sets the fields of a new transaction that come from state rather
// than from the caller: the scheduled fare and the withdrawn balance.
func (s *state) fill(t *journal.Transaction) {
	if s.deployment == nil {
		return
	}
	switch t.Kind {
	case journal.KindStartTrip:
		if price, ok := s.schedule.Price(t.TripCode); ok {
			t.Amount = price
		}
	case journal.KindWithdraw:
		t.Amount = s.balance
	case journal.KindStaffRecord:
		t.Amount = types.Zero(s.schedule.Currency())
	}
}

// prepare checks t against the current state without mutating it and
// returns the function that applies it. Every check, including checked
// arithmetic, happens here so that commit cannot fail.
func (s *state) prepare(t *journal.Transaction) (func(), error) {
	if t.Seq != s.seq+1 {
		return nil, fmt.Errorf("%w: transaction %s has seq %d, want %d", ErrCorruptJournal, t.ID, t.Seq, s.seq+1)
	}

	if t.Kind == journal.KindDeploy {
		return s.prepareDeploy(t)
	}
	if s.deployment == nil {
		return nil, ErrNotDeployed
	}

	var (
		commit func()
		err    error
	)
	switch t.Kind {
	case journal.KindFundWallet:
		commit, err = s.prepareFund(t)
	case journal.KindStartTrip:
		commit, err = s.prepareTrip(t)
	case journal.KindWithdraw:
		commit, err = s.prepareWithdraw(t)
	case journal.KindStaffRecord:
		commit, err = s.prepareStaff(t)
	default:
		return nil, fmt.Errorf("%w: unknown transaction kind %q", ErrCorruptJournal, t.Kind)
	}
	if err != nil {
		return nil, err
	}
	return func() {
		commit()
		s.seq = t.Seq
	}, nil
}

func (s *state) prepareDeploy(t *journal.Transaction) (func(), error) {
	if s.deployment != nil {
		return nil, ErrAlreadyDeployed
	}
	g := t.Genesis
	if g == nil {
		return nil, fmt.Errorf("%w: deploy transaction %s has no genesis", ErrCorruptJournal, t.ID)
	}
	if g.Owner.IsZero() {
		return nil, ValidationError{Field: "owner", Message: "must not be the zero address"}
	}
	sched, err := g.Schedule()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if g.MinimumDeposit.Currency != sched.Currency() {
		return nil, ValidationError{Field: "minimum_deposit", Message: "currency differs from the schedule"}
	}
	if g.StaffWindow <= 0 {
		return nil, ValidationError{Field: "staff_window", Message: "must be positive"}
	}

	return func() {
		s.deployment = &Deployment{
			LedgerID:      t.RecordID,
			TransactionID: t.ID,
			Owner:         g.Owner,
			Seq:           t.Seq,
			DeployedAt:    t.Timestamp,
		}
		s.schedule = sched
		s.minimumDeposit = g.MinimumDeposit
		s.staffWindow = g.StaffWindow
		s.balance = types.Zero(sched.Currency())
		s.totalHeld = types.Zero(sched.Currency())
		s.seq = t.Seq
	}, nil
}

func (s *state) prepareFund(t *journal.Transaction) (func(), error) {
	amount := t.Amount
	if amount.Currency != s.schedule.Currency() {
		return nil, fmt.Errorf("%w: deposit in %q, ledger holds %q", ErrCurrencyMismatch, amount.Currency, s.schedule.Currency())
	}
	if amount.LessThan(s.minimumDeposit) {
		return nil, fmt.Errorf("%w: %s is below the minimum of %s", ErrInsufficientDeposit, amount, s.minimumDeposit)
	}

	acct, known := s.accounts[t.Caller]
	prevBalance, prevFunded := types.Zero(amount.Currency), types.Zero(amount.Currency)
	if known {
		prevBalance, prevFunded = acct.Balance, acct.Funded
	}
	balance, err := prevBalance.Add(amount)
	if err != nil {
		return nil, overflow(err)
	}
	funded, err := prevFunded.Add(amount)
	if err != nil {
		return nil, overflow(err)
	}
	held, err := s.totalHeld.Add(amount)
	if err != nil {
		return nil, overflow(err)
	}

	return func() {
		if !known {
			acct = &passenger.Account{
				Entity:  types.NewEntity(t.Timestamp),
				Address: t.Caller,
				Index:   len(s.passengers),
				Spent:   types.Zero(amount.Currency),
			}
			s.accounts[t.Caller] = acct
			s.passengers = append(s.passengers, t.Caller)
		}
		acct.Balance = balance
		acct.Funded = funded
		acct.Touch(t.Timestamp)
		s.totalHeld = held
	}, nil
}

func (s *state) prepareTrip(t *journal.Transaction) (func(), error) {
	price, ok := s.schedule.Price(t.TripCode)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTripCode, t.TripCode)
	}
	if !t.Amount.IsZero() && !t.Amount.Equal(price) {
		return nil, fmt.Errorf("%w: trip %s charged %s, schedule says %s", ErrCorruptJournal, t.ID, t.Amount, price)
	}

	acct, known := s.accounts[t.Caller]
	if !known || acct.Balance.LessThan(price) {
		have := types.Zero(price.Currency)
		if known {
			have = acct.Balance
		}
		return nil, fmt.Errorf("%w: fare %s, balance %s", ErrInsufficientBalance, price, have)
	}
	remaining, err := acct.Balance.Sub(price)
	if err != nil {
		return nil, overflow(err)
	}
	spent, err := acct.Spent.Add(price)
	if err != nil {
		return nil, overflow(err)
	}
	earned, err := s.balance.Add(price)
	if err != nil {
		return nil, overflow(err)
	}

	return func() {
		acct.Balance = remaining
		acct.Spent = spent
		acct.Trips++
		acct.Touch(t.Timestamp)
		s.balance = earned
		s.trips = append(s.trips, &trip.Record{
			ID:        t.RecordID,
			Index:     len(s.trips),
			Passenger: t.Caller,
			TripCode:  t.TripCode,
			Price:     price,
			StartedAt: t.Timestamp,
		})
	}, nil
}

func (s *state) prepareWithdraw(t *journal.Transaction) (func(), error) {
	if t.Caller != s.deployment.Owner {
		return nil, fmt.Errorf("%w: %s", ErrNotOwner, t.Caller)
	}
	if s.balance.IsZero() {
		return nil, ErrBalanceIsZero
	}
	amount := s.balance
	if !t.Amount.IsZero() && !t.Amount.Equal(amount) {
		return nil, fmt.Errorf("%w: withdrawal %s of %s, balance is %s", ErrCorruptJournal, t.ID, t.Amount, amount)
	}
	held, err := s.totalHeld.Sub(amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptJournal, err)
	}

	return func() {
		s.withdrawals = append(s.withdrawals, &withdrawal.Withdrawal{
			ID:          t.RecordID,
			Owner:       t.Caller,
			Amount:      amount,
			WithdrawnAt: t.Timestamp,
		})
		s.balance = types.Zero(amount.Currency)
		s.totalHeld = held
	}, nil
}

func (s *state) prepareStaff(t *journal.Transaction) (func(), error) {
	rec, known := s.staff[t.Caller]
	if known {
		next := rec.NextAllowed(s.staffWindow)
		if t.Timestamp.Before(next) {
			return nil, fmt.Errorf("%w: last record at %s, next allowed at %s",
				ErrLogOnceIn24Hours, rec.LastAt.Format(time.RFC3339), next.Format(time.RFC3339))
		}
	}

	return func() {
		if !known {
			rec = &staff.Record{
				Member:  t.Caller,
				Index:   len(s.staffMembers),
				FirstAt: t.Timestamp,
			}
			s.staff[t.Caller] = rec
			s.staffMembers = append(s.staffMembers, t.Caller)
		}
		rec.LastEntryID = t.RecordID
		rec.LastAt = t.Timestamp
		rec.Entries++
	}, nil
}

func overflow(err error) error {
	if errors.Is(err, types.ErrOverflow) || errors.Is(err, types.ErrUnderflow) {
		return fmt.Errorf("%w: %w", ErrAmountOverflow, err)
	}
	return err
}
