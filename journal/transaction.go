// Package journal defines the append-only transaction log the fare ledger
// state is folded from.
//
// Each accepted operation is persisted as exactly one Transaction. The ledger
// never updates or deletes a transaction; a store only has to guarantee that
// two transactions can never share a sequence number.
package journal

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/schedule"
	"github.com/xraph/fareledger/types"
)

// Kind identifies the operation a transaction records.
type Kind string

const (
	KindDeploy      Kind = "deploy"
	KindFundWallet  Kind = "fund_wallet"
	KindStartTrip   Kind = "start_trip"
	KindWithdraw    Kind = "withdraw"
	KindStaffRecord Kind = "staff_record"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindDeploy, KindFundWallet, KindStartTrip, KindWithdraw, KindStaffRecord:
		return true
	}
	return false
}

// Transaction is one journal entry.
//
// RecordID carries the identity of the record the transaction created: the
// ledger ID for a deploy, the trip ID for start_trip, the withdrawal ID for
// withdraw and the staff entry ID for staff_record. Genesis is set only on
// the deploy transaction.
type Transaction struct {
	ID        id.TransactionID `json:"id"`
	Seq       uint64           `json:"seq"`
	Kind      Kind             `json:"kind"`
	Caller    account.Address  `json:"caller"`
	Amount    types.Money      `json:"amount"`
	TripCode  string           `json:"trip_code,omitempty"`
	RecordID  id.ID            `json:"record_id"`
	Genesis   *Genesis         `json:"genesis,omitempty"`
	Timestamp time.Time        `json:"timestamp"`
}

// Validate checks the fields every kind requires.
func (t *Transaction) Validate() error {
	if t.ID.IsNil() {
		return fmt.Errorf("journal: transaction has no id")
	}
	if t.Seq == 0 {
		return fmt.Errorf("journal: transaction %s has no sequence", t.ID)
	}
	if !t.Kind.Valid() {
		return fmt.Errorf("journal: transaction %s has unknown kind %q", t.ID, t.Kind)
	}
	if t.Caller.IsZero() {
		return fmt.Errorf("journal: transaction %s has no caller", t.ID)
	}
	if t.Timestamp.IsZero() {
		return fmt.Errorf("journal: transaction %s has no timestamp", t.ID)
	}

	switch t.Kind {
	case KindDeploy:
		if t.Genesis == nil {
			return fmt.Errorf("journal: deploy transaction %s has no genesis", t.ID)
		}
	case KindStartTrip:
		if t.TripCode == "" {
			return fmt.Errorf("journal: start_trip transaction %s has no trip code", t.ID)
		}
	}
	if t.Kind != KindDeploy && t.Genesis != nil {
		return fmt.Errorf("journal: %s transaction %s carries a genesis", t.Kind, t.ID)
	}
	return nil
}

// Genesis is the constructor payload written by the deploy transaction.
type Genesis struct {
	Owner          account.Address `json:"owner"`
	Fares          []schedule.Fare `json:"fares"`
	MinimumDeposit types.Money     `json:"minimum_deposit"`
	StaffWindow    time.Duration   `json:"staff_window"`
}

// Schedule rebuilds the fare table carried by the genesis.
func (g *Genesis) Schedule() (schedule.Schedule, error) {
	return schedule.New(g.Fares...)
}

// MarshalGenesis encodes g for storage in a JSON column. A nil genesis
// encodes to nil.
func MarshalGenesis(g *Genesis) (json.RawMessage, error) {
	if g == nil {
		return nil, nil
	}
	return json.Marshal(g)
}

// UnmarshalGenesis decodes a stored genesis. Empty input and JSON null
// decode to nil.
func UnmarshalGenesis(raw []byte) (*Genesis, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	g := new(Genesis)
	if err := json.Unmarshal(raw, g); err != nil {
		return nil, fmt.Errorf("journal: decode genesis: %w", err)
	}
	return g, nil
}
