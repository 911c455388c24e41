package journal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/types"
)

// Columns is the flat form of a Transaction shared by the persistent
// backends. Amount is kept as a decimal string of minor units so the full
// uint64 range survives databases with signed 64-bit integers.
type Columns struct {
	ID        string
	Seq       uint64
	Kind      string
	Caller    string
	Amount    string
	Currency  string
	TripCode  string
	RecordID  string
	Genesis   json.RawMessage
	Timestamp time.Time
}

// Flatten converts t into its column form.
func Flatten(t *Transaction) (Columns, error) {
	genesis, err := MarshalGenesis(t.Genesis)
	if err != nil {
		return Columns{}, fmt.Errorf("journal: encode genesis: %w", err)
	}
	return Columns{
		ID:        t.ID.String(),
		Seq:       t.Seq,
		Kind:      string(t.Kind),
		Caller:    t.Caller.String(),
		Amount:    strconv.FormatUint(t.Amount.Amount, 10),
		Currency:  t.Amount.Currency,
		TripCode:  t.TripCode,
		RecordID:  t.RecordID.String(),
		Genesis:   genesis,
		Timestamp: t.Timestamp.UTC(),
	}, nil
}

// Unflatten rebuilds a Transaction from its column form.
func Unflatten(c Columns) (*Transaction, error) {
	txnID, err := id.ParseTransactionID(c.ID)
	if err != nil {
		return nil, fmt.Errorf("journal: seq %d: %w", c.Seq, err)
	}
	caller, err := account.ParseAddress(c.Caller)
	if err != nil {
		return nil, fmt.Errorf("journal: seq %d: %w", c.Seq, err)
	}

	var amount uint64
	if c.Amount != "" {
		amount, err = strconv.ParseUint(c.Amount, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("journal: seq %d: amount %q: %w", c.Seq, c.Amount, err)
		}
	}

	var recordID id.ID
	if c.RecordID != "" {
		recordID, err = id.Parse(c.RecordID)
		if err != nil {
			return nil, fmt.Errorf("journal: seq %d: %w", c.Seq, err)
		}
	}

	genesis, err := UnmarshalGenesis(c.Genesis)
	if err != nil {
		return nil, err
	}

	return &Transaction{
		ID:        txnID,
		Seq:       c.Seq,
		Kind:      Kind(c.Kind),
		Caller:    caller,
		Amount:    types.Money{Amount: amount, Currency: c.Currency},
		TripCode:  c.TripCode,
		RecordID:  recordID,
		Genesis:   genesis,
		Timestamp: c.Timestamp.UTC(),
	}, nil
}
