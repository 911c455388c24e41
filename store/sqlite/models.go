package sqlite

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/fareledger/journal"
)

type transactionModel struct {
	grove.BaseModel `grove:"table:fareledger_transactions"`

	Seq       int64     `grove:"seq,pk"`
	ID        string    `grove:"id"`
	Kind      string    `grove:"kind"`
	Caller    string    `grove:"caller"`
	Amount    string    `grove:"amount"`
	Currency  string    `grove:"currency"`
	TripCode  string    `grove:"trip_code"`
	RecordID  string    `grove:"record_id"`
	Genesis   string    `grove:"genesis"` // "" unless kind is deploy
	Timestamp time.Time `grove:"timestamp"`
}

func toTransactionModel(t *journal.Transaction) (*transactionModel, error) {
	c, err := journal.Flatten(t)
	if err != nil {
		return nil, err
	}
	return &transactionModel{
		Seq:       int64(c.Seq), //nolint:gosec // sequence numbers stay far below MaxInt64
		ID:        c.ID,
		Kind:      c.Kind,
		Caller:    c.Caller,
		Amount:    c.Amount,
		Currency:  c.Currency,
		TripCode:  c.TripCode,
		RecordID:  c.RecordID,
		Genesis:   string(c.Genesis),
		Timestamp: c.Timestamp,
	}, nil
}

func fromTransactionModel(m *transactionModel) (*journal.Transaction, error) {
	return journal.Unflatten(journal.Columns{
		ID:        m.ID,
		Seq:       uint64(m.Seq), //nolint:gosec // seq column is never negative
		Kind:      m.Kind,
		Caller:    m.Caller,
		Amount:    m.Amount,
		Currency:  m.Currency,
		TripCode:  m.TripCode,
		RecordID:  m.RecordID,
		Genesis:   []byte(m.Genesis),
		Timestamp: m.Timestamp,
	})
}
