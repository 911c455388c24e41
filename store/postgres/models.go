package postgres

import (
	"encoding/json"
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/fareledger/journal"
)

// ==================== Journal models ====================

type transactionModel struct {
	grove.BaseModel `grove:"table:fareledger_transactions"`

	Seq       int64            `grove:"seq,pk"`
	ID        string           `grove:"id"`
	Kind      string           `grove:"kind"`
	Caller    string           `grove:"caller"`
	Amount    string           `grove:"amount"`
	Currency  string           `grove:"currency"`
	TripCode  string           `grove:"trip_code"`
	RecordID  string           `grove:"record_id"`
	Genesis   *json.RawMessage `grove:"genesis,type:jsonb"` // NULL unless kind is deploy
	Timestamp time.Time        `grove:"timestamp"`
}

func toTransactionModel(t *journal.Transaction) (*transactionModel, error) {
	c, err := journal.Flatten(t)
	if err != nil {
		return nil, err
	}
	var genesis *json.RawMessage
	if len(c.Genesis) > 0 {
		genesis = &c.Genesis
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
		Genesis:   genesis,
		Timestamp: c.Timestamp,
	}, nil
}

func fromTransactionModel(m *transactionModel) (*journal.Transaction, error) {
	var genesis json.RawMessage
	if m.Genesis != nil {
		genesis = *m.Genesis
	}
	return journal.Unflatten(journal.Columns{
		ID:        m.ID,
		Seq:       uint64(m.Seq), //nolint:gosec // seq column is never negative
		Kind:      m.Kind,
		Caller:    m.Caller,
		Amount:    m.Amount,
		Currency:  m.Currency,
		TripCode:  m.TripCode,
		RecordID:  m.RecordID,
		Genesis:   genesis,
		Timestamp: m.Timestamp,
	})
}
