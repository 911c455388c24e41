package mongo

import (
	"time"

	"github.com/xraph/grove"

	"github.com/xraph/fareledger/journal"
)

// ==================== Journal models ====================

type transactionModel struct {
	grove.BaseModel `grove:"table:fareledger_transactions"`

	ID        string    `grove:"id,pk"      bson:"_id"`
	Seq       int64     `grove:"seq"        bson:"seq"`
	Kind      string    `grove:"kind"       bson:"kind"`
	Caller    string    `grove:"caller"     bson:"caller"`
	Amount    string    `grove:"amount"     bson:"amount"`
	Currency  string    `grove:"currency"   bson:"currency"`
	TripCode  string    `grove:"trip_code"  bson:"trip_code,omitempty"`
	RecordID  string    `grove:"record_id"  bson:"record_id,omitempty"`
	Genesis   string    `grove:"genesis"    bson:"genesis,omitempty"`
	Timestamp time.Time `grove:"timestamp"  bson:"timestamp"`
}

func toTransactionModel(t *journal.Transaction) (*transactionModel, error) {
	c, err := journal.Flatten(t)
	if err != nil {
		return nil, err
	}
	return &transactionModel{
		ID:        c.ID,
		Seq:       int64(c.Seq), //nolint:gosec // sequence numbers stay far below MaxInt64
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
		Seq:       uint64(m.Seq), //nolint:gosec // seq field is never negative
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
