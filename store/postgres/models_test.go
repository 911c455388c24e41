package postgres

import (
	"testing"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/journal"
	"github.com/xraph/fareledger/schedule"
	"github.com/xraph/fareledger/types"
)

func TestTransactionModelRoundTrip(t *testing.T) {
	owner := account.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
	deploy := &journal.Transaction{
		ID:       id.NewTransactionID(),
		Seq:      1,
		Kind:     journal.KindDeploy,
		Caller:   owner,
		RecordID: id.NewLedgerID(),
		Genesis: &journal.Genesis{
			Owner:          owner,
			Fares:          schedule.Default().Fares(),
			MinimumDeposit: types.MustParseMoney("0.01", "eth"),
			StaffWindow:    24 * time.Hour,
		},
		Timestamp: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	trip := &journal.Transaction{
		ID:        id.NewTransactionID(),
		Seq:       2,
		Kind:      journal.KindStartTrip,
		Caller:    owner,
		Amount:    types.MustParseMoney("0.015", "eth"),
		TripCode:  "IKJLEK",
		RecordID:  id.NewTripID(),
		Timestamp: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	for _, tx := range []*journal.Transaction{deploy, trip} {
		m, err := toTransactionModel(tx)
		if err != nil {
			t.Fatalf("toTransactionModel(%s): %v", tx.Kind, err)
		}
		if m.Seq != int64(tx.Seq) || m.ID != tx.ID.String() {
			t.Fatalf("model = %+v", m)
		}
		if tx.Genesis == nil && m.Genesis != nil {
			t.Fatalf("%s: genesis column should be NULL, got %s", tx.Kind, *m.Genesis)
		}
		back, err := fromTransactionModel(m)
		if err != nil {
			t.Fatalf("fromTransactionModel(%s): %v", tx.Kind, err)
		}
		if back.ID != tx.ID || back.Kind != tx.Kind || back.TripCode != tx.TripCode || !back.Amount.Equal(tx.Amount) {
			t.Fatalf("round trip = %+v, want %+v", back, tx)
		}
		if (back.Genesis == nil) != (tx.Genesis == nil) {
			t.Fatalf("genesis presence changed for %s", tx.Kind)
		}
		if err := back.Validate(); err != nil {
			t.Fatalf("decoded transaction invalid: %v", err)
		}
	}
}
