package journal

import (
	"testing"
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/schedule"
	"github.com/xraph/fareledger/types"
)

var owner = account.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")

func validTx(kind Kind) *Transaction {
	t := &Transaction{
		ID:        id.NewTransactionID(),
		Seq:       1,
		Kind:      kind,
		Caller:    owner,
		Timestamp: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	switch kind {
	case KindDeploy:
		t.Genesis = &Genesis{Owner: owner, Fares: schedule.Default().Fares()}
	case KindStartTrip:
		t.TripCode = "LAGIKJ"
	}
	return t
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Transaction)
		kind    Kind
		wantErr bool
	}{
		{"deploy ok", func(*Transaction) {}, KindDeploy, false},
		{"fund ok", func(*Transaction) {}, KindFundWallet, false},
		{"trip ok", func(*Transaction) {}, KindStartTrip, false},
		{"no id", func(tx *Transaction) { tx.ID = id.Nil }, KindFundWallet, true},
		{"no seq", func(tx *Transaction) { tx.Seq = 0 }, KindFundWallet, true},
		{"unknown kind", func(tx *Transaction) { tx.Kind = "mint" }, KindFundWallet, true},
		{"no caller", func(tx *Transaction) { tx.Caller = account.Zero }, KindWithdraw, true},
		{"no timestamp", func(tx *Transaction) { tx.Timestamp = time.Time{} }, KindStaffRecord, true},
		{"deploy without genesis", func(tx *Transaction) { tx.Genesis = nil }, KindDeploy, true},
		{"trip without code", func(tx *Transaction) { tx.TripCode = "" }, KindStartTrip, true},
		{"genesis on fund", func(tx *Transaction) { tx.Genesis = &Genesis{} }, KindFundWallet, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tx := validTx(tt.kind)
			tt.mutate(tx)
			err := tx.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenesisEncoding(t *testing.T) {
	g := &Genesis{
		Owner:          owner,
		Fares:          schedule.Default().Fares(),
		MinimumDeposit: types.MustParseMoney("0.01", "eth"),
		StaffWindow:    24 * time.Hour,
	}

	raw, err := MarshalGenesis(g)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	back, err := UnmarshalGenesis(raw)
	if err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Owner != owner || back.StaffWindow != 24*time.Hour || !back.MinimumDeposit.Equal(g.MinimumDeposit) {
		t.Errorf("got %+v", back)
	}

	s, err := back.Schedule()
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if s.Len() != 5 {
		t.Errorf("schedule len: got %d", s.Len())
	}

	for _, in := range [][]byte{nil, []byte("null")} {
		g, err := UnmarshalGenesis(in)
		if err != nil || g != nil {
			t.Errorf("UnmarshalGenesis(%q) = %v, %v", in, g, err)
		}
	}
}
