package fareledger_test

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"testing"

	"github.com/xraph/fareledger"
	"github.com/xraph/fareledger/store/memory"
	"github.com/xraph/fareledger/types"
)

// TestDocumentationExamples verifies that the package documentation examples work.
func TestDocumentationExamples(t *testing.T) {
	t.Run("QuickStartExample", func(t *testing.T) {
		// Memory store for demo, use a SQL or Mongo store in production
		l := fareledger.New(memory.New(),
			fareledger.WithLogger(slog.Default()),
		)

		ctx := context.Background()
		if err := l.Start(ctx); err != nil {
			t.Fatal(err)
		}
		defer l.Stop()

		owner := fareledger.MustParseAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266")
		if _, err := l.Deploy(ctx, owner); err != nil {
			t.Fatal(err)
		}

		passenger := fareledger.MustParseAddress("0x70997970c51812dc3a010c7d01b50e0d17dc79c8")
		amount, err := fareledger.ParseMoney("0.1", "eth")
		if err != nil {
			t.Fatal(err)
		}
		if _, err := l.FundWallet(ctx, passenger, amount); err != nil {
			t.Fatal(err)
		}

		code, err := l.TripCode(0)
		if err != nil {
			t.Fatal(err)
		}
		rec, err := l.StartTrip(ctx, passenger, code)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("trip %s charged %s\n", rec.ID, rec.Price)

		_, err = l.StartTrip(ctx, passenger, "LODSAA")
		if !errors.Is(err, fareledger.ErrInvalidTripCode) {
			t.Fatalf("expected invalid trip code, got %v", err)
		}
		if fareledger.Reason(err) != "FareLedger__InvalidTripCode" {
			t.Errorf("reason: %q", fareledger.Reason(err))
		}

		w, err := l.Withdraw(ctx, owner)
		if err != nil {
			t.Fatal(err)
		}
		log.Printf("withdrew %s\n", w.Amount)

		if _, err := l.RecordStaff(ctx, owner); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("MoneyExamples", func(t *testing.T) {
		_ = types.ETH(100_000_000) // Ξ0.100000000
		_ = types.Zero("eth")      // Ξ0.000000000

		m1 := types.MustParseMoney("0.01", "eth")
		m2 := types.MustParseMoney("0.025", "eth")
		sum, err := m1.Add(m2)
		if err != nil {
			t.Fatal(err)
		}
		if sum.FormatMajor() != "0.035000000" {
			t.Errorf("FormatMajor: %s", sum.FormatMajor())
		}
		if !m1.LessThan(m2) {
			t.Error("0.01 should be less than 0.025")
		}
	})
}
