package types

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
)

func TestMoneyConstructors(t *testing.T) {
	tests := []struct {
		name     string
		money    Money
		amount   uint64
		currency string
		display  string
	}{
		{"ETH", ETH(100_000_000), 100_000_000, "eth", "Ξ0.100000000"},
		{"ETH one gwei", ETH(1), 1, "eth", "Ξ0.000000001"},
		{"USD", USD(4900), 4900, "usd", "$49.00"},
		{"Zero ETH", Zero("ETH"), 0, "eth", "Ξ0.000000000"},
		{"Zero USD", Zero("USD"), 0, "usd", "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.money.Amount != tt.amount {
				t.Errorf("Amount: got %d, want %d", tt.money.Amount, tt.amount)
			}
			if tt.money.Currency != tt.currency {
				t.Errorf("Currency: got %s, want %s", tt.money.Currency, tt.currency)
			}
			if tt.money.String() != tt.display {
				t.Errorf("Display: got %s, want %s", tt.money.String(), tt.display)
			}
		})
	}
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		currency string
		want     Money
		wantErr  error
	}{
		{"tenth of ether", "0.1", "eth", ETH(100_000_000), nil},
		{"twentieth of ether", "0.05", "ETH", ETH(50_000_000), nil},
		{"whole ether", "2", "eth", ETH(2 * GweiPerEther), nil},
		{"leading dot", ".5", "eth", ETH(500_000_000), nil},
		{"gwei", "0.000000001", "eth", ETH(1), nil},
		{"dollars", "49.5", "usd", USD(4950), nil},
		{"too precise", "0.0000000001", "eth", Money{}, ErrInvalidAmount},
		{"negative", "-1", "eth", Money{}, ErrInvalidAmount},
		{"garbage", "abc", "eth", Money{}, ErrInvalidAmount},
		{"empty", "", "eth", Money{}, ErrInvalidAmount},
		{"overflow", "99999999999999999999", "eth", Money{}, ErrOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input, tt.currency)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error: got %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMoneyArithmetic(t *testing.T) {
	sum, err := ETH(100).Add(ETH(200))
	if err != nil || !sum.Equal(ETH(300)) {
		t.Errorf("Add: got %v, %v", sum, err)
	}

	diff, err := ETH(500).Sub(ETH(200))
	if err != nil || !diff.Equal(ETH(300)) {
		t.Errorf("Sub: got %v, %v", diff, err)
	}

	if _, err := ETH(math.MaxUint64).Add(ETH(1)); !errors.Is(err, ErrOverflow) {
		t.Errorf("Add overflow: got %v", err)
	}
	if _, err := ETH(1).Sub(ETH(2)); !errors.Is(err, ErrUnderflow) {
		t.Errorf("Sub underflow: got %v", err)
	}
	if _, err := ETH(1).Add(USD(1)); !errors.Is(err, ErrCurrencyMismatch) {
		t.Errorf("Add mismatch: got %v", err)
	}
}

func TestMoneyCurrencyMismatchPanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for currency mismatch")
		}
	}()

	_ = ETH(100).LessThan(USD(100))
}

func TestMoneyComparison(t *testing.T) {
	if !ETH(1).LessThan(ETH(2)) {
		t.Error("1 < 2")
	}
	if ETH(2).LessThan(ETH(2)) {
		t.Error("2 !< 2")
	}
	if !ETH(3).GreaterThan(ETH(2)) {
		t.Error("3 > 2")
	}
	if !ETH(0).IsZero() || ETH(0).IsPositive() {
		t.Error("zero predicates")
	}
	if ETH(1).Equal(USD(1)) {
		t.Error("different currencies are not equal")
	}
}

func TestMoneyJSON(t *testing.T) {
	data, err := json.Marshal(ETH(100_000_000))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal raw: %v", err)
	}
	if raw["display"] != "Ξ0.100000000" {
		t.Errorf("display: got %v", raw["display"])
	}

	var back Money
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(ETH(100_000_000)) {
		t.Errorf("got %v", back)
	}
}

func TestSum(t *testing.T) {
	got, err := Sum("eth", ETH(1), ETH(2), ETH(3))
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if !got.Equal(ETH(6)) {
		t.Errorf("got %v, want %v", got, ETH(6))
	}

	empty, err := Sum("eth")
	if err != nil || !empty.Equal(Zero("eth")) {
		t.Errorf("empty sum: got %v, %v", empty, err)
	}
}

func BenchmarkMoneyAdd(b *testing.B) {
	m1 := ETH(100)
	m2 := ETH(200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m1.Add(m2)
	}
}
