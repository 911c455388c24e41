package schedule

import (
	"errors"
	"testing"

	"github.com/xraph/fareledger/types"
)

func TestDefault(t *testing.T) {
	s := Default()
	if s.Len() != 5 {
		t.Fatalf("Len: got %d, want 5", s.Len())
	}
	if s.Currency() != "eth" {
		t.Errorf("Currency: got %q", s.Currency())
	}

	for i := 0; i < s.Len(); i++ {
		code, ok := s.CodeAt(i)
		if !ok {
			t.Fatalf("CodeAt(%d) missing", i)
		}
		cost, _ := s.PriceAt(i)
		price, ok := s.Price(code)
		if !ok {
			t.Fatalf("Price(%q) missing", code)
		}
		if !price.Equal(cost) {
			t.Errorf("code %q: Price %v != PriceAt %v", code, price, cost)
		}
	}
}

func TestDefaultFitsReferenceScenarios(t *testing.T) {
	s := Default()

	p0, _ := s.PriceAt(0)
	p3, _ := s.PriceAt(3)
	both, err := p0.Add(p3)
	if err != nil {
		t.Fatal(err)
	}
	if both.GreaterThan(types.MustParseMoney("0.1", "eth")) {
		t.Errorf("codes 0 and 3 cost %v, more than 0.1", both)
	}

	p1, _ := s.PriceAt(1)
	p4, _ := s.PriceAt(4)
	both, err = p1.Add(p4)
	if err != nil {
		t.Fatal(err)
	}
	if both.GreaterThan(types.MustParseMoney("0.05", "eth")) {
		t.Errorf("codes 1 and 4 cost %v, more than 0.05", both)
	}
}

func TestLookups(t *testing.T) {
	s := Default()

	if _, ok := s.Price("LODSAA"); ok {
		t.Error("unknown code must not resolve")
	}
	if _, ok := s.CodeAt(-1); ok {
		t.Error("negative index must not resolve")
	}
	if _, ok := s.CodeAt(5); ok {
		t.Error("index past end must not resolve")
	}
	if _, ok := s.PriceAt(5); ok {
		t.Error("index past end must not resolve")
	}
}

func TestFaresIsCopy(t *testing.T) {
	s := Default()
	fares := s.Fares()
	fares[0].Price = types.ETH(1)
	fares[0].Code = "CHANGED"

	code, _ := s.CodeAt(0)
	if code == "CHANGED" {
		t.Error("mutating Fares() result changed the schedule")
	}
	p, _ := s.Price(code)
	if p.Equal(types.ETH(1)) {
		t.Error("mutating Fares() result changed a price")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		fares []Fare
		want  error
	}{
		{"empty", nil, ErrEmpty},
		{"blank", []Fare{{Code: " ", Price: types.ETH(1)}}, ErrBlankCode},
		{"duplicate", []Fare{{Code: "A", Price: types.ETH(1)}, {Code: "A", Price: types.ETH(2)}}, ErrDuplicateCode},
		{"zero price", []Fare{{Code: "A", Price: types.ETH(0)}}, ErrNonPositive},
		{"mixed", []Fare{{Code: "A", Price: types.ETH(1)}, {Code: "B", Price: types.USD(1)}}, ErrMixedCurrencies},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.fares...)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := New(Fare{Code: "A", Price: types.ETH(1)}); err != nil {
		t.Errorf("valid schedule rejected: %v", err)
	}
}
