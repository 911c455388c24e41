// Package schedule defines the fixed trip schedule: the table mapping each
// trip code to its fare.
//
// A Schedule is fixed when the ledger is deployed. All accessors return
// copies so callers can never mutate a deployed table.
package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xraph/fareledger/types"
)

// Validation errors.
var (
	ErrEmpty           = errors.New("schedule: no fares")
	ErrBlankCode       = errors.New("schedule: blank trip code")
	ErrDuplicateCode   = errors.New("schedule: duplicate trip code")
	ErrNonPositive     = errors.New("schedule: fare must be positive")
	ErrMixedCurrencies = errors.New("schedule: fares use more than one currency")
)

// Fare is one schedule entry.
type Fare struct {
	Code  string      `json:"code"`
	Price types.Money `json:"price"`
}

// Schedule is an ordered trip code → price table.
type Schedule struct {
	fares []Fare
	index map[string]int
}

// New builds a schedule from fares in the given order and validates it.
func New(fares ...Fare) (Schedule, error) {
	s := Schedule{
		fares: append([]Fare(nil), fares...),
		index: make(map[string]int, len(fares)),
	}
	for i, f := range s.fares {
		if _, dup := s.index[f.Code]; !dup {
			s.index[f.Code] = i
		}
	}
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}
	return s, nil
}

// MustNew is like New but panics on an invalid table.
func MustNew(fares ...Fare) Schedule {
	s, err := New(fares...)
	if err != nil {
		panic(err)
	}
	return s
}

// Default returns the reference schedule of five routes.
func Default() Schedule {
	return MustNew(
		Fare{Code: "LAGIKJ", Price: types.MustParseMoney("0.01", "eth")},
		Fare{Code: "IKJLEK", Price: types.MustParseMoney("0.015", "eth")},
		Fare{Code: "LEKVIC", Price: types.MustParseMoney("0.02", "eth")},
		Fare{Code: "VICAPP", Price: types.MustParseMoney("0.025", "eth")},
		Fare{Code: "APPLAG", Price: types.MustParseMoney("0.03", "eth")},
	)
}

// Validate checks that the table is usable: at least one fare, unique
// non-blank codes, positive prices, and a single currency.
func (s Schedule) Validate() error {
	if len(s.fares) == 0 {
		return ErrEmpty
	}

	seen := make(map[string]struct{}, len(s.fares))
	currency := s.fares[0].Price.Currency
	var errs []error
	for i, f := range s.fares {
		if strings.TrimSpace(f.Code) == "" {
			errs = append(errs, fmt.Errorf("%w at index %d", ErrBlankCode, i))
		}
		if _, ok := seen[f.Code]; ok {
			errs = append(errs, fmt.Errorf("%w: %q", ErrDuplicateCode, f.Code))
		}
		seen[f.Code] = struct{}{}
		if !f.Price.IsPositive() {
			errs = append(errs, fmt.Errorf("%w: %q", ErrNonPositive, f.Code))
		}
		if f.Price.Currency != currency {
			errs = append(errs, fmt.Errorf("%w: %q is %s", ErrMixedCurrencies, f.Code, f.Price.Currency))
		}
	}
	return errors.Join(errs...)
}

// Price returns the fare for code and whether the code is scheduled.
func (s Schedule) Price(code string) (types.Money, bool) {
	i, ok := s.index[code]
	if !ok {
		return types.Money{}, false
	}
	return s.fares[i].Price, true
}

// CodeAt returns the trip code at position i.
func (s Schedule) CodeAt(i int) (string, bool) {
	if i < 0 || i >= len(s.fares) {
		return "", false
	}
	return s.fares[i].Code, true
}

// PriceAt returns the fare at position i.
func (s Schedule) PriceAt(i int) (types.Money, bool) {
	if i < 0 || i >= len(s.fares) {
		return types.Money{}, false
	}
	return s.fares[i].Price, true
}

// Len returns the number of scheduled trip codes.
func (s Schedule) Len() int { return len(s.fares) }

// Currency returns the currency every fare is priced in.
func (s Schedule) Currency() string {
	if len(s.fares) == 0 {
		return ""
	}
	return s.fares[0].Price.Currency
}

// Fares returns a copy of the table in order.
func (s Schedule) Fares() []Fare {
	return append([]Fare(nil), s.fares...)
}
