// Package types provides common types used across the fare ledger.
package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Errors returned by checked Money arithmetic and parsing.
var (
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
	ErrOverflow         = errors.New("money: amount overflow")
	ErrUnderflow        = errors.New("money: amount underflow")
	ErrInvalidAmount    = errors.New("money: invalid amount")
)

// Money represents a non-negative monetary value in the smallest unit the
// ledger tracks. All arithmetic is integer-only and checked.
//
// Examples:
//   - ETH(100_000_000) = Ξ0.100000000 (gwei precision)
//   - USD(4900) = $49.00 (4900 cents)
type Money struct {
	Amount   uint64 `json:"amount"`   // Smallest unit (gwei, cents, etc)
	Currency string `json:"currency"` // Lowercase code: "eth", "usd"
}

// GweiPerEther is the number of smallest ledger units in one ether.
const GweiPerEther = 1_000_000_000

// ETH creates a Money value in ether, expressed in gwei.
func ETH(gwei uint64) Money { return Money{Amount: gwei, Currency: "eth"} }

// USD creates a Money value in US Dollars (cents).
func USD(cents uint64) Money { return Money{Amount: cents, Currency: "usd"} }

// Zero returns a zero Money value in the specified currency.
func Zero(currency string) Money { return Money{Amount: 0, Currency: strings.ToLower(currency)} }

// ParseMoney parses a decimal major-unit string such as "0.1" into Money of
// the given currency. More fractional digits than the currency carries is an
// error rather than a silent truncation.
func ParseMoney(s, currency string) (Money, error) {
	currency = strings.ToLower(strings.TrimSpace(currency))
	s = strings.TrimSpace(s)
	if s == "" || currency == "" {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	decimals := Decimals(currency)
	if len(frac) > decimals {
		return Money{}, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, s, decimals)
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}

	major, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrOverflow, s)
	}
	frac += strings.Repeat("0", decimals-len(frac))
	var minor uint64
	if frac != "" {
		minor, err = strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
		}
	}

	unit := pow10(decimals)
	if major > (math.MaxUint64-minor)/unit {
		return Money{}, fmt.Errorf("%w: %q", ErrOverflow, s)
	}

	return Money{Amount: major*unit + minor, Currency: currency}, nil
}

// MustParseMoney is like ParseMoney but panics on error. Use for constants.
func MustParseMoney(s, currency string) Money {
	m, err := ParseMoney(s, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// Arithmetic operations

// Add adds two Money values. It fails on currency mismatch or overflow.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if m.Amount > math.MaxUint64-other.Amount {
		return Money{}, fmt.Errorf("%w: %d + %d", ErrOverflow, m.Amount, other.Amount)
	}
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}, nil
}

// Sub subtracts another Money value. It fails on currency mismatch or when
// the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.Amount > m.Amount {
		return Money{}, fmt.Errorf("%w: %d - %d", ErrUnderflow, m.Amount, other.Amount)
	}
	return Money{Amount: m.Amount - other.Amount, Currency: m.Currency}, nil
}

// Comparison methods

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool { return m.Amount == 0 }

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool { return m.Amount > 0 }

// Equal returns true if both Money values are equal (same amount and currency).
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && m.Currency == other.Currency
}

// SameCurrency reports whether both values are denominated in the same currency.
func (m Money) SameCurrency(other Money) bool { return m.Currency == other.Currency }

// LessThan returns true if this Money is less than other. Panics if currencies don't match.
func (m Money) LessThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount < other.Amount
}

// GreaterThan returns true if this Money is greater than other. Panics if currencies don't match.
func (m Money) GreaterThan(other Money) bool {
	m.assertSameCurrency(other)
	return m.Amount > other.Amount
}

// Formatting methods

// FormatMajor returns the major unit string without currency symbol.
// "0.100000000" for ETH(100_000_000), "49.00" for USD(4900).
func (m Money) FormatMajor() string {
	decimals := Decimals(m.Currency)
	if decimals == 0 {
		return strconv.FormatUint(m.Amount, 10)
	}

	unit := pow10(decimals)
	return fmt.Sprintf("%d.%0*d", m.Amount/unit, decimals, m.Amount%unit)
}

// String returns a human-readable string with currency symbol.
// Examples: "Ξ0.100000000", "$49.00"
func (m Money) String() string {
	return currencySymbol(m.Currency) + m.FormatMajor()
}

// MarshalJSON implements json.Marshaler.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   uint64 `json:"amount"`
		Currency string `json:"currency"`
		Display  string `json:"display"`
	}{
		Amount:   m.Amount,
		Currency: m.Currency,
		Display:  m.String(),
	})
}

// UnmarshalJSON implements json.Unmarshaler. The display field is ignored.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw struct {
		Amount   uint64 `json:"amount"`
		Currency string `json:"currency"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Amount = raw.Amount
	m.Currency = strings.ToLower(raw.Currency)
	return nil
}

// Helper functions

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return fmt.Errorf("%w: %s != %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return nil
}

// assertSameCurrency panics if currencies don't match.
func (m Money) assertSameCurrency(other Money) {
	if m.Currency != other.Currency {
		panic(fmt.Sprintf("money: currency mismatch: %s != %s", m.Currency, other.Currency))
	}
}

// currencySymbol returns the symbol for a currency code.
func currencySymbol(currency string) string {
	symbols := map[string]string{
		"eth": "Ξ",
		"usd": "$",
		"eur": "€",
		"gbp": "£",
		"jpy": "¥",
	}
	if sym, ok := symbols[strings.ToLower(currency)]; ok {
		return sym
	}
	return strings.ToUpper(currency) + " "
}

// Decimals returns the number of decimal places the ledger carries for a
// currency. Ether is held at gwei precision.
func Decimals(currency string) int {
	switch strings.ToLower(currency) {
	case "eth":
		return 9
	case "jpy", "krw", "vnd":
		return 0
	default:
		return 2
	}
}

func pow10(n int) uint64 {
	p := uint64(1)
	for i := 0; i < n; i++ {
		p *= 10
	}
	return p
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Sum calculates the sum of multiple Money values in the given currency.
func Sum(currency string, values ...Money) (Money, error) {
	total := Zero(currency)
	for _, v := range values {
		var err error
		if total, err = total.Add(v); err != nil {
			return Money{}, err
		}
	}
	return total, nil
}
