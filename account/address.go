// Package account defines the caller identity used by every fare ledger
// operation.
package account

import (
	"database/sql/driver"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAddress is returned when a string is not a 20-byte hex address.
var ErrInvalidAddress = errors.New("account: invalid address")

// Address is a 20-byte account identity in its canonical "0x" + 40 lowercase
// hex form. The zero value is the empty address.
type Address struct {
	hex string
}

// Zero is the empty address.
var Zero Address

// ParseAddress parses s, accepting upper, lower, or mixed case hex with a
// "0x" or "0X" prefix.
func ParseAddress(s string) (Address, error) {
	s = strings.TrimSpace(s)
	if len(s) != 42 || (s[:2] != "0x" && s[:2] != "0X") {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	body := strings.ToLower(s[2:])
	if _, err := hex.DecodeString(body); err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAddress, s)
	}

	return Address{hex: "0x" + body}, nil
}

// MustParseAddress is like ParseAddress but panics on error.
func MustParseAddress(s string) Address {
	a, err := ParseAddress(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String returns the canonical form, or "" for the zero address.
func (a Address) String() string { return a.hex }

// IsZero reports whether a is the empty address.
func (a Address) IsZero() bool { return a.hex == "" }

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.hex), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*a = Zero
		return nil
	}
	parsed, err := ParseAddress(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Value implements driver.Valuer. The zero address is stored as NULL.
func (a Address) Value() (driver.Value, error) {
	if a.IsZero() {
		return nil, nil //nolint:nilnil // nil is the canonical NULL for driver.Valuer
	}
	return a.hex, nil
}

// Scan implements sql.Scanner.
func (a *Address) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*a = Zero
		return nil
	case string:
		return a.UnmarshalText([]byte(v))
	case []byte:
		return a.UnmarshalText(v)
	default:
		return fmt.Errorf("account: cannot scan %T into Address", src)
	}
}
