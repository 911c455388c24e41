// Package id defines the TypeID identifiers carried by fare ledger records.
//
// An ID prints as "prefix_suffix" where the prefix names the record kind and
// the suffix is a base32 UUIDv7, so IDs of one kind sort by creation time.
package id

import (
	"database/sql/driver"
	"fmt"

	"go.jetify.com/typeid/v2"
)

// Prefix names the record kind encoded in an ID.
type Prefix string

const (
	PrefixLedger      Prefix = "fled" // deployment
	PrefixTransaction Prefix = "txn"  // journal entry
	PrefixTrip        Prefix = "trip"
	PrefixWithdrawal  Prefix = "wdr"
	PrefixStaffEntry  Prefix = "stf"
)

// known lists the prefixes this module issues. Parse refuses anything else.
var known = map[Prefix]string{
	PrefixLedger:      "ledger",
	PrefixTransaction: "transaction",
	PrefixTrip:        "trip",
	PrefixWithdrawal:  "withdrawal",
	PrefixStaffEntry:  "staff entry",
}

// ID is a prefix-qualified TypeID. The zero value is Nil.
//
//nolint:recvcheck // UnmarshalText and Scan need pointer receivers.
type ID struct {
	tid typeid.TypeID
	ok  bool
}

// Nil is the empty ID. It stores as NULL and encodes as "".
var Nil ID

// Aliases document which kind of record a field refers to.
type (
	LedgerID      = ID
	TransactionID = ID
	TripID        = ID
	WithdrawalID  = ID
	StaffEntryID  = ID
)

// New generates an ID of the given kind. It panics on an unknown prefix.
func New(p Prefix) ID {
	if _, ok := known[p]; !ok {
		panic(fmt.Sprintf("id: unknown prefix %q", p))
	}
	tid, err := typeid.Generate(string(p))
	if err != nil {
		panic(fmt.Sprintf("id: generate %q: %v", p, err))
	}
	return ID{tid: tid, ok: true}
}

func NewLedgerID() ID      { return New(PrefixLedger) }
func NewTransactionID() ID { return New(PrefixTransaction) }
func NewTripID() ID        { return New(PrefixTrip) }
func NewWithdrawalID() ID  { return New(PrefixWithdrawal) }
func NewStaffEntryID() ID  { return New(PrefixStaffEntry) }

// Parse decodes s, accepting any prefix issued by this module.
func Parse(s string) (ID, error) {
	if s == "" {
		return Nil, fmt.Errorf("id: parse: empty string")
	}
	tid, err := typeid.Parse(s)
	if err != nil {
		return Nil, fmt.Errorf("id: parse %q: %w", s, err)
	}
	if _, ok := known[Prefix(tid.Prefix())]; !ok {
		return Nil, fmt.Errorf("id: parse %q: unknown prefix %q", s, tid.Prefix())
	}
	return ID{tid: tid, ok: true}, nil
}

func parseAs(s string, want Prefix) (ID, error) {
	v, err := Parse(s)
	if err != nil {
		return Nil, err
	}
	if v.Prefix() != want {
		return Nil, fmt.Errorf("id: %q is a %s id, want %s", s, known[v.Prefix()], known[want])
	}
	return v, nil
}

func ParseLedgerID(s string) (ID, error)      { return parseAs(s, PrefixLedger) }
func ParseTransactionID(s string) (ID, error) { return parseAs(s, PrefixTransaction) }
func ParseTripID(s string) (ID, error)        { return parseAs(s, PrefixTrip) }
func ParseWithdrawalID(s string) (ID, error)  { return parseAs(s, PrefixWithdrawal) }
func ParseStaffEntryID(s string) (ID, error)  { return parseAs(s, PrefixStaffEntry) }

// String returns "prefix_suffix", or "" for Nil.
func (i ID) String() string {
	if !i.ok {
		return ""
	}
	return i.tid.String()
}

// Prefix returns the record kind, or "" for Nil.
func (i ID) Prefix() Prefix {
	if !i.ok {
		return ""
	}
	return Prefix(i.tid.Prefix())
}

// IsNil reports whether i is the zero ID.
func (i ID) IsNil() bool { return !i.ok }

// MarshalText implements encoding.TextMarshaler.
func (i ID) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Empty input yields Nil.
func (i *ID) UnmarshalText(data []byte) error {
	if len(data) == 0 {
		*i = Nil
		return nil
	}
	v, err := Parse(string(data))
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Value implements driver.Valuer. Nil is stored as NULL.
func (i ID) Value() (driver.Value, error) {
	if !i.ok {
		return nil, nil //nolint:nilnil // NULL
	}
	return i.tid.String(), nil
}

// Scan implements sql.Scanner.
func (i *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*i = Nil
		return nil
	case string:
		return i.UnmarshalText([]byte(v))
	case []byte:
		return i.UnmarshalText(v)
	default:
		return fmt.Errorf("id: cannot scan %T", src)
	}
}
