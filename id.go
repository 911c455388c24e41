package fareledger

import "github.com/xraph/fareledger/id"

// ID is the primary identifier type for all fare ledger records.
type ID = id.ID

// Prefix identifies the record type encoded in a TypeID.
type Prefix = id.Prefix
