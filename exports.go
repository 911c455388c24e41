package fareledger

import (
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/types"
)

// Re-export common types so callers don't have to import the leaf packages.

// Money is re-exported from types package.
type Money = types.Money

// Address is re-exported from account package.
type Address = account.Address

// Re-export Money constructors
var (
	ETH        = types.ETH
	Zero       = types.Zero
	ParseMoney = types.ParseMoney
)

// Re-export address parsing
var (
	ParseAddress     = account.ParseAddress
	MustParseAddress = account.MustParseAddress
)
