package passenger

import (
	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/types"
)

// Account is a passenger's wallet. Accounts are created on first funding and
// never removed, only drained to zero.
type Account struct {
	types.Entity
	Address account.Address `json:"address"`
	Index   int             `json:"index"`
	Balance types.Money     `json:"balance"`
	Funded  types.Money     `json:"funded"`
	Spent   types.Money     `json:"spent"`
	Trips   int             `json:"trips"`
}
