package withdrawal

import (
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/types"
)

// Withdrawal records the ledger balance paid out to the owner.
type Withdrawal struct {
	ID          id.WithdrawalID `json:"id"`
	Owner       account.Address `json:"owner"`
	Amount      types.Money     `json:"amount"`
	WithdrawnAt time.Time       `json:"withdrawn_at"`
}
