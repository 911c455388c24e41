package trip

import (
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
	"github.com/xraph/fareledger/types"
)

// Record is one started trip. Records are immutable once written.
type Record struct {
	ID        id.TripID       `json:"id"`
	Index     int             `json:"index"`
	Passenger account.Address `json:"passenger"`
	TripCode  string          `json:"trip_code"`
	Price     types.Money     `json:"price"`
	StartedAt time.Time       `json:"started_at"`
}
