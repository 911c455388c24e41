package staff

import (
	"time"

	"github.com/xraph/fareledger/account"
	"github.com/xraph/fareledger/id"
)

// Record is a staff member's attendance state: the latest entry and how many
// entries they have logged.
type Record struct {
	LastEntryID id.StaffEntryID `json:"last_entry_id"`
	Member      account.Address `json:"member"`
	Index       int             `json:"index"`
	FirstAt     time.Time       `json:"first_at"`
	LastAt      time.Time       `json:"last_at"`
	Entries     int             `json:"entries"`
}

// NextAllowed returns the earliest time the member may record again.
func (r Record) NextAllowed(window time.Duration) time.Time {
	return r.LastAt.Add(window)
}
