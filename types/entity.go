package types

import "time"

// Entity is the base type for fare ledger records with timestamps.
// Timestamps come from the ledger clock so that replayed records carry the
// times they were originally written at.
type Entity struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewEntity creates a new Entity stamped at now.
func NewEntity(now time.Time) Entity {
	now = now.UTC()
	return Entity{
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch updates the UpdatedAt timestamp.
func (e *Entity) Touch(now time.Time) {
	e.UpdatedAt = now.UTC()
}

// Age returns how long before now the entity was created.
func (e Entity) Age(now time.Time) time.Duration {
	return now.Sub(e.CreatedAt)
}

// IsStale returns true if the entity hasn't been updated within staleDuration of now.
func (e Entity) IsStale(now time.Time, staleDuration time.Duration) bool {
	return now.Sub(e.UpdatedAt) > staleDuration
}
