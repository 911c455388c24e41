package types

import (
	"testing"
	"time"
)

func TestEntityTimestamps(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	e := NewEntity(start)
	if !e.CreatedAt.Equal(start) || !e.UpdatedAt.Equal(start) {
		t.Fatalf("got %+v", e)
	}

	later := start.Add(2 * time.Hour)
	if e.Age(later) != 2*time.Hour {
		t.Errorf("Age: got %v", e.Age(later))
	}
	if !e.IsStale(later, time.Hour) {
		t.Error("expected stale after 2h with 1h threshold")
	}

	e.Touch(later)
	if e.IsStale(later, time.Hour) {
		t.Error("expected fresh after touch")
	}
	if !e.CreatedAt.Equal(start) {
		t.Error("touch must not change CreatedAt")
	}
}
