package sqlite

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{errors.New("constraint failed: UNIQUE constraint failed: fareledger_transactions.seq (1555)"), true},
		{fmt.Errorf("insert: %w", errors.New("UNIQUE constraint failed: fareledger_transactions.id")), true},
		{errors.New("database is locked (5) (SQLITE_BUSY)"), false},
	}
	for _, tt := range tests {
		if got := isUniqueViolation(tt.err); got != tt.want {
			t.Errorf("isUniqueViolation(%q) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestMigrationsRegistered(t *testing.T) {
	if Migrations == nil {
		t.Fatal("Migrations group is nil")
	}
}
