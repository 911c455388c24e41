package fareledger

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound         = errors.New("fareledger: not found")
	ErrInvalidInput     = errors.New("fareledger: invalid input")
	ErrIndexOutOfRange  = errors.New("fareledger: index out of range")
	ErrCurrencyMismatch = errors.New("fareledger: currency mismatch")

	// Deployment errors
	ErrNotDeployed     = errors.New("fareledger: not deployed")
	ErrAlreadyDeployed = errors.New("fareledger: already deployed")

	// Rejections. Each is surfaced wrapped in a *RejectionError.
	ErrInsufficientDeposit = errors.New("fareledger: deposit below minimum")
	ErrInvalidTripCode     = errors.New("fareledger: invalid trip code")
	ErrInsufficientBalance = errors.New("fareledger: insufficient balance")
	ErrNotOwner            = errors.New("fareledger: caller is not the owner")
	ErrBalanceIsZero       = errors.New("fareledger: balance is zero")
	ErrLogOnceIn24Hours    = errors.New("fareledger: staff may record once per window")
	ErrAmountOverflow      = errors.New("fareledger: amount overflow")

	// Store errors
	ErrStoreNotReady   = errors.New("fareledger: store not ready")
	ErrStoreClosed     = errors.New("fareledger: store is closed")
	ErrJournalConflict = errors.New("fareledger: journal sequence conflict")
	ErrCorruptJournal  = errors.New("fareledger: corrupt journal")
	ErrMigrationFailed = errors.New("fareledger: migration failed")
)

// Rejection reason codes, as reported to callers of the call interface.
const (
	ReasonInsufficientDeposit = "FareLedger__InsufficientDeposit"
	ReasonInvalidTripCode     = "FareLedger__InvalidTripCode"
	ReasonInsufficientBalance = "FareLedger__InsufficientBalance"
	ReasonNotOwner            = "FareLedger__NotOwner"
	ReasonBalanceIsZero       = "FareLedger__BalanceIsZero"
	ReasonLogOnceIn24Hours    = "FareLedger__LogOnceIn24Hours"
	ReasonAmountOverflow      = "FareLedger__AmountOverflow"
)

var reasons = map[error]string{
	ErrInsufficientDeposit: ReasonInsufficientDeposit,
	ErrInvalidTripCode:     ReasonInvalidTripCode,
	ErrInsufficientBalance: ReasonInsufficientBalance,
	ErrNotOwner:            ReasonNotOwner,
	ErrBalanceIsZero:       ReasonBalanceIsZero,
	ErrLogOnceIn24Hours:    ReasonLogOnceIn24Hours,
	ErrAmountOverflow:      ReasonAmountOverflow,
}

// RejectionError is a named refusal of an operation. A rejected operation
// changes nothing.
type RejectionError struct {
	Op     string
	Reason string
	Err    error
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("%s: %s (%s)", e.Op, e.Err, e.Reason)
}

func (e *RejectionError) Unwrap() error { return e.Err }

// asRejection wraps err in a *RejectionError if it carries one of the
// rejection sentinels, and returns it unchanged otherwise.
func asRejection(op string, err error) error {
	for sentinel, reason := range reasons {
		if errors.Is(err, sentinel) {
			return &RejectionError{Op: op, Reason: reason, Err: err}
		}
	}
	return err
}

// Reason returns the rejection reason code carried by err, or "" if err is
// not a rejection.
func Reason(err error) string {
	var rej *RejectionError
	if errors.As(err, &rej) {
		return rej.Reason
	}
	return ""
}

// IsRejection returns true if err is a named rejection.
func IsRejection(err error) bool {
	var rej *RejectionError
	return errors.As(err, &rej)
}

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("fareledger: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap makes every ValidationError match ErrInvalidInput.
func (e ValidationError) Unwrap() error { return ErrInvalidInput }

// IsNotFound returns true if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrIndexOutOfRange)
}

// IsRetryable returns true if the error is temporary and the operation can be retried.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrJournalConflict) ||
		errors.Is(err, ErrStoreNotReady)
}
