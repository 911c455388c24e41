package audithook

// Action constants for audit events.
const (
	// Ledger actions
	ActionLedgerDeployed = "ledger.deployed"

	// Wallet actions
	ActionWalletFunded = "wallet.funded"

	// Trip actions
	ActionTripStarted = "trip.started"

	// Withdrawal actions
	ActionWithdrawalCompleted = "withdrawal.completed"

	// Staff actions
	ActionStaffRecorded = "staff.recorded"

	// Rejected operations
	ActionOperationRejected = "operation.rejected"
)

// Resource constants for audit events.
const (
	ResourceLedger     = "ledger"
	ResourceWallet     = "wallet"
	ResourceTrip       = "trip"
	ResourceWithdrawal = "withdrawal"
	ResourceStaff      = "staff"
	ResourceOperation  = "operation"
)

// Category constants for audit events.
const (
	CategoryLedger   = "ledger"
	CategoryPayment  = "payment"
	CategoryTravel   = "travel"
	CategoryAccess   = "access"
	CategoryStaffing = "staffing"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
