package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	// This prevents long-running transactions from blocking tables
	DefaultTransactionTimeout = 10 * time.Second

	// PasswordHashCost is the bcrypt cost factor for stored credentials.
	PasswordHashCost = 10

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

// Settlement results reported to metrics.
const (
	SettlementSettled        = "settled"
	SettlementAlreadySettled = "already_settled"
	SettlementNotPaid        = "not_paid"
	SettlementFailed         = "failed"
)
