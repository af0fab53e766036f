package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is one credit top-up attempt. It is created unsettled when an
// order is placed and flips to settled exactly once, when payment is verified.
type LedgerEntry struct {
	ID        string
	AccountID string
	Plan      PlanID
	Amount    decimal.Decimal
	Credits   int64
	Settled   bool
	SettledAt *time.Time
	CreatedAt time.Time
}

// NewLedgerEntry creates an unsettled entry for the given plan.
func NewLedgerEntry(id, accountID string, plan Plan, now time.Time) *LedgerEntry {
	return &LedgerEntry{
		ID:        id,
		AccountID: accountID,
		Plan:      plan.ID,
		Amount:    plan.Amount,
		Credits:   plan.Credits,
		CreatedAt: now,
	}
}

// Settle marks the entry settled. It returns ErrAlreadySettled if the entry
// was settled before; the flag never goes back to false.
func (e *LedgerEntry) Settle(at time.Time) error {
	if e.Settled {
		return ErrAlreadySettled
	}
	e.Settled = true
	e.SettledAt = &at
	return nil
}

// Settlement is the outcome of a successful payment verification.
type Settlement struct {
	EntryID    string
	AccountID  string
	OrderID    string
	Credits    int64
	NewBalance int64
	SettledAt  time.Time
}
