package domain

import "time"

// Event types
const (
	EventTypeAccountRegistered = "account.registered"
	EventTypeOrderCreated      = "order.created"
	EventTypePaymentSettled    = "payment.settled"
)

// Aggregate types
const (
	AggregateTypeAccount     = "account"
	AggregateTypeLedgerEntry = "ledger_entry"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// AccountRegisteredEvent payload
type AccountRegisteredEvent struct {
	AccountID     string `json:"account_id"`
	Name          string `json:"name"`
	CreditBalance int64  `json:"credit_balance"`
}

// OrderCreatedEvent payload
type OrderCreatedEvent struct {
	EntryID   string `json:"entry_id"`
	AccountID string `json:"account_id"`
	Plan      string `json:"plan"`
	Amount    string `json:"amount"`
	Credits   int64  `json:"credits"`
}

// PaymentSettledEvent payload
type PaymentSettledEvent struct {
	EntryID    string `json:"entry_id"`
	AccountID  string `json:"account_id"`
	OrderID    string `json:"order_id"`
	Credits    int64  `json:"credits"`
	NewBalance int64  `json:"new_balance"`
	SettledAt  string `json:"settled_at"`
}

// ToMap converts the payload into the generic outbox shape.
func (e AccountRegisteredEvent) ToMap() map[string]any {
	return map[string]any{
		"account_id":     e.AccountID,
		"name":           e.Name,
		"credit_balance": e.CreditBalance,
	}
}

// ToMap converts the payload into the generic outbox shape.
func (e OrderCreatedEvent) ToMap() map[string]any {
	return map[string]any{
		"entry_id":   e.EntryID,
		"account_id": e.AccountID,
		"plan":       e.Plan,
		"amount":     e.Amount,
		"credits":    e.Credits,
	}
}

// ToMap converts the payload into the generic outbox shape.
func (e PaymentSettledEvent) ToMap() map[string]any {
	return map[string]any{
		"entry_id":    e.EntryID,
		"account_id":  e.AccountID,
		"order_id":    e.OrderID,
		"credits":     e.Credits,
		"new_balance": e.NewBalance,
		"settled_at":  e.SettledAt,
	}
}
