package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Account struct {
	ID            string             `json:"id"`
	Email         string             `json:"email"`
	Name          string             `json:"name"`
	PasswordHash  string             `json:"password_hash"`
	CreditBalance int64              `json:"credit_balance"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	UpdatedAt     pgtype.Timestamptz `json:"updated_at"`
	Role          string             `json:"role"`
}

type LedgerEntry struct {
	ID        string             `json:"id"`
	AccountID string             `json:"account_id"`
	Plan      string             `json:"plan"`
	Amount    pgtype.Numeric     `json:"amount"`
	Credits   int64              `json:"credits"`
	Settled   bool               `json:"settled"`
	SettledAt pgtype.Timestamptz `json:"settled_at"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
}

type OutboxEvent struct {
	ID            string             `json:"id"`
	AggregateID   string             `json:"aggregate_id"`
	AggregateType string             `json:"aggregate_type"`
	EventType     string             `json:"event_type"`
	Payload       []byte             `json:"payload"`
	CreatedAt     pgtype.Timestamptz `json:"created_at"`
	Published     bool               `json:"published"`
	PublishedAt   pgtype.Timestamptz `json:"published_at"`
}
