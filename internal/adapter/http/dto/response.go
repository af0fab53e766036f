package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// Envelope is the shape shared by every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// UserInfo is the public part of an account.
type UserInfo struct {
	Name string `json:"name"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Success bool     `json:"success"`
	Token   string   `json:"token"`
	User    UserInfo `json:"user"`
}

// AuthFromResult converts a use case result to response.
func AuthFromResult(res *usecase.AuthResult) *AuthResponse {
	return &AuthResponse{
		Success: true,
		Token:   res.Token,
		User:    UserInfo{Name: res.Account.Name},
	}
}

// CreditsResponse carries the current balance.
type CreditsResponse struct {
	Success bool     `json:"success"`
	Credits int64    `json:"credits"`
	User    UserInfo `json:"user"`
}

// CreditsFromDomain converts domain account to response.
func CreditsFromDomain(a *domain.Account) *CreditsResponse {
	return &CreditsResponse{
		Success: true,
		Credits: a.CreditBalance,
		User:    UserInfo{Name: a.Name},
	}
}

// OrderResponse wraps the gateway order a client pays against.
type OrderResponse struct {
	Success bool                 `json:"success"`
	Order   *domain.GatewayOrder `json:"order"`
}

// EntryResponse represents a ledger entry in API responses.
type EntryResponse struct {
	ID        string          `json:"id"`
	Plan      string          `json:"plan"`
	Amount    decimal.Decimal `json:"amount"`
	Credits   int64           `json:"credits"`
	Settled   bool            `json:"settled"`
	SettledAt *time.Time      `json:"settled_at,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// EntryFromDomain converts domain entry to response.
func EntryFromDomain(e *domain.LedgerEntry) *EntryResponse {
	return &EntryResponse{
		ID:        e.ID,
		Plan:      string(e.Plan),
		Amount:    e.Amount,
		Credits:   e.Credits,
		Settled:   e.Settled,
		SettledAt: e.SettledAt,
		CreatedAt: e.CreatedAt,
	}
}

// EntriesResponse lists an account's ledger entries.
type EntriesResponse struct {
	Success bool             `json:"success"`
	Entries []*EntryResponse `json:"entries"`
}

// EntriesFromDomain converts domain entries to responses.
func EntriesFromDomain(entries []*domain.LedgerEntry) *EntriesResponse {
	result := make([]*EntryResponse, len(entries))
	for i, e := range entries {
		result[i] = EntryFromDomain(e)
	}
	return &EntriesResponse{Success: true, Entries: result}
}

// ReconciliationResponse wraps a reconciliation report.
type ReconciliationResponse struct {
	Success bool                          `json:"success"`
	Report  *usecase.ReconciliationReport `json:"report"`
}

// AccountReconciliationResponse wraps a single account check.
type AccountReconciliationResponse struct {
	Success bool                          `json:"success"`
	Result  *usecase.ReconciliationResult `json:"result"`
}
