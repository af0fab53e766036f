package domain

import "time"

// DefaultCreditBalance is the balance every new account starts with.
const DefaultCreditBalance int64 = 10

// Account is a registered user holding a credit balance.
type Account struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	CreditBalance int64
	Role          Role
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewAccount builds an ordinary user account with the default balance.
func NewAccount(id, name, email, passwordHash string, now time.Time) *Account {
	return &Account{
		ID:            id,
		Email:         email,
		Name:          name,
		PasswordHash:  passwordHash,
		CreditBalance: DefaultCreditBalance,
		Role:          RoleUser,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// ApplyCredit returns the balance after adding credits.
func (a *Account) ApplyCredit(credits int64) int64 {
	return a.CreditBalance + credits
}
