package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

func TestAuthFromResult(t *testing.T) {
	resp := AuthFromResult(&usecase.AuthResult{
		Token:   "tok",
		Account: &domain.Account{ID: "acc-1", Name: "Alice", PasswordHash: "secret-hash"},
	})

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"token":"tok","user":{"name":"Alice"}}`, string(data))
}

func TestCreditsFromDomain(t *testing.T) {
	data, err := json.Marshal(CreditsFromDomain(&domain.Account{Name: "Alice", CreditBalance: 110}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"credits":110,"user":{"name":"Alice"}}`, string(data))
}

func TestEnvelope_OmitsEmptyMessage(t *testing.T) {
	data, err := json.Marshal(Envelope{Success: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true}`, string(data))
}

func TestEntriesFromDomain(t *testing.T) {
	now := time.Now().UTC()
	entries := []*domain.LedgerEntry{
		{ID: "e1", Plan: domain.PlanBasic, Amount: decimal.NewFromInt(1), Credits: 100, CreatedAt: now},
		{ID: "e2", Plan: domain.PlanAdvanced, Amount: decimal.NewFromInt(5), Credits: 500, Settled: true, SettledAt: &now, CreatedAt: now},
	}

	resp := EntriesFromDomain(entries)
	require.Len(t, resp.Entries, 2)
	assert.True(t, resp.Success)
	assert.Equal(t, "Basic", resp.Entries[0].Plan)
	assert.Nil(t, resp.Entries[0].SettledAt)
	assert.True(t, resp.Entries[1].Settled)
	assert.Equal(t, "5", resp.Entries[1].Amount.String())
}
