package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/usecase"
)

func TestRegisterRequest_ToUseCaseInput(t *testing.T) {
	req := &RegisterRequest{Name: "Alice", Email: "alice@example.com", Password: "pw"}

	assert.Equal(t, usecase.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "pw"}, req.ToUseCaseInput())
}

func TestLoginRequest_ToUseCaseInput(t *testing.T) {
	req := &LoginRequest{Email: "alice@example.com", Password: "pw"}

	assert.Equal(t, usecase.LoginInput{Email: "alice@example.com", Password: "pw"}, req.ToUseCaseInput())
}

func TestPayRequest_DecodesClientField(t *testing.T) {
	var req PayRequest
	require.NoError(t, json.Unmarshal([]byte(`{"planId":"Advanced"}`), &req))

	got := req.ToUseCaseInput("acc-1")
	assert.Equal(t, usecase.CreateOrderInput{AccountID: "acc-1", PlanID: "Advanced"}, got)
}

func TestVerifyRequest_DecodesProviderField(t *testing.T) {
	var req VerifyRequest
	require.NoError(t, json.Unmarshal([]byte(`{"razorpay_order_id":"order_1"}`), &req))

	assert.Equal(t, "order_1", req.OrderID)
}
