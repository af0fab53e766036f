package dto

import "github.com/iho/creditledger/internal/usecase"

// RegisterRequest represents the sign-up body.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts request to use case input.
func (r *RegisterRequest) ToUseCaseInput() usecase.RegisterInput {
	return usecase.RegisterInput{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
	}
}

// LoginRequest represents the login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ToUseCaseInput converts request to use case input.
func (r *LoginRequest) ToUseCaseInput() usecase.LoginInput {
	return usecase.LoginInput{
		Email:    r.Email,
		Password: r.Password,
	}
}

// PayRequest asks for a gateway order for a plan.
type PayRequest struct {
	PlanID string `json:"planId"`
}

// ToUseCaseInput binds the request to the authenticated account.
func (r *PayRequest) ToUseCaseInput(accountID string) usecase.CreateOrderInput {
	return usecase.CreateOrderInput{
		AccountID: accountID,
		PlanID:    r.PlanID,
	}
}

// VerifyRequest names the gateway order to verify.
type VerifyRequest struct {
	OrderID string `json:"razorpay_order_id"`
}
