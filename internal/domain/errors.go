package domain

import (
	"errors"
	"fmt"
)

// Error categories. Concrete errors wrap one of these so callers can branch on
// the category with errors.Is.
var (
	ErrValidation          = errors.New("validation failed")
	ErrConflict            = errors.New("conflict")
	ErrNotFound            = errors.New("not found")
	ErrAuth                = errors.New("authentication failed")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrAlreadySettled      = errors.New("ledger entry already settled")
)

var (
	// Input errors
	ErrMissingDetails = fmt.Errorf("%w: missing details", ErrValidation)
	ErrUnknownPlan    = fmt.Errorf("%w: plan not found", ErrValidation)
	ErrMissingOrderID = fmt.Errorf("%w: missing order id", ErrValidation)
	ErrInvalidRole    = fmt.Errorf("%w: unknown role", ErrValidation)

	// Account errors
	ErrEmailTaken         = fmt.Errorf("%w: email already registered", ErrConflict)
	ErrAccountNotFound    = fmt.Errorf("%w: account not found", ErrNotFound)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrAuth)

	// Ledger errors
	ErrEntryNotFound = fmt.Errorf("%w: ledger entry not found", ErrNotFound)

	// Token errors
	ErrUnauthorized = fmt.Errorf("%w: unauthorized", ErrAuth)
	ErrInvalidToken = fmt.Errorf("%w: invalid token", ErrAuth)
	ErrExpiredToken = fmt.Errorf("%w: token has expired", ErrAuth)
	ErrForbidden    = fmt.Errorf("%w: insufficient permissions", ErrAuth)
)
