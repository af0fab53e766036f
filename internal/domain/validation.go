package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors
var (
	ErrInvalidCurrency = errors.New("invalid currency code")
)

// Valid currency codes (ISO 4217)
var validCurrencies = map[string]bool{
	"USD": true, "EUR": true, "GBP": true, "JPY": true,
	"CNY": true, "AUD": true, "CAD": true, "CHF": true,
	"SEK": true, "NZD": true, "KRW": true, "SGD": true,
	"NOK": true, "MXN": true, "INR": true, "BRL": true,
	"ZAR": true, "RUB": true, "TRY": true, "HKD": true,
}

// RegistrationInput is the raw input of a sign-up.
type RegistrationInput struct {
	Name     string
	Email    string
	Password string
}

// Normalize trims name and email. The password is kept byte for byte.
func (in RegistrationInput) Normalize() RegistrationInput {
	return RegistrationInput{
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.TrimSpace(in.Email),
		Password: in.Password,
	}
}

// ValidateRegistration requires every field to be present.
func ValidateRegistration(in RegistrationInput) error {
	in = in.Normalize()
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return ErrMissingDetails
	}
	return nil
}

// ValidateCurrency validates currency code
func ValidateCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))

	if !validCurrencies[currency] {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, currency)
	}

	return nil
}
