package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/iho/creditledger/internal/domain"
)

// CredentialUseCase handles registration, login and balance lookups.
type CredentialUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	outboxRepo  OutboxRepository
	idGen       IDGenerator
	tokens      TokenIssuer
	metrics     MetricsRecorder
}

// NewCredentialUseCase creates a new credential use case
func NewCredentialUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	outboxRepo OutboxRepository,
	idGen IDGenerator,
	tokens TokenIssuer,
	metrics MetricsRecorder,
) *CredentialUseCase {
	return &CredentialUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		outboxRepo:  outboxRepo,
		idGen:       idGen,
		tokens:      tokens,
		metrics:     metricsOrNoop(metrics),
	}
}

// RegisterInput represents input for creating an account
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput represents authentication input
type LoginInput struct {
	Email    string
	Password string
}

// AuthResult is a session token plus the account it was issued for.
type AuthResult struct {
	Token   string
	Account *domain.Account
}

// Register creates an account with the default balance and signs a token for it.
func (uc *CredentialUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	reg := domain.RegistrationInput{Name: input.Name, Email: input.Email, Password: input.Password}
	if err := domain.ValidateRegistration(reg); err != nil {
		return nil, err
	}
	reg = reg.Normalize()

	hash, err := hashPassword(reg.Password)
	if err != nil {
		return nil, err
	}

	account := domain.NewAccount(uc.idGen.Generate(), reg.Name, reg.Email, hash, time.Now().UTC())

	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Uniqueness is enforced by the store; a duplicate email comes back as ErrEmailTaken.
	if err := uc.accountRepo.Create(ctx, tx, account); err != nil {
		return nil, err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   account.ID,
		AggregateType: domain.AggregateTypeAccount,
		EventType:     domain.EventTypeAccountRegistered,
		Payload: domain.AccountRegisteredEvent{
			AccountID:     account.ID,
			Name:          account.Name,
			CreditBalance: account.CreditBalance,
		}.ToMap(),
		CreatedAt: account.CreatedAt,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	uc.metrics.AccountRegistered()

	token, err := uc.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	account.PasswordHash = ""
	return &AuthResult{Token: token, Account: account}, nil
}

// Login verifies credentials and signs a token of the same shape as Register.
func (uc *CredentialUseCase) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.TrimSpace(input.Email)
	if email == "" || input.Password == "" {
		uc.metrics.LoginAttempt("invalid")
		return nil, domain.ErrMissingDetails
	}

	account, err := uc.accountRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			uc.metrics.LoginAttempt("unknown_account")
		}
		return nil, err
	}

	if err := verifyPassword(account.PasswordHash, input.Password); err != nil {
		uc.metrics.LoginAttempt("bad_credentials")
		return nil, domain.ErrInvalidCredentials
	}

	token, err := uc.tokens.Issue(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	uc.metrics.LoginAttempt("success")

	account.PasswordHash = ""
	return &AuthResult{Token: token, Account: account}, nil
}

// GetCredits returns the current balance of the caller's account.
func (uc *CredentialUseCase) GetCredits(ctx context.Context, accountID string) (*domain.Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, domain.ErrUnauthorized
	}

	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	account.PasswordHash = ""
	return account, nil
}

// GrantRole sets the role of the account registered under email. Tokens issued
// before the change keep their old role until they expire.
func (uc *CredentialUseCase) GrantRole(ctx context.Context, email, role string) (*domain.Account, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrMissingDetails
	}

	parsed, err := domain.ParseRole(role)
	if err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.SetRole(ctx, email, parsed, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	account.PasswordHash = ""
	return account, nil
}

// hashPassword hashes a password using bcrypt
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordHashCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", fmt.Errorf("%w: password too long", domain.ErrValidation)
		}
		return "", err
	}
	return string(hash), nil
}

// verifyPassword verifies a password against a hash
func verifyPassword(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
