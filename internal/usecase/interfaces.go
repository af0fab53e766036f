package usecase

import (
	"context"
	"time"

	"github.com/iho/creditledger/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	// Create inserts the account. A duplicate email surfaces as domain.ErrEmailTaken.
	Create(ctx context.Context, tx Transaction, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	// AddCredits increments the balance in place and returns the new balance.
	AddCredits(ctx context.Context, tx Transaction, id string, credits int64, updatedAt time.Time) (int64, error)
	// SetRole changes the role of the account with the given email.
	SetRole(ctx context.Context, email string, role domain.Role, updatedAt time.Time) (*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// LedgerRepository defines data access for ledger entries.
type LedgerRepository interface {
	Create(ctx context.Context, tx Transaction, entry *domain.LedgerEntry) error
	GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error)
	// MarkSettled flips settled from false to true in a single conditional
	// update and returns the settled entry. It returns domain.ErrAlreadySettled
	// when the entry was settled before and domain.ErrEntryNotFound when it does
	// not exist.
	MarkSettled(ctx context.Context, tx Transaction, id string, settledAt time.Time) (*domain.LedgerEntry, error)
	ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error)
	SumSettledCredits(ctx context.Context, accountID string) (int64, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	DeletePublished(ctx context.Context, before time.Time) error
}

// PaymentGateway is the external payment provider.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req domain.CreateOrderRequest) (*domain.GatewayOrder, error)
	FetchOrder(ctx context.Context, orderID string) (*domain.GatewayOrder, error)
}

// TokenIssuer signs session tokens bound to an account id and its role.
type TokenIssuer interface {
	Issue(accountID string, role domain.Role) (string, error)
}

// MetricsRecorder receives business-level counters.
type MetricsRecorder interface {
	AccountRegistered()
	LoginAttempt(status string)
	OrderCreated(plan string)
	SettlementResult(result string)
	GatewayCall(operation string, duration time.Duration, err error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops the key so the request can be retried.
	Release(ctx context.Context, key string) error
}

type noopMetrics struct{}

func (noopMetrics) AccountRegistered() {}
func (noopMetrics) LoginAttempt(string) {}
func (noopMetrics) OrderCreated(string) {}
func (noopMetrics) SettlementResult(string) {}
func (noopMetrics) GatewayCall(string, time.Duration, error) {}

func metricsOrNoop(m MetricsRecorder) MetricsRecorder {
	if m == nil {
		return noopMetrics{}
	}
	return m
}
