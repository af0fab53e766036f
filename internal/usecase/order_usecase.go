package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/iho/creditledger/internal/domain"
)

// OrderUseCase opens top-up orders: one ledger entry plus one gateway order.
type OrderUseCase struct {
	txManager  TransactionManager
	ledgerRepo LedgerRepository
	outboxRepo OutboxRepository
	gateway    PaymentGateway
	idGen      IDGenerator
	currency   string
	metrics    MetricsRecorder
}

// NewOrderUseCase creates a new OrderUseCase.
func NewOrderUseCase(
	txManager TransactionManager,
	ledgerRepo LedgerRepository,
	outboxRepo OutboxRepository,
	gateway PaymentGateway,
	idGen IDGenerator,
	currency string,
	metrics MetricsRecorder,
) *OrderUseCase {
	return &OrderUseCase{
		txManager:  txManager,
		ledgerRepo: ledgerRepo,
		outboxRepo: outboxRepo,
		gateway:    gateway,
		idGen:      idGen,
		currency:   strings.ToUpper(currency),
		metrics:    metricsOrNoop(metrics),
	}
}

// CreateOrderInput represents input for creating an order.
type CreateOrderInput struct {
	AccountID string
	PlanID    string
}

// OrderResult is the gateway order and the ledger entry it settles.
type OrderResult struct {
	Order *domain.GatewayOrder
	Entry *domain.LedgerEntry
}

// CreateOrder records an unsettled ledger entry and opens a gateway order whose
// receipt is the entry id. The entry is committed before the gateway is called
// so a settled order can always be traced back to its entry.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, input CreateOrderInput) (*OrderResult, error) {
	if strings.TrimSpace(input.AccountID) == "" || strings.TrimSpace(input.PlanID) == "" {
		return nil, domain.ErrMissingDetails
	}

	plan, err := domain.LookupPlan(input.PlanID)
	if err != nil {
		return nil, err
	}

	entry := domain.NewLedgerEntry(uc.idGen.Generate(), input.AccountID, plan, time.Now().UTC())

	if err := uc.recordEntry(ctx, entry); err != nil {
		return nil, err
	}

	start := time.Now()
	order, err := uc.gateway.CreateOrder(ctx, domain.CreateOrderRequest{
		Amount:   plan.MinorUnits(),
		Currency: uc.currency,
		Receipt:  entry.ID,
		Notes: map[string]string{
			"plan":       string(plan.ID),
			"account_id": entry.AccountID,
		},
	})
	uc.metrics.GatewayCall("create_order", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("create gateway order for entry %s: %w", entry.ID, err)
	}

	uc.metrics.OrderCreated(string(plan.ID))

	return &OrderResult{Order: order, Entry: entry}, nil
}

func (uc *OrderUseCase) recordEntry(ctx context.Context, entry *domain.LedgerEntry) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := uc.ledgerRepo.Create(ctx, tx, entry); err != nil {
		return err
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeLedgerEntry,
		EventType:     domain.EventTypeOrderCreated,
		Payload: domain.OrderCreatedEvent{
			EntryID:   entry.ID,
			AccountID: entry.AccountID,
			Plan:      string(entry.Plan),
			Amount:    entry.Amount.String(),
			Credits:   entry.Credits,
		}.ToMap(),
		CreatedAt: entry.CreatedAt,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ListEntriesInput represents input for listing an account's ledger entries.
type ListEntriesInput struct {
	AccountID string
	Limit     int
	Offset    int
}

// ListEntries lists the caller's top-up history, newest first.
func (uc *OrderUseCase) ListEntries(ctx context.Context, input ListEntriesInput) ([]*domain.LedgerEntry, error) {
	if strings.TrimSpace(input.AccountID) == "" {
		return nil, domain.ErrUnauthorized
	}

	if input.Limit <= 0 {
		input.Limit = 20
	}

	if input.Limit > 100 {
		input.Limit = 100
	}

	if input.Offset < 0 {
		input.Offset = 0
	}

	return uc.ledgerRepo.ListByAccount(ctx, input.AccountID, input.Limit, input.Offset)
}
