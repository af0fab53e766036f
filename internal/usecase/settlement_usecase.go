package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iho/creditledger/internal/domain"
)

// SettlementUseCase verifies gateway payments and credits accounts exactly once.
type SettlementUseCase struct {
	txManager   TransactionManager
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	outboxRepo  OutboxRepository
	gateway     PaymentGateway
	idGen       IDGenerator
	metrics     MetricsRecorder
}

// NewSettlementUseCase creates a new SettlementUseCase.
func NewSettlementUseCase(
	txManager TransactionManager,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	outboxRepo OutboxRepository,
	gateway PaymentGateway,
	idGen IDGenerator,
	metrics MetricsRecorder,
) *SettlementUseCase {
	return &SettlementUseCase{
		txManager:   txManager,
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		outboxRepo:  outboxRepo,
		gateway:     gateway,
		idGen:       idGen,
		metrics:     metricsOrNoop(metrics),
	}
}

// VerifyPayment confirms the order is paid, then settles its ledger entry and
// credits the owning account in one transaction.
//
// The settle step is a conditional update (settled = false -> true); only the
// caller whose update matched a row goes on to credit the account, so
// concurrent or replayed verifications of one order credit it once.
func (uc *SettlementUseCase) VerifyPayment(ctx context.Context, orderID string) (*domain.Settlement, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, domain.ErrMissingOrderID
	}

	start := time.Now()
	order, err := uc.gateway.FetchOrder(ctx, orderID)
	uc.metrics.GatewayCall("fetch_order", time.Since(start), err)
	if err != nil {
		uc.metrics.SettlementResult(SettlementFailed)
		return nil, fmt.Errorf("fetch gateway order %s: %w", orderID, err)
	}

	if !order.IsPaid() {
		uc.metrics.SettlementResult(SettlementNotPaid)
		return nil, domain.ErrPaymentNotCompleted
	}

	if order.Receipt == "" {
		uc.metrics.SettlementResult(SettlementFailed)
		return nil, domain.ErrEntryNotFound
	}

	settlement, err := uc.settle(ctx, order)
	switch {
	case err == nil:
		uc.metrics.SettlementResult(SettlementSettled)
	case errors.Is(err, domain.ErrAlreadySettled):
		uc.metrics.SettlementResult(SettlementAlreadySettled)
	default:
		uc.metrics.SettlementResult(SettlementFailed)
	}

	return settlement, err
}

func (uc *SettlementUseCase) settle(ctx context.Context, order *domain.GatewayOrder) (*domain.Settlement, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	entry, err := uc.ledgerRepo.MarkSettled(ctx, tx, order.Receipt, now)
	if err != nil {
		return nil, err
	}

	newBalance, err := uc.accountRepo.AddCredits(ctx, tx, entry.AccountID, entry.Credits, now)
	if err != nil {
		return nil, err
	}

	settlement := &domain.Settlement{
		EntryID:    entry.ID,
		AccountID:  entry.AccountID,
		OrderID:    order.ID,
		Credits:    entry.Credits,
		NewBalance: newBalance,
		SettledAt:  now,
	}

	event := &domain.OutboxEvent{
		ID:            uc.idGen.Generate(),
		AggregateID:   entry.ID,
		AggregateType: domain.AggregateTypeLedgerEntry,
		EventType:     domain.EventTypePaymentSettled,
		Payload: domain.PaymentSettledEvent{
			EntryID:    settlement.EntryID,
			AccountID:  settlement.AccountID,
			OrderID:    settlement.OrderID,
			Credits:    settlement.Credits,
			NewBalance: settlement.NewBalance,
			SettledAt:  now.Format(time.RFC3339),
		}.ToMap(),
		CreatedAt: now,
	}
	if err := uc.outboxRepo.Create(ctx, tx, event); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return settlement, nil
}
