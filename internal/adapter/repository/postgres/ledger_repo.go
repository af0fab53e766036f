package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/postgres/generated"
	"github.com/iho/creditledger/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{
		queries: generated.New(db),
	}
}

// Create inserts an unsettled entry.
func (r *LedgerRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.LedgerEntry) error {
	queries, err := txQueries(tx)
	if err != nil {
		return err
	}

	_, err = queries.CreateLedgerEntry(ctx, generated.CreateLedgerEntryParams{
		ID:        entry.ID,
		AccountID: entry.AccountID,
		Plan:      string(entry.Plan),
		Amount:    decimalToNumeric(entry.Amount),
		Credits:   entry.Credits,
		CreatedAt: timeToPgTimestamptz(entry.CreatedAt),
	})
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrAccountNotFound
		}
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

// GetByID retrieves an entry by ID.
func (r *LedgerRepository) GetByID(ctx context.Context, id string) (*domain.LedgerEntry, error) {
	row, err := r.queries.GetLedgerEntryByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, err
	}

	return rowToLedgerEntry(row), nil
}

// MarkSettled flips the settled flag with a conditional update. When no row
// matches, a follow-up read inside the same transaction tells a missing entry
// from one that was already settled.
func (r *LedgerRepository) MarkSettled(ctx context.Context, tx usecase.Transaction, id string, settledAt time.Time) (*domain.LedgerEntry, error) {
	queries, err := txQueries(tx)
	if err != nil {
		return nil, err
	}

	row, err := queries.SettleLedgerEntry(ctx, generated.SettleLedgerEntryParams{
		ID:        id,
		SettledAt: timeToPgTimestamptz(settledAt),
	})
	if err == nil {
		return rowToLedgerEntry(row), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("settle ledger entry: %w", err)
	}

	if _, err := queries.GetLedgerEntryByID(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("load ledger entry: %w", err)
	}

	return nil, domain.ErrAlreadySettled
}

// ListByAccount lists an account's entries, newest first.
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string, limit, offset int) ([]*domain.LedgerEntry, error) {
	rows, err := r.queries.ListLedgerEntriesByAccount(ctx, generated.ListLedgerEntriesByAccountParams{
		AccountID: accountID,
		Limit:     int32(limit),
		Offset:    int32(offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.LedgerEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, rowToLedgerEntry(row))
	}

	return entries, nil
}

// SumSettledCredits totals the credits of an account's settled entries.
func (r *LedgerRepository) SumSettledCredits(ctx context.Context, accountID string) (int64, error) {
	return r.queries.SumSettledCredits(ctx, accountID)
}

func rowToLedgerEntry(row generated.LedgerEntry) *domain.LedgerEntry {
	return &domain.LedgerEntry{
		ID:        row.ID,
		AccountID: row.AccountID,
		Plan:      domain.PlanID(row.Plan),
		Amount:    numericToDecimal(row.Amount),
		Credits:   row.Credits,
		Settled:   row.Settled,
		SettledAt: pgTimestamptzToPtr(row.SettledAt),
		CreatedAt: row.CreatedAt.Time,
	}
}
