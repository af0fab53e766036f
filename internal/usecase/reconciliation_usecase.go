package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/iho/creditledger/internal/domain"
)

// reconcilePageSize bounds a single account listing page during a full run.
const reconcilePageSize = 500

// ReconciliationUseCase checks recorded credit balances against the ledger.
type ReconciliationUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
	}
}

// ReconciliationResult represents the result of a reconciliation check
type ReconciliationResult struct {
	AccountID       string    `json:"account_id"`
	RecordedBalance int64     `json:"recorded_balance"`
	ExpectedBalance int64     `json:"expected_balance"`
	Difference      int64     `json:"difference"`
	IsReconciled    bool      `json:"is_reconciled"`
	LastChecked     time.Time `json:"last_checked"`
}

// ReconcileAccount compares an account's recorded balance with the default
// grant plus every settled credit in its ledger.
func (uc *ReconciliationUseCase) ReconcileAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	settled, err := uc.ledgerRepo.SumSettledCredits(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("sum settled credits: %w", err)
	}

	expected := domain.DefaultCreditBalance + settled
	diff := account.CreditBalance - expected

	return &ReconciliationResult{
		AccountID:       accountID,
		RecordedBalance: account.CreditBalance,
		ExpectedBalance: expected,
		Difference:      diff,
		IsReconciled:    diff == 0,
		LastChecked:     time.Now().UTC(),
	}, nil
}

// ReconcileAllAccounts reconciles all accounts in the system
func (uc *ReconciliationUseCase) ReconcileAllAccounts(ctx context.Context) ([]*ReconciliationResult, error) {
	var results []*ReconciliationResult

	for offset := 0; ; offset += reconcilePageSize {
		accounts, err := uc.accountRepo.List(ctx, reconcilePageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.ReconcileAccount(ctx, account.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to reconcile account %s: %w", account.ID, err)
			}
			results = append(results, result)
		}

		if len(accounts) < reconcilePageSize {
			break
		}
	}

	return results, nil
}

// ReconciliationReport represents a full reconciliation report
type ReconciliationReport struct {
	TotalAccounts      int                     `json:"total_accounts"`
	ReconciledAccounts int                     `json:"reconciled_accounts"`
	Discrepancies      []*ReconciliationResult `json:"discrepancies"`
	CheckedAt          time.Time               `json:"checked_at"`
}

// GenerateReconciliationReport generates a comprehensive reconciliation report
func (uc *ReconciliationUseCase) GenerateReconciliationReport(ctx context.Context) (*ReconciliationReport, error) {
	results, err := uc.ReconcileAllAccounts(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		TotalAccounts: len(results),
		Discrepancies: make([]*ReconciliationResult, 0),
		CheckedAt:     time.Now().UTC(),
	}

	for _, result := range results {
		if result.IsReconciled {
			report.ReconciledAccounts++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	return report, nil
}
