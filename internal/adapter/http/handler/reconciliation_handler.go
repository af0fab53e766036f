package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/usecase"
)

// ReconciliationService compares balances against settled ledger entries.
type ReconciliationService interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

// ReconciliationHandler exposes balance reconciliation reports.
type ReconciliationHandler struct {
	svc    ReconciliationService
	logger zerolog.Logger
	onGaps func(discrepancies int)
}

// NewReconciliationHandler creates a new ReconciliationHandler. onGaps
// receives the discrepancy count of every full report and may be nil.
func NewReconciliationHandler(svc ReconciliationService, logger zerolog.Logger, onGaps func(int)) *ReconciliationHandler {
	return &ReconciliationHandler{svc: svc, logger: logger, onGaps: onGaps}
}

// Report handles GET /api/admin/reconciliation.
func (h *ReconciliationHandler) Report(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GenerateReconciliationReport(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	if h.onGaps != nil {
		h.onGaps(len(report.Discrepancies))
	}
	if len(report.Discrepancies) > 0 {
		h.logger.Warn().Int("discrepancies", len(report.Discrepancies)).Msg("balance discrepancies found")
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationResponse{Success: true, Report: report})
}

// Account handles GET /api/admin/reconciliation/{accountID}.
func (h *ReconciliationHandler) Account(w http.ResponseWriter, r *http.Request) {
	result, err := h.svc.ReconcileAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountReconciliationResponse{Success: true, Result: result})
}
