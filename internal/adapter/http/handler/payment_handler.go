package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/usecase"
)

// OrderService opens gateway orders and lists ledger entries.
type OrderService interface {
	CreateOrder(ctx context.Context, input usecase.CreateOrderInput) (*usecase.OrderResult, error)
	ListEntries(ctx context.Context, input usecase.ListEntriesInput) ([]*domain.LedgerEntry, error)
}

// SettlementService verifies payments against the gateway.
type SettlementService interface {
	VerifyPayment(ctx context.Context, orderID string) (*domain.Settlement, error)
}

// PaymentHandler serves the top-up flow.
type PaymentHandler struct {
	orders      OrderService
	settlements SettlementService
	logger      zerolog.Logger
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(orders OrderService, settlements SettlementService, logger zerolog.Logger) *PaymentHandler {
	return &PaymentHandler{orders: orders, settlements: settlements, logger: logger}
}

// CreateOrder handles POST /api/user/pay-razor.
func (h *PaymentHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req dto.PayRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, false, MsgMissingDetails)
		return
	}

	accountID, _ := middleware.AccountIDFromContext(r.Context())

	res, err := h.orders.CreateOrder(r.Context(), req.ToUseCaseInput(accountID))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.OrderResponse{Success: true, Order: res.Order})
}

// VerifyPayment handles POST /api/user/verify-razor.
func (h *PaymentHandler) VerifyPayment(w http.ResponseWriter, r *http.Request) {
	var req dto.VerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, false, MsgMissingDetails)
		return
	}

	settlement, err := h.settlements.VerifyPayment(r.Context(), req.OrderID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	h.logger.Info().
		Str("order_id", settlement.OrderID).
		Str("entry_id", settlement.EntryID).
		Str("account_id", settlement.AccountID).
		Int64("credits", settlement.Credits).
		Msg("payment settled")

	writeMessage(w, true, MsgCreditsAdded)
}

// ListEntries handles GET /api/user/entries.
func (h *PaymentHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	entries, err := h.orders.ListEntries(r.Context(), usecase.ListEntriesInput{
		AccountID: accountID,
		Limit:     parseIntQuery(r, "limit", 20),
		Offset:    parseIntQuery(r, "offset", 0),
	})
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.EntriesFromDomain(entries))
}
