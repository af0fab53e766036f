package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/adapter/gateway/razorpay"
	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
)

// WebhookHandler receives provider events and settles paid orders.
type WebhookHandler struct {
	settlements SettlementService
	secret      string
	logger      zerolog.Logger
	onDelivery  func(event, status string)
}

// NewWebhookHandler creates a new WebhookHandler. onDelivery may be nil.
func NewWebhookHandler(settlements SettlementService, secret string, logger zerolog.Logger, onDelivery func(event, status string)) *WebhookHandler {
	return &WebhookHandler{
		settlements: settlements,
		secret:      secret,
		logger:      logger,
		onDelivery:  onDelivery,
	}
}

// Razorpay handles POST /api/webhooks/razorpay. Replayed deliveries of an
// order that is already settled are acknowledged as success.
func (h *WebhookHandler) Razorpay(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.record("unknown", "bad_request")
		writeJSON(w, http.StatusBadRequest, dto.Envelope{Success: false, Message: MsgInvalidBody})
		return
	}

	if err := razorpay.VerifySignature(h.secret, body, r.Header.Get(razorpay.SignatureHeader)); err != nil {
		h.record("unknown", "bad_signature")
		writeJSON(w, http.StatusUnauthorized, dto.Envelope{Success: false, Message: MsgInvalidSignature})
		return
	}

	evt, err := razorpay.ParseWebhookEvent(body)
	if err != nil {
		h.record("unknown", "bad_request")
		writeJSON(w, http.StatusBadRequest, dto.Envelope{Success: false, Message: MsgInvalidBody})
		return
	}

	if evt.Event != razorpay.EventOrderPaid {
		h.record(evt.Event, "ignored")
		writeMessage(w, true, MsgEventIgnored)
		return
	}

	_, err = h.settlements.VerifyPayment(r.Context(), evt.OrderID())
	switch {
	case err == nil:
		h.record(evt.Event, "settled")
		writeMessage(w, true, MsgCreditsAdded)
	case errors.Is(err, domain.ErrAlreadySettled):
		h.record(evt.Event, "duplicate")
		writeMessage(w, true, MsgCreditsAdded)
	default:
		h.record(evt.Event, "failed")
		h.logger.Warn().Err(err).Str("order_id", evt.OrderID()).Msg("webhook settlement failed")
		writeError(w, h.logger, err)
	}
}

func (h *WebhookHandler) record(event, status string) {
	if h.onDelivery != nil {
		h.onDelivery(event, status)
	}
}
