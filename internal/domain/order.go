package domain

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Gateway order statuses.
const (
	OrderStatusCreated   = "created"
	OrderStatusAttempted = "attempted"
	OrderStatusPaid      = "paid"
)

// GatewayOrder is the payment provider's view of an order. Receipt carries the
// ledger entry id the order was created for.
type GatewayOrder struct {
	ID         string         `json:"id"`
	Entity     string         `json:"entity"`
	Amount     int64          `json:"amount"`
	AmountPaid int64          `json:"amount_paid"`
	AmountDue  int64          `json:"amount_due"`
	Currency   string         `json:"currency"`
	Receipt    string         `json:"receipt"`
	Status     string         `json:"status"`
	Attempts   int            `json:"attempts"`
	Notes      OrderNotes     `json:"notes,omitempty"`
	CreatedAt  int64          `json:"created_at"`
}

// IsPaid reports whether the provider considers the order fully paid.
func (o *GatewayOrder) IsPaid() bool {
	return o.Status == OrderStatusPaid
}

// CreateOrderRequest is what the gateway needs to open an order.
type CreateOrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// OrderNotes are free-form key/value pairs attached to an order. The provider
// encodes an order without notes as an empty JSON array, not an object.
type OrderNotes map[string]any

// UnmarshalJSON accepts an object. null and an empty array decode as nil.
func (n *OrderNotes) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*n = nil
		return nil
	}
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
		if len(items) > 0 {
			return errors.New("order notes: expected an object or an empty array")
		}
		*n = nil
		return nil
	}

	var m map[string]any
	if err := json.Unmarshal(trimmed, &m); err != nil {
		return err
	}
	*n = m
	return nil
}
