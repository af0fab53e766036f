package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
)

const maxBodyBytes = 1 << 20

// Response messages. Clients match on these strings.
const (
	MsgMissingDetails   = "Missing Details"
	MsgPlanNotFound     = "Plan not found"
	MsgUserExists       = "User already exists"
	MsgUserNotFound     = "User does not exist"
	MsgInvalidCreds     = "Invalid Credentials"
	MsgNotAuthorized    = "Not Authorized. Login Again"
	MsgCreditsAdded     = "Credits Added"
	MsgAlreadySettled   = "payment failed"
	MsgPaymentFailed    = "Payment Failed"
	MsgEntryNotFound    = "Transaction not found"
	MsgInternalError    = "Internal Server Error"
	MsgInvalidBody      = "Invalid request body"
	MsgEventIgnored     = "Event ignored"
	MsgInvalidSignature = "Invalid signature"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeMessage writes the {success,message} envelope with HTTP 200.
func writeMessage(w http.ResponseWriter, success bool, message string) {
	writeJSON(w, http.StatusOK, dto.Envelope{Success: success, Message: message})
}

// writeError reports err as a failed envelope. Errors that do not map to a
// client message are logged and reported as an internal error.
func writeError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	msg, known := errorMessage(err)
	if !known {
		logger.Error().Err(err).Msg("request failed")
	}
	writeMessage(w, false, msg)
}

// errorMessage maps domain errors to client messages. Specific sentinels are
// checked before their categories.
func errorMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrUnknownPlan):
		return MsgPlanNotFound, true
	case errors.Is(err, domain.ErrValidation):
		return MsgMissingDetails, true
	case errors.Is(err, domain.ErrEmailTaken):
		return MsgUserExists, true
	case errors.Is(err, domain.ErrAccountNotFound):
		return MsgUserNotFound, true
	case errors.Is(err, domain.ErrEntryNotFound):
		return MsgEntryNotFound, true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return MsgInvalidCreds, true
	case errors.Is(err, domain.ErrAuth):
		return MsgNotAuthorized, true
	case errors.Is(err, domain.ErrAlreadySettled):
		return MsgAlreadySettled, true
	case errors.Is(err, domain.ErrPaymentNotCompleted):
		return MsgPaymentFailed, true
	default:
		return MsgInternalError, false
	}
}

// decodeJSON decodes a bounded request body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
