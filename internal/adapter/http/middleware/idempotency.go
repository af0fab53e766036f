package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/usecase"
)

const (
	// IdempotencyKeyHeader is the header name for idempotency keys.
	IdempotencyKeyHeader = "Idempotency-Key"
	pendingMarker        = "processing"
	maxIdempotentBody    = 1 << 20
)

// IdempotencyMiddleware replays the stored response of a request that the
// same account already sent, with the same body, under the same
// Idempotency-Key. It must run after AuthMiddleware; requests without an
// authenticated account are passed through untouched.
type IdempotencyMiddleware struct {
	store    usecase.IdempotencyStore
	ttl      time.Duration
	onReplay func()
}

// NewIdempotencyMiddleware creates a new IdempotencyMiddleware. A zero ttl
// uses usecase.IdempotencyKeyTTL.
func NewIdempotencyMiddleware(store usecase.IdempotencyStore, ttl time.Duration, onReplay func()) *IdempotencyMiddleware {
	if ttl <= 0 {
		ttl = usecase.IdempotencyKeyTTL
	}
	return &IdempotencyMiddleware{store: store, ttl: ttl, onReplay: onReplay}
}

// Wrap wraps an http.Handler with idempotency checking.
func (m *IdempotencyMiddleware) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodPut {
			next.ServeHTTP(w, r)
			return
		}

		key := r.Header.Get(IdempotencyKeyHeader)
		accountID, authenticated := AccountIDFromContext(r.Context())
		if key == "" || !authenticated {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxIdempotentBody))
		if err != nil {
			writeEnvelope(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		r.Body = io.NopCloser(bytes.NewReader(body))

		key = storeKey(accountID, r.Method, r.URL.Path, key, body)

		exists, cachedResponse, err := m.store.CheckAndSet(r.Context(), key, nil, m.ttl)
		if err != nil {
			writeEnvelope(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		if exists {
			if cachedResponse == nil || string(cachedResponse) == pendingMarker {
				writeEnvelope(w, http.StatusConflict, "Request already in progress")
				return
			}
			if m.onReplay != nil {
				m.onReplay()
			}
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Idempotency-Replay", "true")
			_, _ = w.Write(cachedResponse)
			return
		}

		recorder := &responseRecorder{
			ResponseWriter: w,
			body:           &bytes.Buffer{},
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(recorder, r)

		// Only successful outcomes are pinned; anything else may be retried.
		if recorder.statusCode >= 200 && recorder.statusCode < 300 && succeeded(recorder.body.Bytes()) {
			_ = m.store.Update(r.Context(), key, recorder.body.Bytes(), m.ttl)
			return
		}
		_ = m.store.Release(r.Context(), key)
	})
}

// storeKey scopes a client key to the caller, the route and the exact body,
// so a key can only ever replay the caller's own identical request.
func storeKey(accountID, method, path, key string, body []byte) string {
	sum := sha256.Sum256(body)
	return accountID + " " + method + " " + path + " " + key + " " + hex.EncodeToString(sum[:])
}

func succeeded(body []byte) bool {
	var env dto.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	return env.Success
}

type responseRecorder struct {
	http.ResponseWriter
	statusCode int
	body       *bytes.Buffer
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func writeEnvelope(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dto.Envelope{Success: false, Message: message})
}
