package middleware

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/creditledger/internal/usecase/mocks"
)

func newIdempotentRequest(key string) *http.Request {
	return newAccountRequest("acc-1", key, `{}`)
}

func newAccountRequest(accountID, key, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/user/pay-razor", bytes.NewBufferString(body))
	req.Header.Set(IdempotencyKeyHeader, key)
	return req.WithContext(WithAccountID(req.Context(), accountID))
}

func TestIdempotencyMiddleware_StoreErrorStopsRequest(t *testing.T) {
	var called bool
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
		return false, nil, context.DeadlineExceeded
	}
	mw := NewIdempotencyMiddleware(store, 0, nil)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, newIdempotentRequest("key-err"))

	assert.False(t, called, "handler should not be called when store errors")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.JSONEq(t, `{"success":false,"message":"Internal Server Error"}`, rr.Body.String())
}

func TestIdempotencyMiddleware_SkipsNonMutatingRequests(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
		t.Fatal("store must not be consulted for GET")
		return false, nil, nil
	}
	mw := NewIdempotencyMiddleware(store, 0, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/user/credits", nil)
	req.Header.Set(IdempotencyKeyHeader, "key")
	rr := httptest.NewRecorder()

	called := false
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})).ServeHTTP(rr, req)

	assert.True(t, called)
}

func TestIdempotencyMiddleware_ReplaysSuccessfulResponse(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	replays := 0
	mw := NewIdempotencyMiddleware(store, time.Minute, func() { replays++ })

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"order":{"id":"order_1"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newIdempotentRequest("key-1"))

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newIdempotentRequest("key-1"))

	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, replays)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))
	assert.Equal(t, first.Body.String(), second.Body.String())
}

func TestIdempotencyMiddleware_ReleasesFailedOutcome(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute, nil)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"success":false,"message":"Internal Server Error"}`))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest("key-2"))
	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest("key-2"))

	assert.Equal(t, 2, calls, "failed outcomes must not be replayed")

	_, held := store.Stored(storeKey("acc-1", http.MethodPost, "/api/user/pay-razor", "key-2", []byte(`{}`)))
	assert.False(t, held)
}

func TestIdempotencyMiddleware_InFlightDuplicateRejected(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute, nil)

	key := storeKey("acc-1", http.MethodPost, "/api/user/pay-razor", "key-3", []byte(`{}`))
	_, _, err := store.CheckAndSet(context.Background(), key, nil, time.Minute)
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run while the first request is in flight")
	})).ServeHTTP(rr, newIdempotentRequest("key-3"))

	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestIdempotencyMiddleware_KeysAreScopedToRoute(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute, nil)

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), newIdempotentRequest("shared"))

	other := httptest.NewRequest(http.MethodPost, "/api/user/verify-razor", bytes.NewBufferString(`{}`))
	other.Header.Set(IdempotencyKeyHeader, "shared")
	other = other.WithContext(WithAccountID(other.Context(), "acc-1"))
	handler.ServeHTTP(httptest.NewRecorder(), other)

	assert.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_KeysAreScopedToAccount(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute, nil)

	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accountID, _ := AccountIDFromContext(r.Context())
		_, _ = w.Write([]byte(`{"success":true,"message":"` + accountID + `"}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, newAccountRequest("acc-1", "shared", `{}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newAccountRequest("acc-2", "shared", `{}`))

	assert.JSONEq(t, `{"success":true,"message":"acc-1"}`, first.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"acc-2"}`, second.Body.String())
	assert.Empty(t, second.Header().Get("X-Idempotency-Replay"))
}

func TestIdempotencyMiddleware_DifferentBodyIsNotReplayed(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	mw := NewIdempotencyMiddleware(store, time.Minute, nil)

	var seen []string
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		seen = append(seen, string(body))
		_, _ = w.Write([]byte(`{"success":true}`))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), newAccountRequest("acc-1", "key-4", `{"amount":100}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, newAccountRequest("acc-1", "key-4", `{"amount":500}`))

	assert.Equal(t, []string{`{"amount":100}`, `{"amount":500}`}, seen, "handler must see the original body")
	assert.Empty(t, second.Header().Get("X-Idempotency-Replay"))
}

func TestIdempotencyMiddleware_PassesThroughWithoutAccount(t *testing.T) {
	store := mocks.NewMockIdempotencyStore()
	store.CheckAndSetFunc = func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
		t.Fatal("store must not be consulted for anonymous requests")
		return false, nil, nil
	}
	mw := NewIdempotencyMiddleware(store, time.Minute, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/user/login", bytes.NewBufferString(`{}`))
	req.Header.Set(IdempotencyKeyHeader, "shared")

	calls := 0
	handler := mw.Wrap(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1, calls)
}
