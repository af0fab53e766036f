package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/iho/creditledger/internal/adapter/http/dto"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/auth"
)

// ContextKey is the type for context keys
type ContextKey string

const (
	// AccountIDContextKey is the context key for the authenticated account id
	AccountIDContextKey ContextKey = "account_id"

	// RoleContextKey is the context key for the authenticated account's role
	RoleContextKey ContextKey = "role"

	// TokenHeader is the header the web client sends its session token in.
	TokenHeader = "token"

	// NotAuthorizedMessage is returned for any missing or bad token.
	NotAuthorizedMessage = "Not Authorized. Login Again"

	// ForbiddenMessage is returned when a valid token lacks the required role.
	ForbiddenMessage = "Insufficient permissions"
)

// TokenVerifier validates a session token.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware rejects requests without a valid token and stores the
// account id from the token in the request context. onFailure, when set,
// receives "missing_token" or "invalid_token".
func AuthMiddleware(verifier TokenVerifier, onFailure func(reason string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				rejectUnauthorized(w, onFailure, "missing_token")
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				rejectUnauthorized(w, onFailure, "invalid_token")
				return
			}

			ctx := context.WithValue(r.Context(), AccountIDContextKey, claims.AccountID)
			ctx = context.WithValue(ctx, RoleContextKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated callers whose role does not allow
// required. It must run after AuthMiddleware. onFailure, when set, receives
// "forbidden".
func RequireRole(required domain.Role, onFailure func(reason string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, _ := r.Context().Value(RoleContextKey).(domain.Role)
			if !role.Allows(required) {
				if onFailure != nil {
					onFailure("forbidden")
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(dto.Envelope{Success: false, Message: ForbiddenMessage})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// extractToken reads the token header first, then a Bearer authorization.
func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != "" {
		return token
	}

	parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Failures keep HTTP 200; clients read the success flag.
func rejectUnauthorized(w http.ResponseWriter, onFailure func(string), reason string) {
	if onFailure != nil {
		onFailure(reason)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(dto.Envelope{Success: false, Message: NotAuthorizedMessage})
}

// AccountIDFromContext extracts the authenticated account id from context
func AccountIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AccountIDContextKey).(string)
	return id, ok && id != ""
}

// WithAccountID returns a context carrying an authenticated account id.
func WithAccountID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, AccountIDContextKey, accountID)
}

// WithRole returns a context carrying an authenticated role.
func WithRole(ctx context.Context, role domain.Role) context.Context {
	return context.WithValue(ctx, RoleContextKey, role)
}
