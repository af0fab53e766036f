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

// CredentialService is what UserHandler needs from the credential use case.
type CredentialService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*usecase.AuthResult, error)
	Login(ctx context.Context, input usecase.LoginInput) (*usecase.AuthResult, error)
	GetCredits(ctx context.Context, accountID string) (*domain.Account, error)
}

// UserHandler serves registration, login and balance lookups.
type UserHandler struct {
	credentials CredentialService
	logger      zerolog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(credentials CredentialService, logger zerolog.Logger) *UserHandler {
	return &UserHandler{credentials: credentials, logger: logger}
}

// Register handles POST /api/user/register.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, false, MsgMissingDetails)
		return
	}

	res, err := h.credentials.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthFromResult(res))
}

// Login handles POST /api/user/login.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeMessage(w, false, MsgMissingDetails)
		return
	}

	res, err := h.credentials.Login(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AuthFromResult(res))
}

// Credits handles GET /api/user/credits.
func (h *UserHandler) Credits(w http.ResponseWriter, r *http.Request) {
	accountID, _ := middleware.AccountIDFromContext(r.Context())

	account, err := h.credentials.GetCredits(r.Context(), accountID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CreditsFromDomain(account))
}
