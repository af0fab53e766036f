package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/iho/creditledger/internal/adapter/http/handler"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	UserHandler           *handler.UserHandler
	PaymentHandler        *handler.PaymentHandler
	WebhookHandler        *handler.WebhookHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	TokenVerifier    middleware.TokenVerifier
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	TrustProxy       bool
	RateLimiter      *middleware.RateLimiter
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	if cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	var onAuthFailure func(string)
	var onReplay func()
	if cfg.Metrics != nil {
		onAuthFailure = func(reason string) { cfg.Metrics.AuthFailures.WithLabelValues(reason).Inc() }
		onReplay = cfg.Metrics.IdempotencyReplays.Inc
	}
	requireAuth := middleware.AuthMiddleware(cfg.TokenVerifier, onAuthFailure)

	idempotent := func(next http.Handler) http.Handler { return next }
	if cfg.IdempotencyStore != nil {
		idempotent = middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, onReplay).Wrap
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/user", func(r chi.Router) {
			// Credential routes are throttled per client
			r.Group(func(r chi.Router) {
				if cfg.RateLimiter != nil {
					r.Use(cfg.RateLimiter.Limit)
				}
				r.Post("/register", cfg.UserHandler.Register)
				r.Post("/login", cfg.UserHandler.Login)
			})

			r.Post("/verify-razor", cfg.PaymentHandler.VerifyPayment)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/credits", cfg.UserHandler.Credits)
				r.With(idempotent).Post("/pay-razor", cfg.PaymentHandler.CreateOrder)
				r.Get("/entries", cfg.PaymentHandler.ListEntries)
			})
		})

		r.Post("/webhooks/razorpay", cfg.WebhookHandler.Razorpay)

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireRole(domain.RoleAdmin, onAuthFailure))
			r.Get("/reconciliation", cfg.ReconciliationHandler.Report)
			r.Get("/reconciliation/{accountID}", cfg.ReconciliationHandler.Account)
		})
	})

	return r
}
