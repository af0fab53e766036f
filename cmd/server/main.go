package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/iho/creditledger/internal/adapter/gateway/razorpay"
	httpAdapter "github.com/iho/creditledger/internal/adapter/http"
	"github.com/iho/creditledger/internal/adapter/http/handler"
	"github.com/iho/creditledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/creditledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/creditledger/internal/adapter/repository/redis"
	"github.com/iho/creditledger/internal/infrastructure/auth"
	"github.com/iho/creditledger/internal/infrastructure/config"
	"github.com/iho/creditledger/internal/infrastructure/logger"
	"github.com/iho/creditledger/internal/infrastructure/metrics"
	"github.com/iho/creditledger/internal/infrastructure/postgres"
	"github.com/iho/creditledger/internal/infrastructure/redis"
	"github.com/iho/creditledger/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "creditledger",
	})
	log.Logger = appLogger

	if err := cfg.Validate(); err != nil {
		appLogger.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	// Connect to PostgreSQL
	pool, err := postgres.ConnectWithRetry(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	}, cfg.DatabaseConnAttempts, appLogger)
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	ledgerRepo := postgresRepo.NewLedgerRepository(pool)
	outboxRepo := outboxRepository(cfg, pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()

	gateway := razorpay.NewClient(razorpay.Config{
		BaseURL:   cfg.RazorpayBaseURL,
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Timeout:   cfg.GatewayTimeout,
	})
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize use cases
	credentialUC := usecase.NewCredentialUseCase(txManager, accountRepo, outboxRepo, idGen, jwtManager, m)
	orderUC := usecase.NewOrderUseCase(txManager, ledgerRepo, outboxRepo, gateway, idGen, cfg.Currency, m)
	settlementUC := usecase.NewSettlementUseCase(txManager, accountRepo, ledgerRepo, outboxRepo, gateway, idGen, m)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, ledgerRepo)

	if cfg.RazorpayWebhookSecret == "" {
		appLogger.Warn().Msg("RAZORPAY_WEBHOOK_SECRET is empty, webhook deliveries will be rejected")
	}

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).
		OnLimit(func(route string) { m.RateLimitHits.WithLabelValues(route).Inc() })

	// Initialize handlers
	userHandler := handler.NewUserHandler(credentialUC, appLogger)
	paymentHandler := handler.NewPaymentHandler(orderUC, settlementUC, appLogger)
	webhookHandler := handler.NewWebhookHandler(settlementUC, cfg.RazorpayWebhookSecret, appLogger, func(event, status string) {
		m.WebhookDeliveries.WithLabelValues(event, status).Inc()
	})
	reconciliationHandler := handler.NewReconciliationHandler(reconciliationUC, appLogger, func(n int) {
		m.ReconciliationGaps.Set(float64(n))
	})
	healthHandler := handler.NewHealthHandler(
		handler.Check{Name: "postgres", Probe: pool.Ping},
		handler.Check{Name: "redis", Probe: func(ctx context.Context) error {
			return redis.Ping(ctx, redisClient, 2*time.Second)
		}},
	)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		UserHandler:           userHandler,
		PaymentHandler:        paymentHandler,
		WebhookHandler:        webhookHandler,
		ReconciliationHandler: reconciliationHandler,
		HealthHandler:         healthHandler,
		TokenVerifier:         jwtManager,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		TrustProxy:            cfg.HTTPTrustProxy,
		RateLimiter:           rateLimiter,
		Metrics:               m,
		MetricsHandler:        promhttp.Handler(),
		Logger:                appLogger,
	})

	server := newHTTPServer(cfg, router)

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info().Msg("server stopped")
	return nil
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

// outboxRepository returns the no-op repository when the outbox is disabled.
func outboxRepository(cfg *config.Config, pool *pgxpool.Pool) usecase.OutboxRepository {
	if !cfg.OutboxEnabled {
		return postgresRepo.NewNullOutboxRepository()
	}
	return postgresRepo.NewOutboxRepository(pool)
}
