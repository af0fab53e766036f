package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	postgresRepo "github.com/iho/creditledger/internal/adapter/repository/postgres"
	"github.com/iho/creditledger/internal/domain"
	"github.com/iho/creditledger/internal/infrastructure/auth"
	"github.com/iho/creditledger/internal/infrastructure/config"
	"github.com/iho/creditledger/internal/infrastructure/eventpublisher"
	"github.com/iho/creditledger/internal/infrastructure/logger"
	"github.com/iho/creditledger/internal/infrastructure/postgres"
	"github.com/iho/creditledger/internal/usecase"
)

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console", Service: "creditledger-cli"})
	return cfg, log, nil
}

func connect(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*pgxpool.Pool, error) {
	return postgres.ConnectWithRetry(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       4,
		ConnectTimeout: cfg.DatabaseTimeout,
	}, cfg.DatabaseConnAttempts, log)
}

func migrateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (defaults to $MIGRATIONS_PATH)")

	migrator := func() (*postgres.Migrator, error) {
		cfg, log, err := loadConfig()
		if err != nil {
			return nil, err
		}
		if path == "" {
			path = cfg.MigrationsPath
		}
		return postgres.NewMigrator(cfg.DatabaseURL, path, log), nil
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Up()
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the last migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				return m.Down()
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				m, err := migrator()
				if err != nil {
					return err
				}
				v, dirty, err := m.Version()
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version=%d dirty=%v\n", v, dirty)
				return nil
			},
		},
	)
	return cmd
}

type relayOptions struct {
	follow    bool
	batchSize int
	interval  time.Duration
	prune     time.Duration
}

func outboxCmd() *cobra.Command {
	opts := relayOptions{}

	relay := &cobra.Command{
		Use:   "relay",
		Short: "Publish unpublished outbox events to Kafka, or to the log when no brokers are configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			pool, err := connect(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			var publisher eventpublisher.Publisher = eventpublisher.NewLogPublisher(log)
			if cfg.KafkaEnabled() {
				kafka := eventpublisher.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
				defer kafka.Close()
				publisher = kafka
			}

			ep := eventpublisher.NewEventPublisher(eventpublisher.Config{
				OutboxRepo: postgresRepo.NewOutboxRepository(pool),
				Publisher:  publisher,
				Logger:     log,
				BatchSize:  opts.batchSize,
				Interval:   opts.interval,
			})
			return runRelay(cmd, ep, opts)
		},
	}
	relay.Flags().BoolVar(&opts.follow, "follow", false, "Keep polling until interrupted")
	relay.Flags().IntVar(&opts.batchSize, "batch", 100, "Events per batch")
	relay.Flags().DurationVar(&opts.interval, "interval", 5*time.Second, "Polling interval with --follow")
	relay.Flags().DurationVar(&opts.prune, "prune", 0, "Delete published events older than this after relaying")

	cmd := &cobra.Command{
		Use:   "outbox",
		Short: "Outbox event maintenance",
	}
	cmd.AddCommand(relay)
	return cmd
}

// outboxRelay is the part of EventPublisher the relay command drives.
type outboxRelay interface {
	Start(ctx context.Context) error
	Drain(ctx context.Context) (eventpublisher.RelayStats, error)
	Prune(ctx context.Context, retention time.Duration) error
}

func runRelay(cmd *cobra.Command, relay outboxRelay, opts relayOptions) error {
	ctx := cmd.Context()

	if opts.follow {
		err := relay.Start(ctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	stats, err := relay.Drain(ctx)
	fmt.Fprintf(cmd.OutOrStdout(), "fetched=%d published=%d failed=%d\n", stats.Fetched, stats.Published, stats.Failed)
	if err != nil {
		return err
	}

	if opts.prune > 0 {
		if err := relay.Prune(ctx, opts.prune); err != nil {
			return fmt.Errorf("prune published events: %w", err)
		}
	}
	return nil
}

// reconciler is the part of ReconciliationUseCase the reconcile command drives.
type reconciler interface {
	ReconcileAccount(ctx context.Context, accountID string) (*usecase.ReconciliationResult, error)
	GenerateReconciliationReport(ctx context.Context) (*usecase.ReconciliationReport, error)
}

func reconcileCmd() *cobra.Command {
	var accountID string

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Compare account balances with their settled ledger entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			pool, err := connect(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewReconciliationUseCase(
				postgresRepo.NewAccountRepository(pool),
				postgresRepo.NewLedgerRepository(pool),
			)
			return runReconcile(cmd, uc, accountID)
		},
	}
	cmd.Flags().StringVar(&accountID, "account", "", "Check a single account")
	return cmd
}

func runReconcile(cmd *cobra.Command, r reconciler, accountID string) error {
	ctx := cmd.Context()

	if accountID != "" {
		result, err := r.ReconcileAccount(ctx, accountID)
		if err != nil {
			return err
		}
		printJSON(cmd.OutOrStdout(), result)
		if !result.IsReconciled {
			return fmt.Errorf("account %s is off by %d credits", accountID, result.Difference)
		}
		return nil
	}

	report, err := r.GenerateReconciliationReport(ctx)
	if err != nil {
		return err
	}
	printJSON(cmd.OutOrStdout(), report)
	if n := len(report.Discrepancies); n > 0 {
		return fmt.Errorf("%d of %d accounts have discrepancies", n, report.TotalAccounts)
	}
	return nil
}

// roleGranter is the part of CredentialUseCase the grant-role command drives.
type roleGranter interface {
	GrantRole(ctx context.Context, email, role string) (*domain.Account, error)
}

func grantRoleCmd() *cobra.Command {
	var email, role string

	cmd := &cobra.Command{
		Use:   "grant-role",
		Short: "Set the role of an account (user or admin)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig()
			if err != nil {
				return err
			}

			pool, err := connect(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := usecase.NewCredentialUseCase(
				postgresRepo.NewTxManager(pool),
				postgresRepo.NewAccountRepository(pool),
				postgresRepo.NewOutboxRepository(pool),
				postgresRepo.NewULIDGenerator(),
				auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration),
				nil,
			)
			return runGrantRole(cmd, uc, email, role)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "Account email")
	cmd.Flags().StringVar(&role, "role", string(domain.RoleAdmin), "Role to grant")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func runGrantRole(cmd *cobra.Command, g roleGranter, email, role string) error {
	account, err := g.GrantRole(cmd.Context(), email, role)
	if err != nil {
		return fmt.Errorf("grant role: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s; new tokens carry the role\n", account.Email, account.Role)
	return nil
}
