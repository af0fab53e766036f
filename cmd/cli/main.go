package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type apiOptions struct {
	baseURL string
	token   string
	timeout time.Duration
}

func newRootCmd() *cobra.Command {
	opts := &apiOptions{}

	rootCmd := &cobra.Command{
		Use:           "creditledger-cli",
		Short:         "Credit ledger CLI tool",
		Long:          `A command line interface for the credit ledger API and its database maintenance tasks.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.baseURL, "url", "http://localhost:4000", "Base URL of the credit ledger API")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("CREDITLEDGER_TOKEN"), "Session token (defaults to $CREDITLEDGER_TOKEN)")
	rootCmd.PersistentFlags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Request timeout")

	// API client commands
	rootCmd.AddCommand(
		registerCmd(opts),
		loginCmd(opts),
		creditsCmd(opts),
		orderCmd(opts),
		verifyCmd(opts),
		entriesCmd(opts),
	)

	// Local tools
	rootCmd.AddCommand(hashPasswordCmd(), plansCmd())

	// Database maintenance
	rootCmd.AddCommand(migrateCmd(), outboxCmd(), reconcileCmd(), grantRoleCmd())

	return rootCmd
}
