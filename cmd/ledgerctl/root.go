package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/backoffice-ledger/internal/config"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Operator commands for the back-office ledger",
		Long: `ledgerctl runs maintenance tasks against the ledger database:
schema migrations, recurring entry generation, balance checks and
CPF/CNPJ validation.

Configuration is read from ledgerctl.env in ./configs or the working
directory, overridden by environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "ledgerctl", "configuration name, without the .env suffix")

	root.AddCommand(
		newMigrateCmd(),
		newGenerateCmd(),
		newBalanceCmd(),
		newCheckDocumentCmd(),
	)
	return root
}

// runtime holds what the database-backed commands share
type runtime struct {
	cfg *config.Config
	log *slog.Logger
	db  *persistence.PostgresDB
}

func (r *runtime) Close() {
	if r.db != nil {
		r.db.Close()
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	name, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// openRuntime loads the configuration and opens the Postgres pool
func openRuntime(ctx context.Context, cmd *cobra.Command) (*runtime, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logger.NewLogger(cfg).With("component", "ledgerctl", "command", cmd.Name())

	db, err := persistence.NewPostgresDB(ctx, log, &cfg.Postgres)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	return &runtime{cfg: cfg, log: log, db: db}, nil
}
