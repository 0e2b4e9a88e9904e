package main

import (
	"fmt"

	"github.com/backoffice-ledger/internal/platform/persistence"
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending Postgres migrations",
		Example: `  ledgerctl migrate
  ledgerctl migrate --status`,
		RunE: runMigrate,
	}
	cmd.Flags().Bool("status", false, "print the applied version without migrating")
	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	statusOnly, _ := cmd.Flags().GetBool("status")

	if !statusOnly {
		if err := persistence.RunMigrations(cfg.Postgres.URL, cfg.Postgres.MigrationsPath); err != nil {
			return err
		}
	}

	version, dirty, err := persistence.MigrationVersion(cfg.Postgres.URL, cfg.Postgres.MigrationsPath)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d (dirty: %t)\n", version, dirty)
	return nil
}
