package main

import (
	"fmt"
	"time"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/data/postgres"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate-recurring",
		Short: "Create the recurring income entries of a billing period",
		Long: `Generates one PENDING income entry per recurring item of every active
contract with a billing day, for the billing period holding the reference date.
Items already billed for the period are skipped, so the command can be re-run
safely.

Category and account default to RECURRENCE_DEFAULT_CATEGORY_ID and
RECURRENCE_DEFAULT_ACCOUNT_ID when the flags are omitted.`,
		Example: `  ledgerctl generate-recurring --reference-date 2025-02-15
  ledgerctl generate-recurring --category <uuid> --account <uuid>`,
		RunE: runGenerate,
	}
	cmd.Flags().String("category", "", "income category id")
	cmd.Flags().String("account", "", "bank account id")
	cmd.Flags().String("cost-center", "", "cost center id")
	cmd.Flags().String("reference-date", "", "date inside the period to bill (YYYY-MM-DD, default: today)")
	return cmd
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	params, err := generateParams(cmd, rt)
	if err != nil {
		return err
	}

	contractRepo := postgres.NewContractRepository(rt.log, rt.db)
	financeRepo := postgres.NewFinanceRepository(rt.log, rt.db)
	entryRepo := postgres.NewEntryRepository(rt.log, rt.db)
	outboxRepo := postgres.NewOutboxRepository(rt.log, rt.db)
	generator := bookkeeping.NewRecurrenceGenerator(rt.log, rt.db, contractRepo, financeRepo, entryRepo, outboxRepo)

	created, err := generator.Generate(ctx, params)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d entries created\n", len(created))
	for _, e := range created {
		due := "-"
		if e.DueDate != nil {
			due = e.DueDate.Format("2006-01-02")
		}
		fmt.Fprintf(out, "  %s  %s  %s  due %s\n", e.ID, e.Value.StringFixed(2), e.Description, due)
	}
	return nil
}

// generateParams layers the flags over the configured defaults
func generateParams(cmd *cobra.Command, rt *runtime) (bookkeeping.GenerateParams, error) {
	var params bookkeeping.GenerateParams
	category, account, costCenter, err := rt.cfg.Recurrence.DefaultIDs()
	if err != nil {
		return params, err
	}
	params.CategoryID, params.AccountID, params.CostCenterID = category, account, costCenter

	overrides := []struct {
		flag string
		set  func(uuid.UUID)
	}{
		{"category", func(id uuid.UUID) { params.CategoryID = id }},
		{"account", func(id uuid.UUID) { params.AccountID = id }},
		{"cost-center", func(id uuid.UUID) { params.CostCenterID = &id }},
	}
	for _, o := range overrides {
		raw, _ := cmd.Flags().GetString(o.flag)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return params, fmt.Errorf("invalid --%s: %w", o.flag, err)
		}
		o.set(id)
	}

	if raw, _ := cmd.Flags().GetString("reference-date"); raw != "" {
		ref, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return params, fmt.Errorf("invalid reference date, use YYYY-MM-DD: %w", err)
		}
		params.ReferenceDate = &ref
	}
	return params, nil
}
