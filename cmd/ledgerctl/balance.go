package main

import (
	"fmt"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/data/postgres"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newBalanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "balance <account-id>",
		Short:   "Print the current balance of a bank account",
		Example: `  ledgerctl balance 6f1c2a0e-3b7d-4c55-9a8e-2d0f4b1e7c93`,
		Args:    cobra.ExactArgs(1),
		RunE:    runBalance,
	}
}

func runBalance(cmd *cobra.Command, args []string) error {
	accountID, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid account id: %w", err)
	}

	ctx := cmd.Context()
	rt, err := openRuntime(ctx, cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	financeService := bookkeeping.NewFinanceService(
		rt.log,
		postgres.NewFinanceRepository(rt.log, rt.db),
		postgres.NewEntryRepository(rt.log, rt.db),
		postgres.NewContractRepository(rt.log, rt.db),
	)

	balance, err := financeService.CurrentBalance(ctx, accountID)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "opening   %12s\n", balance.OpeningBalance.StringFixed(2))
	fmt.Fprintf(out, "income  + %12s\n", balance.PaidIncome.StringFixed(2))
	fmt.Fprintf(out, "expense - %12s\n", balance.PaidExpense.StringFixed(2))
	fmt.Fprintf(out, "current   %12s\n", balance.Current.StringFixed(2))
	return nil
}
