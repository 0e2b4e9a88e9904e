package main

import (
	"fmt"
	"strings"

	"github.com/backoffice-ledger/internal/domain/identity"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/spf13/cobra"
)

func newCheckDocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-document <document>",
		Short: "Validate a CPF or CNPJ",
		Long: `Checks the verification digits of a CPF (--type PF) or CNPJ (--type PJ).
Punctuation is ignored. Exits non-zero when the document is invalid.`,
		Example: `  ledgerctl check-document 390.533.447-05
  ledgerctl check-document --type PJ 11.222.333/0001-81`,
		Args: cobra.ExactArgs(1),
		RunE: runCheckDocument,
	}
	cmd.Flags().String("type", string(shared.PersonTypeIndividual), "person type: PF (CPF) or PJ (CNPJ)")
	return cmd
}

func runCheckDocument(cmd *cobra.Command, args []string) error {
	raw, _ := cmd.Flags().GetString("type")
	personType := shared.PersonType(strings.ToUpper(raw))
	if !personType.Valid() {
		return fmt.Errorf("%w: %q", shared.ErrInvalidPersonType, raw)
	}

	normalized := identity.Normalize(args[0])
	if !identity.Validate(personType, args[0]) {
		return fmt.Errorf("%s %s is not valid", personType, normalized)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s %s is valid\n", personType, normalized)
	return nil
}
