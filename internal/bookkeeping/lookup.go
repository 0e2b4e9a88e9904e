package bookkeeping

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/google/uuid"
)

// repoLookup resolves entry references through the repositories it holds,
// which may be bound to a transaction.
type repoLookup struct {
	contracts registry.ContractRepository
	finance   finance.Repository
}

func (l repoLookup) GetContractItem(ctx context.Context, id uuid.UUID) (*registry.ContractItem, error) {
	return l.contracts.GetItem(ctx, id)
}

func (l repoLookup) GetContract(ctx context.Context, id uuid.UUID) (*registry.Contract, error) {
	return l.contracts.GetByID(ctx, id)
}

func (l repoLookup) GetCategory(ctx context.Context, id uuid.UUID) (*finance.Category, error) {
	return l.finance.GetCategory(ctx, id)
}

// checkEntry runs ledger.Check and additionally requires the bank account to
// exist, reporting every problem in one ValidationErrors.
func checkEntry(ctx context.Context, e *ledger.Entry, l repoLookup, asOf time.Time) error {
	_, err := ledger.Check(ctx, e, l, asOf)
	problems, isValidation := ledger.AsValidationErrors(err)
	if err != nil && !isValidation {
		return err
	}

	if e.AccountID != uuid.Nil {
		_, accErr := l.finance.GetAccount(ctx, e.AccountID)
		switch {
		case errors.Is(accErr, finance.ErrNotFound{Kind: finance.KindAccount}):
			if problems == nil {
				problems = ledger.ValidationErrors{}
			}
			if _, ok := problems[ledger.FieldAccount]; !ok {
				problems[ledger.FieldAccount] = "bank account does not exist"
			}
		case accErr != nil:
			return fmt.Errorf("failed to load bank account: %w", accErr)
		}
	}

	if len(problems) > 0 {
		return problems
	}
	return nil
}
