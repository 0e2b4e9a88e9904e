package bookkeeping

import (
	"context"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/google/uuid"
)

// FinanceServiceImpl implements the FinanceService interface
type FinanceServiceImpl struct {
	finance   finance.Repository
	entries   ledger.Repository
	contracts registry.ContractRepository
	logger    *slog.Logger
}

func NewFinanceService(
	logger *slog.Logger,
	financeRepo finance.Repository,
	entries ledger.Repository,
	contracts registry.ContractRepository,
) *FinanceServiceImpl {
	return &FinanceServiceImpl{
		finance:   financeRepo,
		entries:   entries,
		contracts: contracts,
		logger:    logger,
	}
}

func (s *FinanceServiceImpl) CreateCategory(ctx context.Context, name string, kind shared.EntryKind) (*finance.Category, error) {
	category, err := finance.NewCategory(name, kind)
	if err != nil {
		return nil, err
	}
	if err := s.finance.CreateCategory(ctx, category); err != nil {
		return nil, err
	}
	logger.FromContext(ctx, s.logger).Info("Category created", "category_id", category.ID.String(), "kind", string(kind))
	return category, nil
}

func (s *FinanceServiceImpl) CreateCostCenter(ctx context.Context, name, description string) (*finance.CostCenter, error) {
	costCenter, err := finance.NewCostCenter(name, description)
	if err != nil {
		return nil, err
	}
	if err := s.finance.CreateCostCenter(ctx, costCenter); err != nil {
		return nil, err
	}
	return costCenter, nil
}

func (s *FinanceServiceImpl) CreateBank(ctx context.Context, name, code, statementLayout string) (*finance.Bank, error) {
	bank, err := finance.NewBank(name, code, statementLayout)
	if err != nil {
		return nil, err
	}
	if err := s.finance.CreateBank(ctx, bank); err != nil {
		return nil, err
	}
	return bank, nil
}

// CreateAccount requires the bank to exist
func (s *FinanceServiceImpl) CreateAccount(ctx context.Context, in AccountInput) (*finance.BankAccount, error) {
	account, err := finance.NewBankAccount(in.BankID, in.Name, in.Type, in.Branch, in.Number, in.OpeningBalance)
	if err != nil {
		return nil, err
	}

	if _, err := s.finance.GetBank(ctx, in.BankID); err != nil {
		return nil, err
	}

	if err := s.finance.CreateAccount(ctx, account); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Bank account created",
		"account_id", account.ID.String(),
		"bank_id", account.BankID.String(),
	)
	return account, nil
}

func (s *FinanceServiceImpl) GetAccount(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	return s.finance.GetAccount(ctx, id)
}

func (s *FinanceServiceImpl) CurrentBalance(ctx context.Context, accountID uuid.UUID) (*finance.Balance, error) {
	account, err := s.finance.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	totals, err := s.entries.SumPaid(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return finance.ComputeBalance(account, totals), nil
}

func (s *FinanceServiceImpl) ContractTotals(ctx context.Context, contractID uuid.UUID) (*ledger.ContractTotals, error) {
	if _, err := s.contracts.GetByID(ctx, contractID); err != nil {
		return nil, err
	}
	return s.entries.ContractTotals(ctx, contractID)
}
