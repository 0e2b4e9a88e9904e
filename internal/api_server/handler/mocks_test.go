package handler

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/domain/activity"
	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// PaginatedResponse is a generic version of Response for testing paginated data
type PaginatedResponse[T any] struct {
	Data          []T        `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
	Meta          *MetaInfo  `json:"meta,omitempty"`
}

// DataResponse is a typed version of Response for decoding single objects
type DataResponse[T any] struct {
	Data          T          `json:"data"`
	Error         *ErrorInfo `json:"error,omitempty"`
	CorrelationID string     `json:"correlation_id,omitempty"`
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

type MockRegistryService struct {
	mock.Mock
}

func (m *MockRegistryService) CreateClient(ctx context.Context, in bookkeeping.ClientInput) (*registry.Client, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockRegistryService) GetClient(ctx context.Context, id uuid.UUID) (*registry.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockRegistryService) CreateService(ctx context.Context, name, description string, defaultPrice decimal.Decimal) (*registry.Service, error) {
	args := m.Called(ctx, name, description, defaultPrice)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Service), args.Error(1)
}

func (m *MockRegistryService) GetService(ctx context.Context, id uuid.UUID) (*registry.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Service), args.Error(1)
}

func (m *MockRegistryService) CreateContract(ctx context.Context, in bookkeeping.ContractInput) (*registry.Contract, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Contract), args.Error(1)
}

func (m *MockRegistryService) GetContract(ctx context.Context, id uuid.UUID) (*registry.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Contract), args.Error(1)
}

func (m *MockRegistryService) AddContractItem(ctx context.Context, contractID uuid.UUID, in bookkeeping.ItemInput) (*registry.ContractItem, error) {
	args := m.Called(ctx, contractID, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.ContractItem), args.Error(1)
}

type MockFinanceService struct {
	mock.Mock
}

func (m *MockFinanceService) CreateCategory(ctx context.Context, name string, kind shared.EntryKind) (*finance.Category, error) {
	args := m.Called(ctx, name, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Category), args.Error(1)
}

func (m *MockFinanceService) CreateCostCenter(ctx context.Context, name, description string) (*finance.CostCenter, error) {
	args := m.Called(ctx, name, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CostCenter), args.Error(1)
}

func (m *MockFinanceService) CreateBank(ctx context.Context, name, code, statementLayout string) (*finance.Bank, error) {
	args := m.Called(ctx, name, code, statementLayout)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Bank), args.Error(1)
}

func (m *MockFinanceService) CreateAccount(ctx context.Context, in bookkeeping.AccountInput) (*finance.BankAccount, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BankAccount), args.Error(1)
}

func (m *MockFinanceService) GetAccount(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BankAccount), args.Error(1)
}

func (m *MockFinanceService) CurrentBalance(ctx context.Context, accountID uuid.UUID) (*finance.Balance, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Balance), args.Error(1)
}

func (m *MockFinanceService) ContractTotals(ctx context.Context, contractID uuid.UUID) (*ledger.ContractTotals, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ContractTotals), args.Error(1)
}

type MockEntryService struct {
	mock.Mock
}

func (m *MockEntryService) entryResult(args mock.Arguments) (*ledger.Entry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryService) Create(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	return m.entryResult(m.Called(ctx, entry))
}

func (m *MockEntryService) Validate(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	return m.entryResult(m.Called(ctx, entry))
}

func (m *MockEntryService) Import(ctx context.Context, entry *ledger.Entry) (*ledger.Entry, error) {
	return m.entryResult(m.Called(ctx, entry))
}

func (m *MockEntryService) Get(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	return m.entryResult(m.Called(ctx, id))
}

func (m *MockEntryService) List(ctx context.Context, filter ledger.Filter, page, perPage int) ([]*ledger.Entry, int64, error) {
	args := m.Called(ctx, filter, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*ledger.Entry), args.Get(1).(int64), args.Error(2)
}

func (m *MockEntryService) ChangeSituation(ctx context.Context, id uuid.UUID, next shared.Situation, paidOn *time.Time) (*ledger.Entry, error) {
	return m.entryResult(m.Called(ctx, id, next, paidOn))
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, params bookkeeping.GenerateParams) ([]*ledger.Entry, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

type MockActivityRepository struct {
	mock.Mock
}

func (m *MockActivityRepository) Append(ctx context.Context, record *activity.Record) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockActivityRepository) ListByEntry(ctx context.Context, entryID uuid.UUID, limit, offset int) ([]*activity.Record, error) {
	args := m.Called(ctx, entryID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*activity.Record), args.Error(1)
}

func (m *MockActivityRepository) CountByEntry(ctx context.Context, entryID uuid.UUID) (int64, error) {
	args := m.Called(ctx, entryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockActivityRepository) EnsureIndexes(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func sampleEntry() *ledger.Entry {
	due := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	competence := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	created := time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)
	return &ledger.Entry{
		ID:          uuid.New(),
		Kind:        shared.EntryKindIncome,
		CategoryID:  uuid.New(),
		AccountID:   uuid.New(),
		Description: "Hosting - 03/2025",
		Value:       decimal.RequireFromString("1250.46"),
		Date:        time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		DueDate:     &due,
		Competence:  &competence,
		Situation:   shared.SituationPending,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}
