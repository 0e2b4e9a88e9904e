package bookkeeping

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/outbox"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// txParticipant is an in-memory store whose writes a failed unit of work undoes
type txParticipant interface {
	snapshot() (restore func())
}

// fakeTxRunner runs the unit of work without a database, rolling back its
// participants when fn fails
type fakeTxRunner struct {
	calls        int
	participants []txParticipant
}

func (f *fakeTxRunner) ExecuteTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	f.calls++
	restores := make([]func(), 0, len(f.participants))
	for _, p := range f.participants {
		restores = append(restores, p.snapshot())
	}
	if err := fn(nil); err != nil {
		for _, restore := range restores {
			restore()
		}
		return err
	}
	return nil
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *registry.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockClientRepository) GetByDocument(ctx context.Context, document string) (*registry.Client, error) {
	args := m.Called(ctx, document)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Client), args.Error(1)
}

func (m *MockClientRepository) WithTx(tx pgx.Tx) registry.ClientRepository {
	return m
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) Create(ctx context.Context, service *registry.Service) error {
	args := m.Called(ctx, service)
	return args.Error(0)
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Service), args.Error(1)
}

func (m *MockServiceRepository) WithTx(tx pgx.Tx) registry.ServiceRepository {
	return m
}

type MockContractRepository struct {
	mock.Mock
}

func (m *MockContractRepository) Create(ctx context.Context, contract *registry.Contract) error {
	args := m.Called(ctx, contract)
	return args.Error(0)
}

func (m *MockContractRepository) GetByID(ctx context.Context, id uuid.UUID) (*registry.Contract, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.Contract), args.Error(1)
}

func (m *MockContractRepository) AddItem(ctx context.Context, item *registry.ContractItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockContractRepository) GetItem(ctx context.Context, id uuid.UUID) (*registry.ContractItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*registry.ContractItem), args.Error(1)
}

func (m *MockContractRepository) ListItems(ctx context.Context, contractID uuid.UUID) ([]*registry.ContractItem, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.ContractItem), args.Error(1)
}

func (m *MockContractRepository) ListBillableRecurring(ctx context.Context) ([]*registry.BillableItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*registry.BillableItem), args.Error(1)
}

func (m *MockContractRepository) WithTx(tx pgx.Tx) registry.ContractRepository {
	return m
}

type MockFinanceRepository struct {
	mock.Mock
}

func (m *MockFinanceRepository) CreateCategory(ctx context.Context, category *finance.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetCategory(ctx context.Context, id uuid.UUID) (*finance.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Category), args.Error(1)
}

func (m *MockFinanceRepository) CreateCostCenter(ctx context.Context, costCenter *finance.CostCenter) error {
	args := m.Called(ctx, costCenter)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetCostCenter(ctx context.Context, id uuid.UUID) (*finance.CostCenter, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.CostCenter), args.Error(1)
}

func (m *MockFinanceRepository) CreateBank(ctx context.Context, bank *finance.Bank) error {
	args := m.Called(ctx, bank)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetBank(ctx context.Context, id uuid.UUID) (*finance.Bank, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.Bank), args.Error(1)
}

func (m *MockFinanceRepository) CreateAccount(ctx context.Context, account *finance.BankAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockFinanceRepository) GetAccount(ctx context.Context, id uuid.UUID) (*finance.BankAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.BankAccount), args.Error(1)
}

func (m *MockFinanceRepository) WithTx(tx pgx.Tx) finance.Repository {
	return m
}

type MockEntryRepository struct {
	mock.Mock
}

func (m *MockEntryRepository) Create(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) InsertIfAbsent(ctx context.Context, entry *ledger.Entry) (bool, error) {
	args := m.Called(ctx, entry)
	return args.Bool(0), args.Error(1)
}

func (m *MockEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*ledger.Entry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) List(ctx context.Context, filter ledger.Filter, limit, offset int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) Count(ctx context.Context, filter ledger.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEntryRepository) UpdateSituation(ctx context.Context, entry *ledger.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockEntryRepository) MarkNoticeSent(ctx context.Context, id uuid.UUID, notice shared.NoticeType) error {
	args := m.Called(ctx, id, notice)
	return args.Error(0)
}

func (m *MockEntryRepository) SumPaid(ctx context.Context, accountID uuid.UUID) (finance.PaidTotals, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(finance.PaidTotals), args.Error(1)
}

func (m *MockEntryRepository) ContractTotals(ctx context.Context, contractID uuid.UUID) (*ledger.ContractTotals, error) {
	args := m.Called(ctx, contractID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.ContractTotals), args.Error(1)
}

func (m *MockEntryRepository) ListDueForNotice(ctx context.Context, until time.Time, limit int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, until, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) ListInvoicePending(ctx context.Context, limit int) ([]*ledger.Entry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Entry), args.Error(1)
}

func (m *MockEntryRepository) WithTx(tx pgx.Tx) ledger.Repository {
	return m
}

type MockOutboxRepository struct {
	mock.Mock
}

func (m *MockOutboxRepository) Create(ctx context.Context, message *outbox.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockOutboxRepository) GetPending(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *MockOutboxRepository) UpdateStatus(ctx context.Context, id int64, status shared.OutboxStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockOutboxRepository) RecordFailure(ctx context.Context, id int64, maxAttempts int) (shared.OutboxStatus, error) {
	args := m.Called(ctx, id, maxAttempts)
	return args.Get(0).(shared.OutboxStatus), args.Error(1)
}

func (m *MockOutboxRepository) WithTx(tx pgx.Tx) outbox.Repository {
	return m
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// memEntryStore keeps entries in memory and enforces the recurring slot
// uniqueness the database index provides.
type memEntryStore struct {
	ledger.Repository
	entries []*ledger.Entry
}

func slotKey(e *ledger.Entry) string {
	return e.ContractItemID.String() + "|" + e.Competence.Format("2006-01") + "|" + string(e.Kind)
}

func (s *memEntryStore) InsertIfAbsent(ctx context.Context, entry *ledger.Entry) (bool, error) {
	for _, existing := range s.entries {
		if existing.ContractItemID != nil && slotKey(existing) == slotKey(entry) {
			return false, nil
		}
	}
	s.entries = append(s.entries, entry)
	return true, nil
}

func (s *memEntryStore) WithTx(tx pgx.Tx) ledger.Repository {
	return s
}

func (s *memEntryStore) snapshot() func() {
	n := len(s.entries)
	return func() { s.entries = s.entries[:n] }
}

// memOutbox records every message written to it
type memOutbox struct {
	outbox.Repository
	messages []*outbox.Message
}

func (o *memOutbox) Create(ctx context.Context, message *outbox.Message) error {
	o.messages = append(o.messages, message)
	return nil
}

func (o *memOutbox) WithTx(tx pgx.Tx) outbox.Repository {
	return o
}

func (o *memOutbox) snapshot() func() {
	n := len(o.messages)
	return func() { o.messages = o.messages[:n] }
}
