package ledger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	items      map[uuid.UUID]*registry.ContractItem
	contracts  map[uuid.UUID]*registry.Contract
	categories map[uuid.UUID]*finance.Category
	err        error
}

func (s *stubLookup) GetContractItem(_ context.Context, id uuid.UUID) (*registry.ContractItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	if item, ok := s.items[id]; ok {
		return item, nil
	}
	return nil, registry.ErrContractItemNotFound{ItemID: id}
}

func (s *stubLookup) GetContract(_ context.Context, id uuid.UUID) (*registry.Contract, error) {
	if contract, ok := s.contracts[id]; ok {
		return contract, nil
	}
	return nil, registry.ErrContractNotFound{ContractID: id}
}

func (s *stubLookup) GetCategory(_ context.Context, id uuid.UUID) (*finance.Category, error) {
	if category, ok := s.categories[id]; ok {
		return category, nil
	}
	return nil, finance.ErrNotFound{Kind: finance.KindCategory, ID: id}
}

type fixture struct {
	lookup   *stubLookup
	client   uuid.UUID
	contract *registry.Contract
	item     *registry.ContractItem
	income   *finance.Category
	expense  *finance.Category
	account  uuid.UUID
}

func newFixture() *fixture {
	clientID := uuid.New()
	contract := &registry.Contract{ID: uuid.New(), ClientID: clientID, Active: true}
	item := &registry.ContractItem{ID: uuid.New(), ContractID: contract.ID, Kind: shared.ItemKindRecurring, AgreedValue: decimal.RequireFromString("100.00")}
	income := &finance.Category{ID: uuid.New(), Name: "Receitas", Kind: shared.EntryKindIncome}
	expense := &finance.Category{ID: uuid.New(), Name: "Despesas", Kind: shared.EntryKindExpense}

	return &fixture{
		lookup: &stubLookup{
			items:      map[uuid.UUID]*registry.ContractItem{item.ID: item},
			contracts:  map[uuid.UUID]*registry.Contract{contract.ID: contract},
			categories: map[uuid.UUID]*finance.Category{income.ID: income, expense.ID: expense},
		},
		client:   clientID,
		contract: contract,
		item:     item,
		income:   income,
		expense:  expense,
		account:  uuid.New(),
	}
}

func (f *fixture) entry(asOf time.Time) *Entry {
	due := asOf.AddDate(0, 0, 10)
	return &Entry{
		Kind:        shared.EntryKindIncome,
		CategoryID:  f.income.ID,
		AccountID:   f.account,
		Description: "Mensalidade",
		Value:       decimal.RequireFromString("100.00"),
		Date:        asOf,
		DueDate:     &due,
		Situation:   shared.SituationPending,
	}
}

var asOf = time.Date(2025, 2, 20, 0, 0, 0, 0, time.UTC)

func TestNormalize(t *testing.T) {
	ctx := context.Background()

	t.Run("FillsContractAndClientFromItem", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.ContractItemID = &f.item.ID

		refs, err := Normalize(ctx, e, f.lookup)
		require.NoError(t, err)

		require.NotNil(t, e.ContractID)
		require.NotNil(t, e.ClientID)
		assert.Equal(t, f.contract.ID, *e.ContractID)
		assert.Equal(t, f.client, *e.ClientID)
		assert.Same(t, f.item, refs.Item)
		assert.Same(t, f.contract, refs.Contract)
		assert.Same(t, f.income, refs.Category)
	})

	t.Run("KeepsExplicitLinks", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		other := uuid.New()
		e.ContractID = &f.contract.ID
		e.ClientID = &other

		_, err := Normalize(ctx, e, f.lookup)
		require.NoError(t, err)
		assert.Equal(t, other, *e.ClientID)
	})

	t.Run("MissingReferencesAreFieldErrors", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		missing := uuid.New()
		e.ContractItemID = &missing
		e.CategoryID = uuid.New()

		refs, err := Normalize(ctx, e, f.lookup)
		require.NotNil(t, refs)
		problems, ok := AsValidationErrors(err)
		require.True(t, ok)
		assert.Contains(t, problems, FieldContractItem)
		assert.Contains(t, problems, FieldCategory)
		assert.Nil(t, e.ContractID)
	})

	t.Run("LookupFailureIsReturned", func(t *testing.T) {
		f := newFixture()
		f.lookup.err = errors.New("connection reset")
		e := f.entry(asOf)
		e.ContractItemID = &f.item.ID

		_, err := Normalize(ctx, e, f.lookup)
		require.Error(t, err)
		_, ok := AsValidationErrors(err)
		assert.False(t, ok)
	})
}

func TestValidate(t *testing.T) {
	ctx := context.Background()

	t.Run("ValidEntry", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.ContractItemID = &f.item.ID

		_, err := Check(ctx, e, f.lookup, asOf)
		assert.NoError(t, err)
	})

	t.Run("CategoryKindMismatch", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.CategoryID = f.expense.ID

		_, err := Check(ctx, e, f.lookup, asOf)
		problems, ok := AsValidationErrors(err)
		require.True(t, ok)
		assert.Contains(t, problems[FieldCategory], "does not match")
	})

	t.Run("PendingRequiresDueDate", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.DueDate = nil

		_, err := Check(ctx, e, f.lookup, asOf)
		problems, ok := AsValidationErrors(err)
		require.True(t, ok)
		assert.Contains(t, problems, FieldDueDate)

		due := asOf
		e.DueDate = &due
		_, err = Check(ctx, e, f.lookup, asOf)
		assert.NoError(t, err)
	})

	t.Run("PaidWithFutureDueDate", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.Situation = shared.SituationPaid
		due := asOf.AddDate(0, 0, 5)
		e.DueDate = &due

		_, err := Check(ctx, e, f.lookup, asOf)
		problems, ok := AsValidationErrors(err)
		require.True(t, ok)
		assert.Equal(t, "paid entries cannot have a future due date", problems[FieldDueDate])
	})

	t.Run("PaidDueTodayOrEarlier", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.Situation = shared.SituationPaid
		for _, due := range []time.Time{asOf, asOf.AddDate(0, 0, -3)} {
			d := due
			e.DueDate = &d
			_, err := Check(ctx, e, f.lookup, asOf)
			assert.NoError(t, err)
		}
		e.DueDate = nil
		_, err := Check(ctx, e, f.lookup, asOf)
		assert.NoError(t, err)
	})

	t.Run("AsOfDrivesTheFutureCheck", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.Situation = shared.SituationPaid
		due := asOf.AddDate(0, 0, 5)
		e.DueDate = &due

		_, err := Check(ctx, e, f.lookup, asOf.AddDate(0, 0, 5))
		assert.NoError(t, err)
	})

	t.Run("CancelledNeedsNoDueDate", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		e.Situation = shared.SituationCancelled
		e.DueDate = nil

		_, err := Check(ctx, e, f.lookup, asOf)
		assert.NoError(t, err)
	})

	t.Run("ItemFromAnotherContract", func(t *testing.T) {
		f := newFixture()
		other := &registry.Contract{ID: uuid.New(), ClientID: f.client, Active: true}
		f.lookup.contracts[other.ID] = other
		e := f.entry(asOf)
		e.ContractItemID = &f.item.ID
		e.ContractID = &other.ID

		_, err := Check(ctx, e, f.lookup, asOf)
		problems, ok := AsValidationErrors(err)
		require.True(t, ok)
		assert.Contains(t, problems, FieldContractItem)
	})

	t.Run("ClientDiffersFromContract", func(t *testing.T) {
		f := newFixture()
		e := f.entry(asOf)
		stranger := uuid.New()
		e.ContractID = &f.contract.ID
		e.ClientID = &stranger

		_, err := Check(ctx, e, f.lookup, asOf)
		problems, ok := AsValidationErrors(err)
		require.True(t, ok)
		assert.Contains(t, problems, FieldClient)
	})

	t.Run("CollectsEveryViolation", func(t *testing.T) {
		f := newFixture()
		other := &registry.Contract{ID: uuid.New(), ClientID: uuid.New(), Active: true}
		f.lookup.contracts[other.ID] = other
		stranger := uuid.New()
		e := f.entry(asOf)
		e.ContractItemID = &f.item.ID
		e.ContractID = &other.ID
		e.ClientID = &stranger
		e.CategoryID = f.expense.ID
		e.DueDate = nil

		_, err := Check(ctx, e, f.lookup, asOf)
		problems, ok := AsValidationErrors(err)
		require.True(t, ok)
		assert.Len(t, problems, 4)
		for _, field := range []string{FieldContractItem, FieldClient, FieldCategory, FieldDueDate} {
			assert.Contains(t, problems, field)
		}
		assert.Contains(t, err.Error(), "invalid entry: category_id:")
	})

	t.Run("RequiredFields", func(t *testing.T) {
		problems := Validate(&Entry{Kind: "X", Situation: "Y", Value: decimal.NewFromInt(-1)}, nil, asOf)
		for _, field := range []string{FieldKind, FieldSituation, FieldDescription, FieldValue, FieldAccount, FieldCategory} {
			assert.Contains(t, problems, field)
		}
	})
}

func TestEntry_ChangeSituation(t *testing.T) {
	now := time.Now()

	t.Run("PendingToPaidWithDate", func(t *testing.T) {
		e := &Entry{Situation: shared.SituationPending, Date: asOf}
		paidOn := time.Date(2025, 3, 2, 15, 4, 0, 0, time.UTC)

		require.NoError(t, e.ChangeSituation(shared.SituationPaid, &paidOn, now))
		assert.Equal(t, shared.SituationPaid, e.Situation)
		assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), e.Date)
	})

	t.Run("PaidKeepsDateWhenNoneGiven", func(t *testing.T) {
		e := &Entry{Situation: shared.SituationPending, Date: asOf}
		require.NoError(t, e.ChangeSituation(shared.SituationPaid, nil, now))
		assert.Equal(t, asOf, e.Date)
	})

	t.Run("CancelledIsFinal", func(t *testing.T) {
		e := &Entry{Situation: shared.SituationCancelled}
		assert.ErrorIs(t, e.ChangeSituation(shared.SituationPaid, nil, now), ErrInvalidTransition)
		assert.ErrorIs(t, e.ChangeSituation(shared.SituationPending, nil, now), ErrInvalidTransition)
	})

	t.Run("UnknownSituation", func(t *testing.T) {
		e := &Entry{Situation: shared.SituationPending}
		assert.ErrorIs(t, e.ChangeSituation("REFUNDED", nil, now), shared.ErrInvalidSituation)
	})
}
