package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Field keys used in ValidationErrors.
const (
	FieldKind         = "kind"
	FieldSituation    = "situation"
	FieldDescription  = "description"
	FieldValue        = "value"
	FieldAccount      = "account_id"
	FieldCategory     = "category_id"
	FieldClient       = "client_id"
	FieldContract     = "contract_id"
	FieldContractItem = "contract_item_id"
	FieldDueDate      = "due_date"
)

// ValidationErrors collects every problem found on an entry, keyed by field.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "invalid entry: " + strings.Join(parts, "; ")
}

// add keeps the first message recorded for a field.
func (v ValidationErrors) add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

func (v ValidationErrors) merge(other ValidationErrors) {
	for f, msg := range other {
		v.add(f, msg)
	}
}

// AsValidationErrors extracts the field map from err, if it carries one.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var v ValidationErrors
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}

// Lookup resolves the records an entry references.
type Lookup interface {
	GetContractItem(ctx context.Context, id uuid.UUID) (*registry.ContractItem, error)
	GetContract(ctx context.Context, id uuid.UUID) (*registry.Contract, error)
	GetCategory(ctx context.Context, id uuid.UUID) (*finance.Category, error)
}

// References are the records resolved while normalizing an entry.
type References struct {
	Item     *registry.ContractItem
	Contract *registry.Contract
	Category *finance.Category
}

// Normalize fills the contract from the contract item and the client from the
// contract when they are unset, and resolves the references needed by
// Validate. Missing references are reported as ValidationErrors alongside the
// partially resolved References; any other lookup failure is returned as is.
func Normalize(ctx context.Context, e *Entry, lookup Lookup) (*References, error) {
	refs := &References{}
	problems := ValidationErrors{}

	if e.ContractItemID != nil {
		item, err := lookup.GetContractItem(ctx, *e.ContractItemID)
		switch {
		case errors.Is(err, registry.ErrContractItemNotFound{}):
			problems.add(FieldContractItem, "contract item does not exist")
		case err != nil:
			return nil, fmt.Errorf("failed to load contract item: %w", err)
		default:
			refs.Item = item
			if e.ContractID == nil {
				contractID := item.ContractID
				e.ContractID = &contractID
			}
		}
	}

	if e.ContractID != nil {
		contract, err := lookup.GetContract(ctx, *e.ContractID)
		switch {
		case errors.Is(err, registry.ErrContractNotFound{}):
			problems.add(FieldContract, "contract does not exist")
		case err != nil:
			return nil, fmt.Errorf("failed to load contract: %w", err)
		default:
			refs.Contract = contract
			if e.ClientID == nil {
				clientID := contract.ClientID
				e.ClientID = &clientID
			}
		}
	}

	if e.CategoryID != uuid.Nil {
		category, err := lookup.GetCategory(ctx, e.CategoryID)
		switch {
		case errors.Is(err, finance.ErrNotFound{Kind: finance.KindCategory}):
			problems.add(FieldCategory, "category does not exist")
		case err != nil:
			return nil, fmt.Errorf("failed to load category: %w", err)
		default:
			refs.Category = category
		}
	}

	if len(problems) > 0 {
		return refs, problems
	}
	return refs, nil
}

// Validate checks a normalized entry against its references. Due dates are
// compared with asOf rather than the wall clock. It returns nil when the
// entry is consistent.
func Validate(e *Entry, refs *References, asOf time.Time) ValidationErrors {
	problems := ValidationErrors{}
	if refs == nil {
		refs = &References{}
	}

	if !e.Kind.Valid() {
		problems.add(FieldKind, "kind must be INCOME or EXPENSE")
	}
	if !e.Situation.Valid() {
		problems.add(FieldSituation, "situation must be PENDING, PAID or CANCELLED")
	}
	if strings.TrimSpace(e.Description) == "" {
		problems.add(FieldDescription, "description is required")
	}
	if e.Value.IsNegative() {
		problems.add(FieldValue, "value cannot be negative")
	}
	if e.AccountID == uuid.Nil {
		problems.add(FieldAccount, "bank account is required")
	}
	if e.CategoryID == uuid.Nil {
		problems.add(FieldCategory, "category is required")
	}

	if refs.Item != nil && e.ContractID != nil && refs.Item.ContractID != *e.ContractID {
		problems.add(FieldContractItem, "contract item does not belong to the selected contract")
	}
	if refs.Contract != nil && e.ClientID != nil && refs.Contract.ClientID != *e.ClientID {
		problems.add(FieldClient, "client differs from the contract's client")
	}
	if refs.Category != nil && e.Kind.Valid() && refs.Category.Kind != e.Kind {
		problems.add(FieldCategory, fmt.Sprintf("category kind %s does not match entry kind %s", refs.Category.Kind, e.Kind))
	}

	switch e.Situation {
	case shared.SituationPending:
		if e.DueDate == nil {
			problems.add(FieldDueDate, "pending entries require a due date")
		}
	case shared.SituationPaid:
		if e.DueDate != nil && shared.DateOf(*e.DueDate).After(shared.DateOf(asOf)) {
			problems.add(FieldDueDate, "paid entries cannot have a future due date")
		}
	}

	if len(problems) == 0 {
		return nil
	}
	return problems
}

// Check normalizes e and validates it, returning every problem found as
// ValidationErrors.
func Check(ctx context.Context, e *Entry, lookup Lookup, asOf time.Time) (*References, error) {
	refs, err := Normalize(ctx, e, lookup)
	problems := ValidationErrors{}
	if err != nil {
		v, ok := AsValidationErrors(err)
		if !ok {
			return nil, err
		}
		problems.merge(v)
	}

	problems.merge(Validate(e, refs, asOf))
	if len(problems) > 0 {
		return refs, problems
	}
	return refs, nil
}
