package shared

import "errors"

var (
	ErrInvalidEntryKind  = errors.New("invalid entry kind")
	ErrInvalidSituation  = errors.New("invalid situation")
	ErrInvalidItemKind   = errors.New("invalid contract item kind")
	ErrInvalidPersonType = errors.New("invalid person type")
)

// EntryKind is shared by ledger entries and categories.
type EntryKind string

const (
	EntryKindIncome  EntryKind = "INCOME"
	EntryKindExpense EntryKind = "EXPENSE"
)

func (k EntryKind) Valid() bool {
	return k == EntryKindIncome || k == EntryKindExpense
}

// Situation is the payment state of a ledger entry.
type Situation string

const (
	SituationPending   Situation = "PENDING"
	SituationPaid      Situation = "PAID"
	SituationCancelled Situation = "CANCELLED"
)

func (s Situation) Valid() bool {
	switch s {
	case SituationPending, SituationPaid, SituationCancelled:
		return true
	}
	return false
}

// CanTransitionTo reports whether an entry in situation s may move to next.
func (s Situation) CanTransitionTo(next Situation) bool {
	switch s {
	case SituationPending:
		return next == SituationPaid || next == SituationCancelled
	case SituationPaid:
		return next == SituationCancelled
	}
	return false
}

// ItemKind tells recurring contract items from one-off ones.
type ItemKind string

const (
	ItemKindRecurring ItemKind = "RECURRING"
	ItemKindOneOff    ItemKind = "ONE_OFF"
)

func (k ItemKind) Valid() bool {
	return k == ItemKindRecurring || k == ItemKindOneOff
}

// PersonType selects which tax document a client carries.
type PersonType string

const (
	PersonTypeIndividual   PersonType = "PF" // CPF
	PersonTypeOrganization PersonType = "PJ" // CNPJ
)

func (p PersonType) Valid() bool {
	return p == PersonTypeIndividual || p == PersonTypeOrganization
}

// AccountType classifies bank accounts.
type AccountType string

const (
	AccountTypeChecking AccountType = "CHECKING"
	AccountTypeSavings  AccountType = "SAVINGS"
	AccountTypeOther    AccountType = "OTHER"
)

func (a AccountType) Valid() bool {
	switch a {
	case AccountTypeChecking, AccountTypeSavings, AccountTypeOther:
		return true
	}
	return false
}

// OutboxStatus defines message publishing states
type OutboxStatus string

const (
	OutboxStatusPending         OutboxStatus = "PENDING"
	OutboxStatusProcessed       OutboxStatus = "PROCESSED"
	OutboxStatusFailedToPublish OutboxStatus = "FAILED_TO_PUBLISH"
)
