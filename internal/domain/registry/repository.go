package registry

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ClientRepository defines client persistence operations
type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*Client, error)
	GetByDocument(ctx context.Context, document string) (*Client, error)
	WithTx(tx pgx.Tx) ClientRepository
}

// ServiceRepository defines catalog persistence operations
type ServiceRepository interface {
	Create(ctx context.Context, service *Service) error
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
	WithTx(tx pgx.Tx) ServiceRepository
}

// ContractRepository persists contracts and their items
type ContractRepository interface {
	Create(ctx context.Context, contract *Contract) error
	GetByID(ctx context.Context, id uuid.UUID) (*Contract, error)
	AddItem(ctx context.Context, item *ContractItem) error
	GetItem(ctx context.Context, id uuid.UUID) (*ContractItem, error)
	ListItems(ctx context.Context, contractID uuid.UUID) ([]*ContractItem, error)

	// ListBillableRecurring returns every RECURRING item whose contract is
	// active and has a billing day, in a stable selection order.
	ListBillableRecurring(ctx context.Context) ([]*BillableItem, error)
	WithTx(tx pgx.Tx) ContractRepository
}

// ErrClientNotFound indicates missing client
type ErrClientNotFound struct {
	ClientID uuid.UUID
}

func (e ErrClientNotFound) Error() string {
	return "client not found: " + e.ClientID.String()
}

func (e ErrClientNotFound) Is(target error) bool {
	t, ok := target.(ErrClientNotFound)
	if !ok {
		return false
	}
	return t.ClientID == uuid.Nil || e.ClientID == t.ClientID
}

// ErrDuplicateDocument indicates document uniqueness violation
type ErrDuplicateDocument struct {
	Document string
}

func (e ErrDuplicateDocument) Error() string {
	return "client with document already exists: " + e.Document
}

// ErrServiceNotFound indicates missing catalog service
type ErrServiceNotFound struct {
	ServiceID uuid.UUID
}

func (e ErrServiceNotFound) Error() string {
	return "service not found: " + e.ServiceID.String()
}

func (e ErrServiceNotFound) Is(target error) bool {
	t, ok := target.(ErrServiceNotFound)
	if !ok {
		return false
	}
	return t.ServiceID == uuid.Nil || e.ServiceID == t.ServiceID
}

// ErrContractNotFound indicates missing contract
type ErrContractNotFound struct {
	ContractID uuid.UUID
}

func (e ErrContractNotFound) Error() string {
	return "contract not found: " + e.ContractID.String()
}

func (e ErrContractNotFound) Is(target error) bool {
	t, ok := target.(ErrContractNotFound)
	if !ok {
		return false
	}
	return t.ContractID == uuid.Nil || e.ContractID == t.ContractID
}

// ErrContractItemNotFound indicates missing contract item
type ErrContractItemNotFound struct {
	ItemID uuid.UUID
}

func (e ErrContractItemNotFound) Error() string {
	return "contract item not found: " + e.ItemID.String()
}

func (e ErrContractItemNotFound) Is(target error) bool {
	t, ok := target.(ErrContractItemNotFound)
	if !ok {
		return false
	}
	return t.ItemID == uuid.Nil || e.ItemID == t.ItemID
}
