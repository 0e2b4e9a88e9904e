package registry

import (
	"errors"
	"strings"
	"time"

	"github.com/backoffice-ledger/internal/domain/identity"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/google/uuid"
)

// Common errors
var (
	ErrEmptyName       = errors.New("name cannot be empty")
	ErrInvalidDocument = errors.New("document does not match the person type")
	ErrNegativeValue   = errors.New("value cannot be negative")
	ErrInvalidPeriod   = errors.New("end date cannot be before start date")
	ErrInvalidBilling  = errors.New("billing day must be between 1 and 31")
)

// Client is a customer identified by a CPF (individual) or CNPJ (organization).
// Document is always stored as digits only.
type Client struct {
	ID         uuid.UUID         `json:"id"`
	PersonType shared.PersonType `json:"person_type"`
	Name       string            `json:"name"`
	Document   string            `json:"document"`
	Email      string            `json:"email,omitempty"`
	Phone      string            `json:"phone,omitempty"`
	Active     bool              `json:"active"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// NewClient validates the document against the person type and normalizes it.
func NewClient(personType shared.PersonType, name, document, email, phone string) (*Client, error) {
	if !personType.Valid() {
		return nil, shared.ErrInvalidPersonType
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !identity.Validate(personType, document) {
		return nil, ErrInvalidDocument
	}

	now := time.Now()
	return &Client{
		ID:         uuid.New(),
		PersonType: personType,
		Name:       name,
		Document:   identity.Normalize(document),
		Email:      strings.TrimSpace(email),
		Phone:      strings.TrimSpace(phone),
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}
