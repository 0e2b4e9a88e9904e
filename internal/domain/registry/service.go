package registry

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Service is a catalog entry that contract items point at.
type Service struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	DefaultPrice decimal.Decimal `json:"default_price"`
	Active       bool            `json:"active"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

func NewService(name, description string, defaultPrice decimal.Decimal) (*Service, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if defaultPrice.IsNegative() {
		return nil, ErrNegativeValue
	}

	now := time.Now()
	return &Service{
		ID:           uuid.New(),
		Name:         name,
		Description:  strings.TrimSpace(description),
		DefaultPrice: defaultPrice.Round(2),
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}
