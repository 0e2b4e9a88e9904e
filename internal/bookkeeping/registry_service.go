package bookkeeping

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistryServiceImpl implements the RegistryService interface
type RegistryServiceImpl struct {
	clients   registry.ClientRepository
	services  registry.ServiceRepository
	contracts registry.ContractRepository
	logger    *slog.Logger
}

func NewRegistryService(
	logger *slog.Logger,
	clients registry.ClientRepository,
	services registry.ServiceRepository,
	contracts registry.ContractRepository,
) *RegistryServiceImpl {
	return &RegistryServiceImpl{
		clients:   clients,
		services:  services,
		contracts: contracts,
		logger:    logger,
	}
}

func (s *RegistryServiceImpl) CreateClient(ctx context.Context, in ClientInput) (*registry.Client, error) {
	client, err := registry.NewClient(in.PersonType, in.Name, in.Document, in.Email, in.Phone)
	if err != nil {
		return nil, err
	}

	existing, err := s.clients.GetByDocument(ctx, client.Document)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, registry.ErrDuplicateDocument{Document: client.Document}
	}

	if err := s.clients.Create(ctx, client); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Client created",
		"client_id", client.ID.String(),
		"person_type", string(client.PersonType),
	)
	return client, nil
}

func (s *RegistryServiceImpl) GetClient(ctx context.Context, id uuid.UUID) (*registry.Client, error) {
	return s.clients.GetByID(ctx, id)
}

func (s *RegistryServiceImpl) CreateService(ctx context.Context, name, description string, defaultPrice decimal.Decimal) (*registry.Service, error) {
	service, err := registry.NewService(name, description, defaultPrice)
	if err != nil {
		return nil, err
	}
	if err := s.services.Create(ctx, service); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Service created", "service_id", service.ID.String())
	return service, nil
}

func (s *RegistryServiceImpl) GetService(ctx context.Context, id uuid.UUID) (*registry.Service, error) {
	return s.services.GetByID(ctx, id)
}

// CreateContract requires the client to exist
func (s *RegistryServiceImpl) CreateContract(ctx context.Context, in ContractInput) (*registry.Contract, error) {
	contract, err := registry.NewContract(in.ClientID, in.Name, in.StartDate, in.EndDate, in.BillingDay)
	if err != nil {
		return nil, err
	}

	if _, err := s.clients.GetByID(ctx, in.ClientID); err != nil {
		return nil, err
	}

	if err := s.contracts.Create(ctx, contract); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Contract created",
		"contract_id", contract.ID.String(),
		"client_id", contract.ClientID.String(),
	)
	return contract, nil
}

func (s *RegistryServiceImpl) GetContract(ctx context.Context, id uuid.UUID) (*registry.Contract, error) {
	contract, err := s.contracts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.contracts.ListItems(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load items of contract %s: %w", id, err)
	}
	contract.Items = items
	return contract, nil
}

// AddContractItem requires the contract and the service to exist
func (s *RegistryServiceImpl) AddContractItem(ctx context.Context, contractID uuid.UUID, in ItemInput) (*registry.ContractItem, error) {
	if _, err := s.contracts.GetByID(ctx, contractID); err != nil {
		return nil, err
	}

	service, err := s.services.GetByID(ctx, in.ServiceID)
	if err != nil {
		return nil, err
	}

	value := service.DefaultPrice
	if in.AgreedValue != nil {
		value = *in.AgreedValue
	}

	item, err := registry.NewContractItem(contractID, in.ServiceID, in.Kind, value, in.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.contracts.AddItem(ctx, item); err != nil {
		return nil, err
	}

	logger.FromContext(ctx, s.logger).Info("Contract item added",
		"contract_id", contractID.String(),
		"item_id", item.ID.String(),
		"kind", string(item.Kind),
	)
	return item, nil
}
