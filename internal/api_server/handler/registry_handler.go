package handler

import (
	"log/slog"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegistryHandler handles HTTP requests for clients, catalog services and contracts
type RegistryHandler struct {
	registryService bookkeeping.RegistryService
	logger          *slog.Logger
}

func NewRegistryHandler(logger *slog.Logger, registryService bookkeeping.RegistryService) *RegistryHandler {
	return &RegistryHandler{
		registryService: registryService,
		logger:          logger,
	}
}

// CreateClient registers a client after checking its CPF/CNPJ
func (h *RegistryHandler) CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	client, err := h.registryService.CreateClient(c.Request.Context(), bookkeeping.ClientInput{
		PersonType: shared.PersonType(req.PersonType),
		Name:       req.Name,
		Document:   req.Document,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		respondError(c, h.logger, "create client", err)
		return
	}

	RespondCreated(c, mapClientToResponse(client))
}

func (h *RegistryHandler) GetClient(c *gin.Context) {
	id, ok := pathID(c, "id", "client")
	if !ok {
		return
	}

	client, err := h.registryService.GetClient(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get client", err)
		return
	}

	RespondOK(c, mapClientToResponse(client))
}

func (h *RegistryHandler) CreateService(c *gin.Context) {
	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	service, err := h.registryService.CreateService(c.Request.Context(), req.Name, req.Description, req.DefaultPrice)
	if err != nil {
		respondError(c, h.logger, "create service", err)
		return
	}

	RespondCreated(c, mapServiceToResponse(service))
}

func (h *RegistryHandler) GetService(c *gin.Context) {
	id, ok := pathID(c, "id", "service")
	if !ok {
		return
	}

	service, err := h.registryService.GetService(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get service", err)
		return
	}

	RespondOK(c, mapServiceToResponse(service))
}

func (h *RegistryHandler) CreateContract(c *gin.Context) {
	var req CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	contract, err := h.registryService.CreateContract(c.Request.Context(), bookkeeping.ContractInput{
		ClientID:   uuid.MustParse(req.ClientID),
		Name:       req.Name,
		StartDate:  *optionalDate(req.StartDate),
		EndDate:    optionalDate(req.EndDate),
		BillingDay: req.BillingDay,
	})
	if err != nil {
		respondError(c, h.logger, "create contract", err)
		return
	}

	RespondCreated(c, mapContractToResponse(contract))
}

// GetContract returns the contract with its items
func (h *RegistryHandler) GetContract(c *gin.Context) {
	id, ok := pathID(c, "id", "contract")
	if !ok {
		return
	}

	contract, err := h.registryService.GetContract(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get contract", err)
		return
	}

	RespondOK(c, mapContractToResponse(contract))
}

func (h *RegistryHandler) AddContractItem(c *gin.Context) {
	contractID, ok := pathID(c, "id", "contract")
	if !ok {
		return
	}

	var req AddContractItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	item, err := h.registryService.AddContractItem(c.Request.Context(), contractID, bookkeeping.ItemInput{
		ServiceID:   uuid.MustParse(req.ServiceID),
		Kind:        shared.ItemKind(req.Kind),
		AgreedValue: req.AgreedValue,
		Notes:       req.Notes,
	})
	if err != nil {
		respondError(c, h.logger, "add contract item", err)
		return
	}

	RespondCreated(c, mapItemToResponse(item))
}
