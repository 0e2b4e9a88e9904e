package handler

import (
	"log/slog"
	"net/http"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/domain/activity"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
)

// EntryHandler handles HTTP requests for ledger entries
type EntryHandler struct {
	entryService bookkeeping.EntryService
	activityRepo activity.Repository
	logger       *slog.Logger
}

func NewEntryHandler(logger *slog.Logger, entryService bookkeeping.EntryService, activityRepo activity.Repository) *EntryHandler {
	return &EntryHandler{
		entryService: entryService,
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Create stores a validated entry; inconsistencies come back as 422
func (h *EntryHandler) Create(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.entryService.Create(c.Request.Context(), mapRequestToEntry(&req))
	if err != nil {
		respondError(c, h.logger, "create entry", err)
		return
	}

	RespondCreated(c, mapEntryToResponse(entry))
}

// Validate runs the entry checks without storing anything
func (h *EntryHandler) Validate(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.entryService.Validate(c.Request.Context(), mapRequestToEntry(&req))
	if err != nil {
		respondError(c, h.logger, "validate entry", err)
		return
	}

	RespondOK(c, mapEntryToResponse(entry))
}

// Import stores a historical entry after normalization only
func (h *EntryHandler) Import(c *gin.Context) {
	var req EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.entryService.Import(c.Request.Context(), mapRequestToEntry(&req))
	if err != nil {
		respondError(c, h.logger, "import entry", err)
		return
	}

	RespondCreated(c, mapEntryToResponse(entry))
}

func (h *EntryHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id", "entry")
	if !ok {
		return
	}

	entry, err := h.entryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get entry", err)
		return
	}

	RespondOK(c, mapEntryToResponse(entry))
}

// List returns entries newest first, filtered by the query parameters
func (h *EntryHandler) List(c *gin.Context) {
	var params EntryListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		RespondBadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	filter := ledger.Filter{
		AccountID:  optionalUUID(params.AccountID),
		ClientID:   optionalUUID(params.ClientID),
		ContractID: optionalUUID(params.ContractID),
	}
	if params.Kind != "" {
		kind := shared.EntryKind(params.Kind)
		filter.Kind = &kind
	}
	if params.Situation != "" {
		situation := shared.Situation(params.Situation)
		filter.Situation = &situation
	}

	entries, total, err := h.entryService.List(c.Request.Context(), filter, params.Page, params.PerPage)
	if err != nil {
		respondError(c, h.logger, "list entries", err)
		return
	}

	RespondWithPaginatedData(c, http.StatusOK, mapEntriesToResponse(entries), params.Page, params.PerPage, int(total))
}

// ChangeSituation applies a situation transition to an entry
func (h *EntryHandler) ChangeSituation(c *gin.Context) {
	id, ok := pathID(c, "id", "entry")
	if !ok {
		return
	}

	var req ChangeSituationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	entry, err := h.entryService.ChangeSituation(c.Request.Context(), id, shared.Situation(req.Situation), optionalDate(req.PaidOn))
	if err != nil {
		respondError(c, h.logger, "change entry situation", err)
		return
	}

	RespondOK(c, mapEntryToResponse(entry))
}

// Activity lists the recorded events of an entry, newest first
func (h *EntryHandler) Activity(c *gin.Context) {
	id, ok := pathID(c, "id", "entry")
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}

	ctx := c.Request.Context()
	if _, err := h.entryService.Get(ctx, id); err != nil {
		respondError(c, h.logger, "get entry", err)
		return
	}

	offset := (pagination.Page - 1) * pagination.PerPage
	records, err := h.activityRepo.ListByEntry(ctx, id, pagination.PerPage, offset)
	if err != nil {
		respondError(c, h.logger, "list entry activity", err)
		return
	}
	total, err := h.activityRepo.CountByEntry(ctx, id)
	if err != nil {
		respondError(c, h.logger, "count entry activity", err)
		return
	}

	out := make([]ActivityResponse, 0, len(records))
	for _, r := range records {
		out = append(out, mapActivityToResponse(r))
	}
	RespondWithPaginatedData(c, http.StatusOK, out, pagination.Page, pagination.PerPage, int(total))
}
