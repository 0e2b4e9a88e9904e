package handler

import (
	"log/slog"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RecurrenceHandler triggers the recurring entry generator on demand
type RecurrenceHandler struct {
	generator bookkeeping.Generator
	logger    *slog.Logger
}

func NewRecurrenceHandler(logger *slog.Logger, generator bookkeeping.Generator) *RecurrenceHandler {
	return &RecurrenceHandler{
		generator: generator,
		logger:    logger,
	}
}

// Run generates the period's entries with the defaults given in the body.
// Missing defaults are reported as a configuration error.
func (h *RecurrenceHandler) Run(c *gin.Context) {
	var req RecurrenceRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var params bookkeeping.GenerateParams
	var err error
	if params.CategoryID, err = parseDefaultID(req.CategoryID); err != nil {
		RespondBadRequest(c, "Invalid category ID")
		return
	}
	if params.AccountID, err = parseDefaultID(req.AccountID); err != nil {
		RespondBadRequest(c, "Invalid account ID")
		return
	}
	params.CostCenterID = optionalUUID(req.CostCenterID)
	params.ReferenceDate = optionalDate(req.ReferenceDate)

	created, err := h.generator.Generate(c.Request.Context(), params)
	if err != nil {
		respondError(c, h.logger, "generate recurring entries", err)
		return
	}

	RespondCreated(c, RecurrenceRunResponse{
		Created: len(created),
		Entries: mapEntriesToResponse(created),
	})
}

// parseDefaultID leaves an empty value as uuid.Nil for the generator to report
func parseDefaultID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
