package handler

import (
	"errors"
	"log/slog"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/backoffice-ledger/internal/logger"
	"github.com/gin-gonic/gin"
)

// inputErrors are rejected by domain constructors and map to 400
var inputErrors = []error{
	registry.ErrEmptyName,
	registry.ErrInvalidDocument,
	registry.ErrNegativeValue,
	registry.ErrInvalidPeriod,
	registry.ErrInvalidBilling,
	finance.ErrEmptyName,
	finance.ErrInvalidAccountType,
	shared.ErrInvalidEntryKind,
	shared.ErrInvalidSituation,
	shared.ErrInvalidItemKind,
	shared.ErrInvalidPersonType,
	ledger.ErrInvalidTransition,
}

// respondError translates a service error into the matching HTTP response
func respondError(c *gin.Context, log *slog.Logger, action string, err error) {
	if fields, ok := ledger.AsValidationErrors(err); ok {
		RespondValidationFailed(c, fields)
		return
	}

	var (
		dupDocument registry.ErrDuplicateDocument
		dupEntry    ledger.ErrDuplicateEntry
		cfgErr      bookkeeping.ConfigurationError
	)
	switch {
	case errors.As(err, &dupDocument):
		RespondConflict(c, "A client with this document already exists")
		return
	case errors.As(err, &dupEntry):
		RespondConflict(c, err.Error())
		return
	case errors.As(err, &cfgErr):
		RespondBadRequest(c, err.Error())
		return
	case isNotFound(err):
		RespondNotFound(c, err.Error())
		return
	}

	for _, target := range inputErrors {
		if errors.Is(err, target) {
			RespondBadRequest(c, err.Error())
			return
		}
	}

	logger.FromContext(c.Request.Context(), log).Error("Failed to "+action, "error", err)
	RespondInternalError(c)
}

func isNotFound(err error) bool {
	return errors.Is(err, registry.ErrClientNotFound{}) ||
		errors.Is(err, registry.ErrServiceNotFound{}) ||
		errors.Is(err, registry.ErrContractNotFound{}) ||
		errors.Is(err, registry.ErrContractItemNotFound{}) ||
		errors.Is(err, finance.ErrNotFound{}) ||
		errors.Is(err, ledger.ErrEntryNotFound{})
}
