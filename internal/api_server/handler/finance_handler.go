package handler

import (
	"log/slog"

	"github.com/backoffice-ledger/internal/bookkeeping"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// FinanceHandler handles HTTP requests for the financial setup and balances
type FinanceHandler struct {
	financeService bookkeeping.FinanceService
	logger         *slog.Logger
}

func NewFinanceHandler(logger *slog.Logger, financeService bookkeeping.FinanceService) *FinanceHandler {
	return &FinanceHandler{
		financeService: financeService,
		logger:         logger,
	}
}

func (h *FinanceHandler) CreateCategory(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	category, err := h.financeService.CreateCategory(c.Request.Context(), req.Name, shared.EntryKind(req.Kind))
	if err != nil {
		respondError(c, h.logger, "create category", err)
		return
	}

	RespondCreated(c, category)
}

func (h *FinanceHandler) CreateCostCenter(c *gin.Context) {
	var req CreateCostCenterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	costCenter, err := h.financeService.CreateCostCenter(c.Request.Context(), req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, "create cost center", err)
		return
	}

	RespondCreated(c, costCenter)
}

func (h *FinanceHandler) CreateBank(c *gin.Context) {
	var req CreateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	bank, err := h.financeService.CreateBank(c.Request.Context(), req.Name, req.Code, req.StatementLayout)
	if err != nil {
		respondError(c, h.logger, "create bank", err)
		return
	}

	RespondCreated(c, bank)
}

func (h *FinanceHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.financeService.CreateAccount(c.Request.Context(), bookkeeping.AccountInput{
		BankID:         uuid.MustParse(req.BankID),
		Name:           req.Name,
		Type:           shared.AccountType(req.Type),
		Branch:         req.Branch,
		Number:         req.Number,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		respondError(c, h.logger, "create bank account", err)
		return
	}

	RespondCreated(c, mapAccountToResponse(account))
}

func (h *FinanceHandler) GetAccount(c *gin.Context) {
	id, ok := pathID(c, "id", "account")
	if !ok {
		return
	}

	account, err := h.financeService.GetAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "get bank account", err)
		return
	}

	RespondOK(c, mapAccountToResponse(account))
}

// GetBalance derives the current balance from the account's paid entries
func (h *FinanceHandler) GetBalance(c *gin.Context) {
	id, ok := pathID(c, "id", "account")
	if !ok {
		return
	}

	balance, err := h.financeService.CurrentBalance(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "compute balance", err)
		return
	}

	RespondOK(c, mapBalanceToResponse(balance))
}

func (h *FinanceHandler) GetContractTotals(c *gin.Context) {
	id, ok := pathID(c, "id", "contract")
	if !ok {
		return
	}

	totals, err := h.financeService.ContractTotals(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, "compute contract totals", err)
		return
	}

	RespondOK(c, ContractTotalsResponse{
		ContractID: totals.ContractID.String(),
		Pending:    totals.Pending.StringFixed(2),
		Paid:       totals.Paid.StringFixed(2),
	})
}
