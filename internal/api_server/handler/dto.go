package handler

import (
	"time"

	"github.com/shopspring/decimal"
)

// dateLayout is the wire format of calendar dates
const dateLayout = "2006-01-02"

// CreateClientRequest represents a request to register a client
type CreateClientRequest struct {
	PersonType string `json:"person_type" binding:"required,oneof=PF PJ"`
	Name       string `json:"name" binding:"required"`
	Document   string `json:"document" binding:"required"`
	Email      string `json:"email,omitempty" binding:"omitempty,email"`
	Phone      string `json:"phone,omitempty"`
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	ID         string `json:"id"`
	PersonType string `json:"person_type"`
	Name       string `json:"name"`
	Document   string `json:"document"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	Active     bool   `json:"active"`
	CreatedAt  string `json:"created_at"`
}

// CreateServiceRequest represents a request to add a catalog service
type CreateServiceRequest struct {
	Name         string          `json:"name" binding:"required"`
	Description  string          `json:"description,omitempty"`
	DefaultPrice decimal.Decimal `json:"default_price"`
}

// ServiceResponse represents a catalog service in API responses
type ServiceResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	DefaultPrice string `json:"default_price"`
	Active       bool   `json:"active"`
}

// CreateContractRequest represents a request to open a contract
type CreateContractRequest struct {
	ClientID   string `json:"client_id" binding:"required,uuid"`
	Name       string `json:"name" binding:"required"`
	StartDate  string `json:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate    string `json:"end_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	BillingDay *int   `json:"billing_day,omitempty" binding:"omitempty,min=1,max=31"`
}

// AddContractItemRequest represents a request to add a billed item.
// AgreedValue defaults to the service's price when omitted.
type AddContractItemRequest struct {
	ServiceID   string           `json:"service_id" binding:"required,uuid"`
	Kind        string           `json:"kind" binding:"required,oneof=RECURRING ONE_OFF"`
	AgreedValue *decimal.Decimal `json:"agreed_value,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

// ContractItemResponse represents a contract item in API responses
type ContractItemResponse struct {
	ID          string `json:"id"`
	ContractID  string `json:"contract_id"`
	ServiceID   string `json:"service_id"`
	Kind        string `json:"kind"`
	AgreedValue string `json:"agreed_value"`
	Notes       string `json:"notes,omitempty"`
}

// ContractResponse represents a contract and its items in API responses
type ContractResponse struct {
	ID         string                 `json:"id"`
	ClientID   string                 `json:"client_id"`
	Name       string                 `json:"name"`
	StartDate  string                 `json:"start_date"`
	EndDate    string                 `json:"end_date,omitempty"`
	Active     bool                   `json:"active"`
	BillingDay *int                   `json:"billing_day,omitempty"`
	Items      []ContractItemResponse `json:"items"`
}

// ContractTotalsResponse represents the pending and paid income of a contract
type ContractTotalsResponse struct {
	ContractID string `json:"contract_id"`
	Pending    string `json:"pending"`
	Paid       string `json:"paid"`
}

// CreateCategoryRequest represents a request to add an entry category
type CreateCategoryRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
}

// CreateCostCenterRequest represents a request to add a cost center
type CreateCostCenterRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description,omitempty"`
}

// CreateBankRequest represents a request to add a bank
type CreateBankRequest struct {
	Name            string `json:"name" binding:"required"`
	Code            string `json:"code,omitempty"`
	StatementLayout string `json:"statement_layout,omitempty"`
}

// CreateAccountRequest represents a request to open a bank account
type CreateAccountRequest struct {
	BankID         string          `json:"bank_id" binding:"required,uuid"`
	Name           string          `json:"name" binding:"required"`
	Type           string          `json:"type,omitempty" binding:"omitempty,oneof=CHECKING SAVINGS OTHER"`
	Branch         string          `json:"branch,omitempty"`
	Number         string          `json:"number,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// AccountResponse represents a bank account in API responses
type AccountResponse struct {
	ID             string `json:"id"`
	BankID         string `json:"bank_id"`
	Name           string `json:"name"`
	Type           string `json:"type"`
	Branch         string `json:"branch,omitempty"`
	Number         string `json:"number,omitempty"`
	OpeningBalance string `json:"opening_balance"`
	Active         bool   `json:"active"`
}

// BalanceResponse represents the derived balance of an account
type BalanceResponse struct {
	AccountID      string `json:"account_id"`
	OpeningBalance string `json:"opening_balance"`
	PaidIncome     string `json:"paid_income"`
	PaidExpense    string `json:"paid_expense"`
	Current        string `json:"current"`
}

// EntryRequest represents a ledger entry submitted for creation, validation or import
type EntryRequest struct {
	Kind           string          `json:"kind" binding:"required,oneof=INCOME EXPENSE"`
	ClientID       string          `json:"client_id,omitempty" binding:"omitempty,uuid"`
	ContractID     string          `json:"contract_id,omitempty" binding:"omitempty,uuid"`
	ContractItemID string          `json:"contract_item_id,omitempty" binding:"omitempty,uuid"`
	CategoryID     string          `json:"category_id" binding:"required,uuid"`
	AccountID      string          `json:"account_id" binding:"required,uuid"`
	CostCenterID   string          `json:"cost_center_id,omitempty" binding:"omitempty,uuid"`
	Description    string          `json:"description"`
	Value          decimal.Decimal `json:"value"`
	Date           string          `json:"date" binding:"required,datetime=2006-01-02"`
	DueDate        string          `json:"due_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Competence     string          `json:"competence,omitempty" binding:"omitempty,datetime=2006-01-02"`
	Situation      string          `json:"situation,omitempty" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	InvoiceIssued  bool            `json:"invoice_issued"`
	Extra          bool            `json:"extra"`
}

// EntryResponse represents a ledger entry in API responses
type EntryResponse struct {
	ID                string `json:"id"`
	Kind              string `json:"kind"`
	ClientID          string `json:"client_id,omitempty"`
	ContractID        string `json:"contract_id,omitempty"`
	ContractItemID    string `json:"contract_item_id,omitempty"`
	CategoryID        string `json:"category_id"`
	AccountID         string `json:"account_id"`
	CostCenterID      string `json:"cost_center_id,omitempty"`
	Description       string `json:"description"`
	Value             string `json:"value"`
	Date              string `json:"date"`
	DueDate           string `json:"due_date,omitempty"`
	Competence        string `json:"competence,omitempty"`
	Situation         string `json:"situation"`
	InvoiceIssued     bool   `json:"invoice_issued"`
	Extra             bool   `json:"extra"`
	DueNoticeSent     bool   `json:"due_notice_sent"`
	InvoiceNoticeSent bool   `json:"invoice_notice_sent"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

// ChangeSituationRequest represents a situation transition. PaidOn replaces
// the entry date when moving to PAID.
type ChangeSituationRequest struct {
	Situation string `json:"situation" binding:"required,oneof=PENDING PAID CANCELLED"`
	PaidOn    string `json:"paid_on,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// EntryListParams represents the filters of the entry listing
type EntryListParams struct {
	PaginationParams
	Kind       string `form:"kind" binding:"omitempty,oneof=INCOME EXPENSE"`
	Situation  string `form:"situation" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
	AccountID  string `form:"account_id" binding:"omitempty,uuid"`
	ClientID   string `form:"client_id" binding:"omitempty,uuid"`
	ContractID string `form:"contract_id" binding:"omitempty,uuid"`
}

// ActivityResponse represents one event in an entry's history
type ActivityResponse struct {
	EventID       string `json:"event_id"`
	Type          string `json:"type"`
	Situation     string `json:"situation"`
	Value         string `json:"value"`
	Notice        string `json:"notice,omitempty"`
	CorrelationID string `json:"correlation_id,omitempty"`
	OccurredAt    string `json:"occurred_at"`
}

// RecurrenceRunRequest represents a manual generator run. ReferenceDate
// defaults to today.
type RecurrenceRunRequest struct {
	CategoryID    string `json:"category_id"`
	AccountID     string `json:"account_id"`
	CostCenterID  string `json:"cost_center_id,omitempty" binding:"omitempty,uuid"`
	ReferenceDate string `json:"reference_date,omitempty" binding:"omitempty,datetime=2006-01-02"`
}

// RecurrenceRunResponse lists the entries a run created
type RecurrenceRunResponse struct {
	Created int             `json:"created"`
	Entries []EntryResponse `json:"entries"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
