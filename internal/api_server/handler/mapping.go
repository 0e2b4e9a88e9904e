package handler

import (
	"time"

	"github.com/backoffice-ledger/internal/domain/activity"
	"github.com/backoffice-ledger/internal/domain/finance"
	"github.com/backoffice-ledger/internal/domain/ledger"
	"github.com/backoffice-ledger/internal/domain/registry"
	"github.com/backoffice-ledger/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// pathID parses the named path parameter, answering 400 when it is not a UUID
func pathID(c *gin.Context, name, label string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		RespondBadRequest(c, "Invalid "+label+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// optionalUUID parses a UUID that binding already validated; "" yields nil
func optionalUUID(s string) *uuid.UUID {
	if s == "" {
		return nil
	}
	id := uuid.MustParse(s)
	return &id
}

func optionalDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	d, _ := time.Parse(dateLayout, s)
	return &d
}

func mapClientToResponse(c *registry.Client) ClientResponse {
	return ClientResponse{
		ID:         c.ID.String(),
		PersonType: string(c.PersonType),
		Name:       c.Name,
		Document:   c.Document,
		Email:      c.Email,
		Phone:      c.Phone,
		Active:     c.Active,
		CreatedAt:  c.CreatedAt.Format(time.RFC3339),
	}
}

func mapServiceToResponse(s *registry.Service) ServiceResponse {
	return ServiceResponse{
		ID:           s.ID.String(),
		Name:         s.Name,
		Description:  s.Description,
		DefaultPrice: s.DefaultPrice.StringFixed(2),
		Active:       s.Active,
	}
}

func mapItemToResponse(i *registry.ContractItem) ContractItemResponse {
	return ContractItemResponse{
		ID:          i.ID.String(),
		ContractID:  i.ContractID.String(),
		ServiceID:   i.ServiceID.String(),
		Kind:        string(i.Kind),
		AgreedValue: i.AgreedValue.StringFixed(2),
		Notes:       i.Notes,
	}
}

func mapContractToResponse(c *registry.Contract) ContractResponse {
	items := make([]ContractItemResponse, 0, len(c.Items))
	for _, i := range c.Items {
		items = append(items, mapItemToResponse(i))
	}
	return ContractResponse{
		ID:         c.ID.String(),
		ClientID:   c.ClientID.String(),
		Name:       c.Name,
		StartDate:  formatDate(c.StartDate),
		EndDate:    formatOptionalDate(c.EndDate),
		Active:     c.Active,
		BillingDay: c.BillingDay,
		Items:      items,
	}
}

func mapAccountToResponse(a *finance.BankAccount) AccountResponse {
	return AccountResponse{
		ID:             a.ID.String(),
		BankID:         a.BankID.String(),
		Name:           a.Name,
		Type:           string(a.Type),
		Branch:         a.Branch,
		Number:         a.Number,
		OpeningBalance: a.OpeningBalance.StringFixed(2),
		Active:         a.Active,
	}
}

func mapBalanceToResponse(b *finance.Balance) BalanceResponse {
	return BalanceResponse{
		AccountID:      b.AccountID.String(),
		OpeningBalance: b.OpeningBalance.StringFixed(2),
		PaidIncome:     b.PaidIncome.StringFixed(2),
		PaidExpense:    b.PaidExpense.StringFixed(2),
		Current:        b.Current.StringFixed(2),
	}
}

func optionalID(id *uuid.UUID) string {
	if id == nil {
		return ""
	}
	return id.String()
}

func mapEntryToResponse(e *ledger.Entry) EntryResponse {
	return EntryResponse{
		ID:                e.ID.String(),
		Kind:              string(e.Kind),
		ClientID:          optionalID(e.ClientID),
		ContractID:        optionalID(e.ContractID),
		ContractItemID:    optionalID(e.ContractItemID),
		CategoryID:        e.CategoryID.String(),
		AccountID:         e.AccountID.String(),
		CostCenterID:      optionalID(e.CostCenterID),
		Description:       e.Description,
		Value:             e.Value.StringFixed(2),
		Date:              formatDate(e.Date),
		DueDate:           formatOptionalDate(e.DueDate),
		Competence:        formatOptionalDate(e.Competence),
		Situation:         string(e.Situation),
		InvoiceIssued:     e.InvoiceIssued,
		Extra:             e.Extra,
		DueNoticeSent:     e.DueNoticeSent,
		InvoiceNoticeSent: e.InvoiceNoticeSent,
		CreatedAt:         e.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         e.UpdatedAt.Format(time.RFC3339),
	}
}

func mapEntriesToResponse(entries []*ledger.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, mapEntryToResponse(e))
	}
	return out
}

// mapRequestToEntry builds the entry a request describes; binding has
// already validated the UUID and date fields.
func mapRequestToEntry(req *EntryRequest) *ledger.Entry {
	e := &ledger.Entry{
		Kind:           shared.EntryKind(req.Kind),
		ClientID:       optionalUUID(req.ClientID),
		ContractID:     optionalUUID(req.ContractID),
		ContractItemID: optionalUUID(req.ContractItemID),
		CategoryID:     uuid.MustParse(req.CategoryID),
		AccountID:      uuid.MustParse(req.AccountID),
		CostCenterID:   optionalUUID(req.CostCenterID),
		Description:    req.Description,
		Value:          req.Value,
		DueDate:        optionalDate(req.DueDate),
		Competence:     optionalDate(req.Competence),
		Situation:      shared.Situation(req.Situation),
		InvoiceIssued:  req.InvoiceIssued,
		Extra:          req.Extra,
	}
	if d := optionalDate(req.Date); d != nil {
		e.Date = *d
	}
	return e
}

func mapActivityToResponse(r *activity.Record) ActivityResponse {
	return ActivityResponse{
		EventID:       r.EventID,
		Type:          string(r.Type),
		Situation:     string(r.Situation),
		Value:         r.Value,
		Notice:        string(r.Notice),
		CorrelationID: r.CorrelationID,
		OccurredAt:    r.OccurredAt.Format(time.RFC3339),
	}
}
