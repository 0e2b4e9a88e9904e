package finance

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaidTotals are the sums of PAID entries on an account, split by kind.
type PaidTotals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
}

// Balance is the derived state of a bank account at query time.
type Balance struct {
	AccountID      uuid.UUID       `json:"account_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	PaidIncome     decimal.Decimal `json:"paid_income"`
	PaidExpense    decimal.Decimal `json:"paid_expense"`
	Current        decimal.Decimal `json:"current"`
}

// ComputeBalance returns opening + paid income - paid expense in exact decimal arithmetic.
func ComputeBalance(account *BankAccount, totals PaidTotals) *Balance {
	return &Balance{
		AccountID:      account.ID,
		OpeningBalance: account.OpeningBalance,
		PaidIncome:     totals.Income,
		PaidExpense:    totals.Expense,
		Current:        account.OpeningBalance.Add(totals.Income).Sub(totals.Expense),
	}
}
