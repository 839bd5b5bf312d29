package dto

import (
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is the body for recording a school expense.
type CreateExpenseRequest struct {
	Title    string          `json:"title" binding:"required,max=160"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	Category string          `json:"category" binding:"required,oneof=SALARIES UTILITIES MAINTENANCE SUPPLIES OTHER"`
	TxnDate  string          `json:"txnDate" binding:"required"` // YYYY-MM-DD
	Notes    string          `json:"notes"`
}

// CreateIncomeRequest is the body for recording a non-fee income entry.
type CreateIncomeRequest struct {
	Title   string          `json:"title" binding:"required,max=160"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Source  string          `json:"source" binding:"max=120"`
	TxnDate string          `json:"txnDate" binding:"required"` // YYYY-MM-DD
	Notes   string          `json:"notes"`
}

// ExpenseResponse is the API shape of one expense entry.
type ExpenseResponse struct {
	ExpenseID int64                  `json:"expenseID"`
	Title     string                 `json:"title"`
	Amount    decimal.Decimal        `json:"amount"`
	Category  domain.ExpenseCategory `json:"category"`
	TxnDate   time.Time              `json:"txnDate"`
	Notes     string                 `json:"notes,omitempty"`
	CreatedAt time.Time              `json:"createdAt"`
}

// IncomeResponse is the API shape of one income entry.
type IncomeResponse struct {
	IncomeID  int64           `json:"incomeID"`
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Source    string          `json:"source,omitempty"`
	TxnDate   time.Time       `json:"txnDate"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
}

// MonthSummaryResponse totals bookkeeping entries for one month.
type MonthSummaryResponse struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	Net           decimal.Decimal `json:"net"`
}

// ToExpenseResponse converts a domain expense to its API shape.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID: e.ExpenseID,
		Title:     e.Title,
		Amount:    e.Amount,
		Category:  e.Category,
		TxnDate:   e.TxnDate,
		Notes:     e.Notes,
		CreatedAt: e.CreatedAt,
	}
}

// ToIncomeResponse converts a domain income to its API shape.
func ToIncomeResponse(i *domain.Income) IncomeResponse {
	return IncomeResponse{
		IncomeID:  i.IncomeID,
		Title:     i.Title,
		Amount:    i.Amount,
		Source:    i.Source,
		TxnDate:   i.TxnDate,
		Notes:     i.Notes,
		CreatedAt: i.CreatedAt,
	}
}
