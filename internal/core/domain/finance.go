package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory groups school expenses for the bookkeeping pages.
type ExpenseCategory string

const (
	ExpenseSalaries    ExpenseCategory = "SALARIES"
	ExpenseUtilities   ExpenseCategory = "UTILITIES"
	ExpenseMaintenance ExpenseCategory = "MAINTENANCE"
	ExpenseSupplies    ExpenseCategory = "SUPPLIES"
	ExpenseOther       ExpenseCategory = "OTHER"
)

// Expense is a single school expenditure entry.
type Expense struct {
	ExpenseID int64           `json:"expenseID"` // Primary Key (bigserial)
	Title     string          `json:"title"`
	Amount    decimal.Decimal `json:"amount"`
	Category  ExpenseCategory `json:"category"`
	TxnDate   time.Time       `json:"txnDate"`
	Notes     string          `json:"notes"`
	AuditFields
}

// Income is a single non-fee income entry (donations, grants, rentals).
type Income struct {
	IncomeID int64           `json:"incomeID"` // Primary Key (bigserial)
	Title    string          `json:"title"`
	Amount   decimal.Decimal `json:"amount"`
	Source   string          `json:"source"`
	TxnDate  time.Time       `json:"txnDate"`
	Notes    string          `json:"notes"`
	AuditFields
}

// MonthFinanceSummary totals bookkeeping entries for one calendar month.
type MonthFinanceSummary struct {
	Year          int             `json:"year"`
	Month         int             `json:"month"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	Net           decimal.Decimal `json:"net"`
}
