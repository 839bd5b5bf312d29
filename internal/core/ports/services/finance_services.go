package services

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/campusbooks/school_admin_app/internal/dto"
)

// FinanceSvcFacade manages expense/income bookkeeping.
type FinanceSvcFacade interface {
	CreateExpense(ctx context.Context, actor domain.Actor, req dto.CreateExpenseRequest) (*domain.Expense, error)
	ListExpenses(ctx context.Context, actor domain.Actor, year, month *int, limit, offset int) ([]domain.Expense, error)
	DeleteExpense(ctx context.Context, actor domain.Actor, expenseID int64) error

	CreateIncome(ctx context.Context, actor domain.Actor, req dto.CreateIncomeRequest) (*domain.Income, error)
	ListIncomes(ctx context.Context, actor domain.Actor, year, month *int, limit, offset int) ([]domain.Income, error)
	DeleteIncome(ctx context.Context, actor domain.Actor, incomeID int64) error

	// MonthSummary totals expenses and incomes for one calendar month.
	MonthSummary(ctx context.Context, actor domain.Actor, year, month int) (*domain.MonthFinanceSummary, error)

	// ExportLedgerCSV renders a month's expenses and incomes as CSV.
	// Returns the file content and a timestamped download name.
	ExportLedgerCSV(ctx context.Context, actor domain.Actor, year, month int) ([]byte, string, error)
}
