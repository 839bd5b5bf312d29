package repositories

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// FinanceReader defines read operations for bookkeeping entries.
type FinanceReader interface {
	FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error)
	ListExpenses(ctx context.Context, year, month *int, limit, offset int) ([]domain.Expense, error)
	FindIncomeByID(ctx context.Context, incomeID int64) (*domain.Income, error)
	ListIncomes(ctx context.Context, year, month *int, limit, offset int) ([]domain.Income, error)

	// SummarizeMonth totals expenses and incomes for one calendar month.
	SummarizeMonth(ctx context.Context, year, month int) (*domain.MonthFinanceSummary, error)
}

// FinanceWriter defines write operations for bookkeeping entries.
type FinanceWriter interface {
	SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error)
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	DeleteExpense(ctx context.Context, expenseID int64) error
	SaveIncome(ctx context.Context, income domain.Income) (*domain.Income, error)
	UpdateIncome(ctx context.Context, income domain.Income) error
	DeleteIncome(ctx context.Context, incomeID int64) error
}

// FinanceRepositoryFacade combines all bookkeeping repository interfaces.
type FinanceRepositoryFacade interface {
	FinanceReader
	FinanceWriter
}
