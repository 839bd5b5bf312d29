package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxFinanceRepository struct {
	pool *pgxpool.Pool
}

// NewPgxFinanceRepository creates a new repository for bookkeeping entries.
func NewPgxFinanceRepository(pool *pgxpool.Pool) portsrepo.FinanceRepositoryFacade {
	return &PgxFinanceRepository{pool: pool}
}

var _ portsrepo.FinanceRepositoryFacade = (*PgxFinanceRepository)(nil)

// FindExpenseByID retrieves a single expense entry.
func (r *PgxFinanceRepository) FindExpenseByID(ctx context.Context, expenseID int64) (*domain.Expense, error) {
	query := `SELECT expense_id, title, amount, category, txn_date, COALESCE(notes, ''),
		created_at, created_by, last_updated_at, last_updated_by
		FROM expenses WHERE expense_id = $1;`

	var e domain.Expense
	err := r.pool.QueryRow(ctx, query, expenseID).Scan(
		&e.ExpenseID, &e.Title, &e.Amount, &e.Category, &e.TxnDate, &e.Notes,
		&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %d: %w", expenseID, err)
	}

	return &e, nil
}

// ListExpenses retrieves a limit/offset page of expenses, optionally narrowed
// to one calendar month, newest first.
func (r *PgxFinanceRepository) ListExpenses(ctx context.Context, year, month *int, limit, offset int) ([]domain.Expense, error) {
	query := `SELECT expense_id, title, amount, category, txn_date, COALESCE(notes, ''),
		created_at, created_by, last_updated_at, last_updated_by
		FROM expenses
		WHERE ($1::int IS NULL OR EXTRACT(YEAR FROM txn_date) = $1)
		  AND ($2::int IS NULL OR EXTRACT(MONTH FROM txn_date) = $2)
		ORDER BY txn_date DESC, expense_id DESC
		LIMIT $3 OFFSET $4;`

	rows, err := r.pool.Query(ctx, query, year, month, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		var e domain.Expense
		if err := rows.Scan(
			&e.ExpenseID, &e.Title, &e.Amount, &e.Category, &e.TxnDate, &e.Notes,
			&e.CreatedAt, &e.CreatedBy, &e.LastUpdatedAt, &e.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", err)
	}

	return expenses, nil
}

// FindIncomeByID retrieves a single income entry.
func (r *PgxFinanceRepository) FindIncomeByID(ctx context.Context, incomeID int64) (*domain.Income, error) {
	query := `SELECT income_id, title, amount, COALESCE(source, ''), txn_date, COALESCE(notes, ''),
		created_at, created_by, last_updated_at, last_updated_by
		FROM incomes WHERE income_id = $1;`

	var i domain.Income
	err := r.pool.QueryRow(ctx, query, incomeID).Scan(
		&i.IncomeID, &i.Title, &i.Amount, &i.Source, &i.TxnDate, &i.Notes,
		&i.CreatedAt, &i.CreatedBy, &i.LastUpdatedAt, &i.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find income %d: %w", incomeID, err)
	}

	return &i, nil
}

// ListIncomes retrieves a limit/offset page of income entries, optionally
// narrowed to one calendar month, newest first.
func (r *PgxFinanceRepository) ListIncomes(ctx context.Context, year, month *int, limit, offset int) ([]domain.Income, error) {
	query := `SELECT income_id, title, amount, COALESCE(source, ''), txn_date, COALESCE(notes, ''),
		created_at, created_by, last_updated_at, last_updated_by
		FROM incomes
		WHERE ($1::int IS NULL OR EXTRACT(YEAR FROM txn_date) = $1)
		  AND ($2::int IS NULL OR EXTRACT(MONTH FROM txn_date) = $2)
		ORDER BY txn_date DESC, income_id DESC
		LIMIT $3 OFFSET $4;`

	rows, err := r.pool.Query(ctx, query, year, month, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query incomes: %w", err)
	}
	defer rows.Close()

	incomes := []domain.Income{}
	for rows.Next() {
		var i domain.Income
		if err := rows.Scan(
			&i.IncomeID, &i.Title, &i.Amount, &i.Source, &i.TxnDate, &i.Notes,
			&i.CreatedAt, &i.CreatedBy, &i.LastUpdatedAt, &i.LastUpdatedBy,
		); err != nil {
			return nil, fmt.Errorf("failed to scan income row: %w", err)
		}
		incomes = append(incomes, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating income rows: %w", err)
	}

	return incomes, nil
}

// SummarizeMonth totals expenses and incomes for one calendar month.
func (r *PgxFinanceRepository) SummarizeMonth(ctx context.Context, year, month int) (*domain.MonthFinanceSummary, error) {
	query := `
		SELECT
			(SELECT COALESCE(SUM(amount), 0) FROM expenses
			 WHERE EXTRACT(YEAR FROM txn_date) = $1 AND EXTRACT(MONTH FROM txn_date) = $2),
			(SELECT COALESCE(SUM(amount), 0) FROM incomes
			 WHERE EXTRACT(YEAR FROM txn_date) = $1 AND EXTRACT(MONTH FROM txn_date) = $2);
	`
	summary := domain.MonthFinanceSummary{Year: year, Month: month}
	err := r.pool.QueryRow(ctx, query, year, month).Scan(&summary.TotalExpenses, &summary.TotalIncome)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize month %d-%02d: %w", year, month, err)
	}
	summary.Net = summary.TotalIncome.Sub(summary.TotalExpenses)

	return &summary, nil
}

// SaveExpense inserts a new expense entry and returns it with its id.
func (r *PgxFinanceRepository) SaveExpense(ctx context.Context, expense domain.Expense) (*domain.Expense, error) {
	query := `
		INSERT INTO expenses (title, amount, category, txn_date, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING expense_id;
	`
	var notes *string
	if expense.Notes != "" {
		notes = &expense.Notes
	}
	err := r.pool.QueryRow(ctx, query,
		expense.Title, expense.Amount, expense.Category, expense.TxnDate, notes,
		expense.CreatedAt, expense.CreatedBy, expense.LastUpdatedAt, expense.LastUpdatedBy,
	).Scan(&expense.ExpenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert expense: %w", err)
	}

	return &expense, nil
}

// UpdateExpense persists the mutable expense fields.
func (r *PgxFinanceRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE expenses SET title = $2, amount = $3, category = $4, txn_date = $5, notes = $6, last_updated_at = $7, last_updated_by = $8
		WHERE expense_id = $1;`,
		expense.ExpenseID, expense.Title, expense.Amount, expense.Category, expense.TxnDate, expense.Notes,
		expense.LastUpdatedAt, expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %d: %w", expense.ExpenseID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteExpense removes an expense entry.
func (r *PgxFinanceRepository) DeleteExpense(ctx context.Context, expenseID int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %d: %w", expenseID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SaveIncome inserts a new income entry and returns it with its id.
func (r *PgxFinanceRepository) SaveIncome(ctx context.Context, income domain.Income) (*domain.Income, error) {
	query := `
		INSERT INTO incomes (title, amount, source, txn_date, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING income_id;
	`
	var notes *string
	if income.Notes != "" {
		notes = &income.Notes
	}
	err := r.pool.QueryRow(ctx, query,
		income.Title, income.Amount, income.Source, income.TxnDate, notes,
		income.CreatedAt, income.CreatedBy, income.LastUpdatedAt, income.LastUpdatedBy,
	).Scan(&income.IncomeID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert income: %w", err)
	}

	return &income, nil
}

// UpdateIncome persists the mutable income fields.
func (r *PgxFinanceRepository) UpdateIncome(ctx context.Context, income domain.Income) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE incomes SET title = $2, amount = $3, source = $4, txn_date = $5, notes = $6, last_updated_at = $7, last_updated_by = $8
		WHERE income_id = $1;`,
		income.IncomeID, income.Title, income.Amount, income.Source, income.TxnDate, income.Notes,
		income.LastUpdatedAt, income.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update income %d: %w", income.IncomeID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteIncome removes an income entry.
func (r *PgxFinanceRepository) DeleteIncome(ctx context.Context, incomeID int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM incomes WHERE income_id = $1;`, incomeID)
	if err != nil {
		return fmt.Errorf("failed to delete income %d: %w", incomeID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
