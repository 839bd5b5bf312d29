package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/dto"
)

// financeService manages expense and income bookkeeping.
type financeService struct {
	BaseService
	financeRepo portsrepo.FinanceRepositoryFacade
	now         func() time.Time
}

// NewFinanceService creates a new bookkeeping service.
func NewFinanceService(financeRepo portsrepo.FinanceRepositoryFacade) portssvc.FinanceSvcFacade {
	return &financeService{financeRepo: financeRepo, now: time.Now}
}

var _ portssvc.FinanceSvcFacade = (*financeService)(nil)

func parseTxnDate(value string) (time.Time, error) {
	parsed, err := time.Parse(isoDateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: txn date must be YYYY-MM-DD", apperrors.ErrValidation)
	}
	return parsed, nil
}

// CreateExpense records a school expenditure. Principal or admin only.
func (s *financeService) CreateExpense(ctx context.Context, actor domain.Actor, req dto.CreateExpenseRequest) (*domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	txnDate, err := parseTxnDate(req.TxnDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	expense := domain.Expense{
		Title:    req.Title,
		Amount:   req.Amount,
		Category: domain.ExpenseCategory(req.Category),
		TxnDate:  txnDate,
		Notes:    req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	created, err := s.financeRepo.SaveExpense(ctx, expense)
	if err != nil {
		s.LogError(ctx, err, "Failed to save expense", slog.String("title", req.Title))
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.LogInfo(ctx, "Expense recorded",
		slog.Int64("expense_id", created.ExpenseID),
		slog.String("amount", created.Amount.StringFixed(2)))
	return created, nil
}

// ListExpenses retrieves a limit/offset page of expenses, optionally narrowed
// to one year or one (year, month).
func (s *financeService) ListExpenses(ctx context.Context, actor domain.Actor, year, month *int, limit, offset int) ([]domain.Expense, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.financeRepo.ListExpenses(ctx, year, month, limit, offset)
}

// DeleteExpense removes an expense entry. Admin only.
func (s *financeService) DeleteExpense(ctx context.Context, actor domain.Actor, expenseID int64) error {
	if err := s.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.financeRepo.DeleteExpense(ctx, expenseID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to delete expense", slog.Int64("expense_id", expenseID))
		return fmt.Errorf("failed to delete expense %d: %w", expenseID, err)
	}
	s.LogInfo(ctx, "Expense deleted", slog.Int64("expense_id", expenseID))
	return nil
}

// CreateIncome records a non-fee income entry. Principal or admin only.
func (s *financeService) CreateIncome(ctx context.Context, actor domain.Actor, req dto.CreateIncomeRequest) (*domain.Income, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}
	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}
	txnDate, err := parseTxnDate(req.TxnDate)
	if err != nil {
		return nil, err
	}

	now := s.now()
	income := domain.Income{
		Title:   req.Title,
		Amount:  req.Amount,
		Source:  req.Source,
		TxnDate: txnDate,
		Notes:   req.Notes,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	created, err := s.financeRepo.SaveIncome(ctx, income)
	if err != nil {
		s.LogError(ctx, err, "Failed to save income", slog.String("title", req.Title))
		return nil, fmt.Errorf("failed to create income: %w", err)
	}

	s.LogInfo(ctx, "Income recorded",
		slog.Int64("income_id", created.IncomeID),
		slog.String("amount", created.Amount.StringFixed(2)))
	return created, nil
}

// ListIncomes retrieves a limit/offset page of income entries.
func (s *financeService) ListIncomes(ctx context.Context, actor domain.Actor, year, month *int, limit, offset int) ([]domain.Income, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.financeRepo.ListIncomes(ctx, year, month, limit, offset)
}

// DeleteIncome removes an income entry. Admin only.
func (s *financeService) DeleteIncome(ctx context.Context, actor domain.Actor, incomeID int64) error {
	if err := s.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.financeRepo.DeleteIncome(ctx, incomeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to delete income", slog.Int64("income_id", incomeID))
		return fmt.Errorf("failed to delete income %d: %w", incomeID, err)
	}
	s.LogInfo(ctx, "Income deleted", slog.Int64("income_id", incomeID))
	return nil
}

// MonthSummary totals expenses and incomes for one calendar month.
func (s *financeService) MonthSummary(ctx context.Context, actor domain.Actor, year, month int) (*domain.MonthFinanceSummary, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: month must be 1..12", apperrors.ErrValidation)
	}
	return s.financeRepo.SummarizeMonth(ctx, year, month)
}

// ExportLedgerCSV renders one month's expenses and incomes as a single CSV
// with a kind column, expenses first.
func (s *financeService) ExportLedgerCSV(ctx context.Context, actor domain.Actor, year, month int) ([]byte, string, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, "", err
	}
	if month < 1 || month > 12 {
		return nil, "", fmt.Errorf("%w: month must be 1..12", apperrors.ErrValidation)
	}

	// Unpaginated pull of the month; bookkeeping volumes are small.
	expenses, err := s.financeRepo.ListExpenses(ctx, &year, &month, 10000, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list expenses for export")
		return nil, "", fmt.Errorf("failed to list expenses for export: %w", err)
	}
	incomes, err := s.financeRepo.ListIncomes(ctx, &year, &month, 10000, 0)
	if err != nil {
		s.LogError(ctx, err, "Failed to list incomes for export")
		return nil, "", fmt.Errorf("failed to list incomes for export: %w", err)
	}
	if len(expenses) == 0 && len(incomes) == 0 {
		return nil, "", apperrors.ErrNoMatchingRecords
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"kind", "id", "title", "category_or_source", "amount", "txn_date", "notes"}); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, e := range expenses {
		record := []string{
			"EXPENSE",
			strconv.FormatInt(e.ExpenseID, 10),
			e.Title,
			string(e.Category),
			e.Amount.StringFixed(2),
			e.TxnDate.Format(isoDateFormat),
			e.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row for expense %d: %w", e.ExpenseID, err)
		}
	}
	for _, i := range incomes {
		record := []string{
			"INCOME",
			strconv.FormatInt(i.IncomeID, 10),
			i.Title,
			i.Source,
			i.Amount.StringFixed(2),
			i.TxnDate.Format(isoDateFormat),
			i.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row for income %d: %w", i.IncomeID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	fileName := fmt.Sprintf("finance_ledger_%04d_%02d.csv", year, month)
	s.LogInfo(ctx, "Finance ledger CSV exported",
		slog.String("file_name", fileName),
		slog.Int("expenses", len(expenses)),
		slog.Int("incomes", len(incomes)))
	return buf.Bytes(), fileName, nil
}
