package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxFeeRepository struct {
	pool *pgxpool.Pool
}

// NewPgxFeeRepository creates a new repository for monthly fee ledger data.
func NewPgxFeeRepository(pool *pgxpool.Pool) portsrepo.FeeRepositoryFacade {
	return &PgxFeeRepository{pool: pool}
}

var _ portsrepo.FeeRepositoryFacade = (*PgxFeeRepository)(nil)

const feeColumns = `f.fee_id, f.student_id, f.fee_year, f.fee_month,
	f.base_fee, f.van_fee, f.exam_fee, f.electricity_fee,
	f.amount_due, f.amount_paid, f.is_paid, f.payment_date, COALESCE(f.notes, ''),
	f.created_at, f.created_by, f.last_updated_at, f.last_updated_by`

// feeOrder matches the export and listing requirement: newest period first,
// then class and student name for stable reading order.
const feeOrder = `ORDER BY f.fee_year DESC, f.fee_month DESC, s.class_name ASC, s.name ASC, f.fee_id ASC`

func scanFeeRecord(row pgx.Row, rec *domain.MonthlyFeeRecord) error {
	return row.Scan(
		&rec.FeeID,
		&rec.StudentID,
		&rec.FeeYear,
		&rec.FeeMonth,
		&rec.BaseFee,
		&rec.VanFee,
		&rec.ExamFee,
		&rec.ElectricityFee,
		&rec.AmountDue,
		&rec.AmountPaid,
		&rec.IsPaid,
		&rec.PaymentDate,
		&rec.Notes,
		&rec.CreatedAt,
		&rec.CreatedBy,
		&rec.LastUpdatedAt,
		&rec.LastUpdatedBy,
	)
}

// FindFeeByID retrieves a single ledger record by id.
func (r *PgxFeeRepository) FindFeeByID(ctx context.Context, feeID int64) (*domain.MonthlyFeeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM monthly_fees f WHERE f.fee_id = $1;`, feeColumns)

	var rec domain.MonthlyFeeRecord
	err := scanFeeRecord(r.pool.QueryRow(ctx, query, feeID), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee record %d: %w", feeID, err)
	}

	return &rec, nil
}

// FindFeeWithStudent retrieves a ledger record joined to its student summary.
func (r *PgxFeeRepository) FindFeeWithStudent(ctx context.Context, feeID int64) (*domain.FeeRecordWithStudent, error) {
	query := fmt.Sprintf(`
		SELECT %s, s.student_id, s.name, s.class_name, s.uses_van
		FROM monthly_fees f
		JOIN students s ON s.student_id = f.student_id
		WHERE f.fee_id = $1;`, feeColumns)

	var row domain.FeeRecordWithStudent
	err := r.pool.QueryRow(ctx, query, feeID).Scan(
		&row.FeeID,
		&row.StudentID,
		&row.FeeYear,
		&row.FeeMonth,
		&row.BaseFee,
		&row.VanFee,
		&row.ExamFee,
		&row.ElectricityFee,
		&row.AmountDue,
		&row.AmountPaid,
		&row.IsPaid,
		&row.PaymentDate,
		&row.Notes,
		&row.CreatedAt,
		&row.CreatedBy,
		&row.LastUpdatedAt,
		&row.LastUpdatedBy,
		&row.Student.StudentID,
		&row.Student.Name,
		&row.Student.ClassName,
		&row.Student.UsesVan,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fee record %d with student: %w", feeID, err)
	}

	return &row, nil
}

func (r *PgxFeeRepository) queryJoinedFees(ctx context.Context, filter domain.FeeFilter, paging string, pagingArgs []any) ([]domain.FeeRecordWithStudent, error) {
	where, args := buildFeeWhere(filter, 1)
	query := fmt.Sprintf(`
		SELECT %s, s.student_id, s.name, s.class_name, s.uses_van
		FROM monthly_fees f
		JOIN students s ON s.student_id = f.student_id
		%s
		%s
		%s;`, feeColumns, where, feeOrder, paging)
	args = append(args, pagingArgs...)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query fee records: %w", err)
	}
	defer rows.Close()

	results := []domain.FeeRecordWithStudent{}
	for rows.Next() {
		var row domain.FeeRecordWithStudent
		if err := rows.Scan(
			&row.FeeID,
			&row.StudentID,
			&row.FeeYear,
			&row.FeeMonth,
			&row.BaseFee,
			&row.VanFee,
			&row.ExamFee,
			&row.ElectricityFee,
			&row.AmountDue,
			&row.AmountPaid,
			&row.IsPaid,
			&row.PaymentDate,
			&row.Notes,
			&row.CreatedAt,
			&row.CreatedBy,
			&row.LastUpdatedAt,
			&row.LastUpdatedBy,
			&row.Student.StudentID,
			&row.Student.Name,
			&row.Student.ClassName,
			&row.Student.UsesVan,
		); err != nil {
			return nil, fmt.Errorf("failed to scan fee record row: %w", err)
		}
		results = append(results, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating fee record rows: %w", err)
	}

	return results, nil
}

// ListFees retrieves a limit/offset page of joined ledger rows.
func (r *PgxFeeRepository) ListFees(ctx context.Context, filter domain.FeeFilter, limit, offset int) ([]domain.FeeRecordWithStudent, error) {
	// Placeholders continue after the filter args.
	preds := feePredicates(filter)
	argCount := 0
	for _, p := range preds {
		argCount += len(p.args)
	}
	paging := fmt.Sprintf("LIMIT $%d OFFSET $%d", argCount+1, argCount+2)
	return r.queryJoinedFees(ctx, filter, paging, []any{limit, offset})
}

// ListAllFees retrieves the full matching set with no pagination.
// This is the export path: the archive must contain every match.
func (r *PgxFeeRepository) ListAllFees(ctx context.Context, filter domain.FeeFilter) ([]domain.FeeRecordWithStudent, error) {
	return r.queryJoinedFees(ctx, filter, "", nil)
}

// CreateFeeRecords inserts records for a period, skipping (student, year,
// month) combinations that already exist. Returns the number created.
func (r *PgxFeeRepository) CreateFeeRecords(ctx context.Context, records []domain.MonthlyFeeRecord) (int64, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx) // Ignore rollback error
	}()

	batch := &pgx.Batch{}
	insertQuery := `
		INSERT INTO monthly_fees (student_id, fee_year, fee_month, base_fee, van_fee, exam_fee, electricity_fee,
			amount_due, amount_paid, is_paid, payment_date, notes, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (student_id, fee_year, fee_month) DO NOTHING;
	`
	for _, rec := range records {
		var notes *string
		if rec.Notes != "" {
			notes = &rec.Notes
		}
		batch.Queue(insertQuery,
			rec.StudentID,
			rec.FeeYear,
			rec.FeeMonth,
			rec.BaseFee,
			rec.VanFee,
			rec.ExamFee,
			rec.ElectricityFee,
			rec.AmountDue,
			rec.AmountPaid,
			rec.IsPaid,
			rec.PaymentDate,
			notes,
			rec.CreatedAt,
			rec.CreatedBy,
			rec.LastUpdatedAt,
			rec.LastUpdatedBy,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var created int64
	for range records {
		ct, err := br.Exec()
		if err != nil {
			_ = br.Close()
			return 0, fmt.Errorf("failed to execute fee insert batch: %w", err)
		}
		created += ct.RowsAffected()
	}
	if err := br.Close(); err != nil {
		return 0, fmt.Errorf("failed to close fee insert batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit fee insert transaction: %w", err)
	}

	return created, nil
}

// ApplyPayment adds the tendered amount to the stored running total inside a
// database transaction. The row is locked so two concurrent payments sum
// instead of clobbering each other; the additive semantics themselves are
// unchanged.
func (r *PgxFeeRepository) ApplyPayment(ctx context.Context, feeID int64, tendered decimal.Decimal, explicitDate *time.Time, notes *string, updatedBy string, now time.Time) (*domain.MonthlyFeeRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rec, err := r.lockFeeRecord(ctx, tx, feeID)
	if err != nil {
		return nil, err
	}

	updated := domain.ApplyPayment(*rec, tendered, explicitDate, updatedBy, now)
	if notes != nil {
		updated.Notes = *notes
	}

	if err := r.persistLedgerFields(ctx, tx, updated); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit payment for fee record %d: %w", feeID, err)
	}

	return &updated, nil
}

// SettleInFull marks the record fully paid, refusing records that are
// already settled or have no amount due.
func (r *PgxFeeRepository) SettleInFull(ctx context.Context, feeID int64, updatedBy string, now time.Time) (*domain.MonthlyFeeRecord, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	rec, err := r.lockFeeRecord(ctx, tx, feeID)
	if err != nil {
		return nil, err
	}

	switch domain.ComputeStatus(*rec) {
	case domain.FeeStatusPaid:
		return nil, apperrors.ErrAlreadyPaid
	case domain.FeeStatusNotApplicable:
		return nil, apperrors.ErrNothingDue
	}

	updated := domain.SettleInFull(*rec, updatedBy, now)

	if err := r.persistLedgerFields(ctx, tx, updated); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit settle for fee record %d: %w", feeID, err)
	}

	return &updated, nil
}

// DeleteFee removes a ledger record. Plain row delete.
func (r *PgxFeeRepository) DeleteFee(ctx context.Context, feeID int64) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM monthly_fees WHERE fee_id = $1;`, feeID)
	if err != nil {
		return fmt.Errorf("failed to delete fee record %d: %w", feeID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxFeeRepository) lockFeeRecord(ctx context.Context, tx pgx.Tx, feeID int64) (*domain.MonthlyFeeRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM monthly_fees f WHERE f.fee_id = $1 FOR UPDATE;`, feeColumns)

	var rec domain.MonthlyFeeRecord
	err := scanFeeRecord(tx.QueryRow(ctx, query, feeID), &rec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to lock fee record %d: %w", feeID, err)
	}

	return &rec, nil
}

func (r *PgxFeeRepository) persistLedgerFields(ctx context.Context, tx pgx.Tx, rec domain.MonthlyFeeRecord) error {
	var notes *string
	if rec.Notes != "" {
		notes = &rec.Notes
	}
	_, err := tx.Exec(ctx, `
		UPDATE monthly_fees
		SET amount_paid = $2, is_paid = $3, payment_date = $4, notes = $5, last_updated_at = $6, last_updated_by = $7
		WHERE fee_id = $1;`,
		rec.FeeID,
		rec.AmountPaid,
		rec.IsPaid,
		rec.PaymentDate,
		notes,
		rec.LastUpdatedAt,
		rec.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update fee record %d: %w", rec.FeeID, err)
	}
	return nil
}
