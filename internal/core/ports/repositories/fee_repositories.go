package repositories

import (
	"context"
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// FeeReader defines read operations for monthly fee ledger data.
type FeeReader interface {
	// FindFeeByID retrieves a single ledger record by its unique identifier.
	FindFeeByID(ctx context.Context, feeID int64) (*domain.MonthlyFeeRecord, error)

	// FindFeeWithStudent retrieves a ledger record joined to its student summary.
	FindFeeWithStudent(ctx context.Context, feeID int64) (*domain.FeeRecordWithStudent, error)

	// ListFees retrieves a limit/offset page of ledger rows joined to student
	// summaries, filtered by the AND-composed predicates of filter and ordered
	// by year desc, month desc, class asc, name asc.
	ListFees(ctx context.Context, filter domain.FeeFilter, limit, offset int) ([]domain.FeeRecordWithStudent, error)

	// ListAllFees retrieves the full matching set with no pagination.
	// This is the bulk-export path: the archive must contain every match.
	ListAllFees(ctx context.Context, filter domain.FeeFilter) ([]domain.FeeRecordWithStudent, error)
}

// FeeWriter defines write operations for monthly fee ledger data.
type FeeWriter interface {
	// CreateFeeRecords inserts one record per student for a (year, month)
	// period, skipping students that already have one. Returns the number
	// of rows actually created.
	CreateFeeRecords(ctx context.Context, records []domain.MonthlyFeeRecord) (int64, error)

	// ApplyPayment adds the tendered amount to the stored running total
	// inside a database transaction, re-deriving is_paid and payment_date
	// against the stored value rather than a client-held copy.
	ApplyPayment(ctx context.Context, feeID int64, tendered decimal.Decimal, explicitDate *time.Time, notes *string, updatedBy string, now time.Time) (*domain.MonthlyFeeRecord, error)

	// SettleInFull marks the record fully paid. It refuses with
	// apperrors.ErrAlreadyPaid / apperrors.ErrNothingDue instead of mutating
	// records that are settled or have no amount due.
	SettleInFull(ctx context.Context, feeID int64, updatedBy string, now time.Time) (*domain.MonthlyFeeRecord, error)

	// DeleteFee removes a ledger record. Plain row delete, no cascading logic.
	DeleteFee(ctx context.Context, feeID int64) error
}

// FeeRepositoryFacade combines all fee-ledger repository interfaces.
type FeeRepositoryFacade interface {
	FeeReader
	FeeWriter
}
