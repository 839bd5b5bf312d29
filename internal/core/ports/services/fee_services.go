package services

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/campusbooks/school_admin_app/internal/dto"
)

// FeeReaderSvc defines read operations on the monthly fee ledger.
type FeeReaderSvc interface {
	// GetFeeRecord retrieves one ledger record joined to its student summary.
	GetFeeRecord(ctx context.Context, actor domain.Actor, feeID int64) (*domain.FeeRecordWithStudent, error)

	// ListFeeRecords retrieves a filtered limit/offset page of ledger rows.
	ListFeeRecords(ctx context.Context, actor domain.Actor, filter domain.FeeFilter, limit, offset int) ([]domain.FeeRecordWithStudent, error)
}

// FeeWriterSvc defines the mutating ledger operations.
type FeeWriterSvc interface {
	// RecordPayment adds a tendered amount to a record's running payment
	// total. Accumulating and deliberately not idempotent: two calls with the
	// same amount double-count.
	RecordPayment(ctx context.Context, actor domain.Actor, feeID int64, req dto.RecordPaymentRequest) (*domain.MonthlyFeeRecord, error)

	// MarkFullyPaid settles a record in one step. Refuses records that are
	// already paid or have nothing due.
	MarkFullyPaid(ctx context.Context, actor domain.Actor, feeID int64) (*domain.MonthlyFeeRecord, error)

	// AssignMonthlyFees creates one fee record per active student for the
	// given period, skipping students that already have one. Returns the
	// number of records created. Admin or principal only.
	AssignMonthlyFees(ctx context.Context, actor domain.Actor, req dto.AssignFeesRequest) (int64, error)

	// DeleteFeeRecord removes a ledger record. Admin only.
	DeleteFeeRecord(ctx context.Context, actor domain.Actor, feeID int64) error
}

// FeeSvcFacade combines all fee ledger service interfaces.
type FeeSvcFacade interface {
	FeeReaderSvc
	FeeWriterSvc
}
