package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/dto"
	"github.com/shopspring/decimal"
)

const isoDateFormat = "2006-01-02"

// feeService owns the arithmetic and status transitions of the monthly fee ledger.
type feeService struct {
	BaseService
	feeRepo     portsrepo.FeeRepositoryFacade
	studentRepo portsrepo.StudentReader
	now         func() time.Time
}

// FeeServiceOption configures the fee service.
type FeeServiceOption func(*feeService)

// WithFeeClock overrides the service clock. Used by tests.
func WithFeeClock(now func() time.Time) FeeServiceOption {
	return func(s *feeService) {
		s.now = now
	}
}

// NewFeeService creates a new fee ledger service.
func NewFeeService(feeRepo portsrepo.FeeRepositoryFacade, studentRepo portsrepo.StudentReader, options ...FeeServiceOption) portssvc.FeeSvcFacade {
	svc := &feeService{
		feeRepo:     feeRepo,
		studentRepo: studentRepo,
		now:         time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.FeeSvcFacade = (*feeService)(nil)

// RecordPayment adds a tendered amount to a record's running payment total.
//
// The operation is accumulating and deliberately not idempotent: repeated
// calls add to the stored total rather than replacing it. The repository
// applies the addition against the stored value under a row lock, so two
// concurrent payments sum correctly.
func (s *feeService) RecordPayment(ctx context.Context, actor domain.Actor, feeID int64, req dto.RecordPaymentRequest) (*domain.MonthlyFeeRecord, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}

	if req.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", apperrors.ErrValidation)
	}

	var explicitDate *time.Time
	if req.PaymentDate != nil && *req.PaymentDate != "" {
		parsed, err := time.Parse(isoDateFormat, *req.PaymentDate)
		if err != nil {
			return nil, fmt.Errorf("%w: payment date must be YYYY-MM-DD", apperrors.ErrValidation)
		}
		explicitDate = &parsed
	}

	updated, err := s.feeRepo.ApplyPayment(ctx, feeID, req.Amount, explicitDate, req.Notes, actor.UserID, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to apply payment", slog.Int64("fee_id", feeID))
		return nil, fmt.Errorf("failed to record payment for fee record %d: %w", feeID, err)
	}

	s.LogInfo(ctx, "Payment recorded",
		slog.Int64("fee_id", feeID),
		slog.String("amount", req.Amount.StringFixed(2)),
		slog.String("amount_paid", updated.AmountPaid.StringFixed(2)),
		slog.Bool("is_paid", updated.IsPaid))
	return updated, nil
}

// MarkFullyPaid settles a record in one step. It refuses records that are
// already paid or have nothing due instead of mutating them; the shared
// derivation in the domain package keeps it consistent with RecordPayment.
func (s *feeService) MarkFullyPaid(ctx context.Context, actor domain.Actor, feeID int64) (*domain.MonthlyFeeRecord, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}

	updated, err := s.feeRepo.SettleInFull(ctx, feeID, actor.UserID, s.now())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrAlreadyPaid) || errors.Is(err, apperrors.ErrNothingDue) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to settle fee record", slog.Int64("fee_id", feeID))
		return nil, fmt.Errorf("failed to mark fee record %d paid: %w", feeID, err)
	}

	s.LogInfo(ctx, "Fee record marked fully paid", slog.Int64("fee_id", feeID))
	return updated, nil
}

// GetFeeRecord retrieves one ledger record joined to its student summary.
func (s *feeService) GetFeeRecord(ctx context.Context, actor domain.Actor, feeID int64) (*domain.FeeRecordWithStudent, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}
	return s.feeRepo.FindFeeWithStudent(ctx, feeID)
}

// ListFeeRecords retrieves a filtered limit/offset page of ledger rows.
func (s *feeService) ListFeeRecords(ctx context.Context, actor domain.Actor, filter domain.FeeFilter, limit, offset int) ([]domain.FeeRecordWithStudent, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.feeRepo.ListFees(ctx, filter, limit, offset)
}

// AssignMonthlyFees creates one fee record per active student for the period,
// skipping students that already have one. Van fee is charged only to
// students subscribed to transport.
func (s *feeService) AssignMonthlyFees(ctx context.Context, actor domain.Actor, req dto.AssignFeesRequest) (int64, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return 0, err
	}

	for _, amount := range []decimal.Decimal{req.BaseFee, req.VanFee, req.ExamFee, req.ElectricityFee} {
		if amount.IsNegative() {
			return 0, fmt.Errorf("%w: charge amounts must not be negative", apperrors.ErrValidation)
		}
	}

	students, err := s.studentRepo.ListActiveStudents(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list active students for fee assignment")
		return 0, fmt.Errorf("failed to list active students: %w", err)
	}
	if len(students) == 0 {
		return 0, nil
	}

	now := s.now()
	records := make([]domain.MonthlyFeeRecord, 0, len(students))
	for _, student := range students {
		vanFee := decimal.Zero
		if student.UsesVan {
			vanFee = req.VanFee
		}
		rec := domain.MonthlyFeeRecord{
			StudentID:      student.StudentID,
			FeeYear:        req.Year,
			FeeMonth:       req.Month,
			BaseFee:        req.BaseFee,
			VanFee:         vanFee,
			ExamFee:        req.ExamFee,
			ElectricityFee: req.ElectricityFee,
			AmountDue:      req.BaseFee.Add(vanFee).Add(req.ExamFee).Add(req.ElectricityFee),
			AmountPaid:     decimal.Zero,
			IsPaid:         false,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     actor.UserID,
				LastUpdatedAt: now,
				LastUpdatedBy: actor.UserID,
			},
		}
		records = append(records, rec)
	}

	created, err := s.feeRepo.CreateFeeRecords(ctx, records)
	if err != nil {
		s.LogError(ctx, err, "Failed to create fee records",
			slog.Int("year", req.Year), slog.Int("month", req.Month))
		return 0, fmt.Errorf("failed to assign monthly fees: %w", err)
	}

	s.LogInfo(ctx, "Monthly fees assigned",
		slog.Int("year", req.Year),
		slog.Int("month", req.Month),
		slog.Int64("created", created),
		slog.Int("students", len(students)))
	return created, nil
}

// DeleteFeeRecord removes a ledger record. Admin only; plain row delete.
func (s *feeService) DeleteFeeRecord(ctx context.Context, actor domain.Actor, feeID int64) error {
	if err := s.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.feeRepo.DeleteFee(ctx, feeID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to delete fee record", slog.Int64("fee_id", feeID))
		return fmt.Errorf("failed to delete fee record %d: %w", feeID, err)
	}
	s.LogInfo(ctx, "Fee record deleted", slog.Int64("fee_id", feeID))
	return nil
}
