package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/core/services"
	"github.com/campusbooks/school_admin_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FeeRepository ---

type MockFeeRepository struct {
	mock.Mock
}

func (m *MockFeeRepository) FindFeeByID(ctx context.Context, feeID int64) (*domain.MonthlyFeeRecord, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyFeeRecord), args.Error(1)
}

func (m *MockFeeRepository) FindFeeWithStudent(ctx context.Context, feeID int64) (*domain.FeeRecordWithStudent, error) {
	args := m.Called(ctx, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeRecordWithStudent), args.Error(1)
}

func (m *MockFeeRepository) ListFees(ctx context.Context, filter domain.FeeFilter, limit, offset int) ([]domain.FeeRecordWithStudent, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeRecordWithStudent), args.Error(1)
}

func (m *MockFeeRepository) ListAllFees(ctx context.Context, filter domain.FeeFilter) ([]domain.FeeRecordWithStudent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeRecordWithStudent), args.Error(1)
}

func (m *MockFeeRepository) CreateFeeRecords(ctx context.Context, records []domain.MonthlyFeeRecord) (int64, error) {
	args := m.Called(ctx, records)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFeeRepository) ApplyPayment(ctx context.Context, feeID int64, tendered decimal.Decimal, explicitDate *time.Time, notes *string, updatedBy string, now time.Time) (*domain.MonthlyFeeRecord, error) {
	args := m.Called(ctx, feeID, tendered, explicitDate, notes, updatedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyFeeRecord), args.Error(1)
}

func (m *MockFeeRepository) SettleInFull(ctx context.Context, feeID int64, updatedBy string, now time.Time) (*domain.MonthlyFeeRecord, error) {
	args := m.Called(ctx, feeID, updatedBy, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyFeeRecord), args.Error(1)
}

func (m *MockFeeRepository) DeleteFee(ctx context.Context, feeID int64) error {
	args := m.Called(ctx, feeID)
	return args.Error(0)
}

// --- Mock StudentRepository (reader only) ---

type MockStudentReader struct {
	mock.Mock
}

func (m *MockStudentReader) FindStudentByID(ctx context.Context, studentID int64) (*domain.Student, error) {
	args := m.Called(ctx, studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Student), args.Error(1)
}

func (m *MockStudentReader) ListStudents(ctx context.Context, className *string, activeOnly bool, limit, offset int) ([]domain.Student, error) {
	args := m.Called(ctx, className, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

func (m *MockStudentReader) ListActiveStudents(ctx context.Context) ([]domain.Student, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Student), args.Error(1)
}

// --- Test Suite Setup ---

type FeeServiceTestSuite struct {
	suite.Suite
	mockFeeRepo     *MockFeeRepository
	mockStudentRepo *MockStudentReader
	service         portssvc.FeeSvcFacade
	now             time.Time

	teacher   domain.Actor
	principal domain.Actor
	admin     domain.Actor
}

func (suite *FeeServiceTestSuite) SetupTest() {
	suite.mockFeeRepo = new(MockFeeRepository)
	suite.mockStudentRepo = new(MockStudentReader)
	suite.now = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	suite.service = services.NewFeeService(
		suite.mockFeeRepo,
		suite.mockStudentRepo,
		services.WithFeeClock(func() time.Time { return suite.now }),
	)
	suite.teacher = domain.Actor{UserID: "teacher-1", Role: domain.RoleTeacher}
	suite.principal = domain.Actor{UserID: "principal-1", Role: domain.RolePrincipal}
	suite.admin = domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
}

// --- RecordPayment ---

func (suite *FeeServiceTestSuite) TestRecordPayment_Success() {
	ctx := context.Background()
	amount := decimal.NewFromInt(500)
	updated := &domain.MonthlyFeeRecord{FeeID: 42, AmountDue: decimal.NewFromInt(1500), AmountPaid: amount}

	suite.mockFeeRepo.On("ApplyPayment", ctx, int64(42), amount, (*time.Time)(nil), (*string)(nil), "teacher-1", suite.now).
		Return(updated, nil).Once()

	result, err := suite.service.RecordPayment(ctx, suite.teacher, 42, dto.RecordPaymentRequest{Amount: amount})

	suite.Require().NoError(err)
	suite.Equal(updated, result)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRecordPayment_ParsesExplicitDate() {
	ctx := context.Background()
	amount := decimal.NewFromInt(1500)
	dateStr := "2026-08-01"
	expectedDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	updated := &domain.MonthlyFeeRecord{FeeID: 42, IsPaid: true}

	suite.mockFeeRepo.On("ApplyPayment", ctx, int64(42), amount, &expectedDate, (*string)(nil), "teacher-1", suite.now).
		Return(updated, nil).Once()

	_, err := suite.service.RecordPayment(ctx, suite.teacher, 42, dto.RecordPaymentRequest{Amount: amount, PaymentDate: &dateStr})

	suite.Require().NoError(err)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestRecordPayment_RejectsNegativeAmount() {
	ctx := context.Background()

	_, err := suite.service.RecordPayment(ctx, suite.teacher, 42, dto.RecordPaymentRequest{Amount: decimal.NewFromInt(-10)})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "ApplyPayment")
}

func (suite *FeeServiceTestSuite) TestRecordPayment_RejectsBadDate() {
	ctx := context.Background()
	badDate := "01/08/2026"

	_, err := suite.service.RecordPayment(ctx, suite.teacher, 42, dto.RecordPaymentRequest{
		Amount:      decimal.NewFromInt(10),
		PaymentDate: &badDate,
	})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "ApplyPayment")
}

func (suite *FeeServiceTestSuite) TestRecordPayment_NotFoundPassesThrough() {
	ctx := context.Background()
	amount := decimal.NewFromInt(500)

	suite.mockFeeRepo.On("ApplyPayment", ctx, int64(99), amount, (*time.Time)(nil), (*string)(nil), "teacher-1", suite.now).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.service.RecordPayment(ctx, suite.teacher, 99, dto.RecordPaymentRequest{Amount: amount})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

// --- MarkFullyPaid ---

func (suite *FeeServiceTestSuite) TestMarkFullyPaid_Success() {
	ctx := context.Background()
	updated := &domain.MonthlyFeeRecord{FeeID: 42, IsPaid: true}

	suite.mockFeeRepo.On("SettleInFull", ctx, int64(42), "teacher-1", suite.now).
		Return(updated, nil).Once()

	result, err := suite.service.MarkFullyPaid(ctx, suite.teacher, 42)

	suite.Require().NoError(err)
	suite.True(result.IsPaid)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestMarkFullyPaid_AlreadyPaid() {
	ctx := context.Background()

	suite.mockFeeRepo.On("SettleInFull", ctx, int64(42), "teacher-1", suite.now).
		Return(nil, apperrors.ErrAlreadyPaid).Once()

	_, err := suite.service.MarkFullyPaid(ctx, suite.teacher, 42)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrAlreadyPaid)
}

func (suite *FeeServiceTestSuite) TestMarkFullyPaid_NothingDue() {
	ctx := context.Background()

	suite.mockFeeRepo.On("SettleInFull", ctx, int64(42), "teacher-1", suite.now).
		Return(nil, apperrors.ErrNothingDue).Once()

	_, err := suite.service.MarkFullyPaid(ctx, suite.teacher, 42)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNothingDue)
}

// --- AssignMonthlyFees ---

func (suite *FeeServiceTestSuite) TestAssignMonthlyFees_VanFeeOnlyForSubscribers() {
	ctx := context.Background()
	students := []domain.Student{
		{StudentID: 1, Name: "Asha", UsesVan: true, Active: true},
		{StudentID: 2, Name: "Bilal", UsesVan: false, Active: true},
	}
	req := dto.AssignFeesRequest{
		Year:           2026,
		Month:          9,
		BaseFee:        decimal.NewFromInt(1000),
		VanFee:         decimal.NewFromInt(300),
		ExamFee:        decimal.NewFromInt(100),
		ElectricityFee: decimal.NewFromInt(50),
	}

	suite.mockStudentRepo.On("ListActiveStudents", ctx).Return(students, nil).Once()
	suite.mockFeeRepo.On("CreateFeeRecords", ctx, mock.MatchedBy(func(records []domain.MonthlyFeeRecord) bool {
		if len(records) != 2 {
			return false
		}
		withVan, withoutVan := records[0], records[1]
		return withVan.AmountDue.Equal(decimal.NewFromInt(1450)) &&
			withVan.VanFee.Equal(decimal.NewFromInt(300)) &&
			withoutVan.AmountDue.Equal(decimal.NewFromInt(1150)) &&
			withoutVan.VanFee.IsZero() &&
			withoutVan.AmountPaid.IsZero() &&
			!withoutVan.IsPaid
	})).Return(int64(2), nil).Once()

	created, err := suite.service.AssignMonthlyFees(ctx, suite.principal, req)

	suite.Require().NoError(err)
	suite.Equal(int64(2), created)
	suite.mockFeeRepo.AssertExpectations(suite.T())
	suite.mockStudentRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestAssignMonthlyFees_TeacherForbidden() {
	ctx := context.Background()
	req := dto.AssignFeesRequest{Year: 2026, Month: 9, BaseFee: decimal.NewFromInt(1000)}

	_, err := suite.service.AssignMonthlyFees(ctx, suite.teacher, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockStudentRepo.AssertNotCalled(suite.T(), "ListActiveStudents")
}

func (suite *FeeServiceTestSuite) TestAssignMonthlyFees_RejectsNegativeCharge() {
	ctx := context.Background()
	req := dto.AssignFeesRequest{Year: 2026, Month: 9, BaseFee: decimal.NewFromInt(-1)}

	_, err := suite.service.AssignMonthlyFees(ctx, suite.principal, req)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *FeeServiceTestSuite) TestAssignMonthlyFees_NoActiveStudents() {
	ctx := context.Background()
	req := dto.AssignFeesRequest{Year: 2026, Month: 9, BaseFee: decimal.NewFromInt(1000)}

	suite.mockStudentRepo.On("ListActiveStudents", ctx).Return([]domain.Student{}, nil).Once()

	created, err := suite.service.AssignMonthlyFees(ctx, suite.principal, req)

	suite.Require().NoError(err)
	suite.Zero(created)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "CreateFeeRecords")
}

// --- DeleteFeeRecord ---

func (suite *FeeServiceTestSuite) TestDeleteFeeRecord_AdminOnly() {
	ctx := context.Background()

	err := suite.service.DeleteFeeRecord(ctx, suite.principal, 42)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	err = suite.service.DeleteFeeRecord(ctx, suite.teacher, 42)
	suite.ErrorIs(err, apperrors.ErrForbidden)

	suite.mockFeeRepo.On("DeleteFee", ctx, int64(42)).Return(nil).Once()
	err = suite.service.DeleteFeeRecord(ctx, suite.admin, 42)
	suite.NoError(err)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

// --- ListFeeRecords ---

func (suite *FeeServiceTestSuite) TestListFeeRecords_DefaultsLimit() {
	ctx := context.Background()
	filter := domain.FeeFilter{Transport: domain.TransportAny, Status: domain.StatusFilterAny}

	suite.mockFeeRepo.On("ListFees", ctx, filter, 50, 0).
		Return([]domain.FeeRecordWithStudent{}, nil).Twice()

	_, err := suite.service.ListFeeRecords(ctx, suite.teacher, filter, 0, -5)
	suite.Require().NoError(err)

	_, err = suite.service.ListFeeRecords(ctx, suite.teacher, filter, 1000, 0)
	suite.Require().NoError(err)
	suite.mockFeeRepo.AssertExpectations(suite.T())
}

func (suite *FeeServiceTestSuite) TestListFeeRecords_RepoError() {
	ctx := context.Background()
	filter := domain.FeeFilter{}

	suite.mockFeeRepo.On("ListFees", ctx, filter, 50, 0).
		Return(nil, fmt.Errorf("connection refused")).Once()

	_, err := suite.service.ListFeeRecords(ctx, suite.teacher, filter, 50, 0)
	suite.Require().Error(err)
}

func TestFeeServiceTestSuite(t *testing.T) {
	suite.Run(t, new(FeeServiceTestSuite))
}
