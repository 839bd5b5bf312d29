package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/dto"
	"github.com/campusbooks/school_admin_app/internal/handlers"
	"github.com/campusbooks/school_admin_app/internal/middleware"
	"github.com/campusbooks/school_admin_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock FeeService ---

type MockFeeService struct {
	mock.Mock
}

func (m *MockFeeService) GetFeeRecord(ctx context.Context, actor domain.Actor, feeID int64) (*domain.FeeRecordWithStudent, error) {
	args := m.Called(ctx, actor, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FeeRecordWithStudent), args.Error(1)
}

func (m *MockFeeService) ListFeeRecords(ctx context.Context, actor domain.Actor, filter domain.FeeFilter, limit, offset int) ([]domain.FeeRecordWithStudent, error) {
	args := m.Called(ctx, actor, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FeeRecordWithStudent), args.Error(1)
}

func (m *MockFeeService) RecordPayment(ctx context.Context, actor domain.Actor, feeID int64, req dto.RecordPaymentRequest) (*domain.MonthlyFeeRecord, error) {
	args := m.Called(ctx, actor, feeID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyFeeRecord), args.Error(1)
}

func (m *MockFeeService) MarkFullyPaid(ctx context.Context, actor domain.Actor, feeID int64) (*domain.MonthlyFeeRecord, error) {
	args := m.Called(ctx, actor, feeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MonthlyFeeRecord), args.Error(1)
}

func (m *MockFeeService) AssignMonthlyFees(ctx context.Context, actor domain.Actor, req dto.AssignFeesRequest) (int64, error) {
	args := m.Called(ctx, actor, req)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockFeeService) DeleteFeeRecord(ctx context.Context, actor domain.Actor, feeID int64) error {
	args := m.Called(ctx, actor, feeID)
	return args.Error(0)
}

// Ensure mock implements the interface
var _ portssvc.FeeSvcFacade = (*MockFeeService)(nil)

// --- Test Suite ---

type FeeHandlerTestSuite struct {
	suite.Suite
	router         *gin.Engine
	mockFeeService *MockFeeService
	jwtSecret      string
}

func (suite *FeeHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	// Use the actual AuthMiddleware so the actor flows through the real path.
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockFeeService = new(MockFeeService)

	v1 := suite.router.Group("/api/v1")
	handlers.RegisterFeeRoutes(v1, suite.mockFeeService)
}

// generateTestToken creates a signed JWT carrying the given role.
func (suite *FeeHandlerTestSuite) generateTestToken(userID string, role domain.UserRole) string {
	token, err := utils.GenerateJWT(userID, string(role), suite.jwtSecret, time.Hour, "saa-test")
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return token
}

func (suite *FeeHandlerTestSuite) doRequest(method, url string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func testFeeRecord(feeID int64) *domain.MonthlyFeeRecord {
	now := time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	return &domain.MonthlyFeeRecord{
		FeeID:         feeID,
		StudentID:     10,
		FeeYear:       2026,
		FeeMonth:      8,
		BaseFee:       decimal.NewFromInt(1000),
		VanFee:        decimal.NewFromInt(300),
		ExamFee:       decimal.NewFromInt(100),
		AmountDue:     decimal.NewFromInt(1400),
		AmountPaid:    decimal.NewFromInt(500),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
}

// --- Test Cases ---

func (suite *FeeHandlerTestSuite) TestListFees_Success() {
	actor := domain.Actor{UserID: "teacher-1", Role: domain.RoleTeacher}
	rows := []domain.FeeRecordWithStudent{
		{
			MonthlyFeeRecord: *testFeeRecord(1),
			Student:          domain.StudentSummary{StudentID: 10, Name: "Asha Khan", ClassName: "5A"},
		},
	}

	suite.mockFeeService.On("ListFeeRecords",
		mock.AnythingOfType("*context.valueCtx"),
		actor,
		mock.MatchedBy(func(f domain.FeeFilter) bool {
			return f.Year != nil && *f.Year == 2026 && f.Month != nil && *f.Month == 8
		}),
		10, 0,
	).Return(rows, nil).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	w := suite.doRequest(http.MethodGet, "/api/v1/fees?year=2026&month=8&limit=10", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListFeesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Fees, 1)
	suite.Equal("Asha Khan", resp.Fees[0].StudentName)
	suite.Equal(domain.FeeStatusDue, resp.Fees[0].Status)
	suite.True(decimal.NewFromInt(900).Equal(resp.Fees[0].RemainingBalance))
	suite.mockFeeService.AssertExpectations(suite.T())
}

func (suite *FeeHandlerTestSuite) TestListFees_NoToken() {
	w := suite.doRequest(http.MethodGet, "/api/v1/fees", nil, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockFeeService.AssertNotCalled(suite.T(), "ListFeeRecords")
}

func (suite *FeeHandlerTestSuite) TestGetFee_NotFound() {
	actor := domain.Actor{UserID: "teacher-1", Role: domain.RoleTeacher}
	suite.mockFeeService.On("GetFeeRecord", mock.AnythingOfType("*context.valueCtx"), actor, int64(99)).
		Return(nil, apperrors.ErrNotFound).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	w := suite.doRequest(http.MethodGet, "/api/v1/fees/99", nil, token)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *FeeHandlerTestSuite) TestGetFee_InvalidID() {
	token := suite.generateTestToken("teacher-1", domain.RoleTeacher)
	w := suite.doRequest(http.MethodGet, "/api/v1/fees/not-a-number", nil, token)

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockFeeService.AssertNotCalled(suite.T(), "GetFeeRecord")
}

func (suite *FeeHandlerTestSuite) TestRecordPayment_Success() {
	actor := domain.Actor{UserID: "teacher-1", Role: domain.RoleTeacher}
	updated := testFeeRecord(5)
	updated.AmountPaid = decimal.NewFromInt(1400)
	updated.IsPaid = true

	suite.mockFeeService.On("RecordPayment",
		mock.AnythingOfType("*context.valueCtx"),
		actor,
		int64(5),
		mock.MatchedBy(func(req dto.RecordPaymentRequest) bool {
			return decimal.NewFromInt(900).Equal(req.Amount)
		}),
	).Return(updated, nil).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	body := map[string]any{"amount": "900"}
	w := suite.doRequest(http.MethodPost, "/api/v1/fees/5/payments", body, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Message string                `json:"message"`
		Fee     dto.FeeRecordResponse `json:"fee"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("Payment recorded", resp.Message)
	suite.True(resp.Fee.IsPaid)
	suite.Equal(domain.FeeStatusPaid, resp.Fee.Status)
	suite.mockFeeService.AssertExpectations(suite.T())
}

func (suite *FeeHandlerTestSuite) TestRecordPayment_ValidationError() {
	actor := domain.Actor{UserID: "teacher-1", Role: domain.RoleTeacher}
	suite.mockFeeService.On("RecordPayment",
		mock.AnythingOfType("*context.valueCtx"), actor, int64(5), mock.Anything,
	).Return(nil, fmt.Errorf("%w: payment amount cannot be negative", apperrors.ErrValidation)).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	body := map[string]any{"amount": "-50"}
	w := suite.doRequest(http.MethodPost, "/api/v1/fees/5/payments", body, token)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *FeeHandlerTestSuite) TestMarkFullyPaid_AlreadyPaidConflict() {
	actor := domain.Actor{UserID: "principal-1", Role: domain.RolePrincipal}
	suite.mockFeeService.On("MarkFullyPaid", mock.AnythingOfType("*context.valueCtx"), actor, int64(7)).
		Return(nil, apperrors.ErrAlreadyPaid).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	w := suite.doRequest(http.MethodPost, "/api/v1/fees/7/mark-paid", nil, token)

	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *FeeHandlerTestSuite) TestAssignFees_Success() {
	actor := domain.Actor{UserID: "principal-1", Role: domain.RolePrincipal}
	suite.mockFeeService.On("AssignMonthlyFees",
		mock.AnythingOfType("*context.valueCtx"),
		actor,
		mock.MatchedBy(func(req dto.AssignFeesRequest) bool {
			return req.Year == 2026 && req.Month == 9 && decimal.NewFromInt(1000).Equal(req.BaseFee)
		}),
	).Return(int64(42), nil).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	body := map[string]any{"year": 2026, "month": 9, "baseFee": "1000", "vanFee": "300"}
	w := suite.doRequest(http.MethodPost, "/api/v1/fees/assign", body, token)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AssignFeesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(int64(42), resp.Created)
	suite.mockFeeService.AssertExpectations(suite.T())
}

func (suite *FeeHandlerTestSuite) TestAssignFees_TeacherForbidden() {
	actor := domain.Actor{UserID: "teacher-1", Role: domain.RoleTeacher}
	suite.mockFeeService.On("AssignMonthlyFees",
		mock.AnythingOfType("*context.valueCtx"), actor, mock.Anything,
	).Return(int64(0), fmt.Errorf("%w: role TEACHER cannot assign monthly fees", apperrors.ErrForbidden)).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	body := map[string]any{"year": 2026, "month": 9, "baseFee": "1000"}
	w := suite.doRequest(http.MethodPost, "/api/v1/fees/assign", body, token)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *FeeHandlerTestSuite) TestDeleteFee_Success() {
	actor := domain.Actor{UserID: "admin-1", Role: domain.RoleAdmin}
	suite.mockFeeService.On("DeleteFeeRecord", mock.AnythingOfType("*context.valueCtx"), actor, int64(3)).
		Return(nil).Once()

	token := suite.generateTestToken(actor.UserID, actor.Role)
	w := suite.doRequest(http.MethodDelete, "/api/v1/fees/3", nil, token)

	suite.Equal(http.StatusOK, w.Code)
	suite.mockFeeService.AssertExpectations(suite.T())
}

func TestFeeHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(FeeHandlerTestSuite))
}
