package services_test

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/campusbooks/school_admin_app/internal/adapters/archive"
	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/campusbooks/school_admin_app/internal/core/services"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock ReceiptRenderer ---

type MockReceiptRenderer struct {
	mock.Mock
}

func (m *MockReceiptRenderer) RenderReceipt(ctx context.Context, row domain.FeeRecordWithStudent) ([]byte, error) {
	args := m.Called(ctx, row)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// --- Test Suite Setup ---

type ExportServiceTestSuite struct {
	suite.Suite
	mockFeeRepo  *MockFeeRepository
	mockRenderer *MockReceiptRenderer
	tmpDir       string
	now          time.Time
	teacher      domain.Actor
}

func (suite *ExportServiceTestSuite) SetupTest() {
	suite.mockFeeRepo = new(MockFeeRepository)
	suite.mockRenderer = new(MockReceiptRenderer)
	suite.tmpDir = suite.T().TempDir()
	suite.now = time.Date(2026, 8, 15, 10, 0, 0, 0, time.UTC)
	suite.teacher = domain.Actor{UserID: "teacher-1", Role: domain.RoleTeacher}
}

func feeRow(feeID, studentID int64, name, class string) domain.FeeRecordWithStudent {
	return domain.FeeRecordWithStudent{
		MonthlyFeeRecord: domain.MonthlyFeeRecord{
			FeeID:      feeID,
			StudentID:  studentID,
			FeeYear:    2026,
			FeeMonth:   8,
			AmountDue:  decimal.NewFromInt(1500),
			AmountPaid: decimal.NewFromInt(700),
		},
		Student: domain.StudentSummary{StudentID: studentID, Name: name, ClassName: class},
	}
}

// --- GenerateReceiptArchive ---

func (suite *ExportServiceTestSuite) TestGenerateReceiptArchive_EmptyResultShortCircuits() {
	ctx := context.Background()
	svc := services.NewExportService(suite.mockFeeRepo, suite.mockRenderer, archive.NewZipArchiver(), suite.tmpDir)

	suite.mockFeeRepo.On("ListAllFees", ctx, mock.Anything).
		Return([]domain.FeeRecordWithStudent{}, nil).Once()

	result, err := svc.GenerateReceiptArchive(ctx, suite.teacher, domain.FeeFilter{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNoMatchingRecords)
	suite.Nil(result)
	// No rendering or file work happened.
	suite.mockRenderer.AssertNotCalled(suite.T(), "RenderReceipt")
	entries, readErr := os.ReadDir(suite.tmpDir)
	suite.Require().NoError(readErr)
	suite.Empty(entries)
}

func (suite *ExportServiceTestSuite) TestGenerateReceiptArchive_AllRendered() {
	ctx := context.Background()
	svc := services.NewExportService(
		suite.mockFeeRepo, suite.mockRenderer, archive.NewZipArchiver(), suite.tmpDir,
		services.WithExportClock(func() time.Time { return suite.now }),
	)

	rows := []domain.FeeRecordWithStudent{
		feeRow(1, 10, "Asha Khan", "5A"),
		feeRow(2, 11, "Bilal Ahmed", "5A"),
		feeRow(3, 12, "Chitra V", "6B"),
	}
	suite.mockFeeRepo.On("ListAllFees", ctx, mock.Anything).Return(rows, nil).Once()
	for _, row := range rows {
		suite.mockRenderer.On("RenderReceipt", ctx, row).
			Return([]byte("pdf-bytes-"+row.Student.Name), nil).Once()
	}

	result, err := svc.GenerateReceiptArchive(ctx, suite.teacher, domain.FeeFilter{})

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(3, result.EntryCount)
	suite.Zero(result.SkippedCount)
	suite.Equal("fee_receipts_20260815_100000.zip", result.FileName)

	// The archive exists and holds exactly the expected entries.
	reader, err := zip.OpenReader(result.ArchivePath)
	suite.Require().NoError(err)
	names := make([]string, 0, len(reader.File))
	for _, f := range reader.File {
		names = append(names, f.Name)
	}
	suite.Require().NoError(reader.Close())
	suite.ElementsMatch([]string{
		"Receipt_2026_08_Asha_Khan_ID1.pdf",
		"Receipt_2026_08_Bilal_Ahmed_ID2.pdf",
		"Receipt_2026_08_Chitra_V_ID3.pdf",
	}, names)

	// Cleanup removes the working directory with the archive in it.
	result.Cleanup()
	_, statErr := os.Stat(result.ArchivePath)
	suite.True(os.IsNotExist(statErr))
}

func (suite *ExportServiceTestSuite) TestGenerateReceiptArchive_SkipsFailedRenders() {
	ctx := context.Background()
	svc := services.NewExportService(
		suite.mockFeeRepo, suite.mockRenderer, archive.NewZipArchiver(), suite.tmpDir,
		services.WithExportClock(func() time.Time { return suite.now }),
	)

	good := feeRow(1, 10, "Asha Khan", "5A")
	bad := feeRow(2, 11, "Bilal Ahmed", "5A")
	suite.mockFeeRepo.On("ListAllFees", ctx, mock.Anything).
		Return([]domain.FeeRecordWithStudent{good, bad}, nil).Once()
	suite.mockRenderer.On("RenderReceipt", ctx, good).Return([]byte("ok"), nil).Once()
	suite.mockRenderer.On("RenderReceipt", ctx, bad).Return(nil, fmt.Errorf("font table corrupt")).Once()

	result, err := svc.GenerateReceiptArchive(ctx, suite.teacher, domain.FeeFilter{})

	suite.Require().NoError(err)
	suite.Equal(1, result.EntryCount)
	suite.Equal(1, result.SkippedCount)

	reader, err := zip.OpenReader(result.ArchivePath)
	suite.Require().NoError(err)
	suite.Len(reader.File, 1)
	suite.Equal("Receipt_2026_08_Asha_Khan_ID1.pdf", reader.File[0].Name)
	suite.Require().NoError(reader.Close())
	result.Cleanup()
}

func (suite *ExportServiceTestSuite) TestGenerateReceiptArchive_AllRendersFailed() {
	ctx := context.Background()
	svc := services.NewExportService(suite.mockFeeRepo, suite.mockRenderer, archive.NewZipArchiver(), suite.tmpDir)

	row := feeRow(1, 10, "Asha Khan", "5A")
	suite.mockFeeRepo.On("ListAllFees", ctx, mock.Anything).
		Return([]domain.FeeRecordWithStudent{row}, nil).Once()
	suite.mockRenderer.On("RenderReceipt", ctx, row).Return(nil, fmt.Errorf("boom")).Once()

	result, err := svc.GenerateReceiptArchive(ctx, suite.teacher, domain.FeeFilter{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrRender)
	suite.Nil(result)

	// The working directory was cleaned up on the failure path.
	entries, readErr := os.ReadDir(suite.tmpDir)
	suite.Require().NoError(readErr)
	suite.Empty(entries)
}

func (suite *ExportServiceTestSuite) TestGenerateReceiptArchive_ForbiddenForUnknownRole() {
	ctx := context.Background()
	svc := services.NewExportService(suite.mockFeeRepo, suite.mockRenderer, archive.NewZipArchiver(), suite.tmpDir)

	_, err := svc.GenerateReceiptArchive(ctx, domain.Actor{UserID: "x", Role: domain.UserRole("GUEST")}, domain.FeeFilter{})

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrForbidden)
	suite.mockFeeRepo.AssertNotCalled(suite.T(), "ListAllFees")
}

// --- ExportFeesCSV ---

func (suite *ExportServiceTestSuite) TestExportFeesCSV() {
	ctx := context.Background()
	svc := services.NewExportService(
		suite.mockFeeRepo, suite.mockRenderer, archive.NewZipArchiver(), suite.tmpDir,
		services.WithExportClock(func() time.Time { return suite.now }),
	)

	row := feeRow(1, 10, "Asha Khan", "5A")
	suite.mockFeeRepo.On("ListAllFees", ctx, mock.Anything).
		Return([]domain.FeeRecordWithStudent{row}, nil).Once()

	data, fileName, err := svc.ExportFeesCSV(ctx, suite.teacher, domain.FeeFilter{})

	suite.Require().NoError(err)
	suite.Equal("fee_ledger_20260815_100000.csv", fileName)

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal("fee_id", records[0][0])
	suite.Equal("1", records[1][0])
	suite.Equal("Asha Khan", records[1][2])
	suite.Equal("800.00", records[1][12]) // balance
	suite.Equal("DUE", records[1][13])
}

func (suite *ExportServiceTestSuite) TestExportFeesCSV_Empty() {
	ctx := context.Background()
	svc := services.NewExportService(suite.mockFeeRepo, suite.mockRenderer, archive.NewZipArchiver(), suite.tmpDir)

	suite.mockFeeRepo.On("ListAllFees", ctx, mock.Anything).
		Return([]domain.FeeRecordWithStudent{}, nil).Once()

	_, _, err := svc.ExportFeesCSV(ctx, suite.teacher, domain.FeeFilter{})
	suite.ErrorIs(err, apperrors.ErrNoMatchingRecords)
}

func TestExportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExportServiceTestSuite))
}
