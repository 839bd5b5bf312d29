package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/utils"
)

const archiveTimeFormat = "20060102_150405"

// exportService runs the bulk export pipeline over the fee ledger.
type exportService struct {
	BaseService
	feeRepo  portsrepo.FeeReader
	renderer portssvc.ReceiptRenderer
	archiver portssvc.Archiver
	tmpDir   string // empty means the OS default temp dir
	now      func() time.Time
}

// ExportServiceOption configures the export service.
type ExportServiceOption func(*exportService)

// WithExportClock overrides the service clock. Used by tests.
func WithExportClock(now func() time.Time) ExportServiceOption {
	return func(s *exportService) {
		s.now = now
	}
}

// NewExportService creates the export pipeline service. tmpDir is where
// working directories for archives are created; pass "" for the OS default.
func NewExportService(feeRepo portsrepo.FeeReader, renderer portssvc.ReceiptRenderer, archiver portssvc.Archiver, tmpDir string, options ...ExportServiceOption) portssvc.ExportSvcFacade {
	svc := &exportService{
		feeRepo:  feeRepo,
		renderer: renderer,
		archiver: archiver,
		tmpDir:   tmpDir,
		now:      time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ExportSvcFacade = (*exportService)(nil)

// GenerateReceiptArchive runs the full pipeline: query the unpaginated
// filtered ledger, render one receipt per row, assemble the archive.
//
// Rows whose rendering fails are skipped and logged; a partial archive is an
// acceptable outcome and the skip count is reported. Archive assembly
// failures abort the whole export with apperrors.ErrPackaging. The working
// directory is removed on every failure path; on success the caller owns it
// via the returned Cleanup.
func (s *exportService) GenerateReceiptArchive(ctx context.Context, actor domain.Actor, filter domain.FeeFilter) (*portssvc.ArchiveResult, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}

	rows, err := s.feeRepo.ListAllFees(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to query fee records for export")
		return nil, fmt.Errorf("failed to query fee records for export: %w", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.ErrNoMatchingRecords
	}

	workDir, err := os.MkdirTemp(s.tmpDir, "receipt_export_*")
	if err != nil {
		s.LogError(ctx, err, "Failed to create export working directory")
		return nil, fmt.Errorf("%w: failed to create working directory: %w", apperrors.ErrPackaging, err)
	}
	cleanup := func() { _ = os.RemoveAll(workDir) }

	fileName := fmt.Sprintf("fee_receipts_%s.zip", s.now().Format(archiveTimeFormat))
	archivePath := filepath.Join(workDir, fileName)

	writer, err := s.archiver.Create(archivePath)
	if err != nil {
		cleanup()
		s.LogError(ctx, err, "Failed to create receipt archive", slog.String("path", archivePath))
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPackaging, err)
	}

	entries := 0
	skipped := 0
	for _, row := range rows {
		data, renderErr := s.renderer.RenderReceipt(ctx, row)
		if renderErr != nil {
			skipped++
			s.LogWarn(ctx, "Skipping receipt that failed to render",
				slog.Int64("fee_id", row.FeeID),
				slog.String("error", renderErr.Error()))
			continue
		}
		entryName := utils.ReceiptEntryName(row.FeeYear, row.FeeMonth, row.Student.Name, row.FeeID, "pdf")
		if err := writer.AddEntry(entryName, data); err != nil {
			_ = writer.Close()
			cleanup()
			s.LogError(ctx, err, "Failed to add receipt to archive", slog.Int64("fee_id", row.FeeID))
			return nil, fmt.Errorf("%w: %w", apperrors.ErrPackaging, err)
		}
		entries++
	}

	if err := writer.Close(); err != nil {
		cleanup()
		s.LogError(ctx, err, "Failed to finalize receipt archive")
		return nil, fmt.Errorf("%w: %w", apperrors.ErrPackaging, err)
	}

	if entries == 0 {
		// Every matched row failed to render. An archive of nothing is not a
		// deliverable.
		cleanup()
		s.LogError(ctx, errors.New("all receipts failed to render"), "Receipt export produced no entries",
			slog.Int("matched", len(rows)))
		return nil, fmt.Errorf("%w: no receipts could be rendered", apperrors.ErrRender)
	}

	s.LogInfo(ctx, "Receipt archive generated",
		slog.String("file_name", fileName),
		slog.Int("entries", entries),
		slog.Int("skipped", skipped))

	return &portssvc.ArchiveResult{
		ArchivePath:  archivePath,
		FileName:     fileName,
		EntryCount:   entries,
		SkippedCount: skipped,
		Cleanup:      cleanup,
	}, nil
}

// ExportFeesCSV renders the filtered, unpaginated ledger as a CSV document.
func (s *exportService) ExportFeesCSV(ctx context.Context, actor domain.Actor, filter domain.FeeFilter) ([]byte, string, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, "", err
	}

	rows, err := s.feeRepo.ListAllFees(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to query fee records for CSV export")
		return nil, "", fmt.Errorf("failed to query fee records for export: %w", err)
	}
	if len(rows) == 0 {
		return nil, "", apperrors.ErrNoMatchingRecords
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{
		"fee_id", "student_id", "student_name", "class_name", "year", "month",
		"base_fee", "van_fee", "exam_fee", "electricity_fee",
		"amount_due", "amount_paid", "balance", "status", "payment_date", "notes",
	}
	if err := w.Write(header); err != nil {
		return nil, "", fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		paymentDate := ""
		if row.PaymentDate != nil {
			paymentDate = row.PaymentDate.Format(isoDateFormat)
		}
		record := []string{
			strconv.FormatInt(row.FeeID, 10),
			strconv.FormatInt(row.StudentID, 10),
			row.Student.Name,
			row.Student.ClassName,
			strconv.Itoa(row.FeeYear),
			strconv.Itoa(row.FeeMonth),
			row.BaseFee.StringFixed(2),
			row.VanFee.StringFixed(2),
			row.ExamFee.StringFixed(2),
			row.ElectricityFee.StringFixed(2),
			row.AmountDue.StringFixed(2),
			row.AmountPaid.StringFixed(2),
			domain.RemainingBalance(row.MonthlyFeeRecord).StringFixed(2),
			string(domain.ComputeStatus(row.MonthlyFeeRecord)),
			paymentDate,
			row.Notes,
		}
		if err := w.Write(record); err != nil {
			return nil, "", fmt.Errorf("failed to write csv row for fee record %d: %w", row.FeeID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to flush csv: %w", err)
	}

	fileName := fmt.Sprintf("fee_ledger_%s.csv", s.now().Format(archiveTimeFormat))
	s.LogInfo(ctx, "Fee ledger CSV exported",
		slog.String("file_name", fileName),
		slog.Int("rows", len(rows)))
	return buf.Bytes(), fileName, nil
}
