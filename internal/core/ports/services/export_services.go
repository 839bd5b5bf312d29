package services

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// ReceiptRenderer renders one joined ledger row into receipt document bytes.
// Treated as opaque by the export pipeline: bytes or a failure signal.
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, row domain.FeeRecordWithStudent) ([]byte, error)
}

// ArchiveWriter is one open archive being assembled.
type ArchiveWriter interface {
	// AddEntry stores data under name inside the archive.
	AddEntry(name string, data []byte) error
	// Close finalizes the archive. Must be called exactly once.
	Close() error
}

// Archiver creates archive files on disk.
type Archiver interface {
	Create(path string) (ArchiveWriter, error)
}

// ArchiveResult describes a completed receipt archive ready for streaming.
type ArchiveResult struct {
	// ArchivePath is the server-local path of the assembled archive.
	ArchivePath string
	// FileName is the timestamped download name offered to the client.
	FileName string
	// EntryCount is the number of receipts that made it into the archive.
	EntryCount int
	// SkippedCount is the number of records whose rendering failed and was
	// skipped. A partial archive is an acceptable outcome.
	SkippedCount int
	// Cleanup removes the archive file. The caller must invoke it once the
	// stream has been delivered (or abandoned).
	Cleanup func()
}

// ExportSvcFacade is the bulk export pipeline over the fee ledger.
type ExportSvcFacade interface {
	// GenerateReceiptArchive runs the full export pipeline for the filter:
	// query, per-record rendering, archive assembly, cleanup of intermediate
	// artifacts. Returns apperrors.ErrNoMatchingRecords without doing any
	// rendering or archival work when the filter matches zero rows.
	GenerateReceiptArchive(ctx context.Context, actor domain.Actor, filter domain.FeeFilter) (*ArchiveResult, error)

	// ExportFeesCSV renders the filtered, unpaginated ledger rows as CSV.
	// Returns the file content and a timestamped download name.
	ExportFeesCSV(ctx context.Context, actor domain.Actor, filter domain.FeeFilter) ([]byte, string, error)
}
