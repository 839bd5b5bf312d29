// Package archive assembles downloadable bundles for the export pipeline.
package archive

import (
	"archive/zip"
	"fmt"
	"os"

	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
)

// ZipArchiver creates zip archives on disk.
type ZipArchiver struct{}

// NewZipArchiver creates the default archiver.
func NewZipArchiver() portssvc.Archiver {
	return &ZipArchiver{}
}

var _ portssvc.Archiver = (*ZipArchiver)(nil)

// Create opens a new zip archive at path.
func (a *ZipArchiver) Create(path string) (portssvc.ArchiveWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive file %s: %w", path, err)
	}
	return &zipWriter{file: f, zw: zip.NewWriter(f)}, nil
}

type zipWriter struct {
	file *os.File
	zw   *zip.Writer
}

// AddEntry stores data under name inside the archive.
func (w *zipWriter) AddEntry(name string, data []byte) error {
	entry, err := w.zw.Create(name)
	if err != nil {
		return fmt.Errorf("failed to create archive entry %s: %w", name, err)
	}
	if _, err := entry.Write(data); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", name, err)
	}
	return nil
}

// Close finalizes the archive and the underlying file.
func (w *zipWriter) Close() error {
	if err := w.zw.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	if err := w.file.Close(); err != nil {
		return fmt.Errorf("failed to close archive file: %w", err)
	}
	return nil
}
