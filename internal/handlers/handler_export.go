package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/dto"
	"github.com/campusbooks/school_admin_app/internal/middleware"
	"github.com/gin-gonic/gin"
)

// exportHandler handles bulk download requests over the fee ledger.
type exportHandler struct {
	exportService portssvc.ExportSvcFacade
}

func newExportHandler(exportService portssvc.ExportSvcFacade) *exportHandler {
	return &exportHandler{exportService: exportService}
}

// registerExportRoutes sets up the export routes on the authenticated group.
func registerExportRoutes(rg *gin.RouterGroup, exportService portssvc.ExportSvcFacade) {
	h := newExportHandler(exportService)

	exports := rg.Group("/fees/export")
	{
		exports.GET("/receipts", h.downloadReceiptArchive)
		exports.GET("/csv", h.downloadFeesCSV)
	}
}

// downloadReceiptArchive godoc
// @Summary Download a zip of fee receipts
// @Description Renders one PDF receipt per matching fee record and streams them as a zip archive
// @Tags exports
// @Produce application/zip
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month (1..12)"
// @Param class query string false "Filter by class name"
// @Param transport query string false "Filter by van subscription (any|yes|no)"
// @Param status query string false "Filter by payment status (any|paid|due|not_applicable)"
// @Success 200 {file} binary "Zip archive of receipts"
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 404 {object} ErrorResponse "No matching records"
// @Failure 500 {object} ErrorResponse "Export failed"
// @Router /fees/export/receipts [get]
func (h *exportHandler) downloadReceiptArchive(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var query dto.FeeFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Invalid export filter query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: " + err.Error()})
		return
	}

	result, err := h.exportService.GenerateReceiptArchive(c.Request.Context(), actor, query.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoMatchingRecords):
			c.JSON(http.StatusNotFound, gin.H{"message": "No fee records match the given filters"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Receipt export failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate receipt archive"})
		}
		return
	}
	defer result.Cleanup()

	if result.SkippedCount > 0 {
		c.Header("X-Skipped-Receipts", strconv.Itoa(result.SkippedCount))
	}
	c.FileAttachment(result.ArchivePath, result.FileName)
}

// downloadFeesCSV godoc
// @Summary Download the filtered ledger as CSV
// @Tags exports
// @Produce text/csv
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month (1..12)"
// @Param class query string false "Filter by class name"
// @Param transport query string false "Filter by van subscription (any|yes|no)"
// @Param status query string false "Filter by payment status (any|paid|due|not_applicable)"
// @Success 200 {file} binary "CSV export"
// @Failure 404 {object} ErrorResponse "No matching records"
// @Router /fees/export/csv [get]
func (h *exportHandler) downloadFeesCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var query dto.FeeFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Invalid export filter query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: " + err.Error()})
		return
	}

	data, fileName, err := h.exportService.ExportFeesCSV(c.Request.Context(), actor, query.ToDomain())
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoMatchingRecords):
			c.JSON(http.StatusNotFound, gin.H{"message": "No fee records match the given filters"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("CSV export failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export fee records"})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
