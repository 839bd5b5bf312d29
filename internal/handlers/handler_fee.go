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

// feeHandler handles HTTP requests for the monthly fee ledger.
type feeHandler struct {
	feeService portssvc.FeeSvcFacade
}

func newFeeHandler(feeService portssvc.FeeSvcFacade) *feeHandler {
	return &feeHandler{feeService: feeService}
}

// RegisterFeeRoutes sets up the ledger routes on the authenticated group.
func RegisterFeeRoutes(rg *gin.RouterGroup, feeService portssvc.FeeSvcFacade) {
	h := newFeeHandler(feeService)

	fees := rg.Group("/fees")
	{
		fees.GET("", h.listFees)
		fees.POST("/assign", h.assignFees)
		fees.GET("/:feeID", h.getFee)
		fees.POST("/:feeID/payments", h.recordPayment)
		fees.POST("/:feeID/mark-paid", h.markFullyPaid)
		fees.DELETE("/:feeID", h.deleteFee)
	}
}

func parseFeeID(c *gin.Context) (int64, bool) {
	feeID, err := strconv.ParseInt(c.Param("feeID"), 10, 64)
	if err != nil || feeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fee record id"})
		return 0, false
	}
	return feeID, true
}

// listFees godoc
// @Summary List fee records
// @Description Retrieves a filtered page of fee records joined with student data
// @Tags fees
// @Produce json
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month (1..12)"
// @Param class query string false "Filter by class name"
// @Param transport query string false "Filter by van subscription (any|yes|no)"
// @Param status query string false "Filter by payment status (any|paid|due|not_applicable)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListFeesResponse
// @Failure 400 {object} ErrorResponse "Invalid filter"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /fees [get]
func (h *feeHandler) listFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var query dto.FeeFilterQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Invalid fee filter query", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid filter: " + err.Error()})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, err := h.feeService.ListFeeRecords(c.Request.Context(), actor, query.ToDomain(), limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list fee records", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list fee records"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListFeesResponse(rows, limit, offset))
}

// getFee godoc
// @Summary Get one fee record
// @Description Retrieves a fee record with its student data, derived status and balance
// @Tags fees
// @Produce json
// @Param feeID path int true "Fee record ID"
// @Success 200 {object} dto.FeeRecordResponse
// @Failure 404 {object} ErrorResponse "Fee record not found"
// @Router /fees/{feeID} [get]
func (h *feeHandler) getFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	feeID, ok := parseFeeID(c)
	if !ok {
		return
	}

	row, err := h.feeService.GetFeeRecord(c.Request.Context(), actor, feeID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee record not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get fee record", slog.String("error", err.Error()), slog.Int64("fee_id", feeID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve fee record"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToFeeRecordWithStudentResponse(row))
}

// recordPayment godoc
// @Summary Record a payment
// @Description Adds a tendered amount to the record's running payment total. Repeated calls accumulate.
// @Tags fees
// @Accept json
// @Produce json
// @Param feeID path int true "Fee record ID"
// @Param payment body dto.RecordPaymentRequest true "Payment details"
// @Success 200 {object} dto.FeeRecordResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or date"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Fee record not found"
// @Router /fees/{feeID}/payments [post]
func (h *feeHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	feeID, ok := parseFeeID(c)
	if !ok {
		return
	}

	var req dto.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind payment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updated, err := h.feeService.RecordPayment(c.Request.Context(), actor, feeID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee record not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to record payment", slog.String("error", err.Error()), slog.Int64("fee_id", feeID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record payment"})
		}
		return
	}

	resp := dto.ToFeeRecordResponse(updated)
	c.JSON(http.StatusOK, gin.H{"message": "Payment recorded", "fee": resp})
}

// markFullyPaid godoc
// @Summary Mark a fee record fully paid
// @Description Settles the record in one step. Refuses records already paid or with nothing due.
// @Tags fees
// @Produce json
// @Param feeID path int true "Fee record ID"
// @Success 200 {object} dto.FeeRecordResponse
// @Failure 404 {object} ErrorResponse "Fee record not found"
// @Failure 409 {object} ErrorResponse "Already paid or nothing due"
// @Router /fees/{feeID}/mark-paid [post]
func (h *feeHandler) markFullyPaid(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	feeID, ok := parseFeeID(c)
	if !ok {
		return
	}

	updated, err := h.feeService.MarkFullyPaid(c.Request.Context(), actor, feeID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee record not found"})
		case errors.Is(err, apperrors.ErrAlreadyPaid):
			c.JSON(http.StatusConflict, gin.H{"error": "Fee record is already paid"})
		case errors.Is(err, apperrors.ErrNothingDue):
			c.JSON(http.StatusConflict, gin.H{"error": "Fee record has nothing due"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to mark fee record paid", slog.String("error", err.Error()), slog.Int64("fee_id", feeID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark fee record paid"})
		}
		return
	}

	resp := dto.ToFeeRecordResponse(updated)
	c.JSON(http.StatusOK, gin.H{"message": "Fee record marked fully paid", "fee": resp})
}

// assignFees godoc
// @Summary Assign monthly fees
// @Description Creates one fee record per active student for the period, skipping students that already have one
// @Tags fees
// @Accept json
// @Produce json
// @Param assignment body dto.AssignFeesRequest true "Charge amounts and period"
// @Success 200 {object} dto.AssignFeesResponse
// @Failure 400 {object} ErrorResponse "Invalid charges"
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /fees/assign [post]
func (h *feeHandler) assignFees(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.AssignFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind fee assignment request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.feeService.AssignMonthlyFees(c.Request.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to assign monthly fees", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to assign monthly fees"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.AssignFeesResponse{
		Created: created,
		Message: "Monthly fees assigned",
	})
}

// deleteFee godoc
// @Summary Delete a fee record
// @Description Removes a ledger record. Admin only.
// @Tags fees
// @Produce json
// @Param feeID path int true "Fee record ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Failure 404 {object} ErrorResponse "Fee record not found"
// @Router /fees/{feeID} [delete]
func (h *feeHandler) deleteFee(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	feeID, ok := parseFeeID(c)
	if !ok {
		return
	}

	if err := h.feeService.DeleteFeeRecord(c.Request.Context(), actor, feeID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Fee record not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete fee record", slog.String("error", err.Error()), slog.Int64("fee_id", feeID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete fee record"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Fee record deleted"})
}
