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

// financeHandler handles HTTP requests for expense/income bookkeeping.
type financeHandler struct {
	financeService portssvc.FinanceSvcFacade
}

func newFinanceHandler(financeService portssvc.FinanceSvcFacade) *financeHandler {
	return &financeHandler{financeService: financeService}
}

// registerFinanceRoutes sets up bookkeeping routes on the authenticated group.
func registerFinanceRoutes(rg *gin.RouterGroup, financeService portssvc.FinanceSvcFacade) {
	h := newFinanceHandler(financeService)

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.createExpense)
		expenses.GET("", h.listExpenses)
		expenses.DELETE("/:expenseID", h.deleteExpense)
	}
	incomes := rg.Group("/incomes")
	{
		incomes.POST("", h.createIncome)
		incomes.GET("", h.listIncomes)
		incomes.DELETE("/:incomeID", h.deleteIncome)
	}
	finance := rg.Group("/finance")
	{
		finance.GET("/summary", h.monthSummary)
		finance.GET("/export/csv", h.downloadLedgerCSV)
	}
}

func parseYearMonthQuery(c *gin.Context) (year, month *int) {
	if y, err := strconv.Atoi(c.Query("year")); err == nil {
		year = &y
	}
	if m, err := strconv.Atoi(c.Query("month")); err == nil {
		month = &m
	}
	return year, month
}

// createExpense godoc
// @Summary Record an expense
// @Tags finance
// @Accept json
// @Produce json
// @Param expense body dto.CreateExpenseRequest true "Expense details"
// @Success 201 {object} dto.ExpenseResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /expenses [post]
func (h *financeHandler) createExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind expense request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.financeService.CreateExpense(c.Request.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create expense", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create expense"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToExpenseResponse(created))
}

// listExpenses godoc
// @Summary List expenses
// @Tags finance
// @Produce json
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month (1..12)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.ExpenseResponse
// @Router /expenses [get]
func (h *financeHandler) listExpenses(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	year, month := parseYearMonthQuery(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	expenses, err := h.financeService.ListExpenses(c.Request.Context(), actor, year, month, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list expenses", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list expenses"})
		return
	}

	out := make([]dto.ExpenseResponse, len(expenses))
	for i := range expenses {
		out[i] = dto.ToExpenseResponse(&expenses[i])
	}
	c.JSON(http.StatusOK, out)
}

// deleteExpense godoc
// @Summary Delete an expense
// @Description Admin only.
// @Tags finance
// @Produce json
// @Param expenseID path int true "Expense ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /expenses/{expenseID} [delete]
func (h *financeHandler) deleteExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	expenseID, err := strconv.ParseInt(c.Param("expenseID"), 10, 64)
	if err != nil || expenseID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid expense id"})
		return
	}

	if err := h.financeService.DeleteExpense(c.Request.Context(), actor, expenseID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Expense not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete expense", slog.String("error", err.Error()), slog.Int64("expense_id", expenseID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete expense"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Expense deleted"})
}

// createIncome godoc
// @Summary Record an income entry
// @Tags finance
// @Accept json
// @Produce json
// @Param income body dto.CreateIncomeRequest true "Income details"
// @Success 201 {object} dto.IncomeResponse
// @Failure 400 {object} ErrorResponse
// @Router /incomes [post]
func (h *financeHandler) createIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateIncomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind income request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.financeService.CreateIncome(c.Request.Context(), actor, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create income", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create income"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToIncomeResponse(created))
}

// listIncomes godoc
// @Summary List income entries
// @Tags finance
// @Produce json
// @Param year query int false "Filter by year"
// @Param month query int false "Filter by month (1..12)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {array} dto.IncomeResponse
// @Router /incomes [get]
func (h *financeHandler) listIncomes(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	year, month := parseYearMonthQuery(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	incomes, err := h.financeService.ListIncomes(c.Request.Context(), actor, year, month, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list incomes", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list incomes"})
		return
	}

	out := make([]dto.IncomeResponse, len(incomes))
	for i := range incomes {
		out[i] = dto.ToIncomeResponse(&incomes[i])
	}
	c.JSON(http.StatusOK, out)
}

// deleteIncome godoc
// @Summary Delete an income entry
// @Description Admin only.
// @Tags finance
// @Produce json
// @Param incomeID path int true "Income ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /incomes/{incomeID} [delete]
func (h *financeHandler) deleteIncome(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	incomeID, err := strconv.ParseInt(c.Param("incomeID"), 10, 64)
	if err != nil || incomeID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid income id"})
		return
	}

	if err := h.financeService.DeleteIncome(c.Request.Context(), actor, incomeID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Income not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to delete income", slog.String("error", err.Error()), slog.Int64("income_id", incomeID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete income"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Income deleted"})
}

// monthSummary godoc
// @Summary Month finance summary
// @Description Totals expenses and incomes for one calendar month.
// @Tags finance
// @Produce json
// @Param year query int true "Year"
// @Param month query int true "Month (1..12)"
// @Success 200 {object} dto.MonthSummaryResponse
// @Failure 400 {object} ErrorResponse
// @Router /finance/summary [get]
func (h *financeHandler) monthSummary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month query parameters are required"})
		return
	}

	summary, err := h.financeService.MonthSummary(c.Request.Context(), actor, year, month)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to summarize month", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to summarize month"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.MonthSummaryResponse{
		Year:          summary.Year,
		Month:         summary.Month,
		TotalExpenses: summary.TotalExpenses,
		TotalIncome:   summary.TotalIncome,
		Net:           summary.Net,
	})
}

// downloadLedgerCSV godoc
// @Summary Download a month's bookkeeping ledger as CSV
// @Tags finance
// @Produce text/csv
// @Param year query int true "Year"
// @Param month query int true "Month (1..12)"
// @Success 200 {file} binary "CSV export"
// @Failure 404 {object} ErrorResponse "No entries for the month"
// @Router /finance/export/csv [get]
func (h *financeHandler) downloadLedgerCSV(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	year, errY := strconv.Atoi(c.Query("year"))
	month, errM := strconv.Atoi(c.Query("month"))
	if errY != nil || errM != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "year and month query parameters are required"})
		return
	}

	data, fileName, err := h.financeService.ExportLedgerCSV(c.Request.Context(), actor, year, month)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNoMatchingRecords):
			c.JSON(http.StatusNotFound, gin.H{"message": "No bookkeeping entries for the given month"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Ledger CSV export failed", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export ledger"})
		}
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+fileName+`"`)
	c.Data(http.StatusOK, "text/csv", data)
}
