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

// studentHandler handles HTTP requests for enrollment records.
type studentHandler struct {
	studentService portssvc.StudentSvcFacade
}

func newStudentHandler(studentService portssvc.StudentSvcFacade) *studentHandler {
	return &studentHandler{studentService: studentService}
}

// registerStudentRoutes sets up the student routes on the authenticated group.
func registerStudentRoutes(rg *gin.RouterGroup, studentService portssvc.StudentSvcFacade) {
	h := newStudentHandler(studentService)

	students := rg.Group("/students")
	{
		students.POST("", h.createStudent)
		students.GET("", h.listStudents)
		students.GET("/:studentID", h.getStudent)
		students.PUT("/:studentID", h.updateStudent)
		students.DELETE("/:studentID", h.deactivateStudent)
	}
}

func parseStudentID(c *gin.Context) (int64, bool) {
	studentID, err := strconv.ParseInt(c.Param("studentID"), 10, 64)
	if err != nil || studentID <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student id"})
		return 0, false
	}
	return studentID, true
}

// createStudent godoc
// @Summary Enroll a student
// @Tags students
// @Accept json
// @Produce json
// @Param student body dto.CreateStudentRequest true "Student details"
// @Success 201 {object} dto.StudentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /students [post]
func (h *studentHandler) createStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind student request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.studentService.CreateStudent(c.Request.Context(), actor, req)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to create student", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create student"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToStudentResponse(created))
}

// listStudents godoc
// @Summary List students
// @Tags students
// @Produce json
// @Param class query string false "Filter by class name"
// @Param active query bool false "Only active students (default true)"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} dto.ListStudentsResponse
// @Router /students [get]
func (h *studentHandler) listStudents(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var className *string
	if class := c.Query("class"); class != "" {
		className = &class
	}
	activeOnly := c.DefaultQuery("active", "true") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	students, err := h.studentService.ListStudents(c.Request.Context(), actor, className, activeOnly, limit, offset)
	if err != nil {
		if errors.Is(err, apperrors.ErrForbidden) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list students", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list students"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListStudentsResponse(students, limit, offset))
}

// getStudent godoc
// @Summary Get one student
// @Tags students
// @Produce json
// @Param studentID path int true "Student ID"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/{studentID} [get]
func (h *studentHandler) getStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	studentID, ok := parseStudentID(c)
	if !ok {
		return
	}

	student, err := h.studentService.GetStudentByID(c.Request.Context(), actor, studentID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to get student", slog.String("error", err.Error()), slog.Int64("student_id", studentID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve student"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToStudentResponse(student))
}

// updateStudent godoc
// @Summary Update a student
// @Tags students
// @Accept json
// @Produce json
// @Param studentID path int true "Student ID"
// @Param student body dto.UpdateStudentRequest true "Fields to update"
// @Success 200 {object} dto.StudentResponse
// @Failure 404 {object} ErrorResponse
// @Router /students/{studentID} [put]
func (h *studentHandler) updateStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	studentID, ok := parseStudentID(c)
	if !ok {
		return
	}

	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind student update", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updated, err := h.studentService.UpdateStudent(c.Request.Context(), actor, studentID, req)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update student", slog.String("error", err.Error()), slog.Int64("student_id", studentID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student updated", "student": dto.ToStudentResponse(updated)})
}

// deactivateStudent godoc
// @Summary Deactivate a student
// @Description Flags a student inactive. Ledger history is kept.
// @Tags students
// @Produce json
// @Param studentID path int true "Student ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse
// @Router /students/{studentID} [delete]
func (h *studentHandler) deactivateStudent(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	actor, ok := middleware.GetActorFromCtx(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	studentID, ok := parseStudentID(c)
	if !ok {
		return
	}

	if err := h.studentService.DeactivateStudent(c.Request.Context(), actor, studentID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		case errors.Is(err, apperrors.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to deactivate student", slog.String("error", err.Error()), slog.Int64("student_id", studentID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate student"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Student deactivated"})
}
