package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	portssvc "github.com/campusbooks/school_admin_app/internal/core/ports/services"
	"github.com/campusbooks/school_admin_app/internal/dto"
)

// studentService manages enrollment records.
type studentService struct {
	BaseService
	studentRepo portsrepo.StudentRepositoryFacade
	now         func() time.Time
}

// NewStudentService creates a new student service.
func NewStudentService(studentRepo portsrepo.StudentRepositoryFacade) portssvc.StudentSvcFacade {
	return &studentService{studentRepo: studentRepo, now: time.Now}
}

var _ portssvc.StudentSvcFacade = (*studentService)(nil)

// CreateStudent enrolls a new student. Principal or admin only.
func (s *studentService) CreateStudent(ctx context.Context, actor domain.Actor, req dto.CreateStudentRequest) (*domain.Student, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}

	now := s.now()
	student := domain.Student{
		Name:         req.Name,
		ClassName:    req.ClassName,
		GuardianName: req.GuardianName,
		Phone:        req.Phone,
		UsesVan:      req.UsesVan,
		Active:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	created, err := s.studentRepo.CreateStudent(ctx, student)
	if err != nil {
		s.LogError(ctx, err, "Failed to create student", slog.String("name", req.Name))
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.LogInfo(ctx, "Student enrolled",
		slog.Int64("student_id", created.StudentID),
		slog.String("class_name", created.ClassName))
	return created, nil
}

// GetStudentByID retrieves a single student.
func (s *studentService) GetStudentByID(ctx context.Context, actor domain.Actor, studentID int64) (*domain.Student, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}
	return s.studentRepo.FindStudentByID(ctx, studentID)
}

// ListStudents retrieves a limit/offset page of students.
func (s *studentService) ListStudents(ctx context.Context, actor domain.Actor, className *string, activeOnly bool, limit, offset int) ([]domain.Student, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.studentRepo.ListStudents(ctx, className, activeOnly, limit, offset)
}

// UpdateStudent applies the supplied fields to an existing student.
func (s *studentService) UpdateStudent(ctx context.Context, actor domain.Actor, studentID int64, req dto.UpdateStudentRequest) (*domain.Student, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}

	student, err := s.studentRepo.FindStudentByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		student.Name = *req.Name
	}
	if req.ClassName != nil {
		student.ClassName = *req.ClassName
	}
	if req.GuardianName != nil {
		student.GuardianName = *req.GuardianName
	}
	if req.Phone != nil {
		student.Phone = *req.Phone
	}
	if req.UsesVan != nil {
		student.UsesVan = *req.UsesVan
	}
	student.LastUpdatedAt = s.now()
	student.LastUpdatedBy = actor.UserID

	if err := s.studentRepo.UpdateStudent(ctx, *student); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		s.LogError(ctx, err, "Failed to update student", slog.Int64("student_id", studentID))
		return nil, fmt.Errorf("failed to update student %d: %w", studentID, err)
	}

	s.LogInfo(ctx, "Student updated", slog.Int64("student_id", studentID))
	return student, nil
}

// DeactivateStudent flags a student inactive. Ledger history stays intact and
// the student drops out of future bulk fee assignments.
func (s *studentService) DeactivateStudent(ctx context.Context, actor domain.Actor, studentID int64) error {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return err
	}
	if err := s.studentRepo.DeactivateStudent(ctx, studentID, actor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to deactivate student", slog.Int64("student_id", studentID))
		return fmt.Errorf("failed to deactivate student %d: %w", studentID, err)
	}
	s.LogInfo(ctx, "Student deactivated", slog.Int64("student_id", studentID))
	return nil
}
