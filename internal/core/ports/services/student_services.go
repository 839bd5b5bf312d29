package services

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/campusbooks/school_admin_app/internal/dto"
)

// StudentSvcFacade manages student records.
type StudentSvcFacade interface {
	CreateStudent(ctx context.Context, actor domain.Actor, req dto.CreateStudentRequest) (*domain.Student, error)
	GetStudentByID(ctx context.Context, actor domain.Actor, studentID int64) (*domain.Student, error)
	ListStudents(ctx context.Context, actor domain.Actor, className *string, activeOnly bool, limit, offset int) ([]domain.Student, error)
	UpdateStudent(ctx context.Context, actor domain.Actor, studentID int64, req dto.UpdateStudentRequest) (*domain.Student, error)
	// DeactivateStudent flags a student inactive; ledger history is kept.
	DeactivateStudent(ctx context.Context, actor domain.Actor, studentID int64) error
}
