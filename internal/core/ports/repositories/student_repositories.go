package repositories

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// StudentReader defines read operations for student records.
type StudentReader interface {
	// FindStudentByID retrieves a single student by id.
	FindStudentByID(ctx context.Context, studentID int64) (*domain.Student, error)

	// ListStudents retrieves a limit/offset page of students, optionally
	// narrowed to one class, ordered by class asc, name asc.
	ListStudents(ctx context.Context, className *string, activeOnly bool, limit, offset int) ([]domain.Student, error)

	// ListActiveStudents returns every active student, unpaginated.
	// Used by the bulk monthly fee assignment.
	ListActiveStudents(ctx context.Context) ([]domain.Student, error)
}

// StudentWriter defines write operations for student records.
type StudentWriter interface {
	CreateStudent(ctx context.Context, student domain.Student) (*domain.Student, error)
	UpdateStudent(ctx context.Context, student domain.Student) error
	// DeactivateStudent flags a student inactive without deleting history.
	DeactivateStudent(ctx context.Context, studentID int64, updatedBy string) error
}

// StudentRepositoryFacade combines all student repository interfaces.
type StudentRepositoryFacade interface {
	StudentReader
	StudentWriter
}
