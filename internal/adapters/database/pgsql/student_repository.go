package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	portsrepo "github.com/campusbooks/school_admin_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxStudentRepository struct {
	pool *pgxpool.Pool
}

// NewPgxStudentRepository creates a new repository for student records.
func NewPgxStudentRepository(pool *pgxpool.Pool) portsrepo.StudentRepositoryFacade {
	return &PgxStudentRepository{pool: pool}
}

var _ portsrepo.StudentRepositoryFacade = (*PgxStudentRepository)(nil)

const studentColumns = `student_id, name, class_name, COALESCE(guardian_name, ''), COALESCE(phone, ''), uses_van, active,
	created_at, created_by, last_updated_at, last_updated_by`

func scanStudent(row pgx.Row, s *domain.Student) error {
	return row.Scan(
		&s.StudentID,
		&s.Name,
		&s.ClassName,
		&s.GuardianName,
		&s.Phone,
		&s.UsesVan,
		&s.Active,
		&s.CreatedAt,
		&s.CreatedBy,
		&s.LastUpdatedAt,
		&s.LastUpdatedBy,
	)
}

// FindStudentByID retrieves a single student by id.
func (r *PgxStudentRepository) FindStudentByID(ctx context.Context, studentID int64) (*domain.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE student_id = $1;`, studentColumns)

	var s domain.Student
	err := scanStudent(r.pool.QueryRow(ctx, query, studentID), &s)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find student %d: %w", studentID, err)
	}

	return &s, nil
}

// ListStudents retrieves a limit/offset page of students ordered by class and name.
func (r *PgxStudentRepository) ListStudents(ctx context.Context, className *string, activeOnly bool, limit, offset int) ([]domain.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE ($1::text IS NULL OR class_name = $1) AND (NOT $2 OR active)
		ORDER BY class_name ASC, name ASC, student_id ASC
		LIMIT $3 OFFSET $4;`, studentColumns)

	rows, err := r.pool.Query(ctx, query, className, activeOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query students: %w", err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		var s domain.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// ListActiveStudents returns every active student, unpaginated.
func (r *PgxStudentRepository) ListActiveStudents(ctx context.Context) ([]domain.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE active ORDER BY student_id ASC;`, studentColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active students: %w", err)
	}
	defer rows.Close()

	students := []domain.Student{}
	for rows.Next() {
		var s domain.Student
		if err := scanStudent(rows, &s); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating student rows: %w", err)
	}

	return students, nil
}

// CreateStudent inserts a new student and returns it with its assigned id.
func (r *PgxStudentRepository) CreateStudent(ctx context.Context, student domain.Student) (*domain.Student, error) {
	query := `
		INSERT INTO students (name, class_name, guardian_name, phone, uses_van, active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING student_id;
	`
	err := r.pool.QueryRow(ctx, query,
		student.Name,
		student.ClassName,
		student.GuardianName,
		student.Phone,
		student.UsesVan,
		student.Active,
		student.CreatedAt,
		student.CreatedBy,
		student.LastUpdatedAt,
		student.LastUpdatedBy,
	).Scan(&student.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to insert student: %w", err)
	}

	return &student, nil
}

// UpdateStudent persists the mutable student fields.
func (r *PgxStudentRepository) UpdateStudent(ctx context.Context, student domain.Student) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE students
		SET name = $2, class_name = $3, guardian_name = $4, phone = $5, uses_van = $6, last_updated_at = $7, last_updated_by = $8
		WHERE student_id = $1;`,
		student.StudentID,
		student.Name,
		student.ClassName,
		student.GuardianName,
		student.Phone,
		student.UsesVan,
		student.LastUpdatedAt,
		student.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update student %d: %w", student.StudentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeactivateStudent flags a student inactive without deleting history.
func (r *PgxStudentRepository) DeactivateStudent(ctx context.Context, studentID int64, updatedBy string) error {
	ct, err := r.pool.Exec(ctx, `
		UPDATE students SET active = FALSE, last_updated_at = NOW(), last_updated_by = $2
		WHERE student_id = $1;`, studentID, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to deactivate student %d: %w", studentID, err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
