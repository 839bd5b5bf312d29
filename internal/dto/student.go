package dto

import (
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// CreateStudentRequest is the body for enrolling a new student.
type CreateStudentRequest struct {
	Name         string `json:"name" binding:"required,max=120"`
	ClassName    string `json:"className" binding:"required,max=40"`
	GuardianName string `json:"guardianName" binding:"max=120"`
	Phone        string `json:"phone" binding:"max=20"`
	UsesVan      bool   `json:"usesVan"`
}

// UpdateStudentRequest carries the mutable student fields. Pointer fields are
// applied only when present.
type UpdateStudentRequest struct {
	Name         *string `json:"name,omitempty" binding:"omitempty,max=120"`
	ClassName    *string `json:"className,omitempty" binding:"omitempty,max=40"`
	GuardianName *string `json:"guardianName,omitempty" binding:"omitempty,max=120"`
	Phone        *string `json:"phone,omitempty" binding:"omitempty,max=20"`
	UsesVan      *bool   `json:"usesVan,omitempty"`
}

// StudentResponse is the API shape of one student.
type StudentResponse struct {
	StudentID    int64     `json:"studentID"`
	Name         string    `json:"name"`
	ClassName    string    `json:"className"`
	GuardianName string    `json:"guardianName"`
	Phone        string    `json:"phone"`
	UsesVan      bool      `json:"usesVan"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ListStudentsResponse is a page of students.
type ListStudentsResponse struct {
	Students []StudentResponse `json:"students"`
	Limit    int               `json:"limit"`
	Offset   int               `json:"offset"`
}

// ToStudentResponse converts a domain student to its API shape.
func ToStudentResponse(s *domain.Student) StudentResponse {
	return StudentResponse{
		StudentID:    s.StudentID,
		Name:         s.Name,
		ClassName:    s.ClassName,
		GuardianName: s.GuardianName,
		Phone:        s.Phone,
		UsesVan:      s.UsesVan,
		Active:       s.Active,
		CreatedAt:    s.CreatedAt,
	}
}

// ToListStudentsResponse converts a page of students.
func ToListStudentsResponse(students []domain.Student, limit, offset int) ListStudentsResponse {
	out := make([]StudentResponse, len(students))
	for i := range students {
		out[i] = ToStudentResponse(&students[i])
	}
	return ListStudentsResponse{Students: out, Limit: limit, Offset: offset}
}
