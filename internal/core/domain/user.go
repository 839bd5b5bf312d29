package domain

import "time"

// UserRole is the back-office role assigned to a staff login.
type UserRole string

const (
	RoleAdmin     UserRole = "ADMIN"
	RolePrincipal UserRole = "PRINCIPAL"
	RoleTeacher   UserRole = "TEACHER"
)

// roleRank orders roles by privilege. Admin > Principal > Teacher.
var roleRank = map[UserRole]int{
	RoleTeacher:   1,
	RolePrincipal: 2,
	RoleAdmin:     3,
}

// AtLeast reports whether the role grants at least the privileges of required.
func (r UserRole) AtLeast(required UserRole) bool {
	return roleRank[r] >= roleRank[required]
}

// Valid reports whether the role is one of the known back-office roles.
func (r UserRole) Valid() bool {
	_, ok := roleRank[r]
	return ok
}

// User represents a staff login of the back office.
type User struct {
	UserID       string   `json:"userID"` // Primary Key (UUID)
	Username     string   `json:"username"`
	Name         string   `json:"name"`
	PasswordHash string   `json:"-"`
	Role         UserRole `json:"role"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Used for soft delete
}
