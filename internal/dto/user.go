package dto

import (
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// LoginRequest carries staff credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse returns the signed JWT for subsequent requests.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// CreateUserRequest is the body for registering a staff login. Admin only.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=60"`
	Password string `json:"password" binding:"required,min=8"`
	Name     string `json:"name" binding:"required,max=120"`
	Role     string `json:"role" binding:"required,oneof=ADMIN PRINCIPAL TEACHER"`
}

// UserResponse is the API shape of one staff login.
type UserResponse struct {
	UserID    string          `json:"userID"`
	Username  string          `json:"username"`
	Name      string          `json:"name"`
	Role      domain.UserRole `json:"role"`
	CreatedAt time.Time       `json:"createdAt"`
}

// ListUsersResponse is a page of staff logins.
type ListUsersResponse struct {
	Users  []UserResponse `json:"users"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ToUserResponse converts a domain user to its API shape.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		Username:  u.Username,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
