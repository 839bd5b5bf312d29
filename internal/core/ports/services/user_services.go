package services

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/campusbooks/school_admin_app/internal/dto"
)

// UserSvcFacade manages staff logins.
type UserSvcFacade interface {
	// Authenticate verifies credentials and returns the user on success.
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)

	// CreateUser registers a new staff login. Admin only.
	CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error)

	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error)

	// DeleteUser soft-deletes a staff login. Admin only.
	DeleteUser(ctx context.Context, actor domain.Actor, userID string) error
}
