package repositories

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// UserReader defines read operations for staff logins.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
}

// UserWriter defines write operations for staff logins.
type UserWriter interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	// MarkUserDeleted soft-deletes a login; the row is kept for audit trails.
	MarkUserDeleted(ctx context.Context, userID string, deletedBy string) error
}

// UserRepositoryFacade combines all user repository interfaces.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
