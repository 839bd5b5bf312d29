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
	"github.com/campusbooks/school_admin_app/internal/utils"
	"github.com/google/uuid"
)

// userService manages staff logins.
type userService struct {
	BaseService
	userRepo portsrepo.UserRepositoryFacade
	now      func() time.Time
}

// NewUserService creates a new user service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, now: time.Now}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// Authenticate verifies credentials. Unknown username and wrong password both
// come back as ErrNotFound so the login handler leaks nothing about which.
func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		s.LogError(ctx, err, "Failed to look up user for login")
		return nil, fmt.Errorf("failed to authenticate: %w", err)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		s.LogWarn(ctx, "Login with wrong password", slog.String("username", username))
		return nil, apperrors.ErrNotFound
	}

	return user, nil
}

// CreateUser registers a new staff login. Admin only.
func (s *userService) CreateUser(ctx context.Context, actor domain.Actor, req dto.CreateUserRequest) (*domain.User, error) {
	if err := s.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}

	role := domain.UserRole(req.Role)
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Username:     req.Username,
		Name:         req.Name,
		PasswordHash: hash,
		Role:         role,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username already taken", apperrors.ErrDuplicate)
		}
		s.LogError(ctx, err, "Failed to save user", slog.String("username", req.Username))
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.LogInfo(ctx, "Staff login created",
		slog.String("user_id", user.UserID),
		slog.String("role", string(user.Role)))
	return &user, nil
}

// GetUserByID retrieves a single staff login.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves a limit/offset page of staff logins. Admin only.
func (s *userService) ListUsers(ctx context.Context, actor domain.Actor, limit, offset int) ([]domain.User, error) {
	if err := s.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListUsers(ctx, limit, offset)
}

// DeleteUser soft-deletes a staff login. Admin only; admins cannot delete
// themselves, so the system always keeps at least the acting admin.
func (s *userService) DeleteUser(ctx context.Context, actor domain.Actor, userID string) error {
	if err := s.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if userID == actor.UserID {
		return fmt.Errorf("%w: cannot delete own login", apperrors.ErrValidation)
	}
	if err := s.userRepo.MarkUserDeleted(ctx, userID, actor.UserID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to delete user", slog.String("user_id", userID))
		return fmt.Errorf("failed to delete user %s: %w", userID, err)
	}
	s.LogInfo(ctx, "Staff login deleted", slog.String("user_id", userID))
	return nil
}
