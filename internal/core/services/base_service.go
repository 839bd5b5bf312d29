package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campusbooks/school_admin_app/internal/apperrors"
	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/campusbooks/school_admin_app/internal/middleware"
)

// BaseService provides common functionality for all services.
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one.
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting.
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+2)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting.
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting.
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// Authorize checks the actor's role before anything else is validated.
// Returns apperrors.ErrForbidden with no side effects when the role is
// insufficient.
func (s *BaseService) Authorize(ctx context.Context, actor domain.Actor, required domain.UserRole) error {
	if !actor.Role.AtLeast(required) {
		s.LogWarn(ctx, "Actor lacks required role",
			slog.String("user_id", actor.UserID),
			slog.String("role", string(actor.Role)),
			slog.String("required_role", string(required)))
		return fmt.Errorf("%w: requires %s", apperrors.ErrForbidden, required)
	}
	return nil
}
