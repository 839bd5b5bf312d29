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
)

// eventService manages notice board announcements.
type eventService struct {
	BaseService
	eventRepo portsrepo.EventRepositoryFacade
	now       func() time.Time
}

// NewEventService creates a new announcement service.
func NewEventService(eventRepo portsrepo.EventRepositoryFacade) portssvc.EventSvcFacade {
	return &eventService{eventRepo: eventRepo, now: time.Now}
}

var _ portssvc.EventSvcFacade = (*eventService)(nil)

// CreateEvent posts a new announcement. Principal or admin only.
func (s *eventService) CreateEvent(ctx context.Context, actor domain.Actor, req dto.CreateEventRequest) (*domain.Event, error) {
	if err := s.Authorize(ctx, actor, domain.RolePrincipal); err != nil {
		return nil, err
	}

	eventDate, err := time.Parse(isoDateFormat, req.EventDate)
	if err != nil {
		return nil, fmt.Errorf("%w: event date must be YYYY-MM-DD", apperrors.ErrValidation)
	}

	audience := domain.EventAudience(req.Audience)
	if req.Audience == "" {
		audience = domain.AudienceAll
	}

	now := s.now()
	event := domain.Event{
		Title:     req.Title,
		Body:      req.Body,
		EventDate: eventDate,
		Audience:  audience,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actor.UserID,
			LastUpdatedAt: now,
			LastUpdatedBy: actor.UserID,
		},
	}

	created, err := s.eventRepo.SaveEvent(ctx, event)
	if err != nil {
		s.LogError(ctx, err, "Failed to save event", slog.String("title", req.Title))
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.LogInfo(ctx, "Announcement posted",
		slog.Int64("event_id", created.EventID),
		slog.String("audience", string(created.Audience)))
	return created, nil
}

// GetEventByID retrieves a single announcement.
func (s *eventService) GetEventByID(ctx context.Context, actor domain.Actor, eventID int64) (*domain.Event, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, err
	}
	return s.eventRepo.FindEventByID(ctx, eventID)
}

// ListEvents retrieves a token-paginated page of announcements, newest first.
func (s *eventService) ListEvents(ctx context.Context, actor domain.Actor, limit int, nextToken *string) ([]domain.Event, *string, error) {
	if err := s.Authorize(ctx, actor, domain.RoleTeacher); err != nil {
		return nil, nil, err
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.eventRepo.ListEvents(ctx, limit, nextToken)
}

// DeleteEvent removes an announcement. Admin only.
func (s *eventService) DeleteEvent(ctx context.Context, actor domain.Actor, eventID int64) error {
	if err := s.Authorize(ctx, actor, domain.RoleAdmin); err != nil {
		return err
	}
	if err := s.eventRepo.DeleteEvent(ctx, eventID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return err
		}
		s.LogError(ctx, err, "Failed to delete event", slog.Int64("event_id", eventID))
		return fmt.Errorf("failed to delete event %d: %w", eventID, err)
	}
	s.LogInfo(ctx, "Announcement deleted", slog.Int64("event_id", eventID))
	return nil
}
