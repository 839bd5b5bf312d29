package services

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
	"github.com/campusbooks/school_admin_app/internal/dto"
)

// EventSvcFacade manages event announcements.
type EventSvcFacade interface {
	CreateEvent(ctx context.Context, actor domain.Actor, req dto.CreateEventRequest) (*domain.Event, error)
	GetEventByID(ctx context.Context, actor domain.Actor, eventID int64) (*domain.Event, error)
	ListEvents(ctx context.Context, actor domain.Actor, limit int, nextToken *string) ([]domain.Event, *string, error)
	DeleteEvent(ctx context.Context, actor domain.Actor, eventID int64) error
}
