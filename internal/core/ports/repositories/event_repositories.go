package repositories

import (
	"context"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// EventReader defines read operations for announcements.
type EventReader interface {
	FindEventByID(ctx context.Context, eventID int64) (*domain.Event, error)

	// ListEvents retrieves a token-paginated page of announcements ordered by
	// event date desc, id desc. It returns the events and a token for the
	// next page, nil when exhausted.
	ListEvents(ctx context.Context, limit int, nextToken *string) ([]domain.Event, *string, error)
}

// EventWriter defines write operations for announcements.
type EventWriter interface {
	SaveEvent(ctx context.Context, event domain.Event) (*domain.Event, error)
	UpdateEvent(ctx context.Context, event domain.Event) error
	DeleteEvent(ctx context.Context, eventID int64) error
}

// EventRepositoryFacade combines all announcement repository interfaces.
type EventRepositoryFacade interface {
	EventReader
	EventWriter
}
