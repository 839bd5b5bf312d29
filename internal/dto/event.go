package dto

import (
	"time"

	"github.com/campusbooks/school_admin_app/internal/core/domain"
)

// CreateEventRequest is the body for posting an announcement.
type CreateEventRequest struct {
	Title     string `json:"title" binding:"required,max=160"`
	Body      string `json:"body" binding:"required"`
	EventDate string `json:"eventDate" binding:"required"` // YYYY-MM-DD
	Audience  string `json:"audience" binding:"omitempty,oneof=ALL STAFF STUDENTS"`
}

// EventResponse is the API shape of one announcement.
type EventResponse struct {
	EventID   int64                `json:"eventID"`
	Title     string               `json:"title"`
	Body      string               `json:"body"`
	EventDate time.Time            `json:"eventDate"`
	Audience  domain.EventAudience `json:"audience"`
	CreatedAt time.Time            `json:"createdAt"`
}

// ListEventsResponse is a token-paginated page of announcements.
type ListEventsResponse struct {
	Events    []EventResponse `json:"events"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEventResponse converts a domain event to its API shape.
func ToEventResponse(e *domain.Event) EventResponse {
	return EventResponse{
		EventID:   e.EventID,
		Title:     e.Title,
		Body:      e.Body,
		EventDate: e.EventDate,
		Audience:  e.Audience,
		CreatedAt: e.CreatedAt,
	}
}

// ToListEventsResponse converts a page of events.
func ToListEventsResponse(events []domain.Event, nextToken *string) ListEventsResponse {
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = ToEventResponse(&events[i])
	}
	return ListEventsResponse{Events: out, NextToken: nextToken}
}
