package domain

import "time"

// EventAudience says who an announcement is addressed to.
type EventAudience string

const (
	AudienceAll      EventAudience = "ALL"
	AudienceStaff    EventAudience = "STAFF"
	AudienceStudents EventAudience = "STUDENTS"
)

// Event is a school announcement shown on the notice board pages.
type Event struct {
	EventID   int64         `json:"eventID"` // Primary Key (bigserial)
	Title     string        `json:"title"`
	Body      string        `json:"body"`
	EventDate time.Time     `json:"eventDate"`
	Audience  EventAudience `json:"audience"`
	AuditFields
}
