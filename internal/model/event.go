package model

import (
	"strings"
	"time"
)

// Event is an event record. Date is YYYY-MM-DD; StartTime and EndTime are
// HH:MM:SS or empty.
type Event struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Date        string  `json:"date"`
	StartTime   string  `json:"start_time"`
	EndTime     string  `json:"end_time"`
	Location    string  `json:"location"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// EventInput is the body of event create and update requests.
type EventInput struct {
	Title       string  `json:"title" validate:"notblank,max=255"`
	Category    string  `json:"category" validate:"max=100"`
	Date        string  `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string  `json:"start_time" validate:"omitempty,clock"`
	EndTime     string  `json:"end_time" validate:"omitempty,clock"`
	Location    string  `json:"location" validate:"max=255"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
}

// Normalize keeps only the date portion of Date when a time component is
// attached, e.g. "2025-11-02T00:00:00.000Z" becomes "2025-11-02".
func (in EventInput) Normalize() EventInput {
	if i := strings.IndexByte(in.Date, 'T'); i >= 0 {
		in.Date = in.Date[:i]
	}
	in.Title = strings.TrimSpace(in.Title)
	return in
}

// ToEvent builds an Event with the given id from the input fields.
func (in EventInput) ToEvent(id int64) Event {
	return Event{
		ID:          id,
		Title:       in.Title,
		Category:    in.Category,
		Date:        in.Date,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Location:    in.Location,
		Description: in.Description,
		Price:       in.Price,
	}
}

// Registration records that a user registered for an event.
type Registration struct {
	UserID       int64
	EventID      int64
	RegisteredAt time.Time
}

// Registrant is a row of an event's registration list.
type Registrant struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Username     string    `json:"username"`
	RegisteredAt time.Time `json:"registered_at"`
}

// EventsResponse wraps a list of events.
type EventsResponse struct {
	Events []Event `json:"events"`
}

// EventResponse wraps a single event.
type EventResponse struct {
	Message string `json:"message,omitempty"`
	Event   Event  `json:"event"`
}

// RegistrantsResponse wraps an event's registration list.
type RegistrantsResponse struct {
	Registrations []Registrant `json:"registrations"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}
