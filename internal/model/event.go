package model

import (
	"time"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/google/uuid"
)

// Event is a single-day calendar entry.
type Event struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Date        calendar.Date `json:"date"`
	Time        string        `json:"time"`
	Color       Color         `json:"color"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// EventInput holds the user-editable fields of an Event.
type EventInput struct {
	Title       string        `json:"title" validate:"required"`
	Description string        `json:"description"`
	Date        calendar.Date `json:"date"`
	Time        string        `json:"time" validate:"required,hhmm"`
	Color       Color         `json:"color" validate:"palette"`
}

// Input returns the editable fields of e.
func (e Event) Input() EventInput {
	return EventInput{
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		Color:       e.Color,
	}
}

// Apply copies the editable fields of in onto e, leaving ID untouched.
func (e *Event) Apply(in EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.Date = in.Date
	e.Time = in.Time
	e.Color = in.Color
}
