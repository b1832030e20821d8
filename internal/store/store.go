package store

import (
	"time"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/google/uuid"
)

// Store is an ordered collection of events. Lookups on absent ids are not
// errors: GetByID and Update return (nil, nil), Delete returns nil.
//
// Create and Update reject invalid input with a *model.ValidationError and
// leave the collection unchanged.
type Store interface {
	Create(in model.EventInput) (*model.Event, error)
	Update(id uuid.UUID, in model.EventInput) (*model.Event, error)
	Delete(id uuid.UUID) error
	GetByID(id uuid.UUID) (*model.Event, error)
	List() ([]model.Event, error)
	ListByDay(day calendar.Date) ([]model.Event, error)
	ListByMonth(year int, month time.Month) ([]model.Event, error)
	ListByColor(c model.Color) ([]model.Event, error)
}
