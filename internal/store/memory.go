package store

import (
	"sync"
	"time"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/google/uuid"
)

// MemoryEventStore keeps events in a slice for the lifetime of the process.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events []model.Event
	now    func() time.Time
	newID  func() uuid.UUID
}

func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		now:   time.Now,
		newID: uuid.New,
	}
}

func (s *MemoryEventStore) Create(in model.EventInput) (*model.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	e := model.Event{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	e.Apply(in)

	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()

	return &e, nil
}

func (s *MemoryEventStore) Update(id uuid.UUID, in model.EventInput) (*model.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	s.events[i].Apply(in)
	s.events[i].UpdatedAt = s.now().UTC()

	e := s.events[i]
	return &e, nil
}

func (s *MemoryEventStore) Delete(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexOf(id); i >= 0 {
		s.events = append(s.events[:i], s.events[i+1:]...)
	}
	return nil
}

func (s *MemoryEventStore) GetByID(id uuid.UUID) (*model.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return nil, nil
	}
	e := s.events[i]
	return &e, nil
}

func (s *MemoryEventStore) List() ([]model.Event, error) {
	return s.filter(func(model.Event) bool { return true }), nil
}

func (s *MemoryEventStore) ListByDay(day calendar.Date) ([]model.Event, error) {
	return s.filter(func(e model.Event) bool { return e.Date.Equal(day) }), nil
}

func (s *MemoryEventStore) ListByMonth(year int, month time.Month) ([]model.Event, error) {
	return s.filter(func(e model.Event) bool {
		return e.Date.Year() == year && e.Date.Month() == month
	}), nil
}

func (s *MemoryEventStore) ListByColor(c model.Color) ([]model.Event, error) {
	return s.filter(func(e model.Event) bool { return e.Color == c }), nil
}

func (s *MemoryEventStore) filter(keep func(model.Event) bool) []model.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []model.Event
	for _, e := range s.events {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// indexOf must be called with mu held.
func (s *MemoryEventStore) indexOf(id uuid.UUID) int {
	for i := range s.events {
		if s.events[i].ID == id {
			return i
		}
	}
	return -1
}
