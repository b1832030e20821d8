package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/google/uuid"
)

// EventStore persists events in SQLite. Insertion order is the row position,
// which an update never changes.
type EventStore struct {
	db    *sql.DB
	newID func() uuid.UUID
}

func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db, newID: uuid.New}
}

const eventCols = `id, title, description, event_date, event_time, color, created_at, updated_at`

func scanEvent(scanner interface{ Scan(...any) error }) (*model.Event, error) {
	var e model.Event
	var id, date, color string

	err := scanner.Scan(&id, &e.Title, &e.Description, &date, &e.Time, &color, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if e.ID, err = uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("parse event id: %w", err)
	}
	if e.Date, err = calendar.ParseDate(date); err != nil {
		return nil, err
	}
	if e.Color, err = model.ParseColor(color); err != nil {
		return nil, err
	}
	return &e, nil
}

func (s *EventStore) Create(in model.EventInput) (*model.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	id := s.newID()
	_, err := s.db.Exec(
		`INSERT INTO events (id, title, description, event_date, event_time, color)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id.String(), in.Title, in.Description, in.Date.String(), in.Time, in.Color.Key(),
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	return s.GetByID(id)
}

func (s *EventStore) GetByID(id uuid.UUID) (*model.Event, error) {
	e, err := scanEvent(s.db.QueryRow(
		`SELECT `+eventCols+` FROM events WHERE id = ?`, id.String(),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query event: %w", err)
	}
	return e, nil
}

func (s *EventStore) Update(id uuid.UUID, in model.EventInput) (*model.Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	res, err := s.db.Exec(
		`UPDATE events
		 SET title = ?, description = ?, event_date = ?, event_time = ?, color = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ?`,
		in.Title, in.Description, in.Date.String(), in.Time, in.Color.Key(), id.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, nil
	}

	return s.GetByID(id)
}

func (s *EventStore) Delete(id uuid.UUID) error {
	if _, err := s.db.Exec("DELETE FROM events WHERE id = ?", id.String()); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	return nil
}

func (s *EventStore) List() ([]model.Event, error) {
	return s.query(`SELECT ` + eventCols + ` FROM events ORDER BY position`)
}

func (s *EventStore) ListByDay(day calendar.Date) ([]model.Event, error) {
	return s.query(
		`SELECT `+eventCols+` FROM events WHERE event_date = ? ORDER BY position`,
		day.String(),
	)
}

func (s *EventStore) ListByMonth(year int, month time.Month) ([]model.Event, error) {
	first := calendar.NewDate(year, month, 1)
	last := calendar.NewDate(year, month+1, 0)
	return s.query(
		`SELECT `+eventCols+` FROM events WHERE event_date BETWEEN ? AND ? ORDER BY position`,
		first.String(), last.String(),
	)
}

func (s *EventStore) ListByColor(c model.Color) ([]model.Event, error) {
	return s.query(
		`SELECT `+eventCols+` FROM events WHERE color = ? ORDER BY position`,
		c.Key(),
	)
}

func (s *EventStore) query(q string, args ...any) ([]model.Event, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, *e)
	}
	return events, rows.Err()
}
