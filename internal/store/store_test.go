package store

import (
	"errors"
	"testing"
	"time"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/database"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/google/uuid"
)

func setupTestDB(t *testing.T) *EventStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewEventStore(db)
}

// forEachStore runs fn against every Store implementation.
func forEachStore(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemoryEventStore()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, setupTestDB(t)) })
}

var may3 = calendar.NewDate(2024, time.May, 3)

func input(title string, day calendar.Date, clock string, c model.Color) model.EventInput {
	return model.EventInput{Title: title, Date: day, Time: clock, Color: c}
}

func mustCreate(t *testing.T, s Store, in model.EventInput) *model.Event {
	t.Helper()
	e, err := s.Create(in)
	if err != nil {
		t.Fatalf("create %q: %v", in.Title, err)
	}
	return e
}

func titles(events []model.Event) []string {
	out := make([]string, len(events))
	for i, e := range events {
		out[i] = e.Title
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCreateAndGetByID(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		in := input("Team Meeting", may3, "10:00", model.Pink)
		in.Description = "Weekly sync"

		event, err := s.Create(in)
		if err != nil {
			t.Fatalf("create event: %v", err)
		}
		if event.ID == uuid.Nil {
			t.Error("id should be assigned")
		}
		if event.Title != "Team Meeting" || event.Description != "Weekly sync" {
			t.Errorf("event = %+v", event)
		}

		got, err := s.GetByID(event.ID)
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if got == nil {
			t.Fatal("expected event, got nil")
		}
		if got.Time != "10:00" || got.Color != model.Pink || !got.Date.Equal(may3) {
			t.Errorf("got = %+v", got)
		}
	})
}

func TestGetByIDNotFound(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		got, err := s.GetByID(uuid.New())
		if err != nil {
			t.Fatalf("get by id: %v", err)
		}
		if got != nil {
			t.Error("expected nil for nonexistent event")
		}
	})
}

func TestCreateRejectsInvalid(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		mustCreate(t, s, input("Existing", may3, "08:00", model.Violet))

		for _, in := range []model.EventInput{
			input("", may3, "09:00", model.Blue),
			input("Standup", may3, "", model.Blue),
		} {
			_, err := s.Create(in)
			if !errors.Is(err, model.ErrValidation) {
				t.Errorf("create %+v: err = %v, want ErrValidation", in, err)
			}
		}

		all, err := s.List()
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(all) != 1 {
			t.Errorf("store has %d events, want 1 (unchanged)", len(all))
		}
	})
}

func TestCreateAppendsInOrder(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		e1 := mustCreate(t, s, input("E1", may3, "12:00", model.Violet))
		e2 := mustCreate(t, s, input("Standup", may3, "09:00", model.Blue))

		if e1.ID == e2.ID {
			t.Fatal("ids collide")
		}

		got, err := s.ListByDay(may3)
		if err != nil {
			t.Fatalf("list by day: %v", err)
		}
		if want := []string{"E1", "Standup"}; !equalStrings(titles(got), want) {
			t.Errorf("by day = %v, want %v (insertion order)", titles(got), want)
		}
	})
}

func TestListByDayIgnoresOtherDays(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		mustCreate(t, s, input("Day 1", may3, "09:00", model.Violet))
		mustCreate(t, s, input("Day 2", may3.AddDays(1), "09:00", model.Violet))
		mustCreate(t, s, input("Next year", calendar.NewDate(2025, time.May, 3), "09:00", model.Violet))

		got, err := s.ListByDay(may3)
		if err != nil {
			t.Fatalf("list by day: %v", err)
		}
		if want := []string{"Day 1"}; !equalStrings(titles(got), want) {
			t.Errorf("by day = %v, want %v", titles(got), want)
		}

		empty, err := s.ListByDay(may3.AddDays(10))
		if err != nil {
			t.Fatalf("list empty day: %v", err)
		}
		if len(empty) != 0 {
			t.Errorf("got %d events on empty day", len(empty))
		}
	})
}

func TestUpdatePreservesIDAndPosition(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		first := mustCreate(t, s, input("First", may3, "08:00", model.Violet))
		mustCreate(t, s, input("Second", may3, "09:00", model.Violet))

		in := input("First (moved)", may3, "10:30", model.Orange)
		in.Description = "now orange"
		updated, err := s.Update(first.ID, in)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.ID != first.ID {
			t.Errorf("id = %v, want %v", updated.ID, first.ID)
		}
		if updated.Title != "First (moved)" || updated.Time != "10:30" || updated.Color != model.Orange {
			t.Errorf("updated = %+v", updated)
		}

		got, _ := s.ListByDay(may3)
		if want := []string{"First (moved)", "Second"}; !equalStrings(titles(got), want) {
			t.Errorf("by day = %v, want %v (replaced in place)", titles(got), want)
		}
	})
}

func TestUpdateMovesDay(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		e := mustCreate(t, s, input("Trip", may3, "07:00", model.Blue))
		newDay := calendar.NewDate(2024, time.June, 1)

		if _, err := s.Update(e.ID, input("Trip", newDay, "07:00", model.Blue)); err != nil {
			t.Fatalf("update: %v", err)
		}

		old, _ := s.ListByDay(may3)
		if len(old) != 0 {
			t.Errorf("old day still has %v", titles(old))
		}
		moved, _ := s.ListByDay(newDay)
		if len(moved) != 1 || moved[0].ID != e.ID {
			t.Errorf("new day = %v, want the moved event", titles(moved))
		}
	})
}

func TestUpdateUnknownIDIsNoop(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		mustCreate(t, s, input("Keep", may3, "09:00", model.Violet))

		got, err := s.Update(uuid.New(), input("Ghost", may3, "09:00", model.Violet))
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if got != nil {
			t.Errorf("got %+v, want nil", got)
		}

		all, _ := s.List()
		if want := []string{"Keep"}; !equalStrings(titles(all), want) {
			t.Errorf("store = %v, want %v", titles(all), want)
		}
	})
}

func TestUpdateRejectsInvalid(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		e := mustCreate(t, s, input("Keep", may3, "09:00", model.Violet))

		_, err := s.Update(e.ID, input("Keep", may3, "", model.Violet))
		if !errors.Is(err, model.ErrValidation) {
			t.Fatalf("err = %v, want ErrValidation", err)
		}

		got, _ := s.GetByID(e.ID)
		if got.Time != "09:00" {
			t.Errorf("time = %q, want unchanged 09:00", got.Time)
		}
	})
}

func TestDelete(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		a := mustCreate(t, s, input("A", may3, "09:00", model.Violet))
		mustCreate(t, s, input("B", may3, "10:00", model.Violet))

		if err := s.Delete(a.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		all, _ := s.List()
		if want := []string{"B"}; !equalStrings(titles(all), want) {
			t.Errorf("after delete = %v, want %v", titles(all), want)
		}

		if err := s.Delete(uuid.New()); err != nil {
			t.Fatalf("delete absent: %v", err)
		}
		all, _ = s.List()
		if want := []string{"B"}; !equalStrings(titles(all), want) {
			t.Errorf("after absent delete = %v, want %v", titles(all), want)
		}
	})
}

func TestListByColorPartitions(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		colors := []model.Color{model.Blue, model.Violet, model.Blue, model.Orange, model.Pink, model.Violet}
		for i, c := range colors {
			mustCreate(t, s, input(c.Key()+string(rune('0'+i)), may3.AddDays(i), "09:00", c))
		}

		all, _ := s.List()
		seen := make(map[uuid.UUID]int)
		for _, p := range model.Palette {
			got, err := s.ListByColor(p.Color)
			if err != nil {
				t.Fatalf("list by color: %v", err)
			}
			for _, e := range got {
				if e.Color != p.Color {
					t.Errorf("%s bucket contains %s event", p.Color, e.Color)
				}
				seen[e.ID]++
			}
		}

		if len(seen) != len(all) {
			t.Errorf("union has %d events, store has %d", len(seen), len(all))
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("event %v appears in %d buckets", id, n)
			}
		}

		blue, _ := s.ListByColor(model.Blue)
		if want := []string{"blue0", "blue2"}; !equalStrings(titles(blue), want) {
			t.Errorf("blue = %v, want %v", titles(blue), want)
		}
	})
}

func TestListByMonth(t *testing.T) {
	forEachStore(t, func(t *testing.T, s Store) {
		mustCreate(t, s, input("April", calendar.NewDate(2024, time.April, 30), "09:00", model.Violet))
		mustCreate(t, s, input("May 1", calendar.NewDate(2024, time.May, 1), "09:00", model.Violet))
		mustCreate(t, s, input("May 31", calendar.NewDate(2024, time.May, 31), "09:00", model.Violet))
		mustCreate(t, s, input("June", calendar.NewDate(2024, time.June, 1), "09:00", model.Violet))

		got, err := s.ListByMonth(2024, time.May)
		if err != nil {
			t.Fatalf("list by month: %v", err)
		}
		if want := []string{"May 1", "May 31"}; !equalStrings(titles(got), want) {
			t.Errorf("by month = %v, want %v", titles(got), want)
		}
	})
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	s := NewMemoryEventStore()
	e := mustCreate(t, s, input("Original", may3, "09:00", model.Violet))
	e.Title = "mutated"

	got, _ := s.GetByID(e.ID)
	if got.Title != "Original" {
		t.Errorf("store title = %q, caller mutation leaked in", got.Title)
	}
}
