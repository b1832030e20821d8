package ics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	ical "github.com/arran4/golang-ical"
	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/google/uuid"
)

func TestExport(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	id := uuid.New()
	events := []model.Event{{
		ID:          id,
		Title:       "Standup",
		Description: "Daily sync",
		Date:        calendar.NewDate(2024, time.May, 3),
		Time:        "09:00",
		Color:       model.Blue,
	}}

	var buf bytes.Buffer
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := Export(&buf, events, berlin, now); err != nil {
		t.Fatalf("export: %v", err)
	}

	cal, err := ical.ParseCalendar(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("parse exported calendar: %v", err)
	}
	got := cal.Events()
	if len(got) != 1 {
		t.Fatalf("got %d events, want 1", len(got))
	}

	ev := got[0]
	if ev.Id() != id.String()+"@monthly" {
		t.Errorf("uid = %s", ev.Id())
	}
	if p := ev.GetProperty(ical.ComponentPropertySummary); p == nil || p.Value != "Standup" {
		t.Errorf("summary = %+v", p)
	}
	start, err := ev.GetStartAt()
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	// 09:00 CEST is 07:00 UTC.
	if want := time.Date(2024, 5, 3, 7, 0, 0, 0, time.UTC); !start.Equal(want) {
		t.Errorf("start = %v, want %v", start, want)
	}
	if !strings.Contains(buf.String(), "COLOR:Blue") {
		t.Errorf("feed missing color:\n%s", buf.String())
	}
}

func TestExportRejectsBadTime(t *testing.T) {
	events := []model.Event{{ID: uuid.New(), Title: "x", Date: calendar.NewDate(2024, 5, 3), Time: "later"}}
	if err := Export(&bytes.Buffer{}, events, time.UTC, time.Now()); err == nil {
		t.Error("expected error for invalid time")
	}
}

func TestStartOf(t *testing.T) {
	e := model.Event{Date: calendar.NewDate(2024, time.December, 31), Time: "23:45"}
	got, err := StartOf(e, time.UTC)
	if err != nil {
		t.Fatalf("start of: %v", err)
	}
	if want := time.Date(2024, 12, 31, 23, 45, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}
