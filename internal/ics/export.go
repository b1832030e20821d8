// Package ics renders events as an iCalendar feed.
package ics

import (
	"fmt"
	"io"
	"strconv"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/dukerupert/monthly/internal/model"
)

const productID = "-//monthly//Event Calendar//EN"

// defaultDuration is used for DTEND because events only carry a start time.
const defaultDuration = time.Hour

// Build returns a calendar with one VEVENT per event. Event times are
// interpreted in loc.
func Build(events []model.Event, loc *time.Location, now time.Time) (*ical.Calendar, error) {
	if loc == nil {
		loc = time.UTC
	}

	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("monthly")

	for _, e := range events {
		start, err := StartOf(e, loc)
		if err != nil {
			return nil, err
		}

		ve := cal.AddEvent(e.ID.String() + "@monthly")
		ve.SetDtStampTime(now.UTC())
		ve.SetStartAt(start)
		ve.SetEndAt(start.Add(defaultDuration))
		ve.SetSummary(e.Title)
		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if !e.CreatedAt.IsZero() {
			ve.SetCreatedTime(e.CreatedAt)
		}
		if !e.UpdatedAt.IsZero() {
			ve.SetModifiedAt(e.UpdatedAt)
		}
		ve.SetProperty(ical.ComponentProperty("COLOR"), e.Color.Entry().Name)
		ve.SetProperty(ical.ComponentPropertyCategories, e.Color.Entry().Name)
	}
	return cal, nil
}

// Export writes the iCalendar feed for events to w.
func Export(w io.Writer, events []model.Event, loc *time.Location, now time.Time) error {
	cal, err := Build(events, loc, now)
	if err != nil {
		return err
	}
	return cal.SerializeTo(w)
}

// StartOf combines an event's date and HH:MM time in loc.
func StartOf(e model.Event, loc *time.Location) (time.Time, error) {
	if !model.ValidClock(e.Time) {
		return time.Time{}, fmt.Errorf("event %s: invalid time %q", e.ID, e.Time)
	}
	h, _ := strconv.Atoi(e.Time[:2])
	m, _ := strconv.Atoi(e.Time[3:])
	return time.Date(e.Date.Year(), e.Date.Month(), e.Date.Day(), h, m, 0, 0, loc), nil
}
