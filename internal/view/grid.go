package view

import (
	"fmt"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
)

// Day is one rendered cell of the month grid.
type Day struct {
	calendar.Cell
	Today  bool
	Events []model.Event
}

// Grid is the shown month with events bucketed by day.
type Grid struct {
	Month calendar.Month
	Weeks [][]Day
}

// Summary groups events of one palette color.
type Summary struct {
	Palette model.PaletteEntry
	Events  []model.Event
}

// Grid builds the shown month. today marks the current day cell.
func (c *Controller) Grid(today calendar.Date) (Grid, error) {
	m := calendar.BuildMonth(c.month)

	events, err := c.store.ListByMonth(m.Year, m.Month)
	if err != nil {
		return Grid{}, fmt.Errorf("list month events: %w", err)
	}
	byDay := make(map[string][]model.Event)
	for _, e := range events {
		byDay[e.Date.String()] = append(byDay[e.Date.String()], e)
	}

	g := Grid{Month: m}
	for _, week := range m.Weeks() {
		row := make([]Day, len(week))
		for i, cell := range week {
			row[i] = Day{Cell: cell}
			if cell.Blank {
				continue
			}
			row[i].Today = cell.Date.Equal(today)
			row[i].Events = byDay[cell.Date.String()]
		}
		g.Weeks = append(g.Weeks, row)
	}
	return g, nil
}

// DayEvents returns the events on day in insertion order.
func (c *Controller) DayEvents(day calendar.Date) ([]model.Event, error) {
	return c.store.ListByDay(day)
}

// Summaries returns one group per palette color, in palette order.
func (c *Controller) Summaries() ([]Summary, error) {
	out := make([]Summary, 0, len(model.Palette))
	for _, p := range model.Palette {
		events, err := c.store.ListByColor(p.Color)
		if err != nil {
			return nil, fmt.Errorf("list %s events: %w", p.Color, err)
		}
		out = append(out, Summary{Palette: p, Events: events})
	}
	return out, nil
}
