// Package tui is a terminal front end for the month view.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/dukerupert/monthly/internal/store"
	"github.com/dukerupert/monthly/internal/view"
)

// Dialog fields in focus order. fieldColor is the palette picker.
const (
	fieldTitle = iota
	fieldDate
	fieldTime
	fieldDescription
	fieldColor
	fieldCount
)

// Model is the bubbletea model. It drives a view.Controller with the keyboard;
// a highlighted cursor day stands in for mouse clicks.
type Model struct {
	ctrl  *view.Controller
	rec   *view.Recorder
	today calendar.Date

	cursor   calendar.Date
	eventIdx int

	inputs  [fieldColor]textinput.Model
	color   model.Color
	focus   int
	dateErr string

	notice *view.Notice
	err    error
	width  int
}

// New returns a Model browsing the month that contains today.
func New(s store.Store, today calendar.Date) *Model {
	rec := &view.Recorder{}
	m := &Model{
		ctrl:   view.New(s, rec, today),
		rec:    rec,
		today:  today,
		cursor: today,
	}

	placeholders := [fieldColor]string{"Event title", "YYYY-MM-DD", "HH:MM", "Optional"}
	limits := [fieldColor]int{120, 10, 5, 500}
	for i := range m.inputs {
		in := textinput.New()
		in.Placeholder = placeholders[i]
		in.CharLimit = limits[i]
		in.Width = 40
		m.inputs[i] = in
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		m.notice = nil
		m.rec.Notices = m.rec.Notices[:0]

		var cmd tea.Cmd
		if m.ctrl.DialogOpen() {
			cmd = m.handleDialogKeys(msg)
		} else {
			cmd = m.handleBrowseKeys(msg)
		}

		if n, ok := m.rec.Last(); ok {
			m.notice = &n
		}
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleBrowseKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit
	case "left", "h":
		m.moveCursor(m.cursor.AddDays(-1))
	case "right", "l":
		m.moveCursor(m.cursor.AddDays(1))
	case "up", "k":
		m.moveCursor(m.cursor.AddDays(-7))
	case "down", "j":
		m.moveCursor(m.cursor.AddDays(7))
	case "[", "pgup":
		m.ctrl.PrevMonth()
		m.cursor = calendar.AddMonths(m.cursor, -1)
		m.eventIdx = 0
	case "]", "pgdown":
		m.ctrl.NextMonth()
		m.cursor = calendar.AddMonths(m.cursor, 1)
		m.eventIdx = 0
	case "t":
		m.moveCursor(m.today)
	case "tab", "shift+tab":
		events := m.dayEvents()
		if len(events) == 0 {
			return nil
		}
		step := 1
		if msg.String() == "shift+tab" {
			step = len(events) - 1
		}
		m.eventIdx = (m.eventIdx + step) % len(events)
	case "enter", "n":
		m.ctrl.ClickDay(m.cursor)
		return m.loadForm()
	case "e":
		events := m.dayEvents()
		if m.eventIdx >= len(events) {
			return nil
		}
		ok, err := m.ctrl.ClickEvent(events[m.eventIdx].ID)
		if err != nil {
			m.err = err
			return nil
		}
		if ok {
			return m.loadForm()
		}
	}
	return nil
}

func (m *Model) handleDialogKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.ctrl.Cancel()
		return nil
	case "tab":
		return m.setFocus((m.focus + 1) % fieldCount)
	case "shift+tab":
		return m.setFocus((m.focus + fieldCount - 1) % fieldCount)
	case "enter":
		m.submit()
		return nil
	case "ctrl+d":
		if err := m.ctrl.Delete(); err != nil {
			m.err = err
		}
		m.eventIdx = 0
		return nil
	case "left", "right":
		if m.focus == fieldColor {
			n := len(model.Palette)
			step := 1
			if msg.String() == "left" {
				step = n - 1
			}
			m.color = model.Color((int(m.color) + step) % n)
			return nil
		}
	}

	if m.focus == fieldColor {
		return nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return cmd
}

// moveCursor highlights day, following it into another month.
func (m *Model) moveCursor(day calendar.Date) {
	m.cursor = day
	m.eventIdx = 0
	if !day.SameMonth(m.ctrl.Month()) {
		m.ctrl.GoToMonth(day)
	}
}

func (m *Model) dayEvents() []model.Event {
	events, err := m.ctrl.DayEvents(m.cursor)
	if err != nil {
		m.err = err
		return nil
	}
	return events
}

// loadForm copies the controller's dialog state into the text inputs.
func (m *Model) loadForm() tea.Cmd {
	f := m.ctrl.Form()
	m.inputs[fieldTitle].SetValue(f.Title)
	m.inputs[fieldDate].SetValue(m.ctrl.Selected().String())
	m.inputs[fieldTime].SetValue(f.Time)
	m.inputs[fieldDescription].SetValue(f.Description)
	m.color = f.Color
	m.dateErr = ""
	return m.setFocus(fieldTitle)
}

func (m *Model) setFocus(field int) tea.Cmd {
	m.focus = field
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == field {
			cmd = m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) submit() {
	day, err := calendar.ParseDate(strings.TrimSpace(m.inputs[fieldDate].Value()))
	if err != nil {
		m.dateErr = "date must be YYYY-MM-DD"
		return
	}
	m.dateErr = ""

	m.ctrl.SetDate(day)
	m.ctrl.SetForm(view.Form{
		Title:       m.inputs[fieldTitle].Value(),
		Description: m.inputs[fieldDescription].Value(),
		Time:        m.inputs[fieldTime].Value(),
		Color:       m.color,
	})

	e, err := m.ctrl.Submit()
	if err != nil {
		m.err = fmt.Errorf("save event: %w", err)
		return
	}
	if e != nil {
		m.moveCursor(e.Date)
	}
}
