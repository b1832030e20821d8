package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/monthly/internal/calendar"
	"github.com/dukerupert/monthly/internal/model"
	"github.com/dukerupert/monthly/internal/view"
)

func (m *Model) View() string {
	if m.ctrl.DialogOpen() {
		return appStyle.Render(m.renderDialog())
	}
	return appStyle.Render(m.renderMonth())
}

func (m *Model) renderMonth() string {
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.ctrl.Month().Format("January 2006")))
	b.WriteString("\n\n")

	grid, err := m.ctrl.Grid(m.today)
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err))
	}

	for _, wd := range calendar.Weekdays {
		b.WriteString(weekdayStyle.Render(wd))
	}
	b.WriteString("\n")

	for _, week := range grid.Weeks {
		var days, marks strings.Builder
		for _, d := range week {
			days.WriteString(m.renderDay(d))
			marks.WriteString(dayStyle.Render(renderMarks(d.Events)))
		}
		b.WriteString(days.String())
		b.WriteString("\n")
		b.WriteString(marks.String())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(m.cursor.Format("Mon, 2 Jan 2006")))
	b.WriteString("\n")
	events := m.dayEvents()
	if len(events) == 0 {
		b.WriteString(mutedStyle.Italic(true).Render("  No events"))
		b.WriteString("\n")
	}
	for i, e := range events {
		b.WriteString(renderEvent(e, i == m.eventIdx))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.renderSummaries())
	b.WriteString(m.renderStatus())
	b.WriteString(mutedStyle.Render("←↑↓→ move · [ ] month · t today · enter new · tab/e pick & edit · q quit"))
	return b.String()
}

func (m *Model) renderDay(d view.Day) string {
	if d.Blank {
		return dayStyle.Render("")
	}
	label := fmt.Sprintf("%d", d.Date.Day())
	switch {
	case d.Date.Equal(m.cursor):
		return cursorStyle.Render(label)
	case d.Today:
		return todayStyle.Render(label)
	}
	return dayStyle.Render(label)
}

// renderMarks shows up to two colored dots and a count of the rest.
func renderMarks(events []model.Event) string {
	var b strings.Builder
	for i, e := range events {
		if i == 2 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("+%d", len(events)-2)))
			break
		}
		b.WriteString(colorStyle(e.Color).Render("●"))
	}
	return b.String()
}

func renderEvent(e model.Event, selected bool) string {
	prefix := "  "
	if selected {
		prefix = "▸ "
	}
	line := fmt.Sprintf("%s %s %s", colorStyle(e.Color).Render("●"), e.Time, e.Title)
	if selected {
		line = lipgloss.NewStyle().Bold(true).Render(line)
	}
	return prefix + line
}

func (m *Model) renderSummaries() string {
	sums, err := m.ctrl.Summaries()
	if err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", err)) + "\n"
	}

	var b strings.Builder
	for _, s := range sums {
		b.WriteString(colorStyle(s.Palette.Color).Bold(true).Render(fmt.Sprintf("%s events (%d)", s.Palette.Name, len(s.Events))))
		b.WriteString("\n")
		for _, e := range s.Events {
			b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s · %s  %s", e.Date.Format("2 Jan"), e.Time, e.Title)))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	return b.String()
}

func (m *Model) renderStatus() string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	}
	if m.notice != nil {
		style := successStyle
		if m.notice.Level == view.LevelError {
			style = errorStyle
		}
		b.WriteString(style.Render(m.notice.Message))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) renderDialog() string {
	var b strings.Builder

	ed, _ := m.ctrl.State().(view.Editing)
	title := "Edit event"
	if ed.Creating() {
		title = "Create event"
	}
	b.WriteString(headerStyle.Render(title))
	b.WriteString("\n\n")

	errs := make(map[string]string)
	for _, fe := range m.ctrl.FieldErrors() {
		errs[fe.Field] = fe.Message
	}
	if m.dateErr != "" {
		errs["date"] = m.dateErr
	}

	labels := [fieldColor]string{"Title", "Date", "Time", "Description"}
	keys := [fieldColor]string{"title", "date", "time", "description"}
	for i, in := range m.inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(in.View())
		b.WriteString("\n")
		if msg, ok := errs[keys[i]]; ok {
			b.WriteString(errorStyle.Render("             " + msg))
			b.WriteString("\n")
		}
	}

	label := "Color"
	if m.focus == fieldColor {
		label = "Color ‹›"
	}
	b.WriteString(labelStyle.Render(label))
	for _, p := range model.Palette {
		b.WriteString(swatchStyle(p.Color, p.Color == m.color).Render(p.Name))
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderStatus())
	help := "tab next field · enter save · esc cancel"
	if !ed.Creating() {
		help += " · ctrl+d delete"
	}
	b.WriteString(mutedStyle.Render(help))
	return dialogStyle.Render(b.String())
}
