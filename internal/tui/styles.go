package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dukerupert/monthly/internal/model"
)

const cellWidth = 7

var (
	primary = lipgloss.Color(model.Palette[0].Solid)
	muted   = lipgloss.Color("#6B6880")
	danger  = lipgloss.Color("#DC2626")
	success = lipgloss.Color("#16A34A")

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1)
	weekdayStyle = lipgloss.NewStyle().Foreground(muted).Width(cellWidth).Align(lipgloss.Center)
	dayStyle     = lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Center)
	cursorStyle  = dayStyle.Background(primary).Foreground(lipgloss.Color("#FFFFFF"))
	todayStyle   = dayStyle.Bold(true).Underline(true).Foreground(primary)
	mutedStyle   = lipgloss.NewStyle().Foreground(muted)
	errorStyle   = lipgloss.NewStyle().Foreground(danger)
	successStyle = lipgloss.NewStyle().Foreground(success)
	labelStyle   = lipgloss.NewStyle().Bold(true).Width(13)
	dialogStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(primary).Padding(1, 2)
	appStyle     = lipgloss.NewStyle().Padding(1, 2)
)

// colorStyle renders text in a palette color.
func colorStyle(c model.Color) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(c.Entry().Solid))
}

// swatchStyle renders a filled palette swatch.
func swatchStyle(c model.Color, selected bool) lipgloss.Style {
	s := lipgloss.NewStyle().
		Background(lipgloss.Color(c.Entry().Solid)).
		Foreground(lipgloss.Color("#FFFFFF")).
		Padding(0, 1)
	if selected {
		s = s.Bold(true).Underline(true)
	}
	return s
}
