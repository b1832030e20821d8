package calendar

import "time"

// Month is the set of day cells rendered for one month of a Monday-first grid.
type Month struct {
	Year    int
	Month   time.Month
	Leading int    // blank cells before the first day
	Days    []Date // first through last day, ascending
}

// Cell is one slot of a month grid. Blank cells pad the first week.
type Cell struct {
	Date  Date
	Blank bool
}

// BuildMonth returns the grid for the month containing ref.
func BuildMonth(ref Date) Month {
	first := ref.FirstOfMonth()
	n := DaysIn(first.Year(), first.Month())

	days := make([]Date, n)
	for i := range days {
		days[i] = first.AddDays(i)
	}

	return Month{
		Year:    first.Year(),
		Month:   first.Month(),
		Leading: LeadingBlanks(first.Weekday()),
		Days:    days,
	}
}

// LeadingBlanks converts a Sunday-is-0 weekday into a Monday-is-0 offset.
func LeadingBlanks(wd time.Weekday) int {
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, m time.Month) int {
	return NewDate(year, m+1, 0).Day()
}

// Cells returns the leading blanks followed by one cell per day.
func (m Month) Cells() []Cell {
	cells := make([]Cell, 0, m.Leading+len(m.Days))
	for i := 0; i < m.Leading; i++ {
		cells = append(cells, Cell{Blank: true})
	}
	for _, d := range m.Days {
		cells = append(cells, Cell{Date: d})
	}
	return cells
}

// Weeks splits Cells into rows of seven. The last row is not padded.
func (m Month) Weeks() [][]Cell {
	cells := m.Cells()
	var weeks [][]Cell
	for len(cells) > 0 {
		n := min(7, len(cells))
		weeks = append(weeks, cells[:n])
		cells = cells[n:]
	}
	return weeks
}

// First returns the first day of the month.
func (m Month) First() Date {
	return NewDate(m.Year, m.Month, 1)
}

// Contains reports whether d falls inside the month.
func (m Month) Contains(d Date) bool {
	return d.Year() == m.Year && d.Month() == m.Month
}

// AddMonths shifts d by n calendar months. The day of month is clamped to the
// last day of the target month, so Jan 31 + 1 is Feb 28 (or 29).
func AddMonths(d Date, n int) Date {
	target := NewDate(d.Year(), d.Month()+time.Month(n), 1)
	day := min(d.Day(), DaysIn(target.Year(), target.Month()))
	return NewDate(target.Year(), target.Month(), day)
}

// PrevMonth shifts d back one month.
func PrevMonth(d Date) Date { return AddMonths(d, -1) }

// NextMonth shifts d forward one month.
func NextMonth(d Date) Date { return AddMonths(d, 1) }

// Weekdays are the column headers of a Monday-first grid.
var Weekdays = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}
