package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jojocoffee/serenity/internal/models"
	"github.com/jojocoffee/serenity/internal/timeutil"
)

const cellWidth = 4

var weekdays = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}

// CalendarStyle holds the styles of the month grid.
type CalendarStyle struct {
	Title     lipgloss.Style
	Weekday   lipgloss.Style
	Day       lipgloss.Style
	Meditated lipgloss.Style
	Today     lipgloss.Style
	Footer    lipgloss.Style
}

// NewCalendarStyle returns the month grid styles for a dark or light
// terminal background.
func NewCalendarStyle(dark bool) CalendarStyle {
	accent := lipgloss.Color("#2E7D6B")
	muted := lipgloss.Color("#6C6C6C")

	if dark {
		accent = lipgloss.Color("#7FD1B9")
		muted = lipgloss.Color("#9E9E9E")
	}

	cell := lipgloss.NewStyle().Width(cellWidth).Align(lipgloss.Right)

	return CalendarStyle{
		Title:     lipgloss.NewStyle().Bold(true).Width(cellWidth * len(weekdays)).Align(lipgloss.Center),
		Weekday:   cell.Foreground(muted),
		Day:       cell,
		Meditated: cell.Foreground(accent).Bold(true),
		Today:     cell.Underline(true),
		Footer:    lipgloss.NewStyle().Foreground(muted).MarginTop(1),
	}
}

// RenderMonth draws the month that contains month as a grid with weeks
// starting on Monday. Days for which meditated returns true are highlighted.
func RenderMonth(
	month time.Time,
	today models.Date,
	meditated func(models.Date) bool,
	style CalendarStyle,
) string {
	first := timeutil.StartOfMonth(month)
	days := timeutil.DaysIn(first)

	var b strings.Builder

	b.WriteString(style.Title.Render(first.Format("January 2006")))
	b.WriteString("\n")

	for _, w := range weekdays {
		b.WriteString(style.Weekday.Render(w))
	}

	b.WriteString("\n")

	// time.Sunday is 0
	offset := (int(first.Weekday()) + 6) % 7

	b.WriteString(strings.Repeat(" ", offset*cellWidth))

	count := 0

	for day := 1; day <= days; day++ {
		d := models.Date{Year: first.Year(), Month: first.Month(), Day: day}

		s := style.Day
		if meditated(d) {
			s = style.Meditated
			count++
		}

		if d == today {
			s = s.Inherit(style.Today)
		}

		b.WriteString(s.Render(fmt.Sprintf("%d", day)))

		if (offset+day)%7 == 0 && day != days {
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")

	summary := fmt.Sprintf("%d sessions this month", count)
	if count == 1 {
		summary = "1 session this month"
	}

	b.WriteString(style.Footer.Render(summary))

	return b.String()
}
