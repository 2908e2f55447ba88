package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/models"
)

const cellWidth = 10

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	weekdayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(cellWidth).
			Align(lipgloss.Center)

	cellStyle = lipgloss.NewStyle().
			Width(cellWidth).
			Height(3).
			Padding(0, 1)

	selectedStyle = cellStyle.
			Background(lipgloss.Color("236")).
			Bold(true)

	todayStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Underline(true)

	wakeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	expenseStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Decorator annotates one day cell.
type Decorator func(daykey.DayKey) models.Decoration

// Model is a month grid with a movable day cursor.
type Model struct {
	Month    daykey.MonthKey
	Selected daykey.DayKey
	Today    daykey.DayKey
	decorate Decorator
}

func New(today daykey.DayKey, decorate Decorator) Model {
	month, _ := today.Month()
	return Model{Month: month, Selected: today, Today: today, decorate: decorate}
}

// Move shifts the cursor by days and follows it across month boundaries.
// It reports whether the visible month changed.
func (m *Model) Move(days int) bool {
	m.Selected = m.Selected.AddDays(days)
	month, ok := m.Selected.Month()
	if !ok || month == m.Month {
		return false
	}
	m.Month = month
	return true
}

// ShiftMonth shows the previous (delta < 0) or next month with the cursor
// on its first day.
func (m *Model) ShiftMonth(delta int) {
	if delta < 0 {
		m.Month = m.Month.Prev()
	} else {
		m.Month = m.Month.Next()
	}
	m.Selected = m.Month.First()
}

func (m Model) View() string {
	return Render(m.Month, m.Today, m.Selected, m.decorate)
}

// Render draws a Monday-first month grid. Each cell shows the day number,
// the wake time, the day's expense total and todo/cleaning marks.
func Render(month daykey.MonthKey, today, selected daykey.DayKey, decorate Decorator) string {
	start, ok := month.Time()
	if !ok {
		return "invalid month"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(start.Format("January 2006")))
	b.WriteString("\n\n")

	var names []string
	for i := 0; i < 7; i++ {
		names = append(names, weekdayStyle.Render(time.Weekday((i+1)%7).String()[:3]))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, names...))
	b.WriteString("\n")

	lead := (int(start.Weekday()) + 6) % 7
	var row []string
	for i := 0; i < lead; i++ {
		row = append(row, cellStyle.Render(""))
	}
	for _, key := range month.Days() {
		row = append(row, renderCell(key, today, selected, decorate))
		if len(row) == 7 {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteString("\n")
			row = nil
		}
	}
	if len(row) > 0 {
		for len(row) < 7 {
			row = append(row, cellStyle.Render(""))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}

func renderCell(key, today, selected daykey.DayKey, decorate Decorator) string {
	_, _, day, _ := key.Date()
	num := fmt.Sprintf("%2d", day)
	if key == today {
		num = todayStyle.Render(num)
	}

	var d models.Decoration
	if decorate != nil {
		d = decorate(key)
	}
	lines := []string{num + " " + Marks(d)}
	if d.WakeLabel != "" {
		lines = append(lines, wakeStyle.Render(d.WakeLabel))
	} else {
		lines = append(lines, "")
	}
	if d.ExpenseTotal > 0 {
		lines = append(lines, expenseStyle.Render(fmt.Sprintf("¥%d", d.ExpenseTotal)))
	}

	style := cellStyle
	if key == selected {
		style = selectedStyle
	}
	return style.Render(strings.Join(lines, "\n"))
}

// Marks is the compact glyph string shown next to the day number.
func Marks(d models.Decoration) string {
	var marks []string
	switch {
	case d.AllTodosDone:
		marks = append(marks, doneStyle.Render("✓"))
	case d.PendingTodos > 0:
		marks = append(marks, pendingStyle.Render("•"))
	}
	switch d.Cleaning {
	case models.CleaningComplete:
		marks = append(marks, doneStyle.Render("✧"))
	case models.CleaningPartial:
		marks = append(marks, pendingStyle.Render("✧"))
	}
	if d.HasMemo {
		marks = append(marks, "✎")
	}
	return strings.Join(marks, "")
}
