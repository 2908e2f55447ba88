package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StateCalendar:
		content = m.viewCalendar()
	case StateDay:
		content = docStyle.Render(m.detail.View())
	case StateTodos:
		content = docStyle.Render(m.todos.View())
	default:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	if active >= paneCount {
		active = m.previousState
	}
	var tabs []string
	for i, title := range []string{"Calendar", "Day", "Todos"} {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, inactiveTabStyle.Render(string(m.calendar.Selected)))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewCalendar() string {
	total := m.app.MonthTotal(m.calendar.Month)
	return docStyle.Render(lipgloss.JoinVertical(
		lipgloss.Left,
		m.calendar.View(),
		totalStyle.Render(fmt.Sprintf("Month total ¥%d", total)),
	))
}

func (m Model) viewStatus() string {
	var lines []string
	for _, w := range m.warnings {
		lines = append(lines, warningStyle.Render("⚠ "+w))
	}
	if m.status != "" {
		lines = append(lines, statusStyle.Render(m.status))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
