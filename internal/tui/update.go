package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daylog/internal/carryover"
	"github.com/julianstephens/daylog/internal/models"
	"github.com/julianstephens/daylog/internal/tui/components/todolist"
)

// chromeHeight is the rows taken by tabs, status and help.
const chromeHeight = 6

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.detail.SetSize(msg.Width-4, max(0, msg.Height-chromeHeight))
		m.todos.SetSize(msg.Width-4, max(0, msg.Height-chromeHeight))
		return m, nil

	case todolist.AddTodoMsg:
		return m, m.openTodoForm()
	case todolist.ToggleTodoMsg:
		m.toggleTodo(msg.ID)
		return m, nil
	case todolist.DeleteTodoMsg:
		m.deleteTodo(msg.ID)
		return m, nil
	case todolist.CarryOverMsg:
		m.carryOver()
		return m, nil
	}

	if m.form != nil {
		return m, m.updateForm(msg)
	}

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(keyMsg, m.keys.Tab):
		m.state = (m.state + 1) % paneCount
		return m, nil
	case key.Matches(keyMsg, m.keys.ShiftTab):
		m.state = (m.state - 1 + paneCount) % paneCount
		return m, nil
	case key.Matches(keyMsg, m.keys.Goals):
		return m, m.openGoalsForm(m.calendar.Month)
	}

	switch m.state {
	case StateCalendar:
		return m, m.updateCalendar(keyMsg)
	case StateDay:
		return m, m.updateDay(keyMsg)
	case StateTodos:
		var cmd tea.Cmd
		m.todos, cmd = m.todos.Update(keyMsg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updateCalendar(msg tea.KeyMsg) tea.Cmd {
	moved := true
	monthChanged := false
	switch {
	case key.Matches(msg, m.keys.Left):
		monthChanged = m.calendar.Move(-1)
	case key.Matches(msg, m.keys.Right):
		monthChanged = m.calendar.Move(1)
	case key.Matches(msg, m.keys.Up):
		monthChanged = m.calendar.Move(-7)
	case key.Matches(msg, m.keys.Down):
		monthChanged = m.calendar.Move(7)
	case key.Matches(msg, m.keys.PrevMonth):
		m.calendar.ShiftMonth(-1)
		monthChanged = true
	case key.Matches(msg, m.keys.NextMonth):
		m.calendar.ShiftMonth(1)
		monthChanged = true
	case key.Matches(msg, m.keys.Today):
		before := m.calendar.Month
		m.calendar.Selected = m.calendar.Today
		m.calendar.Month, _ = m.calendar.Today.Month()
		monthChanged = before != m.calendar.Month
	case key.Matches(msg, m.keys.Enter):
		m.state = StateDay
		return nil
	default:
		moved = false
	}

	if !moved {
		return nil
	}
	m.refresh()
	if monthChanged {
		return m.promptGoals()
	}
	return nil
}

func (m *Model) updateDay(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Edit):
		return m.openDayForm()
	case key.Matches(msg, m.keys.Expense):
		return m.openExpenseForm()
	case key.Matches(msg, m.keys.Carry):
		m.carryOver()
		return nil
	case key.Matches(msg, m.keys.Clean):
		idx := int(msg.Runes[0] - '1')
		m.toggleCleaning(models.CleaningAreas[idx])
		return nil
	}

	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return cmd
}

func (m *Model) toggleTodo(id int64) {
	t, err := m.app.ToggleTodo(m.calendar.Selected, id)
	if err != nil {
		m.status = err.Error()
	} else if t.Done {
		m.status = fmt.Sprintf("Done: %s", t.Text)
	} else {
		m.status = fmt.Sprintf("Reopened: %s", t.Text)
	}
	m.refresh()
}

func (m *Model) deleteTodo(id int64) {
	if err := m.app.RemoveTodo(m.calendar.Selected, id); err != nil {
		m.status = err.Error()
	} else {
		m.status = fmt.Sprintf("Removed todo #%d", id)
	}
	m.refresh()
}

func (m *Model) carryOver() {
	res, err := m.app.CarryOver(m.calendar.Selected)
	switch {
	case err != nil:
		m.status = err.Error()
	case res.Outcome == carryover.Unchanged:
		m.status = "Nothing to carry over"
	default:
		m.status = fmt.Sprintf("Moved %d todo(s) to %s", len(res.Carried), res.To)
	}
	m.refresh()
}

func (m *Model) toggleCleaning(area models.CleaningArea) {
	done, err := m.app.ToggleCleaning(m.calendar.Selected, area)
	if err != nil {
		m.status = err.Error()
	} else if done {
		m.status = fmt.Sprintf("Cleaned %s", area)
	} else {
		m.status = fmt.Sprintf("Unmarked %s", area)
	}
	m.refresh()
}
