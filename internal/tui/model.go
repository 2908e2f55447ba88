package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/daylog/internal/app"
	"github.com/julianstephens/daylog/internal/daykey"
	"github.com/julianstephens/daylog/internal/tui/components/calendar"
	"github.com/julianstephens/daylog/internal/tui/components/daydetail"
	"github.com/julianstephens/daylog/internal/tui/components/todolist"
)

type SessionState int

const (
	StateCalendar SessionState = iota
	StateDay
	StateTodos
	StateEditDay
	StateAddTodo
	StateAddExpense
	StateGoals
)

// paneCount is the number of tabbed panes; later states are forms.
const paneCount = 3

// maxWarnings is how many recent warnings the status line keeps.
const maxWarnings = 3

type DayFormModel struct {
	Wake   string
	Sleep  string
	Steps  string
	Study  string
	Weight string
	Memo   string
}

type TodoFormModel struct {
	Text string
}

type ExpenseFormModel struct {
	Amount string
	Note   string
}

type GoalsFormModel struct {
	Steps string
	Study string
}

type Model struct {
	app           *app.App
	state         SessionState
	previousState SessionState
	keys          KeyMap
	help          help.Model
	calendar      calendar.Model
	detail        daydetail.Model
	todos         todolist.Model
	form          *huh.Form
	dayForm       *DayFormModel
	todoForm      *TodoFormModel
	expenseForm   *ExpenseFormModel
	goalsForm     *GoalsFormModel
	goalsMonth    daykey.MonthKey
	prompted      map[daykey.MonthKey]bool
	status        string
	warnings      []string
	quitting      bool
	width         int
	height        int
}

func NewModel(a *app.App) Model {
	today := a.Today()
	m := Model{
		app:      a,
		state:    StateCalendar,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		calendar: calendar.New(today, a.Decorate),
		detail:   daydetail.New(0, 0),
		todos:    todolist.New(nil, 0, 0),
		prompted: make(map[daykey.MonthKey]bool),
	}
	m.refresh()
	m.promptGoals()
	return m
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateCalendar:
		keys = append(keys, m.keys.Enter, m.keys.PrevMonth, m.keys.NextMonth)
	case StateDay:
		keys = append(keys, m.keys.Edit, m.keys.Expense, m.keys.Clean)
	case StateTodos:
		keys = append(keys, m.keys.Carry)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help, m.keys.Goals}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.Left, m.keys.Right, m.keys.PrevMonth, m.keys.NextMonth, m.keys.Today}

	var actions []key.Binding
	switch m.state {
	case StateCalendar:
		actions = []key.Binding{m.keys.Enter}
	case StateDay:
		actions = []key.Binding{m.keys.Edit, m.keys.Expense, m.keys.Clean, m.keys.Carry}
	case StateTodos:
		actions = []key.Binding{m.keys.Carry}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	if m.form != nil {
		return m.form.Init()
	}
	return nil
}

// Selected is the day the panes are showing.
func (m Model) Selected() daykey.DayKey {
	return m.calendar.Selected
}

// State is the active pane or form.
func (m Model) State() SessionState {
	return m.state
}

// refresh reloads the selected day into the panes and collects any
// warnings the app raised since the last refresh.
func (m *Model) refresh() {
	key := m.calendar.Selected
	log := m.app.Day(key)
	month, _ := key.Month()
	goals, _ := m.app.Goals(month)
	_, hasPhoto := m.app.Photo(context.Background(), key)

	m.detail.SetDetail(daydetail.Detail{
		Key:          key,
		Log:          log,
		Goals:        goals,
		StepsPercent: m.app.StepsPercent(key),
		StudyPercent: m.app.StudyPercent(key),
		DayTotal:     m.app.DayTotal(key),
		HasPhoto:     hasPhoto,
	})
	m.todos.SetTodos(log.Todos)
	m.drainWarnings()
}

func (m *Model) drainWarnings() {
	m.warnings = append(m.warnings, m.app.Warnings()...)
	if len(m.warnings) > maxWarnings {
		m.warnings = m.warnings[len(m.warnings)-maxWarnings:]
	}
}

// promptGoals opens the goals form the first time a month without goals is
// shown. Dismissing it keeps the defaults without saving them.
func (m *Model) promptGoals() tea.Cmd {
	month := m.calendar.Month
	if m.prompted[month] {
		return nil
	}
	m.prompted[month] = true
	if _, needsSetup := m.app.Goals(month); !needsSetup {
		return nil
	}
	return m.openGoalsForm(month)
}
