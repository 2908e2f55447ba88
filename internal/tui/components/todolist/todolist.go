package todolist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/daylog/internal/models"
)

type AddTodoMsg struct{}

type ToggleTodoMsg struct {
	ID int64
}

type DeleteTodoMsg struct {
	ID int64
}

type CarryOverMsg struct{}

type Item struct {
	Todo models.Todo
}

func (i Item) Title() string {
	if i.Todo.Done {
		return "[x] " + i.Todo.Text
	}
	return "[ ] " + i.Todo.Text
}
func (i Item) Description() string { return fmt.Sprintf("#%d", i.Todo.ID) }
func (i Item) FilterValue() string { return i.Todo.Text }

type KeyMap struct {
	Add    key.Binding
	Toggle key.Binding
	Delete key.Binding
	Carry  key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", "toggle"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Carry: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "carry to next day"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(todos []models.Todo, width, height int) Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false

	l := list.New(items(todos), delegate, width, height)
	l.Title = "Todos"
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Carry}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Add, keys.Toggle, keys.Delete, keys.Carry}
	}

	return Model{list: l, keys: keys}
}

func items(todos []models.Todo) []list.Item {
	out := make([]list.Item, len(todos))
	for i, t := range todos {
		out[i] = Item{Todo: t}
	}
	return out
}

// SetTodos replaces the list and keeps the cursor in range.
func (m *Model) SetTodos(todos []models.Todo) {
	idx := m.list.Index()
	m.list.SetItems(items(todos))
	if idx >= len(todos) {
		idx = len(todos) - 1
	}
	if idx >= 0 {
		m.list.Select(idx)
	}
}

func (m Model) Len() int {
	return len(m.list.Items())
}

// Selected returns the todo under the cursor.
func (m Model) Selected() (models.Todo, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Todo, ok
}

func (m *Model) Select(index int) {
	m.list.Select(index)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.Add):
			return m, func() tea.Msg { return AddTodoMsg{} }
		case key.Matches(msg, m.keys.Carry):
			return m, func() tea.Msg { return CarryOverMsg{} }
		case key.Matches(msg, m.keys.Toggle):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return ToggleTodoMsg{ID: t.ID} }
			}
			return m, nil
		case key.Matches(msg, m.keys.Delete):
			if t, ok := m.Selected(); ok {
				return m, func() tea.Msg { return DeleteTodoMsg{ID: t.ID} }
			}
			return m, nil
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  No todos for this day.\n  Press 'a' to add one."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
