package todolist

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/keys"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

// NewTodoMsg asks for the create form.
type NewTodoMsg struct{}

// EditTodoMsg asks for the edit form prefilled with Todo.
type EditTodoMsg struct {
	Todo model.Todo
}

// ToggleTodoMsg asks to flip completion of a todo.
type ToggleTodoMsg struct {
	ID string
}

// DeleteTodoMsg is sent once a delete has been confirmed.
type DeleteTodoMsg struct {
	ID string
}

// DeleteAllMsg is sent once deleting everything has been confirmed.
type DeleteAllMsg struct{}

// confirmKind is the action awaiting a y/n answer.
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmDeleteAll
)

// Model is the todo list view.
type Model struct {
	list    list.Model
	keys    *keys.KeyMap
	confirm confirmKind
	target  model.Todo
	width   int
	height  int
}

// New creates the list view.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height)
	l.Title = "Todos"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle
	l.SetStatusBarItemName("todo", "todos")

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// SetTodos replaces the rendered items, keeping the cursor in range.
func (m *Model) SetTodos(todos []model.Todo) tea.Cmd {
	items := make([]list.Item, len(todos))
	for i, t := range todos {
		items[i] = TodoItem{Todo: t}
	}
	return m.list.SetItems(items)
}

// Selected returns the todo under the cursor.
func (m Model) Selected() (model.Todo, bool) {
	item, ok := m.list.SelectedItem().(TodoItem)
	if !ok {
		return model.Todo{}, false
	}
	return item.Todo, true
}

// Confirming reports whether a y/n prompt is shown.
func (m Model) Confirming() bool { return m.confirm != confirmNone }

// ConfirmDeleteAll shows the delete-all prompt. It reports false when the
// list is empty and there is nothing to confirm.
func (m *Model) ConfirmDeleteAll() bool {
	if m.Len() == 0 {
		return false
	}
	m.confirm = confirmDeleteAll
	m.target = model.Todo{}
	return true
}

// Len returns the number of rendered todos.
func (m Model) Len() int { return len(m.list.Items()) }

// Update handles messages for the list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.confirm != confirmNone {
			return m.handleConfirmKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		kind, target := m.confirm, m.target
		m.confirm = confirmNone
		m.target = model.Todo{}
		if kind == confirmDeleteAll {
			return m, emit(DeleteAllMsg{})
		}
		return m, emit(DeleteTodoMsg{ID: target.ID})

	case key.Matches(msg, m.keys.Cancel):
		m.confirm = confirmNone
		m.target = model.Todo{}
	}
	return m, nil
}

func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.New):
		return m, emit(NewTodoMsg{})

	case key.Matches(msg, m.keys.Edit):
		if t, ok := m.Selected(); ok {
			return m, emit(EditTodoMsg{Todo: t})
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		if t, ok := m.Selected(); ok {
			return m, emit(ToggleTodoMsg{ID: t.ID})
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if t, ok := m.Selected(); ok {
			m.confirm = confirmDelete
			m.target = t
		}
		return m, nil

	case key.Matches(msg, m.keys.DeleteAll):
		m.ConfirmDeleteAll()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the list, the empty state or the confirmation prompt.
func (m Model) View() string {
	body := m.list.View()
	if m.Len() == 0 {
		body = m.renderEmptyState()
	}
	if m.confirm == confirmNone {
		return body
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, m.renderConfirm())
}

func (m Model) renderConfirm() string {
	var q string
	switch m.confirm {
	case confirmDeleteAll:
		q = fmt.Sprintf("Delete all %d todos?", m.Len())
	default:
		q = fmt.Sprintf("Delete %q?", m.target.Text)
	}
	return theme.ErrorStyle.Render(q) + theme.HelpStyle.Render("  y to confirm, n to cancel")
}

func (m Model) renderEmptyState() string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render("No todos yet.\n\nPress n to add one.")
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height)
}
