package todoform

import (
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/controller"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

// SubmitMsg is dispatched when the form was submitted with valid input.
type SubmitMsg struct {
	Submission controller.Submission
}

// CancelMsg is dispatched when the user leaves the form.
type CancelMsg struct{}

// Model is the Bubble Tea model for the todo create/edit form.
type Model struct {
	form *huh.Form
	// state lives on the heap so huh's Value() pointers stay valid across
	// Bubble Tea model copies.
	state *controller.TodoForm
	// extraColor is the edited todo's color, kept selectable even when it
	// is not in the palette.
	extraColor string
	err        string
	width      int
	height     int
}

// New creates a closed form.
func New(width, height int) Model {
	return Model{
		state:  &controller.TodoForm{},
		width:  width,
		height: height,
	}
}

// State exposes the underlying form state.
func (m Model) State() *controller.TodoForm { return m.state }

// StartCreate opens an empty form.
func (m *Model) StartCreate() tea.Cmd {
	m.state.OpenCreate()
	m.extraColor = ""
	m.err = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// StartEdit opens the form prefilled from todo.
func (m *Model) StartEdit(todo model.Todo) tea.Cmd {
	m.state.OpenEdit(todo)
	m.extraColor = todo.Color
	m.err = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the todo form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil || !m.state.IsOpen() {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.submit()
	case huh.StateAborted:
		m.state.Cancel()
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

func (m Model) submit() (Model, tea.Cmd) {
	sub, err := m.state.Submit()
	if err != nil {
		// Keep the form open with the input as typed.
		m.err = api.Message(err)
		m.form = m.buildForm()
		return m, m.form.Init()
	}
	m.form = nil
	m.err = ""
	return m, func() tea.Msg { return SubmitMsg{Submission: sub} }
}

// View renders the todo form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := "New Todo"
	if m.state.Mode() == controller.FormEdit {
		title = "Edit Todo"
	}

	content := theme.TitleStyle.Render(title) + "\n" + m.form.View()
	if m.err != "" {
		content += "\n" + theme.ErrorStyle.Render(m.err)
	}
	content += "\n" + theme.HelpStyle.Render("enter to save, esc to cancel")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Todo").
				Placeholder("What needs to be done?").
				Value(&m.state.Text).
				Validate(validateText),
			huh.NewSelect[string]().
				Title("Color").
				Options(colorOptions(m.extraColor)...).
				Value(&m.state.Color),
		),
	).WithWidth(m.formWidth()).WithShowHelp(false)
}

// colorOptions lists the palette. A current color outside the palette is
// appended so that opening the form does not drop it.
func colorOptions(current string) []huh.Option[string] {
	colors := model.TodoColors
	if !slices.Contains(colors, current) {
		colors = append(slices.Clone(colors), current)
	}
	opts := make([]huh.Option[string], 0, len(colors))
	for _, c := range colors {
		label := "None"
		if c != model.ColorNone {
			label = theme.ColorBadge(c) + " " + strings.ToUpper(c[:1]) + c[1:]
		}
		opts = append(opts, huh.NewOption(label, c))
	}
	return opts
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

func validateText(s string) error {
	if strings.TrimSpace(s) == "" {
		return &controller.ValidationError{Field: "text", Message: "Please enter a todo text"}
	}
	return nil
}
