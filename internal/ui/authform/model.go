// Package authform renders the login, register and create-admin forms.
package authform

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/theme"
)

// Mode selects which form is shown.
type Mode int

const (
	ModeLogin Mode = iota
	ModeRegister
	ModeCreateAdmin
)

func (m Mode) title() string {
	switch m {
	case ModeRegister:
		return "Create Account"
	case ModeCreateAdmin:
		return "Create Admin"
	default:
		return "Log In"
	}
}

// SubmitMsg carries the entered credentials. Name is empty for logins.
type SubmitMsg struct {
	Mode     Mode
	Email    string
	Password string
	Name     string
}

// CancelMsg is dispatched when the user leaves the form.
type CancelMsg struct{}

var switchKey = key.NewBinding(
	key.WithKeys("ctrl+t"),
	key.WithHelp("ctrl+t", "switch login/register"),
)

type fields struct {
	email    string
	password string
	name     string
}

// Model is the auth form.
type Model struct {
	form   *huh.Form
	fb     *fields
	mode   Mode
	err    string
	width  int
	height int
}

// New creates a closed form.
func New(width, height int) Model {
	return Model{fb: &fields{}, width: width, height: height}
}

// Mode returns the form currently shown.
func (m Model) Mode() Mode { return m.mode }

// Start opens the form in mode with empty fields.
func (m *Model) Start(mode Mode) tea.Cmd {
	m.mode = mode
	*m.fb = fields{}
	m.err = ""
	m.form = m.buildForm()
	return m.form.Init()
}

// SetError shows a message under the form, e.g. a rejected login. The
// form is reopened with the entered values.
func (m *Model) SetError(msg string) tea.Cmd {
	m.err = msg
	m.form = m.buildForm()
	return m.form.Init()
}

// Update handles messages for the auth form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, switchKey) && m.mode != ModeCreateAdmin {
		next := ModeRegister
		if m.mode == ModeRegister {
			next = ModeLogin
		}
		cmd := m.Start(next)
		return m, cmd
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		sub := SubmitMsg{
			Mode:     m.mode,
			Email:    strings.TrimSpace(m.fb.email),
			Password: m.fb.password,
			Name:     strings.TrimSpace(m.fb.name),
		}
		m.form = nil
		return m, func() tea.Msg { return sub }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}
	return m, cmd
}

// View renders the form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}
	content := theme.TitleStyle.Render(m.mode.title()) + "\n" + m.form.View()
	if m.err != "" {
		content += "\n" + theme.ErrorStyle.Render(m.err)
	}
	hint := "enter to submit · esc to cancel"
	if m.mode != ModeCreateAdmin {
		hint += " · " + switchKey.Help().Key + " " + switchKey.Help().Desc
	}
	content += "\n" + theme.HelpStyle.Render(hint)

	return lipgloss.NewStyle().Padding(1, 2).Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	var group []huh.Field
	if m.mode != ModeLogin {
		group = append(group, huh.NewInput().
			Title("Name").
			Value(&m.fb.name).
			Validate(required("Name")))
	}
	group = append(group,
		huh.NewInput().
			Title("Email").
			Placeholder("you@example.com").
			Value(&m.fb.email).
			Validate(required("Email")),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&m.fb.password).
			Validate(required("Password")),
	)

	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return huh.NewForm(huh.NewGroup(group...)).WithWidth(w).WithShowHelp(false)
}

type requiredError string

func (e requiredError) Error() string { return string(e) + " is required" }

func required(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return requiredError(field)
		}
		return nil
	}
}
