package command

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/theme"
)

// Name identifies a palette command.
type Name string

const (
	Refresh  Name = "refresh"
	New      Name = "new"
	Login    Name = "login"
	Register Name = "register"
	Logout   Name = "logout"
	Profile  Name = "profile"
	Admin    Name = "admin"
	Clear    Name = "clear"
	Help     Name = "help"
	Quit     Name = "quit"
)

// Names lists every command in the order shown as suggestions.
var Names = []Name{Refresh, New, Login, Register, Logout, Profile, Admin, Clear, Help, Quit}

// CommandMsg is emitted when the user executes a known command.
type CommandMsg struct {
	Name Name
}

// UnknownMsg is emitted for input that matches no command.
type UnknownMsg struct {
	Input string
}

// Error implements error so the app can surface it directly.
func (u UnknownMsg) Error() string {
	return fmt.Sprintf("unknown command %q", u.Input)
}

// Parse resolves input to a command. A unique prefix is accepted.
func Parse(input string) (Name, bool) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return "", false
	}
	var match Name
	for _, n := range Names {
		if string(n) == input {
			return n, true
		}
		if strings.HasPrefix(string(n), input) {
			if match != "" {
				return "", false
			}
			match = n
		}
	}
	return match, match != ""
}

// Model is the command palette view.
type Model struct {
	input  textinput.Model
	width  int
	height int
}

// NewModel creates a new command palette model.
func NewModel(width, height int) Model {
	ti := textinput.New()
	ti.Placeholder = "type a command..."
	ti.Prompt = ": "
	ti.Focus()
	ti.Width = width - 6
	ti.ShowSuggestions = true

	suggestions := make([]string, len(Names))
	for i, n := range Names {
		suggestions[i] = string(n)
	}
	ti.SetSuggestions(suggestions)

	return Model{
		input:  ti,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the command palette.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEnter {
		raw := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if raw == "" {
			return m, nil
		}
		name, ok := Parse(raw)
		if !ok {
			return m, func() tea.Msg { return UnknownMsg{Input: raw} }
		}
		return m, func() tea.Msg { return CommandMsg{Name: name} }
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the command palette.
func (m Model) View() string {
	title := theme.TitleStyle.Render("Command Palette")

	names := make([]string, len(Names))
	for i, n := range Names {
		names[i] = string(n)
	}
	hint := theme.HelpStyle.Render(strings.Join(names, " · "))

	content := lipgloss.JoinVertical(lipgloss.Left, title, m.input.View(), "", hint)

	return theme.PanelStyle.
		Width(m.width - 4).
		Render(content)
}

// SetSize updates the command palette dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.input.Width = width - 6
}

// Focus gives keyboard focus to the text input.
func (m *Model) Focus() tea.Cmd {
	m.input.Reset()
	return m.input.Focus()
}
