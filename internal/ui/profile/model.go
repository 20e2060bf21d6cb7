package profile

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/keys"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// LogoutMsg asks the parent to end the session.
type LogoutMsg struct{}

var logoutKey = key.NewBinding(
	key.WithKeys("o", "L"),
	key.WithHelp("o", "log out"),
)

// Model is the profile card.
type Model struct {
	user   *model.User
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new profile view model.
func New(k *keys.KeyMap, width, height int) Model {
	return Model{keys: k, width: width, height: height}
}

// SetUser sets the user shown; nil means a guest.
func (m *Model) SetUser(u *model.User) {
	m.user = u
}

// Update handles messages for the profile view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }
	case key.Matches(keyMsg, logoutKey):
		if m.user != nil {
			return m, func() tea.Msg { return LogoutMsg{} }
		}
	}
	return m, nil
}

// View renders the profile card.
func (m Model) View() string {
	if m.user == nil {
		return theme.PanelStyle.Render(
			theme.TitleStyle.Render("Guest") + "\n" +
				"You are not signed in.\n\n" +
				theme.HelpStyle.Render("l to log in · R to register · esc back"),
		)
	}

	u := m.user
	label := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(14)

	var b strings.Builder
	b.WriteString(theme.AvatarStyle.Render(u.Initial()))
	b.WriteString(" ")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render(u.DisplayName()))
	if u.IsAdmin {
		b.WriteString(" ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorPurple).Render("admin"))
	}
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s%s\n", label.Render("Email"), u.Email)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "%s%s\n", label.Render("Member since"), u.CreatedAt.Local().Format("January 2, 2006"))
	}
	b.WriteString("\n")
	b.WriteString(theme.HelpStyle.Render("o to log out · esc back"))

	return theme.PanelStyle.Render(b.String())
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
