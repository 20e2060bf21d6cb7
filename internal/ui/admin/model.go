package admin

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todolist/internal/keys"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/theme"
)

// BackMsg signals the parent to leave the admin screen.
type BackMsg struct{}

// ReloadMsg asks the parent to fetch the users again.
type ReloadMsg struct{}

// CreateAdminMsg asks the parent to open the create-admin form.
type CreateAdminMsg struct{}

// ToggleAdminMsg asks to flip the admin flag of a user.
type ToggleAdminMsg struct {
	UserID string
}

// DeleteUserMsg is sent once a user deletion has been confirmed.
type DeleteUserMsg struct {
	UserID string
}

// Model is the user management table.
type Model struct {
	table   table.Model
	keys    *keys.KeyMap
	users   []model.User
	confirm *model.User
	width   int
	height  int
}

var columns = []table.Column{
	{Title: "Name", Width: 20},
	{Title: "Email", Width: 30},
	{Title: "Role", Width: 8},
	{Title: "Created", Width: 12},
}

// New creates the admin view.
func New(k *keys.KeyMap, width, height int) Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.ColorBorder).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Selected.
		Foreground(theme.ColorWhite).
		Background(theme.ColorBlue)
	t.SetStyles(styles)

	return Model{table: t, keys: k, width: width, height: height}
}

func tableHeight(h int) int {
	if h -= 6; h < 3 {
		return 3
	}
	return h
}

// SetUsers replaces the rows.
func (m *Model) SetUsers(users []model.User) {
	m.users = users
	rows := make([]table.Row, len(users))
	for i, u := range users {
		role := "user"
		if u.IsAdmin {
			role = "admin"
		}
		created := ""
		if !u.CreatedAt.IsZero() {
			created = u.CreatedAt.Local().Format("2006-01-02")
		}
		rows[i] = table.Row{u.DisplayName(), u.Email, role, created}
	}
	m.table.SetRows(rows)
	if c := m.table.Cursor(); c >= len(rows) && len(rows) > 0 {
		m.table.SetCursor(len(rows) - 1)
	}
}

// Selected returns the user under the cursor.
func (m Model) Selected() (model.User, bool) {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.users) {
		return model.User{}, false
	}
	return m.users[c], true
}

// Confirming reports whether a delete prompt is shown.
func (m Model) Confirming() bool { return m.confirm != nil }

// Update handles messages for the admin screen.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}

	if m.confirm != nil {
		switch {
		case key.Matches(keyMsg, m.keys.Confirm):
			id := m.confirm.ID
			m.confirm = nil
			return m, emit(DeleteUserMsg{UserID: id})
		case key.Matches(keyMsg, m.keys.Cancel):
			m.confirm = nil
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, emit(BackMsg{})
	case key.Matches(keyMsg, m.keys.Refresh):
		return m, emit(ReloadMsg{})
	case key.Matches(keyMsg, m.keys.CreateAdmin):
		return m, emit(CreateAdminMsg{})
	case key.Matches(keyMsg, m.keys.ToggleAdmin):
		if u, ok := m.Selected(); ok {
			return m, emit(ToggleAdminMsg{UserID: u.ID})
		}
		return m, nil
	case key.Matches(keyMsg, m.keys.Delete):
		if u, ok := m.Selected(); ok {
			m.confirm = &u
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

// View renders the table and any prompt.
func (m Model) View() string {
	title := theme.TitleStyle.Render(fmt.Sprintf("Users (%d)", len(m.users)))
	body := m.table.View()
	if len(m.users) == 0 {
		body = lipgloss.NewStyle().Foreground(theme.ColorGray).Render("No users loaded. Press r to reload.")
	}

	footer := theme.HelpStyle.Render("t toggle admin · d delete · c create admin · r reload · esc back")
	if m.confirm != nil {
		footer = theme.ErrorStyle.Render(fmt.Sprintf("Delete %s (%s)?", m.confirm.DisplayName(), m.confirm.Email)) +
			theme.HelpStyle.Render("  y to confirm, n to cancel")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, body, "", footer)
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(tableHeight(height))
}
