package app

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/controller"
	"github.com/nhle/todolist/internal/health"
	"github.com/nhle/todolist/internal/keys"
	"github.com/nhle/todolist/internal/theme"
	"github.com/nhle/todolist/internal/ui"
	adminview "github.com/nhle/todolist/internal/ui/admin"
	"github.com/nhle/todolist/internal/ui/authform"
	"github.com/nhle/todolist/internal/ui/command"
	"github.com/nhle/todolist/internal/ui/guest"
	helpview "github.com/nhle/todolist/internal/ui/help"
	"github.com/nhle/todolist/internal/ui/profile"
	"github.com/nhle/todolist/internal/ui/todoform"
	"github.com/nhle/todolist/internal/ui/todolist"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewHelp
	ViewCommand
	ViewTodoForm
	ViewAuth
	ViewProfile
	ViewAdmin
)

const defaultTimeout = 15 * time.Second

// Model is the root Bubble Tea model. It routes input to the active view
// and runs controller actions as commands.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap

	ctrl    *controller.Controller
	admin   *controller.Admin
	monitor *health.Monitor
	logger  *log.Logger
	timeout time.Duration

	todoList    todolist.Model
	todoForm    todoform.Model
	authForm    authform.Model
	profileView profile.Model
	adminView   adminview.Model
	helpView    helpview.Model
	commandView command.Model

	state    controller.State
	health   health.Status
	flash    string
	inflight int
	startup  []tea.Cmd
	ready    bool
}

// Option configures the root model.
type Option func(*Model)

// WithMonitor enables the backend health indicator.
func WithMonitor(mon *health.Monitor) Option {
	return func(m *Model) { m.monitor = mon }
}

// WithTimeout bounds every action started from the UI.
func WithTimeout(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.timeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l.WithPrefix("app")
		}
	}
}

// New creates the root model.
func New(ctrl *controller.Controller, admin *controller.Admin, opts ...Option) Model {
	k := keys.DefaultKeyMap()
	m := Model{
		currentView: ViewList,
		keys:        k,
		ctrl:        ctrl,
		admin:       admin,
		logger:      log.Default().WithPrefix("app"),
		timeout:     defaultTimeout,
		layout:      ui.NewLayout(80, 24),
		todoList:    todolist.New(k, 80, 20),
		todoForm:    todoform.New(80, 24),
		authForm:    authform.New(80, 24),
		profileView: profile.New(k, 80, 24),
		adminView:   adminview.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.NewModel(80, 24),
	}
	for _, opt := range opts {
		opt(&m)
	}
	m.sync()

	// Startup requests count towards inflight like any other action.
	m.startup = []tea.Cmd{m.loadTodos()}
	if m.state.Session.IsAuthenticated() {
		m.startup = append(m.startup, m.checkAdmin())
	}
	return m
}

// Init loads the todos, checks admin rights and starts health polling.
func (m Model) Init() tea.Cmd {
	cmds := append([]tea.Cmd(nil), m.startup...)
	if m.monitor != nil {
		cmds = append(cmds, m.monitor.Start())
	}
	return tea.Batch(cmds...)
}

// sync copies the controller state into the views.
func (m *Model) sync() {
	m.state = m.ctrl.Snapshot()
	m.todoList.SetTodos(m.state.Todos)
	if u, ok := m.state.Session.User(); ok {
		m.profileView.SetUser(&u)
	} else {
		m.profileView.SetUser(nil)
	}
	m.adminView.SetUsers(m.admin.Snapshot().Users)
	m.resize()
}

// resize gives the list whatever the banner and message line leave.
func (m *Model) resize() {
	w, h := m.layout.Width, m.layout.ContentHeight()
	listHeight := h - lipgloss.Height(m.messageLine())
	if b := guest.Banner(m.state.Quota, w); b != "" {
		listHeight -= lipgloss.Height(b)
	}
	if listHeight < 3 {
		listHeight = 3
	}
	m.todoList.SetSize(w, listHeight)
}

func (m *Model) open(v ViewState) {
	if m.currentView != v {
		m.previousView = m.currentView
	}
	m.currentView = v
}

func (m *Model) done() {
	if m.inflight > 0 {
		m.inflight--
	}
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		h := m.layout.ContentHeight()
		m.todoForm.SetSize(msg.Width, h)
		m.authForm.SetSize(msg.Width, h)
		m.profileView.SetSize(msg.Width, h)
		m.adminView.SetSize(msg.Width, h)
		m.helpView.SetSize(msg.Width, h)
		m.commandView.SetSize(msg.Width, h)
		m.resize()
		// Forward to the active view so huh forms can lay out.
		return m.updateActiveView(msg)

	case health.StatusMsg:
		m.health = msg.Status
		if m.monitor == nil {
			return m, nil
		}
		return m, m.monitor.Wait()

	case actionDoneMsg:
		m.done()
		m.flash = flashFor(msg.err)
		if msg.err != nil {
			m.logger.Debug("action failed", "op", msg.op, "err", msg.err)
		}
		if msg.op == "logout" {
			m.admin.Reset()
			m.keys.SetAdmin(false)
			m.currentView = ViewList
		}
		m.sync()
		return m, nil

	case authDoneMsg:
		m.done()
		return m.handleAuthDone(msg)

	case adminCheckedMsg:
		m.done()
		m.keys.SetAdmin(msg.isAdmin || m.state.Session.IsAdmin())
		return m, nil

	case adminDoneMsg:
		m.done()
		m.flash = flashFor(msg.err)
		m.sync()
		return m, nil

	case todolist.NewTodoMsg:
		if m.state.Quota != nil && m.state.Quota.AtLimit() {
			m.flash = "Todo limit reached. Register to add more."
			return m, nil
		}
		m.open(ViewTodoForm)
		cmd := m.todoForm.StartCreate()
		return m, cmd

	case todolist.EditTodoMsg:
		m.open(ViewTodoForm)
		cmd := m.todoForm.StartEdit(msg.Todo)
		return m, cmd

	case todolist.ToggleTodoMsg:
		cmd := m.toggleTodo(msg.ID)
		return m, cmd

	case todolist.DeleteTodoMsg:
		cmd := m.deleteTodo(msg.ID)
		return m, cmd

	case todolist.DeleteAllMsg:
		cmd := m.deleteAllTodos()
		return m, cmd

	case todoform.SubmitMsg:
		m.currentView = ViewList
		cmd := m.saveTodo(msg.Submission)
		return m, cmd

	case todoform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case authform.SubmitMsg:
		cmd := m.submitAuth(msg)
		return m, cmd

	case authform.CancelMsg:
		m.currentView = m.previousView
		return m, nil

	case profile.BackMsg:
		m.currentView = ViewList
		return m, nil

	case profile.LogoutMsg:
		cmd := m.logout()
		return m, cmd

	case adminview.BackMsg:
		m.currentView = ViewList
		return m, nil

	case adminview.ReloadMsg:
		cmd := m.loadUsers()
		return m, cmd

	case adminview.ToggleAdminMsg:
		cmd := m.toggleAdmin(msg.UserID)
		return m, cmd

	case adminview.DeleteUserMsg:
		cmd := m.deleteUser(msg.UserID)
		return m, cmd

	case adminview.CreateAdminMsg:
		m.open(ViewAuth)
		cmd := m.authForm.Start(authform.ModeCreateAdmin)
		return m, cmd

	case command.CommandMsg:
		m.currentView = m.previousView
		return m.executeCommand(msg.Name)

	case command.UnknownMsg:
		m.currentView = m.previousView
		m.flash = msg.Error()
		return m, nil

	case tea.KeyMsg:
		if next, cmd, handled := m.handleGlobalKey(msg); handled {
			return next, cmd
		}
	}

	return m.updateActiveView(msg)
}

func (m Model) handleAuthDone(msg authDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		text := api.Message(msg.err)
		if fl := flashFor(msg.err); fl != "" {
			text = fl
		}
		m.sync()
		if m.currentView == ViewAuth {
			cmd := m.authForm.SetError(text)
			return m, cmd
		}
		m.flash = text
		return m, nil
	}

	m.flash = ""
	if msg.mode == authform.ModeCreateAdmin {
		m.currentView = ViewAdmin
		m.sync()
		return m, nil
	}

	m.currentView = ViewList
	m.admin.Reset()
	m.keys.SetAdmin(false)
	m.sync()
	cmd := m.checkAdmin()
	return m, cmd
}

// handleGlobalKey processes keys that are not owned by the active view.
func (m Model) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	if msg.String() == "ctrl+c" {
		cmd := m.quit()
		return m, cmd, true
	}

	// Forms and the palette own the keyboard.
	switch m.currentView {
	case ViewTodoForm, ViewAuth:
		return m, nil, false
	case ViewCommand:
		if key.Matches(msg, m.keys.Back) {
			m.currentView = m.previousView
			return m, nil, true
		}
		return m, nil, false
	}

	if m.currentView == ViewList && m.todoList.Confirming() {
		return m, nil, false
	}
	if m.currentView == ViewAdmin && m.adminView.Confirming() {
		return m, nil, false
	}

	m.flash = ""

	switch {
	case key.Matches(msg, m.keys.Help):
		if m.currentView == ViewHelp {
			m.currentView = m.previousView
			return m, nil, true
		}
		m.open(ViewHelp)
		return m, nil, true

	case key.Matches(msg, m.keys.Command):
		m.open(ViewCommand)
		cmd := m.commandView.Focus()
		return m, cmd, true
	}

	if m.currentView == ViewHelp && key.Matches(msg, m.keys.Back) {
		m.currentView = m.previousView
		return m, nil, true
	}

	if m.currentView != ViewList {
		return m, nil, false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		cmd := m.quit()
		return m, cmd, true
	case key.Matches(msg, m.keys.Refresh):
		if m.monitor != nil {
			m.monitor.Refresh()
		}
		cmd := m.loadTodos()
		return m, cmd, true
	case key.Matches(msg, m.keys.Login):
		m.open(ViewAuth)
		cmd := m.authForm.Start(authform.ModeLogin)
		return m, cmd, true
	case key.Matches(msg, m.keys.Register):
		m.open(ViewAuth)
		cmd := m.authForm.Start(authform.ModeRegister)
		return m, cmd, true
	case key.Matches(msg, m.keys.Profile):
		m.open(ViewProfile)
		return m, nil, true
	case key.Matches(msg, m.keys.Admin):
		m.open(ViewAdmin)
		cmd := m.loadUsers()
		return m, cmd, true
	}
	return m, nil, false
}

func (m Model) quit() tea.Cmd {
	if m.monitor != nil {
		m.monitor.Stop()
	}
	return tea.Quit
}

// executeCommand handles a command from the palette.
func (m Model) executeCommand(name command.Name) (tea.Model, tea.Cmd) {
	switch name {
	case command.Refresh:
		cmd := m.loadTodos()
		return m, cmd
	case command.New:
		m.currentView = ViewList
		return m.Update(todolist.NewTodoMsg{})
	case command.Login:
		m.open(ViewAuth)
		cmd := m.authForm.Start(authform.ModeLogin)
		return m, cmd
	case command.Register:
		m.open(ViewAuth)
		cmd := m.authForm.Start(authform.ModeRegister)
		return m, cmd
	case command.Logout:
		if !m.state.Session.IsAuthenticated() {
			m.flash = "You are not logged in."
			return m, nil
		}
		cmd := m.logout()
		return m, cmd
	case command.Profile:
		m.open(ViewProfile)
		return m, nil
	case command.Admin:
		if !m.keys.Admin.Enabled() {
			m.flash = "Admin access required."
			return m, nil
		}
		m.open(ViewAdmin)
		cmd := m.loadUsers()
		return m, cmd
	case command.Clear:
		m.currentView = ViewList
		if !m.todoList.ConfirmDeleteAll() {
			m.flash = "No todos to delete."
		}
		return m, nil
	case command.Help:
		m.open(ViewHelp)
		return m, nil
	case command.Quit:
		cmd := m.quit()
		return m, cmd
	}
	return m, nil
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.todoList, cmd = m.todoList.Update(msg)
	case ViewCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	case ViewTodoForm:
		m.todoForm, cmd = m.todoForm.Update(msg)
	case ViewAuth:
		m.authForm, cmd = m.authForm.Update(msg)
	case ViewProfile:
		m.profileView, cmd = m.profileView.Update(msg)
	case ViewAdmin:
		m.adminView, cmd = m.adminView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Todo List", m.state.Session.Label(), m.health.State.String())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewHelp:
		return m.helpView.View()
	case ViewCommand:
		return m.commandView.View()
	case ViewTodoForm:
		return m.todoForm.View()
	case ViewAuth:
		return m.authForm.View()
	case ViewProfile:
		return m.profileView.View()
	case ViewAdmin:
		return lipgloss.JoinVertical(lipgloss.Left, m.adminMessageLine(), m.adminView.View())
	default:
		return m.renderList()
	}
}

func (m Model) renderList() string {
	if m.state.PageErr != "" && !m.state.Loaded {
		return theme.ErrorStyle.Render("Could not load todos: "+m.state.PageErr) + "\n" +
			theme.HelpStyle.Render("Press r to retry.")
	}
	parts := []string{}
	if b := guest.Banner(m.state.Quota, m.layout.Width); b != "" {
		parts = append(parts, b)
	}
	parts = append(parts, m.messageLine(), m.todoList.View())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// messageLine shows the most relevant outcome: a local flash, the last
// error or the last notice.
func (m Model) messageLine() string {
	switch {
	case m.inflight > 0:
		return theme.HelpStyle.Render("working…")
	case m.flash != "":
		return theme.ErrorStyle.Render(m.flash)
	case m.state.Err != "":
		return theme.ErrorStyle.Render(m.state.Err)
	case m.state.PageErr != "":
		return theme.ErrorStyle.Render(m.state.PageErr)
	case m.state.Notice != "":
		return theme.NoticeStyle.Render(m.state.Notice)
	}
	return " "
}

func (m Model) adminMessageLine() string {
	s := m.admin.Snapshot()
	switch {
	case m.inflight > 0:
		return theme.HelpStyle.Render("working…")
	case m.flash != "":
		return theme.ErrorStyle.Render(m.flash)
	case s.Err != "":
		return theme.ErrorStyle.Render(s.Err)
	case s.Notice != "":
		return theme.NoticeStyle.Render(s.Notice)
	}
	return " "
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewCommand:
		return "enter execute | tab complete | esc back"
	case ViewTodoForm, ViewAuth:
		return "enter submit | esc cancel"
	case ViewProfile:
		return "o log out | esc back"
	case ViewAdmin:
		return "t toggle admin | d delete | c create | r reload | esc back"
	default:
		return m.helpView.ShortView()
	}
}
