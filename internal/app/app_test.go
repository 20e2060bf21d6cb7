package app

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/controller"
	"github.com/nhle/todolist/internal/logging"
	"github.com/nhle/todolist/internal/session"
	"github.com/nhle/todolist/internal/testutil"
	"github.com/nhle/todolist/internal/testutil/fakeapi"
	"github.com/nhle/todolist/internal/ui/authform"
	"github.com/nhle/todolist/internal/ui/command"
	"github.com/nhle/todolist/internal/ui/todoform"
	"github.com/nhle/todolist/internal/ui/todolist"
)

type harness struct {
	srv   *fakeapi.Server
	store *session.Store
	ctrl  *controller.Controller
}

func newHarness(t *testing.T, opts ...fakeapi.Option) *harness {
	t.Helper()
	srv := fakeapi.New(t, opts...)
	client := api.NewClient(srv.URL())
	store := session.NewStore(testutil.NewTestStorage(t), logging.Discard())
	store.Load(context.Background())
	return &harness{
		srv:   srv,
		store: store,
		ctrl:  controller.New(client, store, logging.Discard()),
	}
}

func (h *harness) model(t *testing.T) Model {
	t.Helper()
	client := api.NewClient(h.srv.URL())
	admin := controller.NewAdmin(client, h.store, logging.Discard())
	m := New(h.ctrl, admin, WithLogger(logging.Discard()))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return next.(Model)
}

// drive executes an API command and feeds its result back into the model.
func drive(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		for _, c := range batch {
			if c != nil {
				m = drive(t, m, c)
			}
		}
		return m
	}
	next, _ := m.Update(msg)
	return next.(Model)
}

func todoformSubmit(text string) todoform.SubmitMsg {
	return todoform.SubmitMsg{Submission: controller.Submission{Text: text}}
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInit_LoadsGuestTodos(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedTodo("", "Buy milk")
	m := h.model(t)

	m = drive(t, m, m.Init())

	require.True(t, m.state.Loaded)
	require.Len(t, m.state.Todos, 1)
	assert.Equal(t, 1, m.todoList.Len())
	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Guest Mode")
	assert.Equal(t, 0, m.inflight)
}

func TestInit_LoadFailure(t *testing.T) {
	h := newHarness(t)
	h.srv.FailNext(500, "database unavailable")
	m := h.model(t)

	m = drive(t, m, m.Init())

	assert.Equal(t, "database unavailable", m.state.PageErr)
	assert.Contains(t, m.View(), "Could not load todos")
}

func TestToggle_TracksInflight(t *testing.T) {
	h := newHarness(t)
	todo := h.srv.SeedTodo("", "Walk dog")
	m := h.model(t)
	m = drive(t, m, m.Init())

	next, cmd := m.Update(todolist.ToggleTodoMsg{ID: todo.ID})
	m = next.(Model)
	assert.Equal(t, 1, m.inflight)
	assert.Contains(t, m.View(), "working")

	m = drive(t, m, cmd)
	assert.Equal(t, 0, m.inflight)
	require.Len(t, m.state.Todos, 1)
	assert.True(t, m.state.Todos[0].Completed)
}

func TestNewTodo_BlockedAtGuestLimit(t *testing.T) {
	h := newHarness(t, fakeapi.WithGuestLimit(1))
	h.srv.SeedTodo("", "only one")
	m := h.model(t)
	m = drive(t, m, m.Init())
	require.NotNil(t, m.state.Quota)
	require.True(t, m.state.Quota.AtLimit())

	next, cmd := m.Update(todolist.NewTodoMsg{})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, ViewList, m.currentView)
	assert.Contains(t, m.flash, "limit")
}

func TestNewTodo_OpensForm(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)
	m = drive(t, m, m.Init())

	next, _ := m.Update(todolist.NewTodoMsg{})
	m = next.(Model)
	assert.Equal(t, ViewTodoForm, m.currentView)
	assert.Contains(t, m.View(), "New Todo")
}

func TestSaveSubmission(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)
	m = drive(t, m, m.Init())

	next, cmd := m.Update(todoformSubmit("Read book"))
	m = next.(Model)
	assert.Equal(t, ViewList, m.currentView)

	m = drive(t, m, cmd)
	require.Len(t, m.state.Todos, 1)
	assert.Equal(t, "Read book", m.state.Todos[0].Text)
	assert.Equal(t, "Todo added", m.state.Notice)
	assert.Len(t, h.srv.Todos(""), 1)
}

func TestHelpToggle(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	next, _ := m.Update(runeKey("?"))
	m = next.(Model)
	assert.Equal(t, ViewHelp, m.currentView)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	assert.Equal(t, ViewList, m.currentView)
}

func TestQuitKey(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	_, cmd := m.Update(runeKey("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestCommand_Unknown(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	next, _ := m.Update(runeKey(":"))
	m = next.(Model)
	require.Equal(t, ViewCommand, m.currentView)

	next, _ = m.Update(command.UnknownMsg{Input: "frobnicate"})
	m = next.(Model)
	assert.Equal(t, ViewList, m.currentView)
	assert.Contains(t, m.flash, "frobnicate")
}

func TestCommand_LogoutAsGuest(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)

	next, cmd := m.Update(command.CommandMsg{Name: command.Logout})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, "You are not logged in.", m.flash)
}

func TestLogin_FailureStaysOnForm(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedUser("ann@example.com", "secret", "Ann", false)
	m := h.model(t)

	next, _ := m.Update(runeKey("l"))
	m = next.(Model)
	require.Equal(t, ViewAuth, m.currentView)

	next, cmd := m.Update(authform.SubmitMsg{Mode: authform.ModeLogin, Email: "ann@example.com", Password: "wrong"})
	m = next.(Model)
	m = drive(t, m, cmd)

	assert.Equal(t, ViewAuth, m.currentView)
	assert.False(t, m.state.Session.IsAuthenticated())
}

func TestLogin_SwitchesToUserTodos(t *testing.T) {
	h := newHarness(t)
	ann := h.srv.SeedUser("ann@example.com", "secret", "Ann", false)
	h.srv.SeedTodo("", "guest todo")
	h.srv.SeedTodo(ann.ID, "ann todo")
	m := h.model(t)
	m = drive(t, m, m.Init())

	next, _ := m.Update(runeKey("l"))
	m = next.(Model)
	next, cmd := m.Update(authform.SubmitMsg{Mode: authform.ModeLogin, Email: "ann@example.com", Password: "secret"})
	m = next.(Model)

	next, checkCmd := m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, ViewList, m.currentView)
	require.True(t, m.state.Session.IsAuthenticated())
	require.Len(t, m.state.Todos, 1)
	assert.Equal(t, "ann todo", m.state.Todos[0].Text)
	assert.Nil(t, m.state.Quota)
	assert.Contains(t, m.View(), "Ann")

	m = drive(t, m, checkCmd)
	assert.False(t, m.keys.Admin.Enabled())
}

func TestLogin_AdminEnablesAdminKey(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedUser("root@example.com", "pw", "Root", true)
	m := h.model(t)

	next, cmd := m.Update(authform.SubmitMsg{Mode: authform.ModeLogin, Email: "root@example.com", Password: "pw"})
	m = next.(Model)
	next, checkCmd := m.Update(cmd())
	m = next.(Model)
	m = drive(t, m, checkCmd)

	assert.True(t, m.keys.Admin.Enabled())

	next, loadCmd := m.Update(runeKey("A"))
	m = next.(Model)
	require.Equal(t, ViewAdmin, m.currentView)
	m = drive(t, m, loadCmd)
	assert.Contains(t, m.View(), "root@example.com")
}

func TestLogout_ResetsAdmin(t *testing.T) {
	h := newHarness(t)
	root := h.srv.SeedUser("root@example.com", "pw", "Root", true)
	require.NoError(t, h.store.Set(context.Background(), root))
	m := h.model(t)
	m = drive(t, m, m.Init())
	require.True(t, m.keys.Admin.Enabled())

	next, cmd := m.Update(command.CommandMsg{Name: command.Logout})
	m = next.(Model)
	m = drive(t, m, cmd)

	assert.False(t, m.state.Session.IsAuthenticated())
	assert.False(t, m.keys.Admin.Enabled())
	assert.Equal(t, "Logged out", m.state.Notice)
	assert.NotNil(t, m.state.Quota)
}

func TestFlashFor(t *testing.T) {
	assert.Empty(t, flashFor(nil))
	assert.Contains(t, flashFor(controller.ErrBusy), "Still working")
	assert.Empty(t, flashFor(&api.RequestError{Status: 500, Message: "boom"}))
}

func TestCommand_ClearAsksForConfirmation(t *testing.T) {
	h := newHarness(t)
	h.srv.SeedTodo("", "one")
	h.srv.SeedTodo("", "two")
	m := h.model(t)
	m = drive(t, m, m.Init())

	next, cmd := m.Update(command.CommandMsg{Name: command.Clear})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.Equal(t, ViewList, m.currentView)
	require.True(t, m.todoList.Confirming())
	assert.Contains(t, m.View(), "Delete all 2 todos?")
	assert.Len(t, h.srv.Todos(""), 2)

	next, cmd = m.Update(runeKey("n"))
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.todoList.Confirming())
	assert.Equal(t, ViewList, m.currentView)
	assert.Len(t, h.srv.Todos(""), 2)

	next, _ = m.Update(command.CommandMsg{Name: command.Clear})
	m = next.(Model)
	next, cmd = m.Update(runeKey("y"))
	m = next.(Model)
	require.NotNil(t, cmd)
	next, cmd = m.Update(cmd())
	m = next.(Model)
	m = drive(t, m, cmd)

	assert.Empty(t, m.state.Todos)
	assert.Empty(t, h.srv.Todos(""))
}

func TestCommand_ClearEmptyList(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)
	m = drive(t, m, m.Init())

	next, cmd := m.Update(command.CommandMsg{Name: command.Clear})
	m = next.(Model)
	assert.Nil(t, cmd)
	assert.False(t, m.todoList.Confirming())
	assert.Equal(t, "No todos to delete.", m.flash)
}

func TestStartupCountsInitialRequests(t *testing.T) {
	h := newHarness(t)
	m := h.model(t)
	assert.Equal(t, 1, m.inflight)
	assert.Contains(t, m.View(), "working")

	m = drive(t, m, m.Init())
	assert.Equal(t, 0, m.inflight)
	assert.NotContains(t, m.View(), "working")

	root := h.srv.SeedUser("root@example.com", "pw", "Root", true)
	require.NoError(t, h.store.Set(context.Background(), root))
	m = h.model(t)
	assert.Equal(t, 2, m.inflight)

	m = drive(t, m, m.Init())
	assert.Equal(t, 0, m.inflight)
	assert.True(t, m.keys.Admin.Enabled())
}
