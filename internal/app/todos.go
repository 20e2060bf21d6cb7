package app

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/controller"
	"github.com/nhle/todolist/internal/ui/authform"
)

// actionDoneMsg is sent after a todo action finished. The controller has
// already applied the result; the app only re-renders.
type actionDoneMsg struct {
	op  string
	err error
}

// authDoneMsg is sent after a login, register or create-admin attempt.
type authDoneMsg struct {
	mode authform.Mode
	err  error
}

// adminDoneMsg is sent after an admin action finished.
type adminDoneMsg struct {
	op  string
	err error
}

// adminCheckedMsg carries the server's answer to the admin check.
type adminCheckedMsg struct {
	isAdmin bool
}

// run executes fn in a command with a bounded context.
func (m *Model) run(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	timeout := m.timeout
	m.inflight++
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return fn(ctx)
	}
}

func (m *Model) todoAction(op string, fn func(ctx context.Context) error) tea.Cmd {
	return m.run(func(ctx context.Context) tea.Msg {
		return actionDoneMsg{op: op, err: fn(ctx)}
	})
}

func (m *Model) loadTodos() tea.Cmd {
	c := m.ctrl
	return m.todoAction("load", c.Load)
}

func (m *Model) saveTodo(sub controller.Submission) tea.Cmd {
	c := m.ctrl
	return m.todoAction("save", func(ctx context.Context) error {
		_, err := c.Save(ctx, sub)
		return err
	})
}

func (m *Model) toggleTodo(id string) tea.Cmd {
	c := m.ctrl
	return m.todoAction("toggle", func(ctx context.Context) error {
		_, err := c.Toggle(ctx, id)
		return err
	})
}

func (m *Model) deleteTodo(id string) tea.Cmd {
	c := m.ctrl
	return m.todoAction("delete", func(ctx context.Context) error {
		return c.Delete(ctx, id)
	})
}

func (m *Model) deleteAllTodos() tea.Cmd {
	c := m.ctrl
	return m.todoAction("delete all", c.DeleteAll)
}

func (m *Model) logout() tea.Cmd {
	c := m.ctrl
	return m.todoAction("logout", c.Logout)
}

func (m *Model) submitAuth(sub authform.SubmitMsg) tea.Cmd {
	c, a := m.ctrl, m.admin
	return m.run(func(ctx context.Context) tea.Msg {
		var err error
		switch sub.Mode {
		case authform.ModeRegister:
			_, err = c.Register(ctx, sub.Email, sub.Password, sub.Name)
		case authform.ModeCreateAdmin:
			_, err = a.CreateAdmin(ctx, sub.Email, sub.Password, sub.Name)
		default:
			_, err = c.Login(ctx, sub.Email, sub.Password)
		}
		return authDoneMsg{mode: sub.Mode, err: err}
	})
}

func (m *Model) checkAdmin() tea.Cmd {
	a := m.admin
	return m.run(func(ctx context.Context) tea.Msg {
		ok, _ := a.Check(ctx)
		return adminCheckedMsg{isAdmin: ok}
	})
}

func (m *Model) adminAction(op string, fn func(ctx context.Context) error) tea.Cmd {
	return m.run(func(ctx context.Context) tea.Msg {
		return adminDoneMsg{op: op, err: fn(ctx)}
	})
}

func (m *Model) loadUsers() tea.Cmd {
	return m.adminAction("load users", m.admin.LoadUsers)
}

func (m *Model) toggleAdmin(id string) tea.Cmd {
	a := m.admin
	return m.adminAction("toggle admin", func(ctx context.Context) error {
		return a.ToggleAdmin(ctx, id)
	})
}

func (m *Model) deleteUser(id string) tea.Cmd {
	a := m.admin
	return m.adminAction("delete user", func(ctx context.Context) error {
		return a.DeleteUser(ctx, id)
	})
}

// flashFor turns an action error into a message for the status line. A
// server or network failure is already recorded in the controller state.
func flashFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, controller.ErrBusy):
		return "Still working on the previous request…"
	case controller.IsValidationError(err):
		return api.Message(err)
	default:
		return ""
	}
}
