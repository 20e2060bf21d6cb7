package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/model"
)

// AdminState is a snapshot of the admin screen.
type AdminState struct {
	Users   []model.User
	IsAdmin bool
	Checked bool
	Err     string
	Notice  string
	Busy    bool
}

// Admin drives the user management screen. Access control is left to the
// server; IsAdmin only decides whether the screen is offered.
type Admin struct {
	api      AdminAPI
	sessions Sessions
	logger   *log.Logger

	mu    sync.Mutex
	state AdminState
	busy  bool
}

// NewAdmin creates an admin controller.
func NewAdmin(client AdminAPI, sessions Sessions, logger *log.Logger) *Admin {
	if logger == nil {
		logger = log.Default()
	}
	return &Admin{
		api:      client,
		sessions: sessions,
		logger:   logger.WithPrefix("admin"),
		state:    AdminState{Users: []model.User{}},
	}
}

// Snapshot returns a copy of the current state.
func (a *Admin) Snapshot() AdminState {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.state
	s.Users = append([]model.User(nil), a.state.Users...)
	s.Busy = a.busy
	return s
}

// Reset forgets everything learned for the previous session.
func (a *Admin) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state = AdminState{Users: []model.User{}}
}

func (a *Admin) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.busy {
		return ErrBusy
	}
	a.busy = true
	a.state.Err = ""
	a.state.Notice = ""
	return nil
}

func (a *Admin) end() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.busy = false
}

func (a *Admin) fail(op string, err error) error {
	a.mu.Lock()
	a.state.Err = api.Message(err)
	a.mu.Unlock()
	a.logger.Warn(op+" failed", "err", err)
	return fmt.Errorf("%s: %w", op, err)
}

// Check asks the server whether the current session is an admin. Guests
// are never admins and are not asked.
func (a *Admin) Check(ctx context.Context) (bool, error) {
	sess := a.sessions.Current()
	if !sess.IsAuthenticated() {
		a.mu.Lock()
		a.state.IsAdmin = false
		a.state.Checked = true
		a.mu.Unlock()
		return false, nil
	}

	ok, err := a.api.CheckAdmin(ctx, sess.Identity())
	if err != nil {
		a.logger.Warn("admin check failed", "err", err)
		return sess.IsAdmin(), fmt.Errorf("check admin: %w", err)
	}
	a.mu.Lock()
	a.state.IsAdmin = ok
	a.state.Checked = true
	a.mu.Unlock()
	return ok, nil
}

// LoadUsers fetches every account.
func (a *Admin) LoadUsers(ctx context.Context) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()
	return a.loadUsers(ctx)
}

func (a *Admin) loadUsers(ctx context.Context) error {
	users, err := a.api.ListUsers(ctx, a.sessions.Current().Identity())
	if err != nil {
		return a.fail("list users", err)
	}
	a.mu.Lock()
	a.state.Users = users
	a.mu.Unlock()
	return nil
}

// DeleteUser removes an account and drops it from the list.
func (a *Admin) DeleteUser(ctx context.Context, userID string) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()

	res, err := a.api.DeleteUser(ctx, a.sessions.Current().Identity(), userID)
	if err != nil {
		return a.fail("delete user", err)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	kept := make([]model.User, 0, len(a.state.Users))
	for _, u := range a.state.Users {
		if u.ID != userID {
			kept = append(kept, u)
		}
	}
	a.state.Users = kept
	a.state.Notice = res.Message
	return nil
}

// ToggleAdmin flips an account's admin flag and reloads the list.
func (a *Admin) ToggleAdmin(ctx context.Context, userID string) error {
	if err := a.begin(); err != nil {
		return err
	}
	defer a.end()

	res, err := a.api.ToggleAdmin(ctx, a.sessions.Current().Identity(), userID)
	if err != nil {
		return a.fail("toggle admin", err)
	}
	if err := a.loadUsers(ctx); err != nil {
		return err
	}

	a.mu.Lock()
	a.state.Notice = res.Message
	a.mu.Unlock()
	return nil
}

// CreateAdmin creates an admin account and appends it to the list.
func (a *Admin) CreateAdmin(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if err := requireFields(
		[2]string{"Name", name},
		[2]string{"Email", email},
		[2]string{"Password", password},
	); err != nil {
		return nil, err
	}
	if err := a.begin(); err != nil {
		return nil, err
	}
	defer a.end()

	user, err := a.api.CreateAdmin(ctx, a.sessions.Current().Identity(), api.Registration{
		Email:    email,
		Password: password,
		Name:     name,
	})
	if err != nil {
		return nil, a.fail("create admin", err)
	}

	a.mu.Lock()
	a.state.Users = append(a.state.Users, *user)
	a.state.Notice = fmt.Sprintf("Created admin %s", user.DisplayName())
	a.mu.Unlock()
	return user, nil
}
