package controller

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/model"
)

func requireFields(fields ...[2]string) error {
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			return &ValidationError{Field: strings.ToLower(f[0]), Message: f[0] + " is required"}
		}
	}
	return nil
}

// Login authenticates, switches the session and loads the user's todos.
func (c *Controller) Login(ctx context.Context, email, password string) (*model.User, error) {
	email = strings.TrimSpace(email)
	if err := requireFields([2]string{"Email", email}, [2]string{"Password", password}); err != nil {
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	user, err := c.api.Login(ctx, api.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, c.fail("login", err)
	}
	if err := c.signIn(ctx, *user); err != nil {
		return nil, err
	}
	c.notice(fmt.Sprintf("Welcome back, %s", user.DisplayName()))
	return user, nil
}

// Register creates an account and signs in as it.
func (c *Controller) Register(ctx context.Context, email, password, name string) (*model.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if err := requireFields(
		[2]string{"Name", name},
		[2]string{"Email", email},
		[2]string{"Password", password},
	); err != nil {
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	user, err := c.api.Register(ctx, api.Registration{Email: email, Password: password, Name: name})
	if err != nil {
		return nil, c.fail("register", err)
	}
	if err := c.signIn(ctx, *user); err != nil {
		return nil, err
	}
	c.notice(fmt.Sprintf("Welcome, %s", user.DisplayName()))
	return user, nil
}

// signIn switches the session to user and replaces the collection with
// the user's todos. The caller holds the in-flight slot.
func (c *Controller) signIn(ctx context.Context, user model.User) error {
	if err := c.sessions.Set(ctx, user); err != nil {
		return c.fail("save session", err)
	}

	c.mu.Lock()
	c.state.Quota = nil
	c.state.Todos = []model.Todo{}
	c.mu.Unlock()

	todos, err := c.api.ListTodos(ctx, c.sessions.Current().Identity())
	if err != nil {
		// The sign-in stands; the empty list shows the error until a refresh.
		c.recordErr("load todos", err)
		return nil
	}

	c.mu.Lock()
	c.state.Todos = todos
	c.state.PageErr = ""
	c.state.Loaded = true
	c.mu.Unlock()
	return nil
}

// Logout reverts to the guest session, empties the collection and
// refreshes the guest quota.
func (c *Controller) Logout(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.sessions.Clear(ctx); err != nil {
		c.logger.Warn("clearing persisted session failed", "err", err)
	}

	c.mu.Lock()
	c.state.Todos = []model.Todo{}
	c.state.Quota = nil
	c.mu.Unlock()

	c.refreshQuota(ctx, c.sessions.Current())
	c.notice("Logged out")
	return nil
}
