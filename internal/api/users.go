package api

import (
	"context"

	"github.com/nhle/todolist/internal/model"
)

// Credentials is the body of the login endpoint.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the body of the register and admin-create endpoints.
type Registration struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register creates an account and returns it.
func (c *Client) Register(ctx context.Context, reg Registration) (*model.User, error) {
	var user model.User
	if err := c.post(ctx, "/user/register", Anonymous, reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and returns the account.
func (c *Client) Login(ctx context.Context, creds Credentials) (*model.User, error) {
	var user model.User
	if err := c.post(ctx, "/user/login", Anonymous, creds, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
