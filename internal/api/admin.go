package api

import (
	"context"
	"net/url"

	"github.com/nhle/todolist/internal/model"
)

// MessageResult is a plain acknowledgement.
type MessageResult struct {
	Message string `json:"message"`
}

// AdminCheck is the body of GET /user/admin/check.
type AdminCheck struct {
	IsAdmin bool `json:"is_admin"`
}

func adminUserPath(userID string) string {
	return "/user/admin/users/" + url.PathEscape(userID)
}

// The admin endpoints rely on the server to reject non-admin callers.

// ListUsers returns every account.
func (c *Client) ListUsers(ctx context.Context, id Identity) ([]model.User, error) {
	var users []model.User
	if err := c.get(ctx, "/user/admin/users", id, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []model.User{}
	}
	return users, nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id Identity, userID string) (*MessageResult, error) {
	var res MessageResult
	if err := c.del(ctx, adminUserPath(userID), id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// ToggleAdmin flips the admin flag of an account.
func (c *Client) ToggleAdmin(ctx context.Context, id Identity, userID string) (*MessageResult, error) {
	var res MessageResult
	if err := c.patch(ctx, adminUserPath(userID)+"/toggle-admin", id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// CheckAdmin reports whether the caller is an admin.
func (c *Client) CheckAdmin(ctx context.Context, id Identity) (bool, error) {
	var res AdminCheck
	if err := c.get(ctx, "/user/admin/check", id, &res); err != nil {
		return false, err
	}
	return res.IsAdmin, nil
}

// CreateAdmin creates an account with admin rights.
func (c *Client) CreateAdmin(ctx context.Context, id Identity, reg Registration) (*model.User, error) {
	var user model.User
	if err := c.post(ctx, "/user/admin/create", id, reg, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
