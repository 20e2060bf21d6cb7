package api

import (
	"context"
	"net/url"

	"github.com/nhle/todolist/internal/model"
)

// DeleteResult is the acknowledgement returned by the delete endpoints.
type DeleteResult struct {
	Message      string      `json:"message"`
	DeletedTodo  *model.Todo `json:"deletedTodo,omitempty"`
	DeletedCount *int        `json:"deletedCount,omitempty"`
}

// createTodoRequest is the POST /todos body.
type createTodoRequest struct {
	Text  string `json:"text"`
	Color string `json:"color,omitempty"`
}

func todoPath(id string) string {
	return "/todos/" + url.PathEscape(id)
}

// ListTodos returns every todo visible to the caller.
func (c *Client) ListTodos(ctx context.Context, id Identity) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.get(ctx, "/todos", id, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []model.Todo{}
	}
	return todos, nil
}

// GetTodo returns a single todo.
func (c *Client) GetTodo(ctx context.Context, id Identity, todoID string) (*model.Todo, error) {
	var todo model.Todo
	if err := c.get(ctx, todoPath(todoID), id, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// CreateTodo creates a todo. An empty color is omitted from the request.
func (c *Client) CreateTodo(ctx context.Context, id Identity, text, color string) (*model.Todo, error) {
	var todo model.Todo
	req := createTodoRequest{Text: text, Color: color}
	if err := c.post(ctx, "/todos", id, req, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// UpdateTodo applies a partial update and returns the server's representation.
func (c *Client) UpdateTodo(ctx context.Context, id Identity, todoID string, update model.TodoUpdate) (*model.Todo, error) {
	var todo model.Todo
	if err := c.put(ctx, todoPath(todoID), id, update, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// ToggleTodo asks the server to flip the completion flag.
func (c *Client) ToggleTodo(ctx context.Context, id Identity, todoID string) (*model.Todo, error) {
	var todo model.Todo
	if err := c.patch(ctx, todoPath(todoID)+"/toggle", id, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

// DeleteTodo removes a single todo.
func (c *Client) DeleteTodo(ctx context.Context, id Identity, todoID string) (*DeleteResult, error) {
	var res DeleteResult
	if err := c.del(ctx, todoPath(todoID), id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// DeleteAllTodos removes every todo visible to the caller.
func (c *Client) DeleteAllTodos(ctx context.Context, id Identity) (*DeleteResult, error) {
	var res DeleteResult
	if err := c.del(ctx, "/todos", id, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// GuestCount returns the guest creation quota as computed by the server.
func (c *Client) GuestCount(ctx context.Context, id Identity) (*model.GuestQuota, error) {
	var quota model.GuestQuota
	if err := c.get(ctx, "/todos/guest-count", id, &quota); err != nil {
		return nil, err
	}
	return &quota, nil
}

// HealthStatus is the free-form body of GET /health.
type HealthStatus map[string]interface{}

// Health checks that the backend is reachable.
func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	status := HealthStatus{}
	if err := c.get(ctx, "/health", Anonymous, &status); err != nil {
		return nil, err
	}
	return status, nil
}
