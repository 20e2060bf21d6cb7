package controller

import (
	"context"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/session"
)

// TodoAPI is the part of the entity client the controller drives.
type TodoAPI interface {
	ListTodos(ctx context.Context, id api.Identity) ([]model.Todo, error)
	CreateTodo(ctx context.Context, id api.Identity, text, color string) (*model.Todo, error)
	UpdateTodo(ctx context.Context, id api.Identity, todoID string, update model.TodoUpdate) (*model.Todo, error)
	ToggleTodo(ctx context.Context, id api.Identity, todoID string) (*model.Todo, error)
	DeleteTodo(ctx context.Context, id api.Identity, todoID string) (*api.DeleteResult, error)
	DeleteAllTodos(ctx context.Context, id api.Identity) (*api.DeleteResult, error)
	GuestCount(ctx context.Context, id api.Identity) (*model.GuestQuota, error)
	Register(ctx context.Context, reg api.Registration) (*model.User, error)
	Login(ctx context.Context, creds api.Credentials) (*model.User, error)
}

// AdminAPI is the part of the entity client used by the admin screen.
type AdminAPI interface {
	ListUsers(ctx context.Context, id api.Identity) ([]model.User, error)
	DeleteUser(ctx context.Context, id api.Identity, userID string) (*api.MessageResult, error)
	ToggleAdmin(ctx context.Context, id api.Identity, userID string) (*api.MessageResult, error)
	CheckAdmin(ctx context.Context, id api.Identity) (bool, error)
	CreateAdmin(ctx context.Context, id api.Identity, reg api.Registration) (*model.User, error)
}

// Sessions is the session store as seen by the controller.
type Sessions interface {
	Current() session.Session
	Set(ctx context.Context, u model.User) error
	Clear(ctx context.Context) error
}
