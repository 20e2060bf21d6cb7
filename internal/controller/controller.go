// Package controller owns the client-side application state and keeps it
// consistent with the server. Every mutation is round-tripped; local state
// only ever takes the server's answer and is left untouched on failure.
package controller

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/model"
	"github.com/nhle/todolist/internal/session"
)

// State is a snapshot of everything the todo screen renders.
type State struct {
	Todos []model.Todo

	// Quota is the guest quota as last reported by the server. It is nil
	// for authenticated sessions.
	Quota *model.GuestQuota

	Session session.Session

	// Err is the message of the last failed action.
	Err string

	// PageErr is set when the initial load failed.
	PageErr string

	// Notice is the outcome of the last successful action.
	Notice string

	Loaded bool
	Busy   bool
}

// Todo returns the todo with id, if present.
func (s State) Todo(id string) (model.Todo, bool) {
	for _, t := range s.Todos {
		if t.ID == id {
			return t, true
		}
	}
	return model.Todo{}, false
}

// Controller mediates between the UI, the entity client and the session
// store. It is safe for use from concurrent tea.Cmd goroutines.
type Controller struct {
	api      TodoAPI
	sessions Sessions
	logger   *log.Logger

	mu    sync.Mutex
	state State
	busy  bool
}

// New creates a controller. Call Load before first render.
func New(client TodoAPI, sessions Sessions, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		api:      client,
		sessions: sessions,
		logger:   logger.WithPrefix("controller"),
		state:    State{Todos: []model.Todo{}},
	}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := c.state
	s.Todos = append([]model.Todo(nil), c.state.Todos...)
	if c.state.Quota != nil {
		q := *c.state.Quota
		s.Quota = &q
	}
	s.Session = c.sessions.Current()
	s.Busy = c.busy
	return s
}

// ClearMessages drops the current error and notice.
func (c *Controller) ClearMessages() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Err = ""
	c.state.Notice = ""
}

// begin marks a request as outstanding and clears the previous outcome.
func (c *Controller) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.busy {
		return ErrBusy
	}
	c.busy = true
	c.state.Err = ""
	c.state.Notice = ""
	return nil
}

func (c *Controller) end() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.busy = false
}

// fail records the user-visible message of err and returns it wrapped.
func (c *Controller) fail(op string, err error) error {
	c.recordErr(op, err)
	return fmt.Errorf("%s: %w", op, err)
}

// recordErr shows err's message and logs it without failing the caller.
func (c *Controller) recordErr(op string, err error) {
	c.mu.Lock()
	c.state.Err = api.Message(err)
	c.mu.Unlock()
	c.logger.Warn(op+" failed", "err", err)
}

func (c *Controller) notice(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Notice = msg
}

// Load fetches the todo collection and, for guests, the quota. On
// failure the page error is set and the previous state is kept.
func (c *Controller) Load(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	sess := c.sessions.Current()
	id := sess.Identity()

	todos, err := c.api.ListTodos(ctx, id)
	if err != nil {
		return c.failPage("load todos", err)
	}

	var quota *model.GuestQuota
	if !sess.IsAuthenticated() {
		quota, err = c.api.GuestCount(ctx, id)
		if err != nil {
			return c.failPage("load guest quota", err)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Todos = todos
	c.state.Quota = quota
	c.state.PageErr = ""
	c.state.Loaded = true
	return nil
}

func (c *Controller) failPage(op string, err error) error {
	c.mu.Lock()
	c.state.PageErr = api.Message(err)
	c.mu.Unlock()
	c.logger.Error(op+" failed", "err", err)
	return fmt.Errorf("%s: %w", op, err)
}

// refreshQuota re-reads the guest quota after a guest mutation. A failure
// keeps the previous value; the mutation itself already succeeded.
func (c *Controller) refreshQuota(ctx context.Context, sess session.Session) {
	if sess.IsAuthenticated() {
		return
	}
	quota, err := c.api.GuestCount(ctx, sess.Identity())
	if err != nil {
		c.logger.Warn("refresh guest quota failed", "err", err)
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Quota = quota
}

func validateText(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", &ValidationError{Field: "text", Message: "Please enter a todo text"}
	}
	return text, nil
}

// Create adds a todo. The server's record is appended as returned.
func (c *Controller) Create(ctx context.Context, text, color string) (*model.Todo, error) {
	text, err := validateText(text)
	if err != nil {
		return nil, err
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	sess := c.sessions.Current()
	todo, err := c.api.CreateTodo(ctx, sess.Identity(), text, color)
	if err != nil {
		return nil, c.fail("create todo", err)
	}

	c.mu.Lock()
	c.state.Todos = append(c.state.Todos, *todo)
	c.mu.Unlock()

	c.refreshQuota(ctx, sess)
	c.notice("Todo added")
	return todo, nil
}

// Update sends a partial update and replaces the local item with the
// server's representation.
func (c *Controller) Update(ctx context.Context, id string, update model.TodoUpdate) (*model.Todo, error) {
	if update.IsEmpty() {
		return nil, &ValidationError{Field: "update", Message: "Nothing to update"}
	}
	if update.Text != nil {
		text, err := validateText(*update.Text)
		if err != nil {
			return nil, err
		}
		update.Text = &text
	}
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	todo, err := c.api.UpdateTodo(ctx, c.sessions.Current().Identity(), id, update)
	if err != nil {
		return nil, c.fail("update todo", err)
	}

	c.replace(*todo)
	c.notice("Todo saved")
	return todo, nil
}

// Toggle flips completion on the server and adopts its answer.
func (c *Controller) Toggle(ctx context.Context, id string) (*model.Todo, error) {
	if err := c.begin(); err != nil {
		return nil, err
	}
	defer c.end()

	todo, err := c.api.ToggleTodo(ctx, c.sessions.Current().Identity(), id)
	if err != nil {
		return nil, c.fail("toggle todo", err)
	}

	c.replace(*todo)
	return todo, nil
}

// replace swaps the local item matching todo.ID.
func (c *Controller) replace(todo model.Todo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.state.Todos {
		if c.state.Todos[i].ID == todo.ID {
			c.state.Todos[i] = todo
			return
		}
	}
	c.logger.Debug("server returned a todo that is not listed", "id", todo.ID)
}

// Delete removes a todo on the server, then locally.
func (c *Controller) Delete(ctx context.Context, id string) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	sess := c.sessions.Current()
	if _, err := c.api.DeleteTodo(ctx, sess.Identity(), id); err != nil {
		return c.fail("delete todo", err)
	}

	c.mu.Lock()
	kept := make([]model.Todo, 0, len(c.state.Todos))
	for _, t := range c.state.Todos {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.state.Todos = kept
	c.mu.Unlock()

	c.refreshQuota(ctx, sess)
	c.notice("Todo deleted")
	return nil
}

// DeleteAll removes every todo of the caller.
func (c *Controller) DeleteAll(ctx context.Context) error {
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	sess := c.sessions.Current()
	res, err := c.api.DeleteAllTodos(ctx, sess.Identity())
	if err != nil {
		return c.fail("delete all todos", err)
	}

	c.mu.Lock()
	c.state.Todos = []model.Todo{}
	c.mu.Unlock()

	c.refreshQuota(ctx, sess)
	if res.DeletedCount != nil {
		c.notice(fmt.Sprintf("Deleted %d todos", *res.DeletedCount))
	} else {
		c.notice("All todos deleted")
	}
	return nil
}

// Save applies a submitted form: create when it carries no id, update
// otherwise. An update carries only the fields that differ from the local
// copy; an unchanged submission sends nothing.
func (c *Controller) Save(ctx context.Context, sub Submission) (*model.Todo, error) {
	if sub.IsCreate() {
		return c.Create(ctx, sub.Text, sub.Color)
	}

	text, color := sub.Text, sub.Color
	update := model.TodoUpdate{Text: &text, Color: &color}

	c.mu.Lock()
	orig, ok := c.state.Todo(sub.ID)
	c.mu.Unlock()
	if !ok {
		return c.Update(ctx, sub.ID, update)
	}

	if strings.TrimSpace(text) == orig.Text {
		update.Text = nil
	}
	if color == orig.Color {
		update.Color = nil
	}
	if update.IsEmpty() {
		return &orig, nil
	}
	return c.Update(ctx, sub.ID, update)
}
