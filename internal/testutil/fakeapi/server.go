// Package fakeapi is an in-process implementation of the todo backend's
// HTTP contract, used by tests that exercise the client end to end.
package fakeapi

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"

	"github.com/nhle/todolist/internal/model"
)

// IdentityHeader is the header the fake reads the caller id from.
const IdentityHeader = "X-User-ID"

// guestOwner buckets todos created without an identity header.
const guestOwner = ""

// Envelope selects how successful payloads are wrapped.
type Envelope int

const (
	EnvelopeRaw Envelope = iota
	EnvelopeData
	EnvelopeSuccessData
)

// Request is a recorded inbound request.
type Request struct {
	Method   string
	Path     string
	Identity string
}

type failure struct {
	status  int
	message string
}

type account struct {
	user     model.User
	password string
}

// Server is the fake backend. All state is guarded by mu.
type Server struct {
	mu         sync.Mutex
	echo       *echo.Echo
	http       *httptest.Server
	clock      clockwork.Clock
	envelope   Envelope
	guestLimit int
	nextTodo   int
	todos      map[string][]model.Todo
	accounts   map[string]*account
	failures   []failure
	requests   []Request
}

// Option configures a Server.
type Option func(*Server)

// WithGuestLimit sets how many todos a guest may hold.
func WithGuestLimit(n int) Option {
	return func(s *Server) { s.guestLimit = n }
}

// WithEnvelope selects the success envelope shape.
func WithEnvelope(e Envelope) Option {
	return func(s *Server) { s.envelope = e }
}

// WithClock sets the clock used for timestamps.
func WithClock(c clockwork.Clock) Option {
	return func(s *Server) { s.clock = c }
}

// New starts a fake backend that is shut down when the test ends.
func New(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		clock:      clockwork.NewFakeClock(),
		guestLimit: 3,
		todos:      make(map[string][]model.Todo),
		accounts:   make(map[string]*account),
	}
	for _, opt := range opts {
		opt(s)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(s.record)

	g := e.Group("/api")
	g.GET("/health", s.health)
	g.GET("/todos", s.listTodos)
	g.POST("/todos", s.createTodo)
	g.DELETE("/todos", s.deleteAllTodos)
	g.GET("/todos/guest-count", s.guestCount)
	g.GET("/todos/:id", s.getTodo)
	g.PUT("/todos/:id", s.updateTodo)
	g.PATCH("/todos/:id/toggle", s.toggleTodo)
	g.DELETE("/todos/:id", s.deleteTodo)
	g.POST("/user/register", s.register)
	g.POST("/user/login", s.login)
	g.GET("/user/admin/check", s.checkAdmin)
	g.GET("/user/admin/users", s.requireAdmin(s.listUsers))
	g.DELETE("/user/admin/users/:id", s.requireAdmin(s.deleteUser))
	g.PATCH("/user/admin/users/:id/toggle-admin", s.requireAdmin(s.toggleAdmin))
	g.POST("/user/admin/create", s.requireAdmin(s.createAdmin))

	s.echo = e
	s.http = httptest.NewServer(e)
	t.Cleanup(s.http.Close)

	return s
}

// URL returns the base address including the /api prefix.
func (s *Server) URL() string {
	return s.http.URL + "/api"
}

// Close shuts the server down so later requests fail at the transport.
func (s *Server) Close() {
	s.http.Close()
}

// Clock returns the server clock.
func (s *Server) Clock() clockwork.Clock {
	return s.clock
}

// FailNext makes the next request fail with status. An empty message
// produces a body without an "error" field.
func (s *Server) FailNext(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{status: status, message: message})
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request.
func (s *Server) LastRequest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// Todos returns the server's view of the todos owned by identity
// ("" for guests).
func (s *Server) Todos(identity string) []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, len(s.todos[identity]))
	copy(out, s.todos[identity])
	return out
}

// SeedUser creates an account directly.
func (s *Server) SeedUser(email, password, name string, admin bool) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addAccountLocked(email, password, name, admin).user
}

// SeedTodo stores a todo for identity directly.
func (s *Server) SeedTodo(identity, text string) model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addTodoLocked(identity, text, "")
}

func (s *Server) addAccountLocked(email, password, name string, admin bool) *account {
	acc := &account{
		user: model.User{
			ID:        uuid.NewString(),
			Email:     email,
			Name:      name,
			IsAdmin:   admin,
			CreatedAt: s.clock.Now().UTC(),
		},
		password: password,
	}
	s.accounts[acc.user.ID] = acc
	return acc
}

func (s *Server) addTodoLocked(owner, text, color string) model.Todo {
	s.nextTodo++
	todo := model.Todo{
		ID:        fmt.Sprintf("t%d", s.nextTodo),
		Text:      text,
		Color:     color,
		CreatedAt: s.clock.Now().UTC(),
	}
	s.todos[owner] = append(s.todos[owner], todo)
	return todo
}

// record logs the request and serves any injected failure.
func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:   c.Request().Method,
			Path:     strings.TrimPrefix(c.Request().URL.Path, "/api"),
			Identity: c.Request().Header.Get(IdentityHeader),
		})
		var f *failure
		if len(s.failures) > 0 {
			f = &s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if f != nil {
			if f.message == "" {
				return c.JSON(f.status, map[string]interface{}{})
			}
			return fail(c, f.status, f.message)
		}
		return next(c)
	}
}

func (s *Server) respond(c echo.Context, status int, payload interface{}) error {
	switch s.envelope {
	case EnvelopeData:
		return c.JSON(status, map[string]interface{}{"data": payload})
	case EnvelopeSuccessData:
		return c.JSON(status, map[string]interface{}{"success": true, "data": payload})
	default:
		return c.JSON(status, payload)
	}
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

func owner(c echo.Context) string {
	return c.Request().Header.Get(IdentityHeader)
}

func (s *Server) health(c echo.Context) error {
	return s.respond(c, http.StatusOK, map[string]string{"status": "healthy"})
}
