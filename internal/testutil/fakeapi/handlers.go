package fakeapi

import (
	"net/http"
	"sort"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nhle/todolist/internal/model"
)

type todoBody struct {
	Text      *string `json:"text"`
	Color     *string `json:"color"`
	Completed *bool   `json:"completed"`
}

type userBody struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// caller resolves the identity header. ok is false when the header names
// an unknown account, in which case the response has been written.
func (s *Server) caller(c echo.Context) (string, bool, error) {
	id := owner(c)
	if id == guestOwner {
		return id, true, nil
	}
	if _, found := s.accounts[id]; !found {
		return "", false, fail(c, http.StatusUnauthorized, "User not found")
	}
	return id, true, nil
}

func indexOf(todos []model.Todo, id string) int {
	for i, t := range todos {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) listTodos(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	who, ok, err := s.caller(c)
	if !ok {
		return err
	}
	out := make([]model.Todo, len(s.todos[who]))
	copy(out, s.todos[who])
	return s.respond(c, http.StatusOK, out)
}

func (s *Server) getTodo(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	who, ok, err := s.caller(c)
	if !ok {
		return err
	}
	i := indexOf(s.todos[who], c.Param("id"))
	if i < 0 {
		return fail(c, http.StatusNotFound, "Todo not found")
	}
	return s.respond(c, http.StatusOK, s.todos[who][i])
}

func (s *Server) createTodo(c echo.Context) error {
	var body todoBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	who, ok, err := s.caller(c)
	if !ok {
		return err
	}
	if body.Text == nil || strings.TrimSpace(*body.Text) == "" {
		return fail(c, http.StatusBadRequest, "Todo text is required")
	}
	if who == guestOwner && len(s.todos[guestOwner]) >= s.guestLimit {
		return fail(c, http.StatusForbidden,
			"Guest todo limit reached. Please register to create more todos.")
	}

	color := ""
	if body.Color != nil {
		color = *body.Color
	}
	todo := s.addTodoLocked(who, strings.TrimSpace(*body.Text), color)
	return s.respond(c, http.StatusCreated, todo)
}

func (s *Server) updateTodo(c echo.Context) error {
	var body todoBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	who, ok, err := s.caller(c)
	if !ok {
		return err
	}
	todos := s.todos[who]
	i := indexOf(todos, c.Param("id"))
	if i < 0 {
		return fail(c, http.StatusNotFound, "Todo not found")
	}

	if body.Text != nil {
		text := strings.TrimSpace(*body.Text)
		if text == "" {
			return fail(c, http.StatusBadRequest, "Todo text cannot be empty")
		}
		todos[i].Text = text
	}
	if body.Color != nil {
		todos[i].Color = *body.Color
	}
	if body.Completed != nil {
		todos[i].Completed = *body.Completed
	}
	now := s.clock.Now().UTC()
	todos[i].UpdatedAt = &now

	return s.respond(c, http.StatusOK, todos[i])
}

func (s *Server) toggleTodo(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	who, ok, err := s.caller(c)
	if !ok {
		return err
	}
	todos := s.todos[who]
	i := indexOf(todos, c.Param("id"))
	if i < 0 {
		return fail(c, http.StatusNotFound, "Todo not found")
	}
	todos[i].Completed = !todos[i].Completed
	now := s.clock.Now().UTC()
	todos[i].UpdatedAt = &now

	return s.respond(c, http.StatusOK, todos[i])
}

func (s *Server) deleteTodo(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	who, ok, err := s.caller(c)
	if !ok {
		return err
	}
	todos := s.todos[who]
	i := indexOf(todos, c.Param("id"))
	if i < 0 {
		return fail(c, http.StatusNotFound, "Todo not found")
	}
	deleted := todos[i]
	s.todos[who] = append(todos[:i:i], todos[i+1:]...)

	return s.respond(c, http.StatusOK, map[string]interface{}{
		"message":     "Todo deleted successfully",
		"deletedTodo": deleted,
	})
}

func (s *Server) deleteAllTodos(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	who, ok, err := s.caller(c)
	if !ok {
		return err
	}
	n := len(s.todos[who])
	delete(s.todos, who)

	return s.respond(c, http.StatusOK, map[string]interface{}{
		"message":      "All todos deleted successfully",
		"deletedCount": n,
	})
}

func (s *Server) guestCount(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := len(s.todos[guestOwner])
	remaining := s.guestLimit - count
	if remaining < 0 {
		remaining = 0
	}
	return s.respond(c, http.StatusOK, model.GuestQuota{
		Count:     count,
		Remaining: remaining,
		Limit:     s.guestLimit,
	})
}

func (s *Server) findByEmailLocked(email string) *account {
	for _, acc := range s.accounts {
		if strings.EqualFold(acc.user.Email, email) {
			return acc
		}
	}
	return nil
}

func (s *Server) register(c echo.Context) error {
	return s.createAccount(c, false)
}

func (s *Server) createAdmin(c echo.Context) error {
	return s.createAccount(c, true)
}

func (s *Server) createAccount(c echo.Context, admin bool) error {
	var body userBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}
	if body.Email == "" || body.Password == "" || body.Name == "" {
		return fail(c, http.StatusBadRequest, "Email, password and name are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.findByEmailLocked(body.Email) != nil {
		return fail(c, http.StatusBadRequest, "User already exists")
	}
	acc := s.addAccountLocked(body.Email, body.Password, body.Name, admin)
	return s.respond(c, http.StatusCreated, acc.user)
}

func (s *Server) login(c echo.Context) error {
	var body userBody
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "Invalid JSON")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.findByEmailLocked(body.Email)
	if acc == nil || acc.password != body.Password {
		return fail(c, http.StatusUnauthorized, "Invalid email or password")
	}
	return s.respond(c, http.StatusOK, acc.user)
}

func (s *Server) checkAdmin(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc := s.accounts[owner(c)]
	return s.respond(c, http.StatusOK, map[string]bool{
		"is_admin": acc != nil && acc.user.IsAdmin,
	})
}

// requireAdmin rejects callers that are not admin accounts.
func (s *Server) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := owner(c)
		if id == guestOwner {
			return fail(c, http.StatusUnauthorized, "Authentication required")
		}
		s.mu.Lock()
		acc := s.accounts[id]
		s.mu.Unlock()
		if acc == nil || !acc.user.IsAdmin {
			return fail(c, http.StatusForbidden, "Admin access required")
		}
		return next(c)
	}
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := make([]model.User, 0, len(s.accounts))
	for _, acc := range s.accounts {
		users = append(users, acc.user)
	}
	sortUsers(users)
	return s.respond(c, http.StatusOK, users)
}

func (s *Server) deleteUser(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := c.Param("id")
	if _, ok := s.accounts[id]; !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}
	if id == owner(c) {
		return fail(c, http.StatusBadRequest, "Cannot delete your own account")
	}
	delete(s.accounts, id)
	delete(s.todos, id)
	return s.respond(c, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (s *Server) toggleAdmin(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.accounts[c.Param("id")]
	if !ok {
		return fail(c, http.StatusNotFound, "User not found")
	}
	acc.user.IsAdmin = !acc.user.IsAdmin
	return s.respond(c, http.StatusOK, map[string]string{"message": "Admin status updated"})
}

func sortUsers(users []model.User) {
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].Email < users[j].Email
	})
}
