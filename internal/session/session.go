// Package session tracks who the client is acting as and persists the
// authenticated user across restarts.
package session

import (
	"github.com/nhle/todolist/internal/api"
	"github.com/nhle/todolist/internal/model"
)

// Session is either anonymous or authenticated as a user.
type Session struct {
	user *model.User
}

// Anonymous returns the guest session.
func Anonymous() Session {
	return Session{}
}

// Authenticated returns a session for u.
func Authenticated(u model.User) Session {
	return Session{user: &u}
}

// IsAuthenticated reports whether a user is signed in.
func (s Session) IsAuthenticated() bool {
	return s.user != nil
}

// User returns the signed-in user, if any.
func (s Session) User() (model.User, bool) {
	if s.user == nil {
		return model.User{}, false
	}
	return *s.user, true
}

// Identity returns the identity requests must be sent with.
func (s Session) Identity() api.Identity {
	if s.user == nil {
		return api.Anonymous
	}
	return api.Identity(s.user.ID)
}

// IsAdmin reports whether the cached user record carries the admin flag.
// It only gates what the UI offers; the server enforces access.
func (s Session) IsAdmin() bool {
	return s.user != nil && s.user.IsAdmin
}

// Label is a short description for headers.
func (s Session) Label() string {
	if s.user == nil {
		return "guest"
	}
	return s.user.DisplayName()
}
