package model

import (
	"time"
	"unicode"
)

// User is the server-side account record. The client caches a copy for the
// lifetime of the session.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName returns the user's name, falling back to "User".
func (u User) DisplayName() string {
	if u.Name == "" {
		return "User"
	}
	return u.Name
}

// Initial returns the upper-cased first letter of the display name.
func (u User) Initial() string {
	for _, r := range u.DisplayName() {
		return string(unicode.ToUpper(r))
	}
	return "?"
}
