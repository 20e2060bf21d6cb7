package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// draftPrefix marks ids that were generated locally for unsaved todos.
const draftPrefix = "draft-"

// Todo is a task record owned by the server. ID, CreatedAt and UpdatedAt
// are assigned by the server and never fabricated by the client.
type Todo struct {
	ID        string     `json:"id"`
	Text      string     `json:"text"`
	Color     string     `json:"color,omitempty"`
	Completed bool       `json:"completed"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// TodoUpdate is a partial update. Nil fields are left out of the request.
type TodoUpdate struct {
	Text      *string `json:"text,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	Color     *string `json:"color,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u TodoUpdate) IsEmpty() bool {
	return u.Text == nil && u.Completed == nil && u.Color == nil
}

// NewDraftID returns a transient id for a todo that has not been saved yet.
func NewDraftID() string {
	return draftPrefix + uuid.NewString()
}

// IsDraftID reports whether id was produced by NewDraftID.
func IsDraftID(id string) bool {
	return strings.HasPrefix(id, draftPrefix)
}

// Todo colors offered by the form. The empty string means no color.
const (
	ColorNone   = ""
	ColorRed    = "red"
	ColorOrange = "orange"
	ColorYellow = "yellow"
	ColorGreen  = "green"
	ColorBlue   = "blue"
	ColorPurple = "purple"
)

// TodoColors lists the selectable colors in display order.
var TodoColors = []string{
	ColorNone, ColorRed, ColorOrange, ColorYellow,
	ColorGreen, ColorBlue, ColorPurple,
}
