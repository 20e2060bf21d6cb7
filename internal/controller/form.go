package controller

import (
	"strings"

	"github.com/nhle/todolist/internal/model"
)

// FormMode is the state of the todo form.
type FormMode int

const (
	FormClosed FormMode = iota
	FormCreate
	FormEdit
)

func (m FormMode) String() string {
	switch m {
	case FormCreate:
		return "create"
	case FormEdit:
		return "edit"
	default:
		return "closed"
	}
}

// Submission is what a submitted form asks the controller to do. An empty
// ID means create.
type Submission struct {
	ID    string
	Text  string
	Color string
}

// IsCreate reports whether the submission creates a new todo.
func (s Submission) IsCreate() bool { return s.ID == "" }

// TodoForm tracks the create/edit form. It never talks to the server;
// Submit hands a Submission to Controller.Save.
type TodoForm struct {
	mode    FormMode
	id      string
	draftID string

	Text  string
	Color string
}

// Mode returns the current state.
func (f *TodoForm) Mode() FormMode { return f.mode }

// IsOpen reports whether the form is shown.
func (f *TodoForm) IsOpen() bool { return f.mode != FormClosed }

// TodoID returns the id of the todo being edited, or the draft id of an
// unsaved one. Draft ids are local only.
func (f *TodoForm) TodoID() string {
	if f.mode == FormEdit {
		return f.id
	}
	return f.draftID
}

// OpenCreate opens an empty form for a new todo.
func (f *TodoForm) OpenCreate() {
	*f = TodoForm{
		mode:    FormCreate,
		draftID: model.NewDraftID(),
	}
}

// OpenEdit opens the form prefilled from todo.
func (f *TodoForm) OpenEdit(todo model.Todo) {
	*f = TodoForm{
		mode:  FormEdit,
		id:    todo.ID,
		Text:  todo.Text,
		Color: todo.Color,
	}
}

// Cancel closes the form without submitting.
func (f *TodoForm) Cancel() {
	*f = TodoForm{}
}

// Submit validates the form and closes it. Empty text keeps it open.
func (f *TodoForm) Submit() (Submission, error) {
	if f.mode == FormClosed {
		return Submission{}, &ValidationError{Field: "form", Message: "No form is open"}
	}
	text, err := validateText(f.Text)
	if err != nil {
		return Submission{}, err
	}
	sub := Submission{Text: text, Color: strings.TrimSpace(f.Color)}
	if f.mode == FormEdit {
		sub.ID = f.id
	}
	f.Cancel()
	return sub, nil
}
