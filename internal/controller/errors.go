package controller

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when an action is attempted while another request
// is still outstanding.
var ErrBusy = errors.New("another request is still in progress")

// ValidationError reports input rejected before any request is sent.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// UserMessage returns the prompt shown to the user.
func (e *ValidationError) UserMessage() string {
	return e.Message
}

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
