package api

import (
	"errors"
	"fmt"
)

// Fallback messages used when the server does not supply one.
const (
	msgRequestFailed = "Request failed"
	msgNetworkError  = "Network error"
	msgBadResponse   = "Unexpected response from server"
)

// RequestError is returned when the server answers with a non-2xx status.
type RequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.Status, e.Message)
}

// NetworkError is returned when no usable response was received.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Method, e.Path, msgNetworkError, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError is returned when a successful response body does not match
// the expected shape.
type DecodeError struct {
	Method string
	Path   string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unmarshaling response from %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// UserMessage hides the decoder detail from the user.
func (e *DecodeError) UserMessage() string { return msgBadResponse }

// IsRequestError reports whether err (or any error in its chain) is a
// RequestError, optionally with the given status (0 matches any).
func IsRequestError(err error, status int) bool {
	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		return false
	}
	return status == 0 || reqErr.Status == status
}

// IsNetworkError reports whether err (or any error in its chain) is a
// NetworkError.
func IsNetworkError(err error) bool {
	var netErr *NetworkError
	return errors.As(err, &netErr)
}

// Message returns the text that should be shown to the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr.Message
	}
	if IsNetworkError(err) {
		return msgNetworkError
	}
	var msg interface{ UserMessage() string }
	if errors.As(err, &msg) {
		return msg.UserMessage()
	}
	return err.Error()
}
