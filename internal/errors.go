package internal

import (
	"errors"
	"net/http"
)

// HTTPError represents an HTTP error with all data needed for rendering.
type HTTPError struct {
	// Err is the underlying error (for logging, not exposed to users).
	Err error

	// Message is the user-facing error message.
	Message string

	// Code is the HTTP status code (e.g., 404, 500).
	Code int
}

func (e *HTTPError) Error() string {
	return e.Message
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}

func (e *HTTPError) StatusCode() int {
	return e.Code
}

func (e *HTTPError) StatusText() string {
	return http.StatusText(e.Code)
}

// NewHTTPError creates an HTTPError with the given status code and message.
func NewHTTPError(code int, message string) *HTTPError {
	return &HTTPError{Code: code, Message: message}
}

var (
	ErrNotFound         = NewHTTPError(http.StatusNotFound, "not found")
	ErrMethodNotAllowed = NewHTTPError(http.StatusMethodNotAllowed, "method not allowed")
	ErrUnknownModule    = NewHTTPError(http.StatusNotFound, "unknown module")
)

// AsHTTPError returns err as an HTTPError. Errors that are not HTTPErrors
// become 500 responses with a generic message.
func AsHTTPError(err error) *HTTPError {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}
	return &HTTPError{
		Err:     err,
		Code:    http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	}
}
