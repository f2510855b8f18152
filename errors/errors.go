package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error represents a structured client error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is lets sentinel comparisons survive wrapping via New(..., sentinel)
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// JSON returns the error as a JSON string
func (e *Error) JSON() string {
	b, _ := json.Marshal(e)
	return string(b)
}

// New creates a new Error
func New(code int, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error types
var (
	ErrBadRequest     = New(http.StatusBadRequest, "Bad request", nil)
	ErrUnauthorized   = New(http.StatusUnauthorized, "Unauthorized", nil)
	ErrForbidden      = New(http.StatusForbidden, "Forbidden", nil)
	ErrNotFound       = New(http.StatusNotFound, "Not found", nil)
	ErrInternalServer = New(http.StatusInternalServerError, "Internal server error", nil)
)

// Sync-layer error types. AuthRequired is a signal callers branch on before
// any network call is attempted; NetworkUnavailable covers transport-level
// failures (connection refused, DNS) as opposed to server rejections.
var (
	ErrAuthRequired       = New(http.StatusUnauthorized, "Authentication required", nil)
	ErrNetworkUnavailable = New(http.StatusServiceUnavailable, "Unable to connect to the server. Please try again later.", nil)
	ErrValidation         = New(http.StatusBadRequest, "Validation error", nil)
	ErrInvalidToken       = New(http.StatusUnauthorized, "Invalid token", nil)
)
