package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// APIError is a structured non-2xx response. Message carries the server's
// message/error field when present, otherwise a stringified dump of the body
// (never the type's default formatting).
type APIError struct {
	Status  int
	Data    json.RawMessage
	Message string
}

func (e *APIError) Error() string {
	return e.Message
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{
		Status:  status,
		Message: fmt.Sprintf("API request failed with status %d", status),
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" {
		return apiErr
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		// Non-JSON body; keep the raw text as both data and message.
		apiErr.Data, _ = json.Marshal(trimmed)
		apiErr.Message = trimmed
		return apiErr
	}

	apiErr.Data = json.RawMessage(body)
	if msg, ok := parsed["message"].(string); ok && msg != "" {
		apiErr.Message = msg
	} else if msg, ok := parsed["error"].(string); ok && msg != "" {
		apiErr.Message = msg
	} else {
		apiErr.Message = trimmed
	}
	return apiErr
}

// As is a convenience wrapper over errors.As for *APIError extraction.
func As(err error, target **APIError) bool {
	return errors.As(err, target)
}

// IsStatus reports whether err is an APIError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// IsNotFound reports whether err is a 404 rejection or carries a
// "not in your cart" style message, which the cart treats as already-removed.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusNotFound ||
		strings.Contains(strings.ToLower(apiErr.Message), "not in your cart")
}
