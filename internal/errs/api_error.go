package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a server-reported failure. Message carries the server's text
// verbatim so the view can render it unchanged; the wrapped sentinel keeps
// errors.Is classification working.
type APIError struct {
	Status  int
	Message string
	kind    error

	// fromServer marks Message as text the server actually sent, as
	// opposed to the generic fallback for its status.
	fromServer bool
}

func (e *APIError) Error() string { return e.Message }

func (e *APIError) Unwrap() error { return e.kind }

// FromStatus builds an APIError for a non-2xx response. An empty server
// message falls back to a generic text for the mapped category.
func FromStatus(status int, message string) *APIError {
	var kind error
	var fallback string
	switch status {
	case http.StatusUnauthorized:
		kind, fallback = ErrUnauthenticated, "authentication required"
	case http.StatusForbidden:
		kind, fallback = ErrForbidden, "not allowed"
	case http.StatusNotFound:
		kind, fallback = ErrNotFound, "not found"
	default:
		kind, fallback = ErrTransport, fmt.Sprintf("server returned status %d", status)
	}
	if message == "" {
		return &APIError{Status: status, Message: fallback, kind: kind}
	}
	return &APIError{Status: status, Message: message, kind: kind, fromServer: true}
}

// Validation builds a client-side validation error that never reached the
// network.
func Validation(message string) error {
	return &APIError{Message: message, kind: ErrValidation}
}

// Unauthenticated builds an authentication failure carrying the given
// user-facing message.
func Unauthenticated(message string) error {
	return &APIError{Status: http.StatusUnauthorized, Message: message, kind: ErrUnauthenticated}
}

// Transport wraps a network-level failure under ErrTransport.
func Transport(err error) error {
	return fmt.Errorf("%w: %v", ErrTransport, err)
}

// ServerMessage returns the text the server actually sent with a non-2xx
// response, or "" when the response carried no message (or err is not a
// server response at all). Callers use it to decide whether their own
// fallback text applies.
func ServerMessage(err error) string {
	var api *APIError
	if errors.As(err, &api) && api.fromServer {
		return api.Message
	}
	return ""
}

// Message extracts the user-facing text from any error produced by this
// package; other errors render as-is.
func Message(err error) string {
	var api *APIError
	if errors.As(err, &api) {
		return api.Message
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
