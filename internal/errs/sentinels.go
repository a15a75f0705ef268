// Package errs contains sentinel errors used across layers for stable error mapping.
package errs

import "errors"

// Common sentinels across client layers. Callers classify with errors.Is.
var (
	// ErrValidation indicates a required field was missing or malformed
	// before any network call was attempted.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated indicates the server rejected the credentials or
	// the session token (401).
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden indicates the server denied a mutation on a listing the
	// current user does not own (403).
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound indicates the requested listing does not exist.
	ErrNotFound = errors.New("not found")

	// ErrTransport indicates a network failure or a malformed response.
	ErrTransport = errors.New("transport error")
)
