// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	// ErrNotAuthenticated is returned when an operation requires a logged-in
	// session but no session cookie is present.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNoSessionID is returned when a login response reports success but
	// carries no session cookie. The session is unusable; callers must log in
	// again.
	ErrNoSessionID = errors.New("no session id cookie in login response")

	// ErrMissingChallengeCredential is returned when the server requires a
	// one-time password but neither a TOTP secret nor a code was supplied.
	ErrMissingChallengeCredential = errors.New("account requires a one-time password but no TOTP secret or code was provided")

	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrConfigNotLoaded is returned when an account-scoped operation runs
	// before GetConfig has populated the session.
	ErrConfigNotLoaded = errors.New("session config not loaded")

	// ErrClientInfoNotLoaded is returned when an account-scoped operation runs
	// before GetClientInfo has populated the session.
	ErrClientInfoNotLoaded = errors.New("client info not loaded")

	// ErrInvalidSecret is returned for a TOTP secret that is not valid base32.
	ErrInvalidSecret = errors.New("invalid TOTP secret")

	ErrUnknownSideCode = errors.New("unknown buy/sell code")

	// ErrNotImplemented marks endpoints the upstream API exposes but whose
	// request/response shape is unspecified here.
	ErrNotImplemented = errors.New("not implemented")
)

// TransportError represents a network or connection failure while talking to
// the API. It is never retried internally.
type TransportError struct {
	Op  string
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error [%s] %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError creates a new TransportError.
func NewTransportError(op, url string, err error) *TransportError {
	return &TransportError{Op: op, URL: url, Err: err}
}

// APIStatusError represents a non-success status from an otherwise well-formed
// request. StatusCode is the HTTP status; Status and StatusText carry the
// server-reported error payload when one was present.
type APIStatusError struct {
	Op         string
	StatusCode int
	Status     int
	StatusText string
	Body       string
}

func (e *APIStatusError) Error() string {
	if e.StatusText != "" {
		return fmt.Sprintf("api error [%s]: HTTP %d, status %d: %s", e.Op, e.StatusCode, e.Status, e.StatusText)
	}
	return fmt.Sprintf("api error [%s]: HTTP %d: %s", e.Op, e.StatusCode, e.Body)
}

// ResolutionError marks a product id that could not be resolved in a batch.
// It is attached to the failing position and does not abort sibling
// resolutions.
type ResolutionError struct {
	ProductID string
	Position  int
	Err       error
}

func (e *ResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("product %s (position %d) could not be resolved: %v", e.ProductID, e.Position, e.Err)
	}
	return fmt.Sprintf("product %s (position %d) could not be resolved", e.ProductID, e.Position)
}

func (e *ResolutionError) Unwrap() error {
	return e.Err
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
