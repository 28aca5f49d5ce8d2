// Package lostfound is the client for the remote lost-and-found service.
// All persistent item, claim, and user state lives behind that service; this
// package only translates local intents into its fixed REST contract.
package lostfound

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates an item ID resolved to neither variant.
var ErrNotFound = errors.New("item not found")

// AuthError reports a rejected login or registration, or an operation that
// required an authenticated user when none was present.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

// ErrNotAuthenticated is returned before any request is sent when an
// operation needs a caller identity and none is available.
var ErrNotAuthenticated = &AuthError{Message: "not authenticated"}

// RequestError is a failed request: either a non-2xx response (Status set,
// Message carrying the server-provided message when present) or a
// network-level failure (Status zero).
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Status != 0 {
		return fmt.Sprintf("request failed with status %d", e.Status)
	}
	return "request failed"
}

// ValidationError reports a client-side precondition failure, detected
// before any network round trip is made.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }
