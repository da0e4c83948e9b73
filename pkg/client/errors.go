package client

import (
	"errors"
	"fmt"
	"strings"
)

// AuthError reports a missing or rejected bearer token. Callers surface it as
// a forced re-authentication, never as a transient failure.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	if e.Reason == "" {
		return "auth: not authenticated"
	}
	return "auth: " + e.Reason
}

// NetworkError reports connectivity or server-side failure. State stays stale
// and visible; the failure is surfaced as a dismissible notification.
type NetworkError struct {
	Status        int
	Timeout       bool
	ServerMessage string
	Err           error
}

func (e *NetworkError) Error() string {
	switch {
	case e.Timeout:
		return "network: request timed out"
	case e.Status > 0 && e.ServerMessage != "":
		return fmt.Sprintf("network: status %d: %s", e.Status, e.ServerMessage)
	case e.Status > 0:
		return fmt.Sprintf("network: status %d", e.Status)
	case e.Err != nil:
		return "network: " + e.Err.Error()
	}
	return "network: request failed"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ValidationError carries field-scoped messages from a 4xx response (or from
// client-side validation). The form stays open and keeps its values.
type ValidationError struct {
	Message     string
	FieldErrors map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.FieldErrors) == 0 {
		if e.Message != "" {
			return "validation: " + e.Message
		}
		return "validation failed"
	}
	parts := make([]string, 0, len(e.FieldErrors))
	for field, msg := range e.FieldErrors {
		parts = append(parts, field+": "+msg)
	}
	return "validation: " + strings.Join(parts, "; ")
}

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var target *AuthError
	return errors.As(err, &target)
}

// IsTimeout reports whether err is a NetworkError caused by the client-side
// deadline.
func IsTimeout(err error) bool {
	var target *NetworkError
	return errors.As(err, &target) && target.Timeout
}
