package huumapi

import (
	"errors"
	"fmt"
)

// previewLimit bounds the response-body excerpt carried by DecodeError so
// error messages stay small even when the server returns an HTML error page.
const previewLimit = 200

// AuthError reports rejected credentials or an explicit server-side
// authentication failure. It is terminal: never retried, and the login
// fallback chain stops as soon as one is raised.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// APIError reports a semantic failure: the server answered but said no
// (success=false), returned a malformed success payload, or a transient
// failure survived the full retry budget.
type APIError struct {
	Message string
	Cause   error
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// DecodeError reports a response body that could not be unwrapped or parsed.
// It carries the HTTP status and a bounded preview of the original body.
type DecodeError struct {
	HTTPStatus int
	Preview    string
	Cause      error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response (HTTP %d): %v; body preview: %q", e.HTTPStatus, e.Cause, e.Preview)
}

func (e *DecodeError) Unwrap() error {
	return e.Cause
}

// DeviceOfflineError reports an attempt to control a device that is not
// reachable.
type DeviceOfflineError struct {
	DeviceID string
	Name     string
}

func (e *DeviceOfflineError) Error() string {
	return fmt.Sprintf("device %q is offline", e.displayName())
}

func (e *DeviceOfflineError) displayName() string {
	if e.Name != "" {
		return e.Name
	}
	return e.DeviceID
}

// SessionActiveError reports an attempt to start a heating session on a
// device that already has one running.
type SessionActiveError struct {
	DeviceID string
	Name     string
}

func (e *SessionActiveError) Error() string {
	name := e.Name
	if name == "" {
		name = e.DeviceID
	}
	return fmt.Sprintf("session already active on %q", name)
}

// retryable reports whether err is worth another attempt. Transport-level
// failures and decode failures are transient; AuthError and APIError are
// semantic and surfaced immediately.
func retryable(err error) bool {
	var authErr *AuthError
	var apiErr *APIError
	if errors.As(err, &authErr) || errors.As(err, &apiErr) {
		return false
	}
	return true
}

func bodyPreview(body []byte) string {
	if len(body) > previewLimit {
		body = body[:previewLimit]
	}
	return string(body)
}
