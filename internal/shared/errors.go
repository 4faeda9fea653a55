package shared

import "errors"

var (
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionInvalid indicates the upstream rejected the bearer token.
	// Terminal for the session: the principal must be cleared and the
	// caller sent to the login view, never retried.
	ErrSessionInvalid = errors.New("session invalid")
	// ErrCSRFTokenMissing occurs when CSRF token missing.
	ErrCSRFTokenMissing = errors.New("csrf token missing")
	// ErrCSRFTokenMismatch occurs when CSRF tokens do not match.
	ErrCSRFTokenMismatch = errors.New("csrf token mismatch")
)
