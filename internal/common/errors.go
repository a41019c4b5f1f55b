// Package common defines shared sentinel errors used across the certapply
// client. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// ErrAuthentication means the presented credentials were rejected.
	// Recoverable: the user may retry with different credentials.
	ErrAuthentication = errors.New("authentication failed")

	// ErrAuthorization means the session is valid but the principal's role
	// does not permit the operation.
	ErrAuthorization = errors.New("insufficient role")

	// ErrValidation marks malformed input caught before any remote call.
	ErrValidation = errors.New("validation error")

	// ErrInvalidTransition marks a lifecycle operation attempted from a
	// state that forbids it. Never swallowed: it indicates a caller bug.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrForbidden marks an edit attempted on a terminal application.
	ErrForbidden = errors.New("application is no longer editable")

	// ErrNotFound means the referenced application, document or user
	// does not exist on the server.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is a transient network failure. Nothing retries it
	// automatically except the notification poller's next scheduled tick.
	ErrUnavailable = errors.New("server unavailable")
)
