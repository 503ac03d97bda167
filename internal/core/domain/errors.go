package domain

import "errors"

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSessionExpired is returned when a session token is past its expiry.
	ErrSessionExpired = errors.New("session expired")

	// ErrForbidden is returned when the caller lacks the role an operation
	// requires on a trip.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidWaypointRef is returned for a malformed or unrecognized
	// waypoint identifier.
	ErrInvalidWaypointRef = errors.New("invalid waypoint reference")

	// ErrStopNotFound is returned when a stop-<n> identifier references a
	// stop absent from the route's stop list.
	ErrStopNotFound = errors.New("stop not found in route")
)
