package session

import "errors"

var (
	// ErrSessionExpired is the reason reported to subscribers when the expiry check logs the user out.
	ErrSessionExpired = errors.New("session.expired")

	// ErrInvalidToken is returned when token claims are missing or malformed.
	ErrInvalidToken = errors.New("session.invalid_token")

	// ErrStore is returned when the token store cannot persist a login.
	ErrStore = errors.New("session.store_failed")

	// ErrNoTransition is returned for an event that is not allowed in the current state.
	ErrNoTransition = errors.New("session.no_transition")
)
