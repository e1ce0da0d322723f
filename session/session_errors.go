package session

import "errors"

var (
	// ErrNotAuthenticated is returned when a credential is requested from an
	// anonymous session.
	ErrNotAuthenticated = errors.New("session not authenticated")
	// ErrSuperseded is returned when an operation's result was discarded
	// because a later command (logout, second login) took over the session.
	ErrSuperseded = errors.New("session state superseded")
)
