// Package guard gates navigation on session state. Guards are pure
// predicates: they read a snapshot and return a decision, with no side
// effects, so callers can evaluate them on every render of a protected view.
package guard

import "github.com/investai/investai-go/session"

// Decision is the outcome of evaluating a guard.
type Decision int

const (
	// Allow lets the navigation proceed.
	Allow Decision = iota
	// RedirectLogin sends the visitor to the login entry point.
	RedirectLogin
	// RedirectHome sends an authenticated but unauthorised user to the
	// default landing page. Deliberately distinct from RedirectLogin:
	// "not allowed" is not "not logged in".
	RedirectHome
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect-login"
	case RedirectHome:
		return "redirect-home"
	}
	return "unknown"
}

// Private allows navigation only for authenticated sessions.
func Private(s session.Snapshot) Decision {
	if !s.Authenticated {
		return RedirectLogin
	}
	return Allow
}

// Admin allows navigation only for authenticated sessions whose user holds
// the admin role.
func Admin(s session.Snapshot) Decision {
	if !s.Authenticated {
		return RedirectLogin
	}
	if !s.User.IsAdmin() {
		return RedirectHome
	}
	return Allow
}
