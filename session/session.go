// Package session owns the client-side authentication state for an InvestAI
// client: the token pair, the derived user profile and the authenticated flag.
// All mutation funnels through the Store's commands; every operation that
// cannot establish a valid session degrades to the unauthenticated zero state
// rather than a partially-authenticated one.
package session

import (
	"context"

	"github.com/investai/investai-go/users"
)

// TokenPair is the access/refresh credential pair issued by the backend.
// The refresh token is single-use: each refresh rotates the whole pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// IsZero reports whether neither token is set.
func (p TokenPair) IsZero() bool {
	return p.AccessToken == "" && p.RefreshToken == ""
}

// AuthAPI is the external authentication collaborator consumed by the Store.
// The api package provides the production implementation; apifake provides a
// configurable in-memory one for tests.
type AuthAPI interface {
	// Login exchanges credentials for a token pair.
	Login(ctx context.Context, email, password string) (TokenPair, error)
	// Refresh mints a new token pair from a refresh token.
	Refresh(ctx context.Context, refreshToken string) (TokenPair, error)
	// CurrentUser fetches the profile authorized by the given access token.
	CurrentUser(ctx context.Context, accessToken string) (*users.User, error)
	// VerifyEmail confirms an email-verification token. The backend may
	// return a token pair so verification can mint a session directly.
	VerifyEmail(ctx context.Context, token string) (TokenPair, error)
}

// TokenStore persists the token pair so a session survives client restarts.
// Implementations hold bearer credentials at rest and should encrypt them
// (see the tokenstore package).
type TokenStore interface {
	Save(pair TokenPair) error
	// Load returns the stored pair and whether one was present.
	Load() (TokenPair, bool, error)
	Clear() error
}

// Snapshot is a read-only copy of the session state at a point in time.
type Snapshot struct {
	AccessToken   string
	RefreshToken  string
	User          *users.User
	Authenticated bool
	Loading       bool
	Err           string // last operation's failure message, empty when none
}
