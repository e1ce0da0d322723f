// Package apifake provides an in-memory, configurable stand-in for the
// session.AuthAPI collaborator, for use in tests.
package apifake

import (
	"context"
	"sync"

	"github.com/investai/investai-go/session"
	"github.com/investai/investai-go/users"
)

var _ session.AuthAPI = (*FakeAuthAPI)(nil)

// FakeAuthAPI answers auth calls from configured fields, or from the
// corresponding hook function when one is set. Hooks make it possible to
// interleave store commands with an in-flight call (e.g. logging out while a
// login round trip is pending).
type FakeAuthAPI struct {
	lock sync.Mutex

	LoginPair session.TokenPair
	LoginErr  error
	LoginFunc func(ctx context.Context, email, password string) (session.TokenPair, error)

	RefreshPair session.TokenPair
	RefreshErr  error
	RefreshFunc func(ctx context.Context, refreshToken string) (session.TokenPair, error)

	User           *users.User
	CurrentUserErr error
	CurrentUserFunc func(ctx context.Context, accessToken string) (*users.User, error)

	VerifyPair session.TokenPair
	VerifyErr  error

	loginCalls       int
	refreshCalls     int
	currentUserCalls int
	verifyCalls      int

	lastLoginEmail   string
	lastRefreshToken string
	lastAccessToken  string
}

func NewFakeAuthAPI() *FakeAuthAPI {
	return &FakeAuthAPI{}
}

func (f *FakeAuthAPI) Login(ctx context.Context, email, password string) (session.TokenPair, error) {
	f.lock.Lock()
	f.loginCalls++
	f.lastLoginEmail = email
	fn := f.LoginFunc
	pair, err := f.LoginPair, f.LoginErr
	f.lock.Unlock()

	if fn != nil {
		return fn(ctx, email, password)
	}
	return pair, err
}

func (f *FakeAuthAPI) Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	f.lock.Lock()
	f.refreshCalls++
	f.lastRefreshToken = refreshToken
	fn := f.RefreshFunc
	pair, err := f.RefreshPair, f.RefreshErr
	f.lock.Unlock()

	if fn != nil {
		return fn(ctx, refreshToken)
	}
	return pair, err
}

func (f *FakeAuthAPI) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	f.lock.Lock()
	f.currentUserCalls++
	f.lastAccessToken = accessToken
	fn := f.CurrentUserFunc
	user, err := f.User, f.CurrentUserErr
	f.lock.Unlock()

	if fn != nil {
		return fn(ctx, accessToken)
	}
	return user, err
}

func (f *FakeAuthAPI) VerifyEmail(ctx context.Context, token string) (session.TokenPair, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.verifyCalls++
	return f.VerifyPair, f.VerifyErr
}

func (f *FakeAuthAPI) LoginCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.loginCalls
}

func (f *FakeAuthAPI) RefreshCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.refreshCalls
}

func (f *FakeAuthAPI) CurrentUserCalls() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.currentUserCalls
}

func (f *FakeAuthAPI) LastRefreshToken() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.lastRefreshToken
}

func (f *FakeAuthAPI) LastAccessToken() string {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.lastAccessToken
}
