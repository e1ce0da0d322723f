package api

import (
	"context"
	"net/http"

	"github.com/pkg/errors"

	"github.com/investai/investai-go/session"
	"github.com/investai/investai-go/users"
)

var _ session.AuthAPI = (*AuthService)(nil)

// AuthService talks to the backend's authentication endpoints. It implements
// session.AuthAPI, so a session.Store can be wired directly on top of it.
// None of its calls go through the 401 interceptor: refreshing in reaction to
// a failed login or refresh would recurse.
type AuthService struct {
	client *Client
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type verifyEmailRequest struct {
	Token string `json:"token"`
}

// tokensDTO is the wire shape of a token pair.
type tokensDTO struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

func (d tokensDTO) pair() session.TokenPair {
	return session.TokenPair{AccessToken: d.AccessToken, RefreshToken: d.RefreshToken}
}

// profileDTO is the wire shape of the current-user profile. Field names
// follow the backend's snake_case convention and are mapped into the client's
// users.User shape.
type profileDTO struct {
	ID         string `json:"id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	MFAEnabled bool   `json:"mfa_enabled"`
}

func (d profileDTO) user() *users.User {
	return &users.User{
		ID:         d.ID,
		Email:      d.Email,
		Role:       users.ParseRole(d.Role),
		FirstName:  d.FirstName,
		LastName:   d.LastName,
		MFAEnabled: d.MFAEnabled,
	}
}

// Login exchanges credentials for a token pair.
func (s *AuthService) Login(ctx context.Context, email, password string) (session.TokenPair, error) {
	var dto tokensDTO
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   apiPath("auth", "login"),
		body:   loginRequest{Email: email, Password: password},
	}, &dto)
	if err != nil {
		return session.TokenPair{}, loginError(err)
	}
	return dto.pair(), nil
}

// Refresh rotates the token pair.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (session.TokenPair, error) {
	var dto tokensDTO
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   apiPath("auth", "refresh"),
		body:   refreshRequest{RefreshToken: refreshToken},
	}, &dto)
	if err != nil {
		return session.TokenPair{}, errors.Wrap(err, "[AuthService.Refresh]")
	}
	return dto.pair(), nil
}

// CurrentUser fetches the profile authorized by the given access token. The
// token is passed explicitly rather than taken from the provider so the
// session store can validate a pair it has not committed to yet.
func (s *AuthService) CurrentUser(ctx context.Context, accessToken string) (*users.User, error) {
	var dto profileDTO
	err := s.client.do(ctx, requestSpec{
		method:      http.MethodGet,
		path:        apiPath("auth", "me"),
		bearerToken: accessToken,
	}, &dto)
	if err != nil {
		return nil, errors.Wrap(err, "[AuthService.CurrentUser]")
	}
	return dto.user(), nil
}

// VerifyEmail confirms an email-verification token. When the backend mints a
// session for the freshly verified account, the returned pair is non-zero and
// the caller typically installs it with session.Store.SetTokens.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (session.TokenPair, error) {
	var dto tokensDTO
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   apiPath("auth", "verify-email"),
		body:   verifyEmailRequest{Token: token},
	}, &dto)
	if err != nil {
		return session.TokenPair{}, errors.Wrap(err, "[AuthService.VerifyEmail]")
	}
	return dto.pair(), nil
}

// loginError keeps the backend's message intact: the session store records
// err.Error() verbatim for the login form, so no wrapping prefix here.
func loginError(err error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return errors.New(apiErr.Message)
	}
	return err
}
