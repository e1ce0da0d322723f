package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/investai/investai-go/users"
)

// AdminService manages other accounts. Every endpoint requires the admin
// role; the backend enforces it, the guard package mirrors it client-side.
type AdminService struct {
	client *Client
}

// AdminUser is the administrative view of an account.
type AdminUser struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       users.Role `json:"role"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	MFAEnabled bool       `json:"mfa_enabled"`
	Blocked    bool       `json:"blocked"`
	Verified   bool       `json:"verified"`
	CreatedAt  time.Time  `json:"created_at"`
}

// UserPage is one page of accounts.
type UserPage struct {
	Items   []AdminUser `json:"items"`
	Total   int         `json:"total"`
	Page    int         `json:"page"`
	PerPage int         `json:"per_page"`
}

// ListUsers returns a page of accounts.
func (s *AdminService) ListUsers(ctx context.Context, page, perPage int) (UserPage, error) {
	query := url.Values{}
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		query.Set("per_page", strconv.Itoa(perPage))
	}
	var out UserPage
	if err := s.client.get(ctx, apiPath("admin", "users"), query, &out); err != nil {
		return UserPage{}, errors.Wrap(err, "[AdminService.ListUsers]")
	}
	return out, nil
}

// SetRole changes an account's role.
func (s *AdminService) SetRole(ctx context.Context, userID string, role users.Role) error {
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   apiPath("admin", "users", userID, "role"),
		body:   map[string]users.Role{"role": role},
		authed: true,
	}, nil)
	return errors.Wrap(err, "[AdminService.SetRole]")
}

// SetBlocked blocks or unblocks an account.
func (s *AdminService) SetBlocked(ctx context.Context, userID string, blocked bool) error {
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   apiPath("admin", "users", userID, "blocked"),
		body:   map[string]bool{"blocked": blocked},
		authed: true,
	}, nil)
	return errors.Wrap(err, "[AdminService.SetBlocked]")
}
