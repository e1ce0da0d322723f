package api

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// NotificationService manages the user's notifications and their delivery
// preferences.
type NotificationService struct {
	client *Client
}

// Notification is one message addressed to the current user.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// Preferences control which notifications the backend sends.
type Preferences struct {
	EmailEnabled  bool `json:"email_enabled"`
	PriceAlerts   bool `json:"price_alerts"`
	MonthlyReport bool `json:"monthly_report"`
}

// List returns the user's notifications, optionally restricted to unread.
func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]Notification, error) {
	query := url.Values{}
	if unreadOnly {
		query.Set("unread", "true")
	}
	var out []Notification
	if err := s.client.get(ctx, apiPath("notifications"), query, &out); err != nil {
		return nil, errors.Wrap(err, "[NotificationService.List]")
	}
	return out, nil
}

// MarkRead marks a single notification as read.
func (s *NotificationService) MarkRead(ctx context.Context, id string) error {
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   apiPath("notifications", id, "read"),
		authed: true,
	}, nil)
	return errors.Wrap(err, "[NotificationService.MarkRead]")
}

// MarkAllRead marks every notification as read.
func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPost,
		path:   apiPath("notifications", "read-all"),
		authed: true,
	}, nil)
	return errors.Wrap(err, "[NotificationService.MarkAllRead]")
}

// GetPreferences returns the current delivery preferences.
func (s *NotificationService) GetPreferences(ctx context.Context) (Preferences, error) {
	var out Preferences
	if err := s.client.get(ctx, apiPath("notifications", "preferences"), nil, &out); err != nil {
		return Preferences{}, errors.Wrap(err, "[NotificationService.GetPreferences]")
	}
	return out, nil
}

// UpdatePreferences replaces the delivery preferences.
func (s *NotificationService) UpdatePreferences(ctx context.Context, prefs Preferences) error {
	err := s.client.do(ctx, requestSpec{
		method: http.MethodPut,
		path:   apiPath("notifications", "preferences"),
		body:   prefs,
		authed: true,
	}, nil)
	return errors.Wrap(err, "[NotificationService.UpdatePreferences]")
}
