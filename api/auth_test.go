package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/investai/investai-go/api"
	"github.com/investai/investai-go/users"
)

func newAuthTestClient(t *testing.T, srv *httptest.Server) *api.Client {
	t.Helper()
	c, err := api.NewClient(srv.URL, api.WithConfig(api.Config{
		Timeout:      5 * time.Second,
		MaxRetries:   0,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: time.Millisecond,
	}))
	require.NoError(t, err)
	return c
}

func TestAuthService_Login(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "test@test.com", req["email"])
		require.Equal(t, "password", req["password"])

		w.Write([]byte(`{"data":{"access_token":"access123","refresh_token":"refresh123"}}`))
	}))
	defer srv.Close()

	pair, err := newAuthTestClient(t, srv).Auth().Login(context.Background(), "test@test.com", "password")

	require.NoError(t, err)
	require.Equal(t, "access123", pair.AccessToken)
	require.Equal(t, "refresh123", pair.RefreshToken)
}

// TestAuthService_LoginErrorKeepsBackendMessage: the session store surfaces
// err.Error() verbatim on the login form, so the service must not wrap the
// backend's message.
func TestAuthService_LoginErrorKeepsBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"code":"INVALID_CREDENTIALS","message":"Invalid credentials"}}`))
	}))
	defer srv.Close()

	_, err := newAuthTestClient(t, srv).Auth().Login(context.Background(), "test@test.com", "nope")

	require.Error(t, err)
	require.Equal(t, "Invalid credentials", err.Error())
}

// TestAuthService_CurrentUserMapsProfile checks the snake_case wire profile
// lands in the client's user shape.
func TestAuthService_CurrentUserMapsProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/me", r.URL.Path)
		require.Equal(t, "Bearer access123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"data":{
			"id":"1",
			"email":"test@test.com",
			"role":"admin",
			"first_name":"Jane",
			"last_name":"Doe",
			"mfa_enabled":true
		}}`))
	}))
	defer srv.Close()

	user, err := newAuthTestClient(t, srv).Auth().CurrentUser(context.Background(), "access123")

	require.NoError(t, err)
	require.Equal(t, "1", user.ID)
	require.Equal(t, "test@test.com", user.Email)
	require.Equal(t, users.RoleAdmin, user.Role)
	require.Equal(t, "Jane", user.FirstName)
	require.Equal(t, "Doe", user.LastName)
	require.True(t, user.MFAEnabled)
	require.True(t, user.IsAdmin())
}

func TestAuthService_CurrentUserUnknownRoleDegradesToUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"1","email":"test@test.com","role":"superuser"}}`))
	}))
	defer srv.Close()

	user, err := newAuthTestClient(t, srv).Auth().CurrentUser(context.Background(), "access123")

	require.NoError(t, err)
	require.Equal(t, users.RoleUser, user.Role)
}

func TestAuthService_Refresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/refresh", r.URL.Path)
		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Equal(t, "refresh123", req["refresh_token"])
		w.Write([]byte(`{"data":{"access_token":"access456","refresh_token":"refresh456"}}`))
	}))
	defer srv.Close()

	pair, err := newAuthTestClient(t, srv).Auth().Refresh(context.Background(), "refresh123")

	require.NoError(t, err)
	require.Equal(t, "access456", pair.AccessToken)
	require.Equal(t, "refresh456", pair.RefreshToken)
}

func TestAuthService_VerifyEmailMintsSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/verify-email", r.URL.Path)
		w.Write([]byte(`{"data":{"access_token":"verified-access","refresh_token":"verified-refresh"}}`))
	}))
	defer srv.Close()

	pair, err := newAuthTestClient(t, srv).Auth().VerifyEmail(context.Background(), "verify-token")

	require.NoError(t, err)
	require.Equal(t, "verified-access", pair.AccessToken)
}
