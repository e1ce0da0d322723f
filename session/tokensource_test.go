package session_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/investai/investai-go/session"
	"github.com/investai/investai-go/session/apifake"
)

// signedTestToken mints an HS256 token with the given expiry. The store never
// verifies signatures, any well-formed JWT will do.
func signedTestToken(t *testing.T, expiry time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(expiry),
	})
	raw, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return raw
}

func TestTokenSource_AnonymousSessionErrors(t *testing.T) {
	store, err := session.NewStore(apifake.NewFakeAuthAPI())
	require.NoError(t, err)

	_, err = store.TokenSource().Token()
	require.ErrorIs(t, err, session.ErrNotAuthenticated)
}

func TestTokenSource_ReflectsCurrentTokens(t *testing.T) {
	store, err := session.NewStore(apifake.NewFakeAuthAPI())
	require.NoError(t, err)

	expiry := time.Now().Add(15 * time.Minute).Truncate(time.Second)
	raw := signedTestToken(t, expiry)
	store.SetTokens(raw, "refresh123")

	tok, err := store.TokenSource().Token()
	require.NoError(t, err)
	require.Equal(t, raw, tok.AccessToken)
	require.Equal(t, "refresh123", tok.RefreshToken)
	require.Equal(t, "Bearer", tok.TokenType)
	require.True(t, tok.Expiry.Equal(expiry))
}

func TestAccessTokenExpiry_OpaqueToken(t *testing.T) {
	_, ok := session.AccessTokenExpiry("not-a-jwt")
	require.False(t, ok)
}

func TestAccessTokenExpiry_ExpiredTokenStillParses(t *testing.T) {
	raw := signedTestToken(t, time.Now().Add(-time.Hour))

	exp, ok := session.AccessTokenExpiry(raw)
	require.True(t, ok)
	require.True(t, exp.Before(time.Now()))
}
