package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpiry peeks at the expiry claim of a JWT access token without
// verifying its signature. The client holds no signing keys; the token is
// opaque to it except for this scheduling hint, and the server remains the
// authority on validity. Returns false for non-JWT tokens or tokens without
// an expiry claim.
func AccessTokenExpiry(raw string) (time.Time, bool) {
	claims := jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(raw, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
