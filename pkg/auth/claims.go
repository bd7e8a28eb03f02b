package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionTokenClaims is the signed payload carried by the session cookie.
// The cookie only identifies the session; all mutable state (user, cart,
// payment info, flash) lives in Redis under the session ID.
type SessionTokenClaims struct {
	SessionID string `json:"sid"`
	jwt.RegisteredClaims
}
