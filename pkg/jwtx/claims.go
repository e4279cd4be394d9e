// Package jwtx holds the client-side view of the platform's access tokens.
// The SDK never signs or verifies tokens, it only introspects the bearer
// token it was handed so it can surface the subject, session id and expiry.
package jwtx

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNotJWT reports a token that is not a decodable JWT. Opaque tokens are
// still perfectly valid credentials, callers should treat this as "no claims
// available" rather than a failure.
var ErrNotJWT = errors.New("jwtx: token is not a decodable jwt")

// Claims are the access-token claims the platform issues. Verification is the
// server's job; the client decodes them purely for introspection.
type Claims struct {
	jwt.RegisteredClaims

	// Session ID that persists across token refreshes.
	SID string `json:"sid,omitempty"`

	// Permission Scopes "chat:read, chat:write"
	Scopes []string `json:"scopes,omitempty"`

	// Username for the authenticated user
	Username string `json:"username,omitempty"`
}

// UserID returns the token subject.
func (c *Claims) UserID() string {
	return c.Subject
}

// Expiry returns the expiry time and whether the token carries one.
func (c *Claims) Expiry() (time.Time, bool) {
	if c.ExpiresAt == nil {
		return time.Time{}, false
	}
	return c.ExpiresAt.Time, true
}

// ParseUnverified decodes token without checking its signature. Use it only
// for local introspection of a credential the client already trusts.
func ParseUnverified(token string) (*Claims, error) {
	claims := &Claims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, ErrNotJWT
	}
	return claims, nil
}
