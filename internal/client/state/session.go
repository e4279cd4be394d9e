package state

import (
	"sync"
	"time"

	"github.com/aussiebroadwan/bartab-sdk/pkg/jwtx"
)

// Session is the client-wide credential slot. The gateway and REST
// collaborators read the current token on each use, so a rotated token
// surfaced by the patch merger takes effect on the very next request.
type Session struct {
	mu     sync.RWMutex
	token  string
	claims *jwtx.Claims // nil when the token is opaque
}

func NewSession(token string) *Session {
	s := &Session{}
	s.SetToken(token)
	return s
}

// SetToken replaces the stored credential. Empty tokens are ignored so a
// merge side effect can be forwarded unconditionally. Claims are decoded
// opportunistically; opaque tokens simply carry no claims.
func (s *Session) SetToken(token string) {
	if token == "" {
		return
	}

	claims, err := jwtx.ParseUnverified(token)
	if err != nil {
		claims = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.claims = claims
}

// Token returns the current credential.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Claims returns the decoded token claims, or nil for opaque tokens.
func (s *Session) Claims() *jwtx.Claims {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims
}

// ExpiresAt returns the token expiry when the credential is a JWT carrying
// one.
func (s *Session) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims == nil {
		return time.Time{}, false
	}
	return s.claims.Expiry()
}
