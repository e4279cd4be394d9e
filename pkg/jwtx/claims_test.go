package jwtx

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims Claims) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestParseUnverified(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	raw := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-123",
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		SID:      "session-abc",
		Username: "alice",
	})

	claims, err := ParseUnverified(raw)
	require.NoError(t, err)
	require.Equal(t, "user-123", claims.UserID())
	require.Equal(t, "session-abc", claims.SID)
	require.Equal(t, "alice", claims.Username)

	got, ok := claims.Expiry()
	require.True(t, ok)
	require.WithinDuration(t, exp, got, time.Second)
}

func TestParseUnverifiedOpaqueToken(t *testing.T) {
	t.Parallel()

	_, err := ParseUnverified("mfa.abcdef0123456789")
	require.ErrorIs(t, err, ErrNotJWT)
}

func TestExpiryAbsent(t *testing.T) {
	t.Parallel()

	raw := signedToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
	})

	claims, err := ParseUnverified(raw)
	require.NoError(t, err)

	_, ok := claims.Expiry()
	require.False(t, ok)
}
