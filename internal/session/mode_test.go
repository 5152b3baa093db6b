package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{Subject: "user-1", ExpiresAt: jwt.NewNumericDate(exp)}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return tok
}

func TestFromTokenEmptyIsGuest(t *testing.T) {
	for _, tok := range []string{"", "   ", "Bearer "} {
		m, err := FromToken(tok)
		require.NoError(t, err)
		assert.True(t, IsGuest(m), "token %q", tok)
		assert.Equal(t, "", Token(m))
		assert.Equal(t, "guest", m.String())
	}
}

func TestFromTokenOpaque(t *testing.T) {
	m, err := FromToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, Authenticated{Token: "abc123"}, m)
	assert.Equal(t, "abc123", Token(m))
}

func TestFromTokenJWT(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	valid := signed(t, now.Add(time.Hour))
	m, err := fromToken("Bearer "+valid, now)
	require.NoError(t, err)
	assert.Equal(t, valid, Token(m))
	assert.False(t, IsGuest(m))

	expired := signed(t, now.Add(-time.Minute))
	_, err = fromToken(expired, now)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestFromTokenDottedButNotJWT(t *testing.T) {
	m, err := FromToken("a.b.c")
	require.NoError(t, err)
	assert.Equal(t, "a.b.c", Token(m))
}
