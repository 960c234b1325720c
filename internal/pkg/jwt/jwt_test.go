package jwt

import (
	"context"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	s, err := NewJWTService("test-secret", "15m", "24h", true, nil)
	require.NoError(t, err)
	return s
}

func TestNewJWTService_InvalidDuration(t *testing.T) {
	_, err := NewJWTService("test-secret", "forever", "24h", false, nil)
	assert.Error(t, err)
}

func TestJWTService_AccessToken(t *testing.T) {
	s := newTestService(t)

	token, expiresAt, err := s.GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)
	assert.InDelta(t, time.Now().Add(15*time.Minute).Unix(), expiresAt, 5)

	parsed, err := jwtauth.VerifyToken(s.JWTAuth(), token)
	require.NoError(t, err)
	claims, err := parsed.AsMap(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims["user_id"])
	assert.Equal(t, TypeAccess, claims["type"])
	assert.NotEmpty(t, claims["jti"])

	other, _, err := s.GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, token, other, "every token carries its own jti")
}

func TestJWTService_SSEToken(t *testing.T) {
	s := newTestService(t)

	token, expiresIn, err := s.GenerateSSEToken("user-1")
	require.NoError(t, err)
	assert.Equal(t, 300, expiresIn)

	userID, err := s.ValidateSSEToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)

	access, _, err := s.GenerateAccessToken("user-1", "user@example.com")
	require.NoError(t, err)
	_, err = s.ValidateSSEToken(access)
	assert.Error(t, err, "access tokens cannot open a stream")

	_, err = s.ValidateSSEToken("garbage")
	assert.Error(t, err)
}

func TestJWTService_RefreshTokenCookie(t *testing.T) {
	s := newTestService(t)

	cookie := s.RefreshTokenCookie("token", time.Now().Add(time.Hour).Unix())
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)

	assert.Equal(t, -1, s.ClearRefreshTokenCookie().MaxAge)
}

func TestJWTService_Revocation(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	revoked, err := s.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.RevokeToken(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err = s.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	// Tokens without a jti cannot be revoked individually
	require.NoError(t, s.RevokeToken(ctx, "", time.Now().Add(time.Minute)))
	revoked, err = s.IsTokenRevoked(ctx, "")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryRevocationStore_Prune(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRevocationStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Revoke(ctx, "expired", now.Add(-time.Second)))
	require.NoError(t, store.Revoke(ctx, "live", now.Add(time.Hour)))

	revoked, err := store.IsRevoked(ctx, "expired")
	require.NoError(t, err)
	assert.False(t, revoked, "an expired token needs no revocation entry")

	pruned, err := store.Prune(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	revoked, err = store.IsRevoked(ctx, "live")
	require.NoError(t, err)
	assert.True(t, revoked)
}
