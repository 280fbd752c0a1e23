package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/bookcart/pkg/errors"
)

func TestGenerateAndParse(t *testing.T) {
	m := NewManager("test-secret", 2*time.Hour, 7*24*time.Hour)

	pair, err := m.GenerateToken(42, "reader@example.com", "读者")
	require.NoError(t, err)
	assert.Equal(t, int64(7200), pair.ExpiresIn)

	claims, err := m.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "reader@example.com", claims.Email)
	assert.InDelta(t, (2 * time.Hour).Seconds(), claims.RemainingTTL(time.Now()).Seconds(), 5)
}

func TestRefreshTokenCannotAuthenticate(t *testing.T) {
	m := NewManager("test-secret", time.Hour, 24*time.Hour)
	pair, err := m.GenerateToken(1, "a@b.cn", "a")
	require.NoError(t, err)

	_, err = m.ParseAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	access, err := m.RefreshAccessToken(pair.RefreshToken)
	require.NoError(t, err)
	claims, err := m.ParseAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(1), claims.UserID)

	_, err = m.RefreshAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestExpiredToken(t *testing.T) {
	m := NewManager("test-secret", time.Minute, time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	pair, err := m.GenerateToken(1, "a@b.cn", "a")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestWrongSecret(t *testing.T) {
	pair, err := NewManager("secret-a", time.Hour, time.Hour).GenerateToken(1, "a@b.cn", "a")
	require.NoError(t, err)

	_, err = NewManager("secret-b", time.Hour, time.Hour).ParseAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}
