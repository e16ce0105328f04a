package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, time.Hour)

	access, err := m.GenerateAccessToken(42, "wanjiru", true)
	require.NoError(t, err)

	claims, err := m.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, int32(42), claims.UserID)
	assert.Equal(t, "wanjiru", claims.Username)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.True(t, claims.IsStaff)
	assert.NotEmpty(t, claims.ID)

	refresh, err := m.GenerateRefreshToken(42, "wanjiru")
	require.NoError(t, err)
	claims, err = m.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
	assert.False(t, claims.IsStaff)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, time.Hour).(*tokenManager)
	m.accessExpiry = -time.Minute

	token, err := m.GenerateAccessToken(1, "x", false)
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestTokenManager_WrongSecretOrAlgorithm(t *testing.T) {
	m := NewTokenManager(testSecret, time.Minute, time.Hour)
	other := NewTokenManager("ffffffffffffffffffffffffffffffff", time.Minute, time.Hour)

	token, err := other.GenerateAccessToken(1, "x", false)
	require.NoError(t, err)
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, UserClaims{UserID: 1, Type: TokenTypeAccess})
	raw, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = m.ValidateToken(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
