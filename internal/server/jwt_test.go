package server

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/recruitai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(&config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		ExpirationMinutes:  30,
		RefreshExpiryHours: 168,
	})
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tokenTypeAccess, claims.TokenType)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)
}

func TestJWTService_TokenTypeMismatch(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	accessToken, err := svc.GenerateToken(userID)
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(userID)
	require.NoError(t, err)

	// A refresh token must not pass as an access token, and vice versa
	_, err = svc.ValidateAccessToken(refreshToken)
	assert.Error(t, err)
	_, err = svc.ValidateRefreshToken(accessToken)
	assert.Error(t, err)
}

func TestJWTService_EmptyToken(t *testing.T) {
	svc := newTestJWTService()
	_, err := svc.ValidateAccessToken("")
	assert.Error(t, err)
}

func TestJWTService_MalformedToken(t *testing.T) {
	svc := newTestJWTService()
	_, err := svc.ValidateAccessToken("not.a.token")
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	svc := newTestJWTService()
	other := NewJWTService(&config.JWTConfig{
		Secret:             "a-different-secret",
		ExpirationMinutes:  30,
		RefreshExpiryHours: 168,
	})

	token, err := svc.GenerateToken(uuid.New())
	require.NoError(t, err)

	_, err = other.ValidateAccessToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	// Hand-craft an already expired token with the same secret
	now := time.Now().Add(-2 * time.Hour)
	claims := &Claims{
		UserID:    userID,
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte("test-secret-key-for-unit-tests"))
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(tokenString)
	assert.Error(t, err)
}

func TestJWTService_RejectsUnsignedToken(t *testing.T) {
	svc := newTestJWTService()
	claims := &Claims{
		UserID:    uuid.New(),
		TokenType: tokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodNone, claims)
	tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateAccessToken(tokenString)
	assert.Error(t, err)
}
