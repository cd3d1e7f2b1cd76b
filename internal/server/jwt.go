// Package server provides the HTTP REST API for the recruiting platform.
package server

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonathan/recruitai/internal/config"
	"github.com/jonathan/recruitai/internal/server/middleware"
)

// Token types carried in the claims. Refresh tokens are only accepted by
// the refresh endpoint, never by the auth middleware.
const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// Claims represents JWT claims with user ID and token type.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	TokenType string    `json:"token_type"`
	jwt.RegisteredClaims
}

// GetUserID returns the user ID from the claims.
// This implements the middleware.UserIDGetter interface.
func (c *Claims) GetUserID() uuid.UUID {
	return c.UserID
}

// AsTokenValidator returns a TokenValidator adapter for this JWTService.
// This allows the JWTService to be used with middleware without creating import cycles.
func (s *JWTService) AsTokenValidator() middleware.TokenValidator {
	return &jwtServiceValidator{service: s}
}

// jwtServiceValidator adapts JWTService to middleware.TokenValidator interface.
type jwtServiceValidator struct {
	service *JWTService
}

func (v *jwtServiceValidator) ValidateToken(tokenString string) (middleware.UserIDGetter, error) {
	claims, err := v.service.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// JWTService provides JWT token generation and validation functionality.
type JWTService struct {
	config *config.JWTConfig
}

// NewJWTService creates a new JWT service with the given configuration.
func NewJWTService(cfg *config.JWTConfig) *JWTService {
	return &JWTService{
		config: cfg,
	}
}

// GenerateToken generates a short-lived access token for the given user ID.
func (s *JWTService) GenerateToken(userID uuid.UUID) (string, error) {
	ttl := time.Duration(s.config.ExpirationMinutes) * time.Minute
	return s.generate(userID, tokenTypeAccess, ttl)
}

// GenerateRefreshToken generates a long-lived refresh token for the given user ID.
func (s *JWTService) GenerateRefreshToken(userID uuid.UUID) (string, error) {
	ttl := time.Duration(s.config.RefreshExpiryHours) * time.Hour
	return s.generate(userID, tokenTypeRefresh, ttl)
}

func (s *JWTService) generate(userID uuid.UUID, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()

	claims := &Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateAccessToken validates an access token and returns the claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("not an access token")
	}
	return claims, nil
}

// ValidateRefreshToken validates a refresh token and returns the claims.
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != tokenTypeRefresh {
		return nil, fmt.Errorf("not a refresh token")
	}
	return claims, nil
}

func (s *JWTService) parse(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	})

	if err != nil {
		if err == jwt.ErrSignatureInvalid {
			return nil, fmt.Errorf("invalid token signature: %w", err)
		}
		if err == jwt.ErrTokenExpired {
			return nil, fmt.Errorf("token expired: %w", err)
		}
		if err == jwt.ErrTokenMalformed {
			return nil, fmt.Errorf("malformed token: %w", err)
		}
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}

	return claims, nil
}
