// Package config provides JWT configuration functionality.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret             string
	ExpirationMinutes  int // access token lifetime
	RefreshExpiryHours int // refresh token lifetime
}

// NewJWTConfig creates a new JWT configuration from environment variables.
// It reads JWT_SECRET (required), JWT_EXPIRATION_MINUTES (default: 30) and
// JWT_REFRESH_EXPIRATION_HOURS (default: 168, i.e. 7 days).
func NewJWTConfig() (*JWTConfig, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}

	expirationStr := os.Getenv("JWT_EXPIRATION_MINUTES")
	if expirationStr == "" {
		expirationStr = "30"
	}
	expirationMinutes, err := strconv.Atoi(expirationStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %v", err)
	}

	refreshStr := os.Getenv("JWT_REFRESH_EXPIRATION_HOURS")
	if refreshStr == "" {
		refreshStr = "168"
	}
	refreshHours, err := strconv.Atoi(refreshStr)
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %v", err)
	}

	config := &JWTConfig{
		Secret:             secret,
		ExpirationMinutes:  expirationMinutes,
		RefreshExpiryHours: refreshHours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationMinutes < 1 {
		return fmt.Errorf("JWT_EXPIRATION_MINUTES must be at least 1 minute, got: %d", c.ExpirationMinutes)
	}
	if c.RefreshExpiryHours < 1 {
		return fmt.Errorf("JWT_REFRESH_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.RefreshExpiryHours)
	}
	return nil
}
