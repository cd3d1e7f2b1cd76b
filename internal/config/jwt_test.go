package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withJWTEnv(t *testing.T, secret, expiration, refresh string) {
	t.Helper()

	// Save original values
	originalSecret := os.Getenv("JWT_SECRET")
	originalExpiration := os.Getenv("JWT_EXPIRATION_MINUTES")
	originalRefresh := os.Getenv("JWT_REFRESH_EXPIRATION_HOURS")
	t.Cleanup(func() {
		os.Setenv("JWT_SECRET", originalSecret)
		os.Setenv("JWT_EXPIRATION_MINUTES", originalExpiration)
		os.Setenv("JWT_REFRESH_EXPIRATION_HOURS", originalRefresh)
	})

	set := func(key, value string) {
		if value != "" {
			os.Setenv(key, value)
		} else {
			os.Unsetenv(key)
		}
	}
	set("JWT_SECRET", secret)
	set("JWT_EXPIRATION_MINUTES", expiration)
	set("JWT_REFRESH_EXPIRATION_HOURS", refresh)
}

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	withJWTEnv(t, "test-secret-key", "", "")

	cfg, err := NewJWTConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 30, cfg.ExpirationMinutes, "should use default access expiration of 30 minutes")
	assert.Equal(t, 168, cfg.RefreshExpiryHours, "should use default refresh expiration of 7 days")
}

func TestNewJWTConfig_MissingSecret(t *testing.T) {
	withJWTEnv(t, "", "", "")

	cfg, err := NewJWTConfig()
	assert.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
}

func TestNewJWTConfig_CustomValues(t *testing.T) {
	tests := []struct {
		name        string
		expiration  string
		refresh     string
		wantMinutes int
		wantHours   int
		wantErr     bool
	}{
		{name: "custom access lifetime", expiration: "15", refresh: "", wantMinutes: 15, wantHours: 168},
		{name: "custom refresh lifetime", expiration: "", refresh: "24", wantMinutes: 30, wantHours: 24},
		{name: "minimums", expiration: "1", refresh: "1", wantMinutes: 1, wantHours: 1},
		{name: "zero access lifetime", expiration: "0", wantErr: true},
		{name: "negative refresh lifetime", refresh: "-1", wantErr: true},
		{name: "non-numeric access lifetime", expiration: "soon", wantErr: true},
		{name: "non-numeric refresh lifetime", refresh: "later", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withJWTEnv(t, "test-secret-key", tt.expiration, tt.refresh)

			cfg, err := NewJWTConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMinutes, cfg.ExpirationMinutes)
			assert.Equal(t, tt.wantHours, cfg.RefreshExpiryHours)
		})
	}
}
