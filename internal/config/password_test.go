package config

import (
	"os"
	"testing"
)

func TestNewPasswordConfig(t *testing.T) {
	tests := []struct {
		name       string
		bcryptCost string
		pepper     string
		wantCost   int
		wantErr    bool
	}{
		{name: "default cost", bcryptCost: "", wantCost: 12},
		{name: "valid cost", bcryptCost: "12", wantCost: 12},
		{name: "boundary cost 10", bcryptCost: "10", wantCost: 10},
		{name: "boundary cost 14", bcryptCost: "14", wantCost: 14},
		{name: "cost too low", bcryptCost: "9", wantErr: true},
		{name: "cost too high", bcryptCost: "15", wantErr: true},
		{name: "negative cost", bcryptCost: "-5", wantErr: true},
		{name: "non-numeric cost", bcryptCost: "invalid", wantErr: true},
		{name: "float cost", bcryptCost: "12.5", wantErr: true},
		{name: "with pepper", bcryptCost: "12", pepper: "test-pepper", wantCost: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Save original values
			originalCost := os.Getenv("BCRYPT_COST")
			originalPepper := os.Getenv("PASSWORD_PEPPER")
			defer func() {
				os.Setenv("BCRYPT_COST", originalCost)
				os.Setenv("PASSWORD_PEPPER", originalPepper)
			}()

			if tt.bcryptCost != "" {
				os.Setenv("BCRYPT_COST", tt.bcryptCost)
			} else {
				os.Unsetenv("BCRYPT_COST")
			}
			if tt.pepper != "" {
				os.Setenv("PASSWORD_PEPPER", tt.pepper)
			} else {
				os.Unsetenv("PASSWORD_PEPPER")
			}

			config, err := NewPasswordConfig()
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPasswordConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}

			if !tt.wantErr {
				if config.BcryptCost != tt.wantCost {
					t.Errorf("NewPasswordConfig() BcryptCost = %v, want %v", config.BcryptCost, tt.wantCost)
				}
				if config.Pepper != tt.pepper {
					t.Errorf("NewPasswordConfig() Pepper = %v, want %v", config.Pepper, tt.pepper)
				}
			}
		})
	}
}

func TestPasswordConfig_HashPassword(t *testing.T) {
	config := &PasswordConfig{BcryptCost: 10}

	password := "test-password-123"
	hash, err := config.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == "" {
		t.Error("HashPassword() returned empty hash")
	}

	// Hash should be different each time (bcrypt includes salt)
	hash2, err := config.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if hash == hash2 {
		t.Error("HashPassword() should produce different hashes for same password (salt)")
	}
}

func TestPasswordConfig_VerifyPassword(t *testing.T) {
	config := &PasswordConfig{BcryptCost: 10}

	password := "test-password-123"
	hash, err := config.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	if !config.VerifyPassword(password, hash) {
		t.Error("VerifyPassword() rejected the correct password")
	}
	if config.VerifyPassword("wrong-password", hash) {
		t.Error("VerifyPassword() accepted the wrong password")
	}
}

func TestPasswordConfig_PepperChangesHash(t *testing.T) {
	plain := &PasswordConfig{BcryptCost: 10}
	peppered := &PasswordConfig{BcryptCost: 10, Pepper: "global-secret"}

	password := "test-password-123"
	hash, err := peppered.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	// A hash made with a pepper is only valid under the same pepper
	if !peppered.VerifyPassword(password, hash) {
		t.Error("VerifyPassword() rejected the correct peppered password")
	}
	if plain.VerifyPassword(password, hash) {
		t.Error("VerifyPassword() accepted a peppered hash without the pepper")
	}
}
