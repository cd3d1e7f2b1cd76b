// Package config provides configuration loading and validation for the API server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config represents the server configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via
// environment variables or CLI flags.
type Config struct {
	// Server
	Port        int      `json:"port,omitempty"`         // HTTP listen port
	DatabaseURL string   `json:"database_url,omitempty"` // PostgreSQL connection URL
	CORSOrigins []string `json:"cors_origins,omitempty"` // Allowed CORS origins

	// Public links
	BaseURL string `json:"base_url,omitempty"` // Public base URL for share links

	// Collaborators
	GeminiAPIKey    string `json:"gemini_api_key,omitempty"`   // Enables Gemini-backed description generation
	AnalysisTimeout int    `json:"analysis_timeout,omitempty"` // Seconds allowed for interview analysis

	// Uploads
	UploadDir   string `json:"upload_dir,omitempty"`    // Directory for CV and audio files
	MaxFileSize int64  `json:"max_file_size,omitempty"` // Maximum upload size in bytes
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.AnalysisTimeout < 0 {
		return fmt.Errorf("config error: 'analysis_timeout' must be non-negative")
	}
	if c.MaxFileSize < 0 {
		return fmt.Errorf("config error: 'max_file_size' must be non-negative")
	}
	for _, origin := range c.CORSOrigins {
		if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") && origin != "*" {
			return fmt.Errorf("config error: invalid CORS origin: %s", origin)
		}
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if len(result.CORSOrigins) == 0 {
		result.CORSOrigins = defaults.CORSOrigins
	}
	if result.BaseURL == "" {
		result.BaseURL = defaults.BaseURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.UploadDir == "" {
		result.UploadDir = defaults.UploadDir
	}

	if result.AnalysisTimeout == 0 {
		if defaults.AnalysisTimeout > 0 {
			result.AnalysisTimeout = defaults.AnalysisTimeout
		} else {
			result.AnalysisTimeout = 10
		}
	}
	if result.MaxFileSize == 0 {
		if defaults.MaxFileSize > 0 {
			result.MaxFileSize = defaults.MaxFileSize
		} else {
			result.MaxFileSize = 10 << 20 // 10MB
		}
	}

	return result
}
