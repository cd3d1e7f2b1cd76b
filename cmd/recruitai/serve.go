package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jonathan/recruitai/internal/config"
	"github.com/jonathan/recruitai/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort       int
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the recruiting platform REST endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to a JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := &config.Config{}
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	// Environment variables fill anything the file leaves empty
	defaults := config.Config{
		Port:         servePort,
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		BaseURL:      os.Getenv("BASE_URL"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		UploadDir:    os.Getenv("UPLOAD_DIR"),
		CORSOrigins:  splitOrigins(os.Getenv("CORS_ORIGINS")),
	}
	if defaults.BaseURL == "" {
		defaults.BaseURL = fmt.Sprintf("http://localhost:%d", servePort)
	}
	if defaults.UploadDir == "" {
		defaults.UploadDir = "uploads"
	}
	merged := cfg.MergeWithDefaults(defaults)

	if merged.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	if err := merged.Validate(); err != nil {
		return err
	}

	srv, err := server.New(&merged)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

func splitOrigins(value string) []string {
	if value == "" {
		return nil
	}
	var origins []string
	for _, origin := range strings.Split(value, ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
