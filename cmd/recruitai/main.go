// Package main provides the entry point for the recruiting platform API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recruitai",
	Short: "AI recruiting platform HTTP API server",
	Long:  "Backend for a recruiting platform: job postings, candidate assessments, AI interview sessions and application tracking via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
