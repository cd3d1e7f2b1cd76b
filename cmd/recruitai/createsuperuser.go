package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jonathan/recruitai/internal/config"
	"github.com/jonathan/recruitai/internal/db"
	"github.com/spf13/cobra"
)

var (
	superuserEmail    string
	superuserPassword string
	superuserName     string
	superuserCompany  string
)

var createSuperuserCmd = &cobra.Command{
	Use:   "createsuperuser",
	Short: "Create a verified recruiter account",
	Long:  `Create a verified recruiter account directly in the database, for bootstrapping a fresh deployment.`,
	RunE:  runCreateSuperuser,
}

func init() {
	createSuperuserCmd.Flags().StringVar(&superuserEmail, "email", "", "Account email (required)")
	createSuperuserCmd.Flags().StringVar(&superuserPassword, "password", "", "Account password (required)")
	createSuperuserCmd.Flags().StringVar(&superuserName, "name", "Admin", "Display name")
	createSuperuserCmd.Flags().StringVar(&superuserCompany, "company", "", "Company name")
	_ = createSuperuserCmd.MarkFlagRequired("email")
	_ = createSuperuserCmd.MarkFlagRequired("password")
	rootCmd.AddCommand(createSuperuserCmd)
}

func runCreateSuperuser(cmd *cobra.Command, _ []string) error {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	exists, err := database.CheckEmailExists(ctx, superuserEmail)
	if err != nil {
		return fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return fmt.Errorf("email already registered: %s", superuserEmail)
	}

	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to create password config: %w", err)
	}
	passwordHash, err := passwordConfig.HashPassword(superuserPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := database.CreateUser(ctx, &db.UserCreateInput{
		Email:        superuserEmail,
		PasswordHash: passwordHash,
		Name:         superuserName,
		Role:         db.RoleRecruiter,
		Company:      superuserCompany,
	})
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if err := database.SetVerified(ctx, userID, true); err != nil {
		return fmt.Errorf("failed to verify user: %w", err)
	}

	fmt.Printf("Created recruiter %s (%s)\n", superuserEmail, userID)
	return nil
}
