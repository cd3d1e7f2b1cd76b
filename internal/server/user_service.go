// Package server provides the HTTP REST API for the recruiting platform.
package server

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonathan/recruitai/internal/config"
	"github.com/jonathan/recruitai/internal/db"
)

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required,min=1,max=200"`
	Role     string `json:"role" validate:"required,oneof=recruiter candidate"`
	Company  string `json:"company,omitempty" validate:"max=200"`
	Phone    string `json:"phone,omitempty" validate:"max=50"`
	Location string `json:"location,omitempty" validate:"max=200"`
	Bio      string `json:"bio,omitempty" validate:"max=2000"`
}

// LoginRequest is the payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse carries the token pair returned by register, login and
// refresh.
type TokenResponse struct {
	User         *db.User `json:"user,omitempty"`
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token,omitempty"`
	TokenType    string   `json:"token_type"`
}

// UserService provides business logic for account operations
type UserService struct {
	db             *db.DB
	passwordConfig *config.PasswordConfig
}

// NewUserService creates a new UserService with the given dependencies
func NewUserService(database *db.DB, passwordConfig *config.PasswordConfig) *UserService {
	return &UserService{
		db:             database,
		passwordConfig: passwordConfig,
	}
}

// Register creates a new user with password authentication
func (s *UserService) Register(ctx context.Context, req *RegisterRequest) (*db.User, error) {
	// Check if email already exists
	exists, err := s.db.CheckEmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email existence: %w", err)
	}
	if exists {
		return nil, &ErrEmailAlreadyExists{Email: req.Email}
	}

	// Hash password
	passwordHash, err := s.passwordConfig.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userID, err := s.db.CreateUser(ctx, &db.UserCreateInput{
		Email:        req.Email,
		PasswordHash: passwordHash,
		Name:         req.Name,
		Role:         req.Role,
		Company:      req.Company,
		Phone:        req.Phone,
		Location:     req.Location,
		Bio:          req.Bio,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve created user: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("created user not found: %s", userID)
	}

	return user, nil
}

// Login authenticates a user and returns the account record
func (s *UserService) Login(ctx context.Context, req *LoginRequest) (*db.User, error) {
	user, err := s.db.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	// Security: Always return generic error if user not found or password wrong
	if user == nil {
		return nil, &ErrInvalidCredentials{}
	}
	if !s.passwordConfig.VerifyPassword(req.Password, user.PasswordHash) {
		return nil, &ErrInvalidCredentials{}
	}

	if !user.IsActive {
		return nil, &ErrInactiveAccount{}
	}

	return user, nil
}

// Get returns an active user by ID.
func (s *UserService) Get(ctx context.Context, userID uuid.UUID) (*db.User, error) {
	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrNotFound{Resource: "user", ID: userID}
	}
	return user, nil
}

// Update applies a self-service profile update.
func (s *UserService) Update(ctx context.Context, userID uuid.UUID, patch *db.UserPatch) (*db.User, error) {
	if err := s.db.UpdateUser(ctx, userID, patch); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	user, err := s.db.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve updated user: %w", err)
	}
	if user == nil {
		return nil, &ErrNotFound{Resource: "user", ID: userID}
	}
	return user, nil
}
