// Package server provides the HTTP REST API for the recruiting platform.
package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/recruitai/internal/server/middleware"
)

// AuthHandler handles authentication-related HTTP requests.
type AuthHandler struct {
	userService *UserService
	jwtService  *JWTService
	validator   *validator.Validate
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(userService *UserService, jwtService *JWTService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		jwtService:  jwtService,
		validator:   validator.New(),
	}
}

// Register handles user registration requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	response, err := h.tokenResponse(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	response.User = user

	writeJSON(w, http.StatusCreated, response)
}

// Login handles user login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	user, err := h.userService.Login(r.Context(), &req)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	response, err := h.tokenResponse(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}
	response.User = user

	writeJSON(w, http.StatusOK, response)
}

// refreshRequest is the payload for POST /auth/refresh.
type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh exchanges a valid refresh token for a new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validator.Struct(req); err != nil {
		http.Error(w, extractValidationErrors(err), http.StatusBadRequest)
		return
	}

	claims, err := h.jwtService.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}

	// The account must still exist and be active
	user, err := h.userService.Get(r.Context(), claims.UserID)
	if err != nil {
		http.Error(w, "Invalid refresh token", http.StatusUnauthorized)
		return
	}
	if !user.IsActive {
		http.Error(w, (&ErrInactiveAccount{}).Error(), http.StatusForbidden)
		return
	}

	response, err := h.tokenResponse(user.ID)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, response)
}

// TestToken verifies the presented access token and echoes the account.
func (h *AuthHandler) TestToken(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		http.Error(w, err.Error(), HTTPStatus(err))
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// tokenResponse builds an access+refresh token pair for the user.
func (h *AuthHandler) tokenResponse(userID uuid.UUID) (*TokenResponse, error) {
	accessToken, err := h.jwtService.GenerateToken(userID)
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.jwtService.GenerateRefreshToken(userID)
	if err != nil {
		return nil, err
	}
	return &TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}

// writeJSON writes a JSON body with the given status.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// extractValidationErrors extracts validation error messages from validator errors.
func extractValidationErrors(err error) string {
	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		if len(validationErrors) > 0 {
			// Return first validation error for simplicity
			ve := validationErrors[0]
			return fmt.Sprintf("validation error: %s - %s", ve.Field(), ve.Tag())
		}
	}
	return "validation error: invalid request"
}
