package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/recruitai/internal/db"
)

// UpdateMeRequest is the payload for PUT /users/me. All fields are optional.
type UpdateMeRequest struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Company   *string `json:"company,omitempty" validate:"omitempty,max=200"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Location  *string `json:"location,omitempty" validate:"omitempty,max=200"`
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
}

// handleGetMe returns the authenticated user's own account.
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, user)
}

// handleUpdateMe applies a self-service profile update.
func (s *Server) handleUpdateMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	var req UpdateMeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	updated, err := s.userService.Update(r.Context(), user.ID, &db.UserPatch{
		Name:      req.Name,
		Company:   req.Company,
		AvatarURL: req.AvatarURL,
		Phone:     req.Phone,
		Location:  req.Location,
		Bio:       req.Bio,
	})
	if err != nil {
		s.handleError(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleGetUserProfile returns the public profile of any user.
func (s *Server) handleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	if _, err := s.currentUser(r); err != nil {
		s.handleError(w, err)
		return
	}

	userID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	profile, err := s.db.GetUserProfile(r.Context(), userID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if profile == nil {
		s.errorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	s.jsonResponse(w, http.StatusOK, profile)
}
