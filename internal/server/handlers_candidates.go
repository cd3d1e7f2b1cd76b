package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/recruitai/internal/authz"
	"github.com/jonathan/recruitai/internal/db"
	"github.com/jonathan/recruitai/internal/lifecycle"
)

// CreateCandidateRequest is the payload for POST /candidates.
type CreateCandidateRequest struct {
	JobID    uuid.UUID `json:"job_id" validate:"required"`
	Name     string    `json:"name,omitempty" validate:"max=200"`
	Email    string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string    `json:"phone,omitempty" validate:"max=50"`
	Location string    `json:"location,omitempty" validate:"max=200"`
}

// UpdateCandidateRequest is the payload for PUT /candidates/{id}.
type UpdateCandidateRequest struct {
	Status   *string      `json:"status,omitempty" validate:"omitempty,oneof=pending interviewing completed selected rejected waitlisted"`
	Scores   *db.Scores   `json:"scores,omitempty"`
	Feedback *db.Feedback `json:"feedback,omitempty"`
}

// ListCandidatesResponse represents the response for listing candidates
type ListCandidatesResponse struct {
	Candidates []db.Candidate `json:"candidates"`
	Count      int            `json:"count"`
	Limit      int            `json:"limit"`
	Offset     int            `json:"offset"`
}

// loadCandidateWithJob fetches a candidate and its job, translating missing
// rows into NotFound.
func (s *Server) loadCandidateWithJob(r *http.Request, candidateID uuid.UUID) (*db.Candidate, *db.JobPosting, error) {
	candidate, err := s.db.GetCandidate(r.Context(), candidateID)
	if err != nil {
		return nil, nil, err
	}
	if candidate == nil {
		return nil, nil, &ErrNotFound{Resource: "candidate", ID: candidateID}
	}

	job, err := s.db.GetJob(r.Context(), candidate.JobID)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, &ErrNotFound{Resource: "job", ID: candidate.JobID}
	}

	return candidate, job, nil
}

// handleCreateCandidate starts an assessment for the authenticated candidate
// on an effectively active posting.
func (s *Server) handleCreateCandidate(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleCandidate {
		s.handleError(w, &ErrForbidden{Resource: "candidate record"})
		return
	}

	var req CreateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.db.GetJob(r.Context(), req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if !lifecycle.JobEffectivelyActive(lifecycle.JobStatus(job.Status), job.ExpiresAt, time.Now()) {
		s.handleError(w, &ErrInvalidState{Message: "job is not accepting candidates"})
		return
	}

	input := &db.CandidateCreateInput{
		JobID:    job.ID,
		UserID:   &user.ID,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Location: req.Location,
	}
	// Fall back to account details for identity fields
	if input.Name == "" {
		input.Name = user.Name
	}
	if input.Email == "" {
		input.Email = user.Email
	}
	if input.Phone == "" {
		input.Phone = user.Phone
	}
	if input.Location == "" {
		input.Location = user.Location
	}

	candidate, err := s.db.CreateCandidate(r.Context(), input)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, candidate)
}

// handleListCandidatesByJob lists a posting's candidates for its recruiter,
// with status and minimum-score filters.
func (s *Server) handleListCandidatesByJob(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	jobID, ok := pathUUID(r, "job_id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid job ID")
		return
	}

	job, err := s.db.GetJob(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if !authz.CanAccess(authz.Actor{ID: user.ID, Role: user.Role}, authz.ForJob(job), authz.ActionRead) {
		s.handleError(w, &ErrForbidden{Resource: "candidate listing"})
		return
	}

	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	opts := db.ListCandidatesOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}
	if minScoreStr := r.URL.Query().Get("min_score"); minScoreStr != "" {
		minScore, err := strconv.ParseFloat(minScoreStr, 64)
		if err != nil || minScore < 0 || minScore > 100 {
			s.errorResponse(w, http.StatusBadRequest, "Invalid min_score")
			return
		}
		opts.MinScore = minScore
	}

	candidates, err := s.db.ListCandidatesByJob(r.Context(), jobID, opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListCandidatesResponse{
		Candidates: candidates,
		Count:      len(candidates),
		Limit:      limit,
		Offset:     offset,
	})
}

// handleGetCandidate retrieves a candidate record. Readable by the posting's
// recruiter and by the candidate who owns the record.
func (s *Server) handleGetCandidate(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	candidateID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, job, err := s.loadCandidateWithJob(r, candidateID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !authz.CanAccess(authz.Actor{ID: user.ID, Role: user.Role}, authz.ForCandidate(candidate, job), authz.ActionRead) {
		s.handleError(w, &ErrForbidden{Resource: "candidate"})
		return
	}

	s.jsonResponse(w, http.StatusOK, candidate)
}

// handleUpdateCandidate updates a candidate record. Status changes follow
// the assessment lifecycle; score updates are range-checked.
func (s *Server) handleUpdateCandidate(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	candidateID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	candidate, job, err := s.loadCandidateWithJob(r, candidateID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !authz.CanAccess(authz.Actor{ID: user.ID, Role: user.Role}, authz.ForCandidate(candidate, job), authz.ActionWrite) {
		s.handleError(w, &ErrForbidden{Resource: "candidate"})
		return
	}

	var req UpdateCandidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	if req.Status != nil && *req.Status != candidate.Status {
		if err := lifecycle.ValidateCandidateTransition(lifecycle.CandidateStatus(candidate.Status), lifecycle.CandidateStatus(*req.Status)); err != nil {
			s.handleError(w, &ErrInvalidState{Message: err.Error()})
			return
		}
	}
	if req.Scores != nil {
		if err := validateScores(req.Scores); err != nil {
			s.handleError(w, err)
			return
		}
	}

	updated, err := s.db.UpdateCandidate(r.Context(), candidateID, &db.CandidatePatch{
		Status:   req.Status,
		Scores:   req.Scores,
		Feedback: req.Feedback,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleSelectCandidate marks a candidate selected. Fails on already
// terminal candidates so the posting's counters move exactly once.
func (s *Server) handleSelectCandidate(w http.ResponseWriter, r *http.Request) {
	s.handleCandidateDecision(w, r, func(r *http.Request, candidateID uuid.UUID) (*db.Candidate, error) {
		return s.db.SelectCandidate(r.Context(), candidateID)
	})
}

// rejectCandidateRequest is the payload for POST /candidates/{id}/reject.
type rejectCandidateRequest struct {
	Reason string `json:"reason,omitempty" validate:"max=2000"`
}

// handleRejectCandidate marks a candidate rejected with an optional reason.
func (s *Server) handleRejectCandidate(w http.ResponseWriter, r *http.Request) {
	var req rejectCandidateRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := s.authHandler.validator.Struct(req); err != nil {
			s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
			return
		}
	}

	s.handleCandidateDecision(w, r, func(r *http.Request, candidateID uuid.UUID) (*db.Candidate, error) {
		return s.db.RejectCandidate(r.Context(), candidateID, req.Reason)
	})
}

// handleCandidateDecision runs a recruiter-only terminal transition.
func (s *Server) handleCandidateDecision(w http.ResponseWriter, r *http.Request, decide func(*http.Request, uuid.UUID) (*db.Candidate, error)) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleRecruiter {
		s.handleError(w, &ErrForbidden{Resource: "candidate"})
		return
	}

	candidateID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid candidate ID")
		return
	}

	_, job, err := s.loadCandidateWithJob(r, candidateID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if job.RecruiterID != user.ID {
		s.handleError(w, &ErrForbidden{Resource: "candidate"})
		return
	}

	updated, err := decide(r, candidateID)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			s.handleError(w, &ErrInvalidState{Message: "candidate already has a final decision"})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// validateScores range-checks every score dimension.
func validateScores(scores *db.Scores) error {
	checks := []struct {
		name  string
		value float64
	}{
		{"overall", scores.Overall},
		{"technical", scores.Technical},
		{"soft", scores.Soft},
		{"leadership", scores.Leadership},
		{"communication", scores.Communication},
	}
	for _, c := range checks {
		if err := lifecycle.ValidateScore(c.name, c.value); err != nil {
			return &ErrValidation{Field: "scores." + c.name, Message: err.Error()}
		}
	}
	return nil
}
