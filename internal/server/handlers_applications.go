package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/recruitai/internal/authz"
	"github.com/jonathan/recruitai/internal/db"
	"github.com/jonathan/recruitai/internal/lifecycle"
)

// CreateApplicationRequest is the payload for POST /applications.
type CreateApplicationRequest struct {
	JobID    uuid.UUID `json:"job_id" validate:"required"`
	Source   string    `json:"source,omitempty" validate:"omitempty,oneof=direct social_media referral"`
	Referrer string    `json:"referrer,omitempty" validate:"max=200"`
}

// ListApplicationsResponse represents the response for listing applications
type ListApplicationsResponse struct {
	Applications []db.JobApplication `json:"applications"`
	Count        int                 `json:"count"`
	Limit        int                 `json:"limit"`
	Offset       int                 `json:"offset"`
}

// handleCreateApplication records the authenticated candidate's application
// to an effectively active posting and bumps the posting's counter.
func (s *Server) handleCreateApplication(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleCandidate {
		s.handleError(w, &ErrForbidden{Resource: "application"})
		return
	}

	var req CreateApplicationRequest
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
		s.handleError(w, &ErrInvalidState{Message: "job is not accepting applications"})
		return
	}

	source := req.Source
	if source == "" {
		source = "direct"
	}

	application, err := s.db.CreateApplication(r.Context(), &db.ApplicationCreateInput{
		JobID:       job.ID,
		CandidateID: user.ID,
		Source:      source,
		Referrer:    req.Referrer,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, application)
}

// handleListMyApplications lists the authenticated candidate's applications.
func (s *Server) handleListMyApplications(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleCandidate {
		s.handleError(w, &ErrForbidden{Resource: "application listing"})
		return
	}

	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	applications, err := s.db.ListApplicationsByUser(r.Context(), user.ID, db.ListApplicationsOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListApplicationsResponse{
		Applications: applications,
		Count:        len(applications),
		Limit:        limit,
		Offset:       offset,
	})
}

// handleListApplicationsByJob lists a posting's applications for its
// recruiter, with an optional status filter.
func (s *Server) handleListApplicationsByJob(w http.ResponseWriter, r *http.Request) {
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
		s.handleError(w, &ErrForbidden{Resource: "application listing"})
		return
	}

	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	applications, err := s.db.ListApplicationsByJob(r.Context(), jobID, db.ListApplicationsOptions{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListApplicationsResponse{
		Applications: applications,
		Count:        len(applications),
		Limit:        limit,
		Offset:       offset,
	})
}

// handleGetApplication retrieves a single application. Readable by the
// posting's recruiter and the applying candidate.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	applicationID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid application ID")
		return
	}

	application, err := s.db.GetApplication(r.Context(), applicationID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if application == nil {
		s.errorResponse(w, http.StatusNotFound, "Application not found")
		return
	}

	job, err := s.db.GetJob(r.Context(), application.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if !authz.CanAccess(authz.Actor{ID: user.ID, Role: user.Role}, authz.ForApplication(application, job), authz.ActionRead) {
		s.handleError(w, &ErrForbidden{Resource: "application"})
		return
	}

	s.jsonResponse(w, http.StatusOK, application)
}
