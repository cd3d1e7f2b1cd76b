package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonathan/recruitai/internal/authz"
	"github.com/jonathan/recruitai/internal/db"
	"github.com/jonathan/recruitai/internal/lifecycle"
)

// CreateJobRequest is the payload for POST /jobs.
type CreateJobRequest struct {
	Title            string           `json:"title" validate:"required,min=1,max=200"`
	Company          string           `json:"company" validate:"required,min=1,max=200"`
	Description      string           `json:"description" validate:"required,min=1"`
	Requirements     []string         `json:"requirements,omitempty" validate:"dive,min=1,max=500"`
	Location         string           `json:"location,omitempty" validate:"max=200"`
	EmploymentType   string           `json:"employment_type,omitempty" validate:"omitempty,oneof=full-time part-time contract internship"`
	SalaryMin        *int             `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax        *int             `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	SalaryCurrency   string           `json:"salary_currency,omitempty" validate:"omitempty,len=3"`
	SkillWeights     *db.SkillWeights `json:"skill_weights,omitempty"`
	CutoffPercentage *float64         `json:"cutoff_percentage,omitempty" validate:"omitempty,min=0,max=100"`
	MaxCandidates    *int             `json:"max_candidates,omitempty" validate:"omitempty,min=1"`
	ActiveDays       *int             `json:"active_days,omitempty" validate:"omitempty,min=1,max=365"`
	EnableWaitlist   bool             `json:"enable_waitlist,omitempty"`
	WaitlistDuration *int             `json:"waitlist_duration,omitempty" validate:"omitempty,min=1"`
	WaitlistMessage  string           `json:"waitlist_message,omitempty" validate:"max=2000"`
	Status           string           `json:"status,omitempty" validate:"omitempty,oneof=draft active"`
}

// UpdateJobRequest is the payload for PUT /jobs/{id}. All fields optional.
type UpdateJobRequest struct {
	Title            *string          `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Company          *string          `json:"company,omitempty" validate:"omitempty,min=1,max=200"`
	Description      *string          `json:"description,omitempty" validate:"omitempty,min=1"`
	Requirements     *[]string        `json:"requirements,omitempty"`
	Location         *string          `json:"location,omitempty" validate:"omitempty,max=200"`
	EmploymentType   *string          `json:"employment_type,omitempty" validate:"omitempty,oneof=full-time part-time contract internship"`
	SalaryMin        *int             `json:"salary_min,omitempty" validate:"omitempty,min=0"`
	SalaryMax        *int             `json:"salary_max,omitempty" validate:"omitempty,min=0"`
	SalaryCurrency   *string          `json:"salary_currency,omitempty" validate:"omitempty,len=3"`
	SkillWeights     *db.SkillWeights `json:"skill_weights,omitempty"`
	CutoffPercentage *float64         `json:"cutoff_percentage,omitempty" validate:"omitempty,min=0,max=100"`
	MaxCandidates    *int             `json:"max_candidates,omitempty" validate:"omitempty,min=1"`
	EnableWaitlist   *bool            `json:"enable_waitlist,omitempty"`
	WaitlistDuration *int             `json:"waitlist_duration,omitempty" validate:"omitempty,min=1"`
	WaitlistMessage  *string          `json:"waitlist_message,omitempty" validate:"omitempty,max=2000"`
	Status           *string          `json:"status,omitempty" validate:"omitempty,oneof=draft active inactive closed"`
}

// ListJobsResponse represents the response for listing job postings
type ListJobsResponse struct {
	Jobs   []db.JobPosting `json:"jobs"`
	Count  int             `json:"count"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// validateSalaryRange enforces salary_min <= salary_max when both are set.
func validateSalaryRange(salaryMin, salaryMax *int) error {
	if salaryMin != nil && salaryMax != nil && *salaryMin > *salaryMax {
		return &ErrValidation{Field: "salary_min", Message: "must not exceed salary_max"}
	}
	return nil
}

// handleListJobs lists job postings. Public; only effectively active jobs
// are returned unless active_only=false is passed.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	opts := db.ListJobsOptions{
		ActiveOnly: r.URL.Query().Get("active_only") != "false",
		Limit:      limit,
		Offset:     offset,
	}

	jobs, err := s.db.ListJobs(r.Context(), opts)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListJobsResponse{
		Jobs:   jobs,
		Count:  len(jobs),
		Limit:  limit,
		Offset: offset,
	})
}

// handleGetJob retrieves a job posting by its ID. Public.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathUUID(r, "id")
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

	s.jsonResponse(w, http.StatusOK, job)
}

// handleListMyJobs lists the authenticated recruiter's own postings,
// including drafts and expired ones.
func (s *Server) handleListMyJobs(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleRecruiter {
		s.handleError(w, &ErrForbidden{Resource: "job listing"})
		return
	}

	limit := parseQueryInt(r, "limit", 50, 100)
	offset := parseQueryInt(r, "offset", 0, 0)

	jobs, err := s.db.ListJobs(r.Context(), db.ListJobsOptions{
		RecruiterID: &user.ID,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ListJobsResponse{
		Jobs:   jobs,
		Count:  len(jobs),
		Limit:  limit,
		Offset: offset,
	})
}

// handleCreateJob creates a job posting owned by the authenticated recruiter.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleRecruiter {
		s.handleError(w, &ErrForbidden{Resource: "job"})
		return
	}

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}
	if err := validateSalaryRange(req.SalaryMin, req.SalaryMax); err != nil {
		s.handleError(w, err)
		return
	}

	input := &db.JobCreateInput{
		RecruiterID:      user.ID,
		Title:            req.Title,
		Company:          req.Company,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Location:         req.Location,
		EmploymentType:   req.EmploymentType,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		SalaryCurrency:   req.SalaryCurrency,
		CutoffPercentage: 70,
		MaxCandidates:    10,
		ActiveDays:       30,
		EnableWaitlist:   req.EnableWaitlist,
		WaitlistMessage:  req.WaitlistMessage,
		Status:           string(lifecycle.JobActive),
	}
	if input.EmploymentType == "" {
		input.EmploymentType = "full-time"
	}
	if input.SalaryCurrency == "" {
		input.SalaryCurrency = "USD"
	}
	if req.SkillWeights != nil {
		input.SkillWeights = *req.SkillWeights
	} else {
		input.SkillWeights = db.DefaultSkillWeights()
	}
	if req.CutoffPercentage != nil {
		input.CutoffPercentage = *req.CutoffPercentage
	}
	if req.MaxCandidates != nil {
		input.MaxCandidates = *req.MaxCandidates
	}
	if req.ActiveDays != nil {
		input.ActiveDays = *req.ActiveDays
	}
	if req.WaitlistDuration != nil {
		input.WaitlistDuration = *req.WaitlistDuration
	} else if req.EnableWaitlist {
		input.WaitlistDuration = 7
	}
	if req.Status != "" {
		input.Status = req.Status
	}
	input.ExpiresAt = time.Now().AddDate(0, 0, input.ActiveDays)

	job, err := s.db.CreateJob(r.Context(), input)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, job)
}

// handleUpdateJob updates a posting owned by the authenticated recruiter.
// Status changes are checked against the posting lifecycle.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	jobID, ok := pathUUID(r, "id")
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
	if !authz.CanAccess(authz.Actor{ID: user.ID, Role: user.Role}, authz.ForJob(job), authz.ActionWrite) {
		s.handleError(w, &ErrForbidden{Resource: "job"})
		return
	}

	var req UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	salaryMin, salaryMax := job.SalaryMin, job.SalaryMax
	if req.SalaryMin != nil {
		salaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		salaryMax = req.SalaryMax
	}
	if err := validateSalaryRange(salaryMin, salaryMax); err != nil {
		s.handleError(w, err)
		return
	}

	if req.Status != nil && *req.Status != job.Status {
		if err := lifecycle.ValidateJobTransition(lifecycle.JobStatus(job.Status), lifecycle.JobStatus(*req.Status)); err != nil {
			s.handleError(w, &ErrInvalidState{Message: err.Error()})
			return
		}
	}

	updated, err := s.db.UpdateJob(r.Context(), jobID, &db.JobPatch{
		Title:            req.Title,
		Company:          req.Company,
		Description:      req.Description,
		Requirements:     req.Requirements,
		Location:         req.Location,
		EmploymentType:   req.EmploymentType,
		SalaryMin:        req.SalaryMin,
		SalaryMax:        req.SalaryMax,
		SalaryCurrency:   req.SalaryCurrency,
		SkillWeights:     req.SkillWeights,
		CutoffPercentage: req.CutoffPercentage,
		MaxCandidates:    req.MaxCandidates,
		EnableWaitlist:   req.EnableWaitlist,
		WaitlistDuration: req.WaitlistDuration,
		WaitlistMessage:  req.WaitlistMessage,
		Status:           req.Status,
	})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteJob removes a posting owned by the authenticated recruiter.
// Candidates, applications and conversations cascade.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	jobID, ok := pathUUID(r, "id")
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
	if !authz.CanAccess(authz.Actor{ID: user.ID, Role: user.Role}, authz.ForJob(job), authz.ActionWrite) {
		s.handleError(w, &ErrForbidden{Resource: "job"})
		return
	}

	if err := s.db.DeleteJob(r.Context(), jobID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}

// GenerateDescriptionRequest is the payload for POST /jobs/generate-description.
type GenerateDescriptionRequest struct {
	Title        string   `json:"title" validate:"required,min=1,max=200"`
	Requirements []string `json:"requirements,omitempty" validate:"dive,min=1,max=500"`
}

// handleGenerateDescription produces a job description draft for recruiters.
func (s *Server) handleGenerateDescription(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleRecruiter {
		s.handleError(w, &ErrForbidden{Resource: "description generator"})
		return
	}

	var req GenerateDescriptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	ctx, cancel := s.collaboratorContext(r)
	defer cancel()

	description, err := s.describer.Describe(ctx, req.Title, req.Requirements)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Description generation failed: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"title":       req.Title,
		"description": description,
	})
}

// handleJobShareLink returns the public application link for a posting.
func (s *Server) handleJobShareLink(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	jobID, ok := pathUUID(r, "id")
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
		s.handleError(w, &ErrForbidden{Resource: "job"})
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]string{
		"share_link": fmt.Sprintf("%s/jobs/%s/apply", s.cfg.BaseURL, job.ID),
	})
}
