package db

import (
	"time"

	"github.com/google/uuid"
)

// JobPosting represents a recruiter's job posting with its assessment
// configuration and aggregate counters.
type JobPosting struct {
	ID             uuid.UUID   `json:"id"`
	RecruiterID    uuid.UUID   `json:"recruiter_id"`
	Title          string      `json:"title"`
	Company        string      `json:"company"`
	Description    string      `json:"description"`
	Requirements   StringArray `json:"requirements"`
	Location       string      `json:"location"`
	EmploymentType string      `json:"employment_type"`
	SalaryMin      *int        `json:"salary_min,omitempty"`
	SalaryMax      *int        `json:"salary_max,omitempty"`
	SalaryCurrency string      `json:"salary_currency"`

	// Assessment configuration
	SkillWeights     SkillWeights `json:"skill_weights"`
	CutoffPercentage float64      `json:"cutoff_percentage"`
	MaxCandidates    int          `json:"max_candidates"`

	// Timing configuration
	ActiveDays int       `json:"active_days"`
	ExpiresAt  time.Time `json:"expires_at"`

	// Waitlist configuration
	EnableWaitlist   bool   `json:"enable_waitlist"`
	WaitlistDuration int    `json:"waitlist_duration"`
	WaitlistMessage  string `json:"waitlist_message,omitempty"`

	// Status and metrics
	Status             string `json:"status"`
	SelectedCandidates int    `json:"selected_candidates"`
	RejectedCandidates int    `json:"rejected_candidates"`
	TotalApplications  int    `json:"total_applications"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// JobCreateInput holds the fields needed to create a job posting.
type JobCreateInput struct {
	RecruiterID      uuid.UUID
	Title            string
	Company          string
	Description      string
	Requirements     []string
	Location         string
	EmploymentType   string
	SalaryMin        *int
	SalaryMax        *int
	SalaryCurrency   string
	SkillWeights     SkillWeights
	CutoffPercentage float64
	MaxCandidates    int
	ActiveDays       int
	EnableWaitlist   bool
	WaitlistDuration int
	WaitlistMessage  string
	Status           string
	ExpiresAt        time.Time
}

// JobPatch holds optional field updates for a job posting.
type JobPatch struct {
	Title            *string
	Company          *string
	Description      *string
	Requirements     *[]string
	Location         *string
	EmploymentType   *string
	SalaryMin        *int
	SalaryMax        *int
	SalaryCurrency   *string
	SkillWeights     *SkillWeights
	CutoffPercentage *float64
	MaxCandidates    *int
	EnableWaitlist   *bool
	WaitlistDuration *int
	WaitlistMessage  *string
	Status           *string
}

// ListJobsOptions holds filters and pagination for listing job postings.
type ListJobsOptions struct {
	ActiveOnly  bool
	RecruiterID *uuid.UUID
	Limit       int
	Offset      int
}
