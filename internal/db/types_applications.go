package db

import (
	"time"

	"github.com/google/uuid"
)

// JobApplication is the lightweight application-tracking record linking a
// registered candidate to a job posting.
type JobApplication struct {
	ID          uuid.UUID  `json:"id"`
	JobID       uuid.UUID  `json:"job_id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	Status      string     `json:"status"`
	Source      string     `json:"source,omitempty"`   // direct, social_media, referral
	Referrer    string     `json:"referrer,omitempty"`
	AppliedAt   time.Time  `json:"applied_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`
}

// ApplicationCreateInput holds the fields needed to create an application.
type ApplicationCreateInput struct {
	JobID       uuid.UUID
	CandidateID uuid.UUID
	Source      string
	Referrer    string
}

// ApplicationPatch holds optional field updates for an application.
type ApplicationPatch struct {
	Status      *string
	CompletedAt *time.Time
	ReviewedAt  *time.Time
}

// ListApplicationsOptions holds filters and pagination for listing applications.
type ListApplicationsOptions struct {
	Status string
	Limit  int
	Offset int
}
