package db

import (
	"time"

	"github.com/google/uuid"
)

// Candidate represents a per-job assessment record. The user_id is nullable
// because unregistered applicants can be assessed too.
type Candidate struct {
	ID       uuid.UUID  `json:"id"`
	JobID    uuid.UUID  `json:"job_id"`
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Phone    string     `json:"phone,omitempty"`
	Location string     `json:"location"`

	// CV/Resume
	CVFilename string `json:"cv_filename,omitempty"`
	CVFilePath string `json:"cv_file_path,omitempty"`
	CVFileSize *int   `json:"cv_file_size,omitempty"`

	Scores Scores `json:"scores"`

	Status      string     `json:"status"`
	AppliedAt   time.Time  `json:"applied_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	ReviewedAt  *time.Time `json:"reviewed_at,omitempty"`

	Feedback *Feedback `json:"feedback,omitempty"`

	AssessmentDuration *int       `json:"assessment_duration,omitempty"` // seconds
	ConversationID     *uuid.UUID `json:"conversation_id,omitempty"`
}

// CandidateCreateInput holds the fields needed to create a candidate record.
type CandidateCreateInput struct {
	JobID    uuid.UUID
	UserID   *uuid.UUID
	Name     string
	Email    string
	Phone    string
	Location string
	Scores   Scores
}

// CandidatePatch holds optional field updates for a candidate record.
type CandidatePatch struct {
	Status             *string
	Scores             *Scores
	Feedback           *Feedback
	CompletedAt        *time.Time
	AssessmentDuration *int
	ConversationID     *uuid.UUID
	CVFilename         *string
	CVFilePath         *string
	CVFileSize         *int
}

// ListCandidatesOptions holds filters and pagination for listing candidates.
type ListCandidatesOptions struct {
	Status   string
	MinScore float64 // filter on scores.overall, applied at read time
	Limit    int
	Offset   int
}
