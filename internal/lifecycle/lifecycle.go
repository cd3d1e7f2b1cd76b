// Package lifecycle defines the status state machines for jobs, candidates,
// applications and conversations, and validates requested transitions.
package lifecycle

import (
	"fmt"
	"time"
)

// CandidateStatus is the assessment status of a candidate record.
type CandidateStatus string

// Candidate statuses.
const (
	CandidatePending      CandidateStatus = "pending"
	CandidateInterviewing CandidateStatus = "interviewing"
	CandidateCompleted    CandidateStatus = "completed"
	CandidateSelected     CandidateStatus = "selected"
	CandidateRejected     CandidateStatus = "rejected"
	CandidateWaitlisted   CandidateStatus = "waitlisted"
)

// ApplicationStatus is the status of a lightweight job application.
type ApplicationStatus string

// Application statuses.
const (
	ApplicationPending    ApplicationStatus = "pending"
	ApplicationCompleted  ApplicationStatus = "completed"
	ApplicationSelected   ApplicationStatus = "selected"
	ApplicationRejected   ApplicationStatus = "rejected"
	ApplicationWaitlisted ApplicationStatus = "waitlisted"
)

// JobStatus is the status of a job posting.
type JobStatus string

// Job posting statuses.
const (
	JobDraft    JobStatus = "draft"
	JobActive   JobStatus = "active"
	JobInactive JobStatus = "inactive"
	JobClosed   JobStatus = "closed"
)

// InvalidTransitionError indicates a status transition that the state machine
// does not permit, such as selecting an already-rejected candidate.
type InvalidTransitionError struct {
	Entity string
	From   string
	To     string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition: %s -> %s", e.Entity, e.From, e.To)
}

// candidateTransitions enumerates the permitted candidate status moves.
// selected and rejected are terminal.
var candidateTransitions = map[CandidateStatus][]CandidateStatus{
	CandidatePending:      {CandidateInterviewing, CandidateCompleted, CandidateSelected, CandidateRejected, CandidateWaitlisted},
	CandidateInterviewing: {CandidateCompleted, CandidateSelected, CandidateRejected, CandidateWaitlisted},
	CandidateCompleted:    {CandidateSelected, CandidateRejected, CandidateWaitlisted},
	CandidateWaitlisted:   {CandidateSelected, CandidateRejected},
}

// applicationTransitions mirrors the candidate machine without the
// interviewing state.
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationPending:    {ApplicationCompleted, ApplicationSelected, ApplicationRejected, ApplicationWaitlisted},
	ApplicationCompleted:  {ApplicationSelected, ApplicationRejected, ApplicationWaitlisted},
	ApplicationWaitlisted: {ApplicationSelected, ApplicationRejected},
}

// jobTransitions enumerates the permitted job posting status moves.
// closed is terminal; inactive postings can be reactivated.
var jobTransitions = map[JobStatus][]JobStatus{
	JobDraft:    {JobActive, JobClosed},
	JobActive:   {JobInactive, JobClosed},
	JobInactive: {JobActive, JobClosed},
}

// IsTerminalCandidate reports whether no further transitions are permitted.
func IsTerminalCandidate(s CandidateStatus) bool {
	return s == CandidateSelected || s == CandidateRejected
}

// IsTerminalApplication reports whether no further transitions are permitted.
func IsTerminalApplication(s ApplicationStatus) bool {
	return s == ApplicationSelected || s == ApplicationRejected
}

// ValidateCandidateTransition checks whether a candidate may move from one
// status to another. Returns an InvalidTransitionError if not.
func ValidateCandidateTransition(from, to CandidateStatus) error {
	for _, allowed := range candidateTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "candidate", From: string(from), To: string(to)}
}

// ValidateApplicationTransition checks whether an application may move from
// one status to another.
func ValidateApplicationTransition(from, to ApplicationStatus) error {
	for _, allowed := range applicationTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "application", From: string(from), To: string(to)}
}

// ValidateJobTransition checks whether a job posting may move from one status
// to another.
func ValidateJobTransition(from, to JobStatus) error {
	for _, allowed := range jobTransitions[from] {
		if allowed == to {
			return nil
		}
	}
	return &InvalidTransitionError{Entity: "job", From: string(from), To: string(to)}
}

// JobEffectivelyActive reports whether a posting should be treated as active:
// status must be active and the expiry must be in the future. Expiry is
// evaluated at query time; stale rows are filtered, not rewritten.
func JobEffectivelyActive(status JobStatus, expiresAt time.Time, now time.Time) bool {
	return status == JobActive && now.Before(expiresAt)
}

// ValidateScore checks a single assessment score is within [0, 100].
func ValidateScore(name string, value float64) error {
	if value < 0 || value > 100 {
		return fmt.Errorf("score %s out of range: %.1f (must be 0-100)", name, value)
	}
	return nil
}
