// Package authz centralizes the ownership rules that decide which user may
// read or write which entity. Every non-public read and every mutation is
// checked here rather than with ad-hoc per-handler comparisons.
package authz

import (
	"github.com/google/uuid"

	"github.com/jonathan/recruitai/internal/db"
)

// Action is the kind of access being requested.
type Action string

// Actions.
const (
	ActionRead  Action = "read"
	ActionWrite Action = "write"
)

// Actor is the authenticated caller.
type Actor struct {
	ID   uuid.UUID
	Role string
}

// Resource describes the ownership edges of the entity being accessed.
// RecruiterID is the recruiter owning the entity's job; OwnerUserID is the
// candidate-side user owning the record, nil when the record has no
// registered owner.
type Resource struct {
	RecruiterID uuid.UUID
	OwnerUserID *uuid.UUID
}

// CanAccess reports whether the actor may perform the action on the
// resource. Recruiters reach entities through the job's recruiter edge;
// candidates reach them through the candidate/user edge. Read and write
// follow the same ownership rules.
func CanAccess(actor Actor, resource Resource, _ Action) bool {
	switch actor.Role {
	case db.RoleRecruiter:
		return resource.RecruiterID == actor.ID
	case db.RoleCandidate:
		return resource.OwnerUserID != nil && *resource.OwnerUserID == actor.ID
	default:
		return false
	}
}

// ForJob builds the resource for a job posting. Job postings have no
// candidate-side owner.
func ForJob(job *db.JobPosting) Resource {
	return Resource{RecruiterID: job.RecruiterID}
}

// ForCandidate builds the resource for a candidate record, which is dually
// owned: by the job's recruiter and, when registered, by the applicant.
func ForCandidate(candidate *db.Candidate, job *db.JobPosting) Resource {
	return Resource{RecruiterID: job.RecruiterID, OwnerUserID: candidate.UserID}
}

// ForApplication builds the resource for a job application.
func ForApplication(application *db.JobApplication, job *db.JobPosting) Resource {
	return Resource{RecruiterID: job.RecruiterID, OwnerUserID: &application.CandidateID}
}

// ForConversation builds the resource for an interview conversation.
func ForConversation(conversation *db.Conversation, job *db.JobPosting) Resource {
	return Resource{RecruiterID: job.RecruiterID, OwnerUserID: &conversation.CandidateID}
}
