package authz

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jonathan/recruitai/internal/db"
)

func TestCanAccess_Recruiter(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	resource := Resource{RecruiterID: owner}

	assert.True(t, CanAccess(Actor{ID: owner, Role: db.RoleRecruiter}, resource, ActionRead))
	assert.True(t, CanAccess(Actor{ID: owner, Role: db.RoleRecruiter}, resource, ActionWrite))
	assert.False(t, CanAccess(Actor{ID: other, Role: db.RoleRecruiter}, resource, ActionWrite))
}

func TestCanAccess_Candidate(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()

	resource := Resource{RecruiterID: uuid.New(), OwnerUserID: &owner}

	assert.True(t, CanAccess(Actor{ID: owner, Role: db.RoleCandidate}, resource, ActionRead))
	assert.False(t, CanAccess(Actor{ID: other, Role: db.RoleCandidate}, resource, ActionRead))

	// Unregistered applicant: no candidate-side owner at all
	anonymous := Resource{RecruiterID: uuid.New()}
	assert.False(t, CanAccess(Actor{ID: owner, Role: db.RoleCandidate}, anonymous, ActionRead))
}

func TestCanAccess_UnknownRole(t *testing.T) {
	id := uuid.New()
	resource := Resource{RecruiterID: id, OwnerUserID: &id}
	assert.False(t, CanAccess(Actor{ID: id, Role: "admin"}, resource, ActionWrite))
}

// Property check over mismatched recruiter/job pairs: a recruiter may act on
// a candidate iff the candidate's job belongs to them.
func TestCanAccess_OwnershipPairs(t *testing.T) {
	recruiters := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}

	for _, jobOwner := range recruiters {
		for _, actor := range recruiters {
			userID := uuid.New()
			candidate := &db.Candidate{UserID: &userID}
			job := &db.JobPosting{RecruiterID: jobOwner}

			got := CanAccess(Actor{ID: actor, Role: db.RoleRecruiter}, ForCandidate(candidate, job), ActionWrite)
			assert.Equal(t, jobOwner == actor, got)
		}
	}
}

func TestResourceBuilders(t *testing.T) {
	recruiterID := uuid.New()
	userID := uuid.New()

	job := &db.JobPosting{RecruiterID: recruiterID}
	assert.Equal(t, Resource{RecruiterID: recruiterID}, ForJob(job))

	candidate := &db.Candidate{UserID: &userID}
	res := ForCandidate(candidate, job)
	assert.Equal(t, recruiterID, res.RecruiterID)
	assert.Equal(t, userID, *res.OwnerUserID)

	application := &db.JobApplication{CandidateID: userID}
	res = ForApplication(application, job)
	assert.Equal(t, userID, *res.OwnerUserID)

	conversation := &db.Conversation{CandidateID: userID}
	res = ForConversation(conversation, job)
	assert.Equal(t, userID, *res.OwnerUserID)
}
