package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCandidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    CandidateStatus
		to      CandidateStatus
		wantErr bool
	}{
		{"pending to interviewing", CandidatePending, CandidateInterviewing, false},
		{"pending to completed", CandidatePending, CandidateCompleted, false},
		{"pending to selected", CandidatePending, CandidateSelected, false},
		{"interviewing to completed", CandidateInterviewing, CandidateCompleted, false},
		{"completed to selected", CandidateCompleted, CandidateSelected, false},
		{"completed to rejected", CandidateCompleted, CandidateRejected, false},
		{"completed to waitlisted", CandidateCompleted, CandidateWaitlisted, false},
		{"waitlisted to selected", CandidateWaitlisted, CandidateSelected, false},
		{"selected is terminal", CandidateSelected, CandidateRejected, true},
		{"rejected is terminal", CandidateRejected, CandidateSelected, true},
		{"selected cannot reselect", CandidateSelected, CandidateSelected, true},
		{"completed cannot go back", CandidateCompleted, CandidatePending, true},
		{"interviewing cannot go back", CandidateInterviewing, CandidatePending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCandidateTransition(tt.from, tt.to)
			if tt.wantErr {
				require.Error(t, err)
				var invalid *InvalidTransitionError
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, "candidate", invalid.Entity)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSelectThenRejectIsDeterministic(t *testing.T) {
	// Once selected, a reject attempt must fail; the final status is the
	// first terminal transition to land.
	require.NoError(t, ValidateCandidateTransition(CandidateCompleted, CandidateSelected))
	err := ValidateCandidateTransition(CandidateSelected, CandidateRejected)
	require.Error(t, err)
}

func TestValidateApplicationTransition(t *testing.T) {
	assert.NoError(t, ValidateApplicationTransition(ApplicationPending, ApplicationCompleted))
	assert.NoError(t, ValidateApplicationTransition(ApplicationCompleted, ApplicationSelected))
	assert.NoError(t, ValidateApplicationTransition(ApplicationWaitlisted, ApplicationRejected))

	assert.Error(t, ValidateApplicationTransition(ApplicationSelected, ApplicationRejected))
	assert.Error(t, ValidateApplicationTransition(ApplicationRejected, ApplicationPending))
	// Applications have no interviewing state
	assert.Error(t, ValidateApplicationTransition(ApplicationPending, ApplicationStatus("interviewing")))
}

func TestValidateJobTransition(t *testing.T) {
	assert.NoError(t, ValidateJobTransition(JobDraft, JobActive))
	assert.NoError(t, ValidateJobTransition(JobActive, JobInactive))
	assert.NoError(t, ValidateJobTransition(JobInactive, JobActive))
	assert.NoError(t, ValidateJobTransition(JobActive, JobClosed))

	assert.Error(t, ValidateJobTransition(JobClosed, JobActive))
	assert.Error(t, ValidateJobTransition(JobDraft, JobInactive))
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, IsTerminalCandidate(CandidateSelected))
	assert.True(t, IsTerminalCandidate(CandidateRejected))
	assert.False(t, IsTerminalCandidate(CandidateWaitlisted))
	assert.False(t, IsTerminalCandidate(CandidatePending))

	assert.True(t, IsTerminalApplication(ApplicationSelected))
	assert.False(t, IsTerminalApplication(ApplicationCompleted))
}

func TestJobEffectivelyActive(t *testing.T) {
	now := time.Now()

	assert.True(t, JobEffectivelyActive(JobActive, now.Add(time.Hour), now))
	assert.False(t, JobEffectivelyActive(JobActive, now.Add(-time.Hour), now))
	assert.False(t, JobEffectivelyActive(JobActive, now, now))
	assert.False(t, JobEffectivelyActive(JobDraft, now.Add(time.Hour), now))
	assert.False(t, JobEffectivelyActive(JobClosed, now.Add(time.Hour), now))
}

func TestValidateScore(t *testing.T) {
	assert.NoError(t, ValidateScore("overall", 0))
	assert.NoError(t, ValidateScore("overall", 72))
	assert.NoError(t, ValidateScore("overall", 100))
	assert.Error(t, ValidateScore("overall", -1))
	assert.Error(t, ValidateScore("technical", 100.5))
}
