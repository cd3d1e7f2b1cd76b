package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const candidateColumns = `id, job_id, user_id, name, email, phone, location,
	cv_filename, cv_file_path, cv_file_size, scores, status, applied_at,
	completed_at, reviewed_at, feedback, assessment_duration, conversation_id`

func scanCandidate(row pgx.Row) (*Candidate, error) {
	var c Candidate
	err := row.Scan(&c.ID, &c.JobID, &c.UserID, &c.Name, &c.Email, &c.Phone,
		&c.Location, &c.CVFilename, &c.CVFilePath, &c.CVFileSize, &c.Scores,
		&c.Status, &c.AppliedAt, &c.CompletedAt, &c.ReviewedAt, &c.Feedback,
		&c.AssessmentDuration, &c.ConversationID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan candidate: %w", err)
	}
	return &c, nil
}

// CreateCandidate creates a new candidate assessment record.
func (db *DB) CreateCandidate(ctx context.Context, input *CandidateCreateInput) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO candidates (job_id, user_id, name, email, phone, location, scores, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, 'pending')
		 RETURNING `+candidateColumns,
		input.JobID, input.UserID, input.Name, input.Email, input.Phone,
		input.Location, input.Scores,
	)
	candidate, err := scanCandidate(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create candidate: %w", err)
	}
	return candidate, nil
}

// GetCandidate retrieves a candidate by ID. Returns nil, nil when not found.
func (db *DB) GetCandidate(ctx context.Context, candidateID uuid.UUID) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE id = $1`, candidateID)
	return scanCandidate(row)
}

// GetCandidateByConversation retrieves the assessment record linked to a
// conversation. Returns nil, nil when no record is linked.
func (db *DB) GetCandidateByConversation(ctx context.Context, conversationID uuid.UUID) (*Candidate, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+candidateColumns+` FROM candidates WHERE conversation_id = $1`, conversationID)
	return scanCandidate(row)
}

// ListCandidatesByJob retrieves candidates for a job with optional status and
// minimum-score filters. The score filter is a read-time predicate over the
// overall score stored in the scores JSONB column.
func (db *DB) ListCandidatesByJob(ctx context.Context, jobID uuid.UUID, opts ListCandidatesOptions) ([]Candidate, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := `SELECT ` + candidateColumns + ` FROM candidates WHERE job_id = $1`
	args := []any{jobID}
	argNum := 2

	if opts.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, opts.Status)
		argNum++
	}
	if opts.MinScore > 0 {
		query += fmt.Sprintf(" AND (scores->>'overall')::float >= $%d", argNum)
		args = append(args, opts.MinScore)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY applied_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, opts.Offset, opts.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		candidate, err := scanCandidate(rows)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, *candidate)
	}
	return candidates, nil
}

// UpdateCandidate applies a partial update to a candidate record.
func (db *DB) UpdateCandidate(ctx context.Context, candidateID uuid.UUID, patch *CandidatePatch) (*Candidate, error) {
	sets := []string{}
	args := []any{candidateID}
	argNum := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.Scores != nil {
		addSet("scores", *patch.Scores)
	}
	if patch.Feedback != nil {
		addSet("feedback", *patch.Feedback)
	}
	if patch.CompletedAt != nil {
		addSet("completed_at", *patch.CompletedAt)
	}
	if patch.AssessmentDuration != nil {
		addSet("assessment_duration", *patch.AssessmentDuration)
	}
	if patch.ConversationID != nil {
		addSet("conversation_id", *patch.ConversationID)
	}
	if patch.CVFilename != nil {
		addSet("cv_filename", *patch.CVFilename)
	}
	if patch.CVFilePath != nil {
		addSet("cv_file_path", *patch.CVFilePath)
	}
	if patch.CVFileSize != nil {
		addSet("cv_file_size", *patch.CVFileSize)
	}

	if len(sets) == 0 {
		return db.GetCandidate(ctx, candidateID)
	}

	query := `UPDATE candidates SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + candidateColumns
	row := db.pool.QueryRow(ctx, query, args...)
	candidate, err := scanCandidate(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update candidate: %w", err)
	}
	return candidate, nil
}

// SelectCandidate marks a candidate as selected and increments the owning
// job's selected counter, in one transaction. The status update is guarded
// so a candidate already in a terminal state cannot be re-selected and the
// counter cannot be double-incremented by racing requests; ErrConflict is
// returned in that case.
func (db *DB) SelectCandidate(ctx context.Context, candidateID uuid.UUID) (*Candidate, error) {
	var candidate *Candidate
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`UPDATE candidates
			 SET status = 'selected', reviewed_at = NOW()
			 WHERE id = $1 AND status NOT IN ('selected', 'rejected')
			 RETURNING `+candidateColumns,
			candidateID,
		)
		c, err := scanCandidate(row)
		if err != nil {
			return fmt.Errorf("failed to select candidate: %w", err)
		}
		if c == nil {
			return ErrConflict
		}

		_, err = tx.Exec(ctx,
			`UPDATE job_postings SET selected_candidates = selected_candidates + 1, updated_at = NOW()
			 WHERE id = $1`,
			c.JobID,
		)
		if err != nil {
			return fmt.Errorf("failed to update job counters: %w", err)
		}

		candidate = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}

// RejectCandidate marks a candidate as rejected, merges an optional rejection
// reason into the feedback blob, and increments the owning job's rejected
// counter, in one transaction. Guarded like SelectCandidate.
func (db *DB) RejectCandidate(ctx context.Context, candidateID uuid.UUID, reason string) (*Candidate, error) {
	var candidate *Candidate
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		query := `UPDATE candidates
			 SET status = 'rejected', reviewed_at = NOW()`
		args := []any{candidateID}
		if reason != "" {
			query += `, feedback = COALESCE(feedback, '{}'::jsonb) || jsonb_build_object('rejection_reason', $2::text)`
			args = append(args, reason)
		}
		query += ` WHERE id = $1 AND status NOT IN ('selected', 'rejected')
			 RETURNING ` + candidateColumns

		row := tx.QueryRow(ctx, query, args...)
		c, err := scanCandidate(row)
		if err != nil {
			return fmt.Errorf("failed to reject candidate: %w", err)
		}
		if c == nil {
			return ErrConflict
		}

		_, err = tx.Exec(ctx,
			`UPDATE job_postings SET rejected_candidates = rejected_candidates + 1, updated_at = NOW()
			 WHERE id = $1`,
			c.JobID,
		)
		if err != nil {
			return fmt.Errorf("failed to update job counters: %w", err)
		}

		candidate = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return candidate, nil
}
