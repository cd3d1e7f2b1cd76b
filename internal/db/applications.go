package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const applicationColumns = `id, job_id, candidate_id, status, source, referrer,
	applied_at, completed_at, reviewed_at`

func scanApplication(row pgx.Row) (*JobApplication, error) {
	var a JobApplication
	err := row.Scan(&a.ID, &a.JobID, &a.CandidateID, &a.Status, &a.Source,
		&a.Referrer, &a.AppliedAt, &a.CompletedAt, &a.ReviewedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan application: %w", err)
	}
	return &a, nil
}

// CreateApplication creates a new job application and increments the job's
// total_applications counter in the same transaction.
func (db *DB) CreateApplication(ctx context.Context, input *ApplicationCreateInput) (*JobApplication, error) {
	var application *JobApplication
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO job_applications (job_id, candidate_id, status, source, referrer)
			 VALUES ($1, $2, 'pending', $3, $4)
			 RETURNING `+applicationColumns,
			input.JobID, input.CandidateID, input.Source, input.Referrer,
		)
		a, err := scanApplication(row)
		if err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE job_postings SET total_applications = total_applications + 1, updated_at = NOW()
			 WHERE id = $1`,
			input.JobID,
		)
		if err != nil {
			return fmt.Errorf("failed to update application count: %w", err)
		}

		application = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return application, nil
}

// GetApplication retrieves an application by ID. Returns nil, nil when not found.
func (db *DB) GetApplication(ctx context.Context, applicationID uuid.UUID) (*JobApplication, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+applicationColumns+` FROM job_applications WHERE id = $1`, applicationID)
	return scanApplication(row)
}

// ListApplicationsByUser retrieves applications submitted by a candidate.
func (db *DB) ListApplicationsByUser(ctx context.Context, candidateID uuid.UUID, opts ListApplicationsOptions) ([]JobApplication, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	rows, err := db.pool.Query(ctx,
		`SELECT `+applicationColumns+` FROM job_applications
		 WHERE candidate_id = $1
		 ORDER BY applied_at DESC OFFSET $2 LIMIT $3`,
		candidateID, opts.Offset, opts.Limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

// ListApplicationsByJob retrieves applications for a job with an optional
// status filter.
func (db *DB) ListApplicationsByJob(ctx context.Context, jobID uuid.UUID, opts ListApplicationsOptions) ([]JobApplication, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := `SELECT ` + applicationColumns + ` FROM job_applications WHERE job_id = $1`
	args := []any{jobID}
	argNum := 2

	if opts.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, opts.Status)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY applied_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, opts.Offset, opts.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	defer rows.Close()

	return collectApplications(rows)
}

func collectApplications(rows pgx.Rows) ([]JobApplication, error) {
	var applications []JobApplication
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		applications = append(applications, *a)
	}
	return applications, nil
}

// UpdateApplication applies a partial update to an application.
func (db *DB) UpdateApplication(ctx context.Context, applicationID uuid.UUID, patch *ApplicationPatch) (*JobApplication, error) {
	sets := []string{}
	args := []any{applicationID}
	argNum := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.CompletedAt != nil {
		addSet("completed_at", *patch.CompletedAt)
	}
	if patch.ReviewedAt != nil {
		addSet("reviewed_at", *patch.ReviewedAt)
	}

	if len(sets) == 0 {
		return db.GetApplication(ctx, applicationID)
	}

	query := `UPDATE job_applications SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + applicationColumns
	row := db.pool.QueryRow(ctx, query, args...)
	application, err := scanApplication(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return application, nil
}
