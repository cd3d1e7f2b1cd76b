package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const jobColumns = `id, recruiter_id, title, company, description, requirements,
	location, employment_type, salary_min, salary_max, salary_currency,
	skill_weights, cutoff_percentage, max_candidates, active_days, expires_at,
	enable_waitlist, waitlist_duration, waitlist_message, status,
	selected_candidates, rejected_candidates, total_applications,
	created_at, updated_at`

func scanJob(row pgx.Row) (*JobPosting, error) {
	var j JobPosting
	err := row.Scan(&j.ID, &j.RecruiterID, &j.Title, &j.Company, &j.Description,
		&j.Requirements, &j.Location, &j.EmploymentType, &j.SalaryMin, &j.SalaryMax,
		&j.SalaryCurrency, &j.SkillWeights, &j.CutoffPercentage, &j.MaxCandidates,
		&j.ActiveDays, &j.ExpiresAt, &j.EnableWaitlist, &j.WaitlistDuration,
		&j.WaitlistMessage, &j.Status, &j.SelectedCandidates, &j.RejectedCandidates,
		&j.TotalApplications, &j.CreatedAt, &j.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan job posting: %w", err)
	}
	return &j, nil
}

// CreateJob creates a new job posting and returns the stored record.
func (db *DB) CreateJob(ctx context.Context, input *JobCreateInput) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO job_postings (recruiter_id, title, company, description, requirements,
		                           location, employment_type, salary_min, salary_max, salary_currency,
		                           skill_weights, cutoff_percentage, max_candidates, active_days,
		                           expires_at, enable_waitlist, waitlist_duration, waitlist_message, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 RETURNING `+jobColumns,
		input.RecruiterID, input.Title, input.Company, input.Description,
		StringArray(input.Requirements), input.Location, input.EmploymentType,
		input.SalaryMin, input.SalaryMax, input.SalaryCurrency, input.SkillWeights,
		input.CutoffPercentage, input.MaxCandidates, input.ActiveDays, input.ExpiresAt,
		input.EnableWaitlist, input.WaitlistDuration, input.WaitlistMessage, input.Status,
	)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create job posting: %w", err)
	}
	return job, nil
}

// GetJob retrieves a job posting by ID. Returns nil, nil when not found.
func (db *DB) GetJob(ctx context.Context, jobID uuid.UUID) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM job_postings WHERE id = $1`, jobID)
	return scanJob(row)
}

// ListJobs retrieves job postings with optional filters and pagination.
// When ActiveOnly is set, expiry is evaluated at query time: rows whose
// expires_at has passed are filtered out, not rewritten.
func (db *DB) ListJobs(ctx context.Context, opts ListJobsOptions) ([]JobPosting, error) {
	if opts.Limit <= 0 {
		opts.Limit = 100
	}

	query := `SELECT ` + jobColumns + ` FROM job_postings WHERE 1=1`
	args := []any{}
	argNum := 1

	if opts.ActiveOnly {
		query += ` AND status = 'active' AND expires_at > NOW()`
	}
	if opts.RecruiterID != nil {
		query += fmt.Sprintf(" AND recruiter_id = $%d", argNum)
		args = append(args, *opts.RecruiterID)
		argNum++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC OFFSET $%d LIMIT $%d", argNum, argNum+1)
	args = append(args, opts.Offset, opts.Limit)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var jobs []JobPosting
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, nil
}

// UpdateJob applies a partial update to a job posting. Only non-nil patch
// fields are written.
func (db *DB) UpdateJob(ctx context.Context, jobID uuid.UUID, patch *JobPatch) (*JobPosting, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{jobID}
	argNum := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Company != nil {
		addSet("company", *patch.Company)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.Requirements != nil {
		addSet("requirements", StringArray(*patch.Requirements))
	}
	if patch.Location != nil {
		addSet("location", *patch.Location)
	}
	if patch.EmploymentType != nil {
		addSet("employment_type", *patch.EmploymentType)
	}
	if patch.SalaryMin != nil {
		addSet("salary_min", *patch.SalaryMin)
	}
	if patch.SalaryMax != nil {
		addSet("salary_max", *patch.SalaryMax)
	}
	if patch.SalaryCurrency != nil {
		addSet("salary_currency", *patch.SalaryCurrency)
	}
	if patch.SkillWeights != nil {
		addSet("skill_weights", *patch.SkillWeights)
	}
	if patch.CutoffPercentage != nil {
		addSet("cutoff_percentage", *patch.CutoffPercentage)
	}
	if patch.MaxCandidates != nil {
		addSet("max_candidates", *patch.MaxCandidates)
	}
	if patch.EnableWaitlist != nil {
		addSet("enable_waitlist", *patch.EnableWaitlist)
	}
	if patch.WaitlistDuration != nil {
		addSet("waitlist_duration", *patch.WaitlistDuration)
	}
	if patch.WaitlistMessage != nil {
		addSet("waitlist_message", *patch.WaitlistMessage)
	}
	if patch.Status != nil {
		addSet("status", *patch.Status)
	}

	query := `UPDATE job_postings SET ` + strings.Join(sets, ", ") +
		` WHERE id = $1 RETURNING ` + jobColumns
	row := db.pool.QueryRow(ctx, query, args...)
	job, err := scanJob(row)
	if err != nil {
		return nil, fmt.Errorf("failed to update job posting: %w", err)
	}
	return job, nil
}

// DeleteJob deletes a job posting. Candidates, applications and
// conversations for the job are removed by FK cascade.
func (db *DB) DeleteJob(ctx context.Context, jobID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM job_postings WHERE id = $1`, jobID)
	if err != nil {
		return fmt.Errorf("failed to delete job posting: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job posting not found: %s", jobID)
	}
	return nil
}
