package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password_hash, name, role, company, avatar_url,
	phone, location, bio, is_active, is_verified, created_at, updated_at`

func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role,
		&u.Company, &u.AvatarURL, &u.Phone, &u.Location, &u.Bio,
		&u.IsActive, &u.IsVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	return &u, nil
}

// CreateUser creates a new user record and returns its ID. Emails are stored
// lowercased so the unique index is case-insensitive in practice.
func (db *DB) CreateUser(ctx context.Context, input *UserCreateInput) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO users (email, password_hash, name, role, company, phone, location, bio, is_active, is_verified)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, FALSE)
		 RETURNING id`,
		strings.ToLower(input.Email), input.PasswordHash, input.Name, input.Role,
		input.Company, input.Phone, input.Location, input.Bio,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create user: %w", err)
	}
	return id, nil
}

// GetUser retrieves a user by ID. Returns nil, nil when not found.
func (db *DB) GetUser(ctx context.Context, userID uuid.UUID) (*User, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, userID)
	return scanUser(row)
}

// GetUserByEmail retrieves a user by email. Returns nil, nil when not found.
func (db *DB) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	return scanUser(row)
}

// CheckEmailExists reports whether a user with the given email exists.
func (db *DB) CheckEmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, strings.ToLower(email),
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// UpdateUser applies a partial update to a user. Only non-nil patch fields
// are written; updated_at is always refreshed.
func (db *DB) UpdateUser(ctx context.Context, userID uuid.UUID, patch *UserPatch) error {
	sets := []string{"updated_at = NOW()"}
	args := []any{userID}
	argNum := 2

	addSet := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argNum))
		args = append(args, value)
		argNum++
	}

	if patch.Name != nil {
		addSet("name", *patch.Name)
	}
	if patch.Company != nil {
		addSet("company", *patch.Company)
	}
	if patch.AvatarURL != nil {
		addSet("avatar_url", *patch.AvatarURL)
	}
	if patch.Phone != nil {
		addSet("phone", *patch.Phone)
	}
	if patch.Location != nil {
		addSet("location", *patch.Location)
	}
	if patch.Bio != nil {
		addSet("bio", *patch.Bio)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1`
	result, err := db.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// UpdatePassword sets a new password hash for the user.
func (db *DB) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// SetVerified marks a user as verified.
func (db *DB) SetVerified(ctx context.Context, userID uuid.UUID, verified bool) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE users SET is_verified = $1, updated_at = NOW() WHERE id = $2`,
		verified, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set verified flag: %w", err)
	}
	return nil
}

// DeleteUser deletes a user. Owned job postings, applications and
// conversations are removed by FK cascade.
func (db *DB) DeleteUser(ctx context.Context, userID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user not found: %s", userID)
	}
	return nil
}

// GetUserProfile retrieves the public subset of a user's profile.
func (db *DB) GetUserProfile(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	var p UserProfile
	err := db.pool.QueryRow(ctx,
		`SELECT id, name, role, company, avatar_url, location, bio
		 FROM users WHERE id = $1`, userID,
	).Scan(&p.ID, &p.Name, &p.Role, &p.Company, &p.AvatarURL, &p.Location, &p.Bio)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user profile: %w", err)
	}
	return &p, nil
}
