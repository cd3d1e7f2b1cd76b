package db

import (
	"time"

	"github.com/google/uuid"
)

// Role values for User.Role.
const (
	RoleRecruiter = "recruiter"
	RoleCandidate = "candidate"
)

// User represents a platform account, either a recruiter or a candidate.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize to JSON
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Company      string    `json:"company,omitempty"`
	AvatarURL    string    `json:"avatar_url,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Location     string    `json:"location,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserCreateInput holds the fields needed to create a user row.
type UserCreateInput struct {
	Email        string
	PasswordHash string
	Name         string
	Role         string
	Company      string
	Phone        string
	Location     string
	Bio          string
}

// UserPatch holds optional field updates for a user. Nil pointers are left
// untouched; non-nil pointers overwrite the stored value.
type UserPatch struct {
	Name      *string
	Company   *string
	AvatarURL *string
	Phone     *string
	Location  *string
	Bio       *string
}

// UserProfile is the public subset of a user visible to other users.
type UserProfile struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Company   string    `json:"company,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	Location  string    `json:"location,omitempty"`
	Bio       string    `json:"bio,omitempty"`
}
