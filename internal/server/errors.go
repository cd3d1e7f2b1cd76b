// Package server provides the HTTP REST API for the recruiting platform.
package server

import (
	"fmt"
	"net/http"

	"github.com/google/uuid"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUnauthenticated indicates a missing or invalid access token
type ErrUnauthenticated struct{}

func (e *ErrUnauthenticated) Error() string {
	return "authentication required"
}

// ErrInactiveAccount indicates the authenticated account is deactivated
type ErrInactiveAccount struct{}

func (e *ErrInactiveAccount) Error() string {
	return "account is inactive"
}

// ErrForbidden indicates the actor may not access the resource
type ErrForbidden struct {
	Resource string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("not authorized to access this %s", e.Resource)
}

// ErrNotFound indicates the requested resource does not exist
type ErrNotFound struct {
	Resource string
	ID       uuid.UUID
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidState indicates an operation conflicts with the resource's
// current lifecycle state
type ErrInvalidState struct {
	Message string
}

func (e *ErrInvalidState) Error() string {
	return e.Message
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch err.(type) {
	case *ErrEmailAlreadyExists, *ErrInvalidState:
		return http.StatusConflict
	case *ErrInvalidCredentials, *ErrUnauthenticated:
		return http.StatusUnauthorized
	case *ErrInactiveAccount, *ErrForbidden:
		return http.StatusForbidden
	case *ErrNotFound:
		return http.StatusNotFound
	case *ErrValidation:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
