package server

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email exists", &ErrEmailAlreadyExists{Email: "a@b.com"}, http.StatusConflict},
		{"invalid credentials", &ErrInvalidCredentials{}, http.StatusUnauthorized},
		{"unauthenticated", &ErrUnauthenticated{}, http.StatusUnauthorized},
		{"inactive account", &ErrInactiveAccount{}, http.StatusForbidden},
		{"forbidden", &ErrForbidden{Resource: "job"}, http.StatusForbidden},
		{"not found", &ErrNotFound{Resource: "candidate", ID: uuid.New()}, http.StatusNotFound},
		{"invalid state", &ErrInvalidState{Message: "already decided"}, http.StatusConflict},
		{"validation", &ErrValidation{Field: "salary_min", Message: "too big"}, http.StatusBadRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	assert.Contains(t, (&ErrEmailAlreadyExists{Email: "a@b.com"}).Error(), "a@b.com")
	assert.Contains(t, (&ErrForbidden{Resource: "conversation"}).Error(), "conversation")
	assert.Contains(t, (&ErrValidation{Field: "scores.overall", Message: "out of range"}).Error(), "scores.overall")

	id := uuid.New()
	assert.Contains(t, (&ErrNotFound{Resource: "job", ID: id}).Error(), id.String())
}
