package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator is a test implementation of TokenValidator for unit tests.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{
		validTokens: make(map[string]uuid.UUID),
	}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token string is empty")
	}
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return &testClaims{userID: userID}, nil
}

type testClaims struct {
	userID uuid.UUID
}

func (c *testClaims) GetUserID() uuid.UUID {
	return c.userID
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.validTokens["valid-test-token"] = userID

	handlerCalled := false
	var contextUserID uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		extracted, err := GetUserID(r)
		require.NoError(t, err)
		contextUserID = extracted
		w.WriteHeader(http.StatusOK)
	})

	wrapped := AuthMiddleware(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer valid-test-token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.True(t, handlerCalled, "handler should be called")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, contextUserID)
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	handlerCalled := false
	handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		handlerCalled = true
	})

	wrapped := AuthMiddleware(newTestTokenValidator())(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.False(t, handlerCalled, "handler should not be called")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not be called")
	})

	wrapped := AuthMiddleware(newTestTokenValidator())(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "Bearer unknown-token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	validator := newTestTokenValidator()
	validator.validTokens["token"] = uuid.New()

	tests := []struct {
		name   string
		header string
	}{
		{"no scheme", "token"},
		{"wrong scheme", "Basic token"},
		{"empty bearer", "Bearer "},
		{"extra parts", "Bearer token extra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
				t.Fatal("handler should not be called")
			})
			wrapped := AuthMiddleware(validator)(handler)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			wrapped.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_CaseInsensitiveBearer(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.validTokens["token"] = userID

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrapped := AuthMiddleware(validator)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "bearer token")
	w := httptest.NewRecorder()

	wrapped.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetUserID_MissingContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
}
