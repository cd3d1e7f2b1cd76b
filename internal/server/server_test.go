package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonathan/recruitai/internal/ai"
	"github.com/jonathan/recruitai/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestServer builds a server without a database connection. Handlers that
// reach the database are exercised in the integration tests instead.
func newTestServer() *Server {
	jwtService := NewJWTService(&config.JWTConfig{
		Secret:             "test-secret-key-for-unit-tests",
		ExpirationMinutes:  30,
		RefreshExpiryHours: 168,
	})
	return &Server{
		cfg: &config.Config{
			Port:        8080,
			BaseURL:     "http://localhost:8080",
			UploadDir:   "/tmp/recruitai-test-uploads",
			MaxFileSize: 1 << 20,
		},
		jwtService:  jwtService,
		authHandler: NewAuthHandler(nil, jwtService),
		transcriber: ai.StubTranscriber{},
		analyzer:    ai.StubAnalyzer{},
		describer:   ai.TemplateDescriber{},
	}
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	s.handleHealth(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHandleGetJob_InvalidID(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/jobs/not-a-uuid", nil)
	req.SetPathValue("id", "not-a-uuid")
	w := httptest.NewRecorder()

	s.handleGetJob(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Invalid job ID")
}

// Protected handlers must refuse requests that never passed the auth
// middleware.
func TestProtectedHandlers_Unauthenticated(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		method  string
		target  string
	}{
		{"get me", s.handleGetMe, http.MethodGet, "/users/me"},
		{"create job", s.handleCreateJob, http.MethodPost, "/jobs"},
		{"my jobs", s.handleListMyJobs, http.MethodGet, "/jobs/my-jobs"},
		{"create candidate", s.handleCreateCandidate, http.MethodPost, "/candidates"},
		{"select candidate", s.handleSelectCandidate, http.MethodPost, "/candidates/x/select"},
		{"create application", s.handleCreateApplication, http.MethodPost, "/applications"},
		{"create conversation", s.handleCreateConversation, http.MethodPost, "/conversations"},
		{"end conversation", s.handleEndConversation, http.MethodPost, "/conversations/x/end"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, nil)
			w := httptest.NewRecorder()

			tt.handler(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestCORS_ConfiguredOrigins(t *testing.T) {
	s := newTestServer()
	s.cfg.CORSOrigins = []string{"https://app.example.com"}

	handler := s.withCORS(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/jobs", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	s := newTestServer()

	handler := s.withCORS(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
		t.Fatal("preflight should not reach the next handler")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/jobs", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/jobs?limit=25&offset=abc&big=5000", nil)

	assert.Equal(t, 25, parseQueryInt(req, "limit", 50, 100))
	assert.Equal(t, 0, parseQueryInt(req, "offset", 0, 0))
	assert.Equal(t, 100, parseQueryInt(req, "big", 50, 100))
	assert.Equal(t, 50, parseQueryInt(req, "missing", 50, 100))
}

// The optional rejection reason is validated before anything else runs.
func TestHandleRejectCandidate_ReasonTooLong(t *testing.T) {
	s := newTestServer()

	body, err := json.Marshal(rejectCandidateRequest{Reason: strings.Repeat("x", 2001)})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/candidates/x/reject", bytes.NewReader(body))
	req.SetPathValue("id", "x")
	w := httptest.NewRecorder()

	s.handleRejectCandidate(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "Reason")
}

func TestValidateSalaryRange(t *testing.T) {
	low, high := 50000, 90000

	assert.NoError(t, validateSalaryRange(nil, nil))
	assert.NoError(t, validateSalaryRange(&low, nil))
	assert.NoError(t, validateSalaryRange(&low, &high))
	assert.Error(t, validateSalaryRange(&high, &low))
}
