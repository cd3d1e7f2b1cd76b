// Package server provides the HTTP REST API for the recruiting platform.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jonathan/recruitai/internal/ai"
	"github.com/jonathan/recruitai/internal/config"
	"github.com/jonathan/recruitai/internal/db"
	"github.com/jonathan/recruitai/internal/server/middleware"
	"github.com/jonathan/recruitai/internal/server/ratelimit"
)

// Server represents the HTTP server
type Server struct {
	httpServer  *http.Server
	db          *db.DB
	cfg         *config.Config
	rateLimiter *ratelimit.Limiter
	jwtService  *JWTService
	userService *UserService
	authHandler *AuthHandler

	transcriber ai.Transcriber
	analyzer    ai.Analyzer
	describer   ai.Describer
}

// New creates a new server instance
func New(cfg *config.Config) (*Server, error) {
	// Connect to database
	database, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &Server{
		db:  database,
		cfg: cfg,
	}

	// Initialize rate limiter
	s.rateLimiter = ratelimit.NewLimiter(ratelimit.LoadConfig())

	// Initialize authentication services
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create password config: %w", err)
	}
	s.userService = NewUserService(database, passwordConfig)

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to create JWT config: %w", err)
	}
	s.jwtService = NewJWTService(jwtConfig)
	s.authHandler = NewAuthHandler(s.userService, s.jwtService)

	// Interview collaborators. Stubs by default; Gemini only when a key is
	// configured.
	s.transcriber = ai.StubTranscriber{}
	s.analyzer = ai.StubAnalyzer{}
	if cfg.GeminiAPIKey != "" {
		describer, err := ai.NewGeminiDescriber(context.Background(), cfg.GeminiAPIKey, "")
		if err != nil {
			return nil, fmt.Errorf("failed to create Gemini describer: %w", err)
		}
		s.describer = describer
	} else {
		s.describer = ai.TemplateDescriber{}
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.withRateLimit(s.withLogging(s.withCORS(s.routes()))),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// routes builds the router. Protected routes go through the auth middleware;
// job browsing and the auth endpoints themselves are public.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.AuthMiddleware(s.jwtService.AsTokenValidator())
	protected := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	// Auth endpoints
	mux.HandleFunc("POST /auth/register", s.authHandler.Register)
	mux.HandleFunc("POST /auth/login", s.authHandler.Login)
	mux.HandleFunc("POST /auth/refresh", s.authHandler.Refresh)
	mux.Handle("POST /auth/test-token", protected(s.authHandler.TestToken))

	// User endpoints
	mux.Handle("GET /users/me", protected(s.handleGetMe))
	mux.Handle("PUT /users/me", protected(s.handleUpdateMe))
	mux.Handle("GET /users/profile/{id}", protected(s.handleGetUserProfile))

	// Job endpoints. Listing and reads are public.
	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("GET /jobs/{id}", s.handleGetJob)
	mux.Handle("GET /jobs/my-jobs", protected(s.handleListMyJobs))
	mux.Handle("POST /jobs", protected(s.handleCreateJob))
	mux.Handle("PUT /jobs/{id}", protected(s.handleUpdateJob))
	mux.Handle("DELETE /jobs/{id}", protected(s.handleDeleteJob))
	mux.Handle("POST /jobs/generate-description", protected(s.handleGenerateDescription))
	mux.Handle("GET /jobs/{id}/share-link", protected(s.handleJobShareLink))

	// Candidate endpoints
	mux.Handle("POST /candidates", protected(s.handleCreateCandidate))
	mux.Handle("GET /candidates/job/{job_id}", protected(s.handleListCandidatesByJob))
	mux.Handle("GET /candidates/{id}", protected(s.handleGetCandidate))
	mux.Handle("PUT /candidates/{id}", protected(s.handleUpdateCandidate))
	mux.Handle("POST /candidates/{id}/select", protected(s.handleSelectCandidate))
	mux.Handle("POST /candidates/{id}/reject", protected(s.handleRejectCandidate))

	// Application endpoints
	mux.Handle("POST /applications", protected(s.handleCreateApplication))
	mux.Handle("GET /applications/my", protected(s.handleListMyApplications))
	mux.Handle("GET /applications/job/{job_id}", protected(s.handleListApplicationsByJob))
	mux.Handle("GET /applications/{id}", protected(s.handleGetApplication))

	// Conversation endpoints
	mux.Handle("POST /conversations", protected(s.handleCreateConversation))
	mux.Handle("GET /conversations/{id}", protected(s.handleGetConversation))
	mux.Handle("POST /conversations/{id}/messages", protected(s.handleAddMessage))
	mux.Handle("POST /conversations/{id}/audio", protected(s.handleAddAudioMessage))
	mux.Handle("POST /conversations/{id}/end", protected(s.handleEndConversation))

	mux.HandleFunc("GET /health", s.handleHealth)

	return mux
}

// Start begins listening for requests
func (s *Server) Start() error {
	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	// Stop rate limiter cleanup goroutine
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}

	if err := s.describer.Close(); err != nil {
		log.Printf("Error closing describer: %v", err)
	}

	s.db.Close()
	log.Println("Server stopped")
	return nil
}

// withCORS adds CORS headers for the configured origins.
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed := s.corsOrigin(origin); allowed != "" {
			w.Header().Set("Access-Control-Allow-Origin", allowed)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// corsOrigin returns the value for Access-Control-Allow-Origin, or "" when
// the request origin is not allowed.
func (s *Server) corsOrigin(origin string) string {
	if len(s.cfg.CORSOrigins) == 0 {
		return "*"
	}
	for _, allowed := range s.cfg.CORSOrigins {
		if allowed == "*" {
			return "*"
		}
		if strings.EqualFold(allowed, origin) {
			return allowed
		}
	}
	return ""
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientID := s.extractClientID(r)

		allowed, info := s.rateLimiter.Allow(clientID, r.URL.Path, r.Method)
		if !allowed {
			s.setRateLimitHeaders(w, info)
			s.rateLimitResponse(w, info)
			return
		}

		s.setRateLimitHeaders(w, info)
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// handleError maps a typed error to its HTTP status and writes it.
func (s *Server) handleError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("Internal error: %v", err)
		s.errorResponse(w, status, "internal server error")
		return
	}
	s.errorResponse(w, status, err.Error())
}

// currentUser resolves the authenticated user from the request context and
// rejects inactive accounts.
func (s *Server) currentUser(r *http.Request) (*db.User, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return nil, &ErrUnauthenticated{}
	}

	user, err := s.db.GetUser(r.Context(), userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, &ErrUnauthenticated{}
	}
	if !user.IsActive {
		return nil, &ErrInactiveAccount{}
	}

	return user, nil
}

// collaboratorContext derives a request context with the configured timeout
// for model-backed collaborator calls.
func (s *Server) collaboratorContext(r *http.Request) (context.Context, context.CancelFunc) {
	timeout := time.Duration(s.cfg.AnalysisTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return context.WithTimeout(r.Context(), timeout)
}

// extractClientID extracts the client identifier from the request.
// For MVP, this uses the IP address from RemoteAddr.
// In the future, this could use X-Forwarded-For header (only from trusted proxies).
func (s *Server) extractClientID(r *http.Request) string {
	// Get IP from RemoteAddr (format: "IP:port")
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// If parsing fails, use the whole RemoteAddr
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]interface{}{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		response["retry_after"] = int(info.RetryAfter.Seconds())
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(info.RetryAfter.Seconds())))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d Reset=%s",
		info.Limit, info.Remaining, info.ResetTime.Format(time.RFC3339))

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
