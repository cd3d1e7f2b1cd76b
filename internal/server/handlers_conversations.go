package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/recruitai/internal/authz"
	"github.com/jonathan/recruitai/internal/db"
	"github.com/jonathan/recruitai/internal/lifecycle"
)

// CreateConversationRequest is the payload for POST /conversations.
// candidate_id optionally links the session to an assessment record, which
// is then moved to interviewing.
type CreateConversationRequest struct {
	JobID       uuid.UUID  `json:"job_id" validate:"required"`
	CandidateID *uuid.UUID `json:"candidate_id,omitempty"`
}

// AddMessageRequest is the payload for POST /conversations/{id}/messages.
type AddMessageRequest struct {
	Message string `json:"message" validate:"required,min=1,max=10000"`
	Sender  string `json:"sender,omitempty" validate:"omitempty,oneof=ai candidate"`
}

// ConversationResponse bundles a conversation with its messages.
type ConversationResponse struct {
	Conversation *db.Conversation         `json:"conversation"`
	Messages     []db.ConversationMessage `json:"messages"`
}

// loadConversationWithJob fetches a conversation and its job, translating
// missing rows into NotFound.
func (s *Server) loadConversationWithJob(r *http.Request, conversationID uuid.UUID) (*db.Conversation, *db.JobPosting, error) {
	conversation, err := s.db.GetConversation(r.Context(), conversationID)
	if err != nil {
		return nil, nil, err
	}
	if conversation == nil {
		return nil, nil, &ErrNotFound{Resource: "conversation", ID: conversationID}
	}

	job, err := s.db.GetJob(r.Context(), conversation.JobID)
	if err != nil {
		return nil, nil, err
	}
	if job == nil {
		return nil, nil, &ErrNotFound{Resource: "job", ID: conversation.JobID}
	}

	return conversation, job, nil
}

// requireConversationOwner checks that the caller is the interviewed
// candidate. Only the interviewee may write to a session.
func requireConversationOwner(user *db.User, conversation *db.Conversation) error {
	if user.Role != db.RoleCandidate || conversation.CandidateID != user.ID {
		return &ErrForbidden{Resource: "conversation"}
	}
	return nil
}

// handleCreateConversation opens an interview session for the authenticated
// candidate on an effectively active posting.
func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if user.Role != db.RoleCandidate {
		s.handleError(w, &ErrForbidden{Resource: "conversation"})
		return
	}

	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	job, err := s.db.GetJob(r.Context(), req.JobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if job == nil {
		s.errorResponse(w, http.StatusNotFound, "Job not found")
		return
	}
	if !lifecycle.JobEffectivelyActive(lifecycle.JobStatus(job.Status), job.ExpiresAt, time.Now()) {
		s.handleError(w, &ErrInvalidState{Message: "job is not accepting interviews"})
		return
	}

	// When linking an assessment record, it must belong to the caller and
	// to this posting, and must still be movable to interviewing.
	var candidate *db.Candidate
	if req.CandidateID != nil {
		candidate, err = s.db.GetCandidate(r.Context(), *req.CandidateID)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
		if candidate == nil {
			s.errorResponse(w, http.StatusNotFound, "Candidate not found")
			return
		}
		if candidate.UserID == nil || *candidate.UserID != user.ID || candidate.JobID != job.ID {
			s.handleError(w, &ErrForbidden{Resource: "candidate"})
			return
		}
		if err := lifecycle.ValidateCandidateTransition(lifecycle.CandidateStatus(candidate.Status), lifecycle.CandidateInterviewing); err != nil {
			s.handleError(w, &ErrInvalidState{Message: err.Error()})
			return
		}
	}

	var conversation *db.Conversation
	if candidate != nil {
		conversation, err = s.db.CreateConversationForCandidate(r.Context(), user.ID, job.ID, candidate.ID)
		if err != nil && errors.Is(err, db.ErrConflict) {
			s.handleError(w, &ErrInvalidState{Message: "candidate is not awaiting an interview"})
			return
		}
	} else {
		conversation, err = s.db.CreateConversation(r.Context(), user.ID, job.ID)
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, conversation)
}

// handleGetConversation retrieves a session with its transcript. Readable by
// the interviewee and the posting's recruiter.
func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	conversationID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conversation, job, err := s.loadConversationWithJob(r, conversationID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if !authz.CanAccess(authz.Actor{ID: user.ID, Role: user.Role}, authz.ForConversation(conversation, job), authz.ActionRead) {
		s.handleError(w, &ErrForbidden{Resource: "conversation"})
		return
	}

	messages, err := s.db.ListMessages(r.Context(), conversationID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, ConversationResponse{
		Conversation: conversation,
		Messages:     messages,
	})
}

// handleAddMessage appends a text message to an open session.
func (s *Server) handleAddMessage(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	conversationID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conversation, _, err := s.loadConversationWithJob(r, conversationID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := requireConversationOwner(user, conversation); err != nil {
		s.handleError(w, err)
		return
	}

	var req AddMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := s.authHandler.validator.Struct(req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, extractValidationErrors(err))
		return
	}

	sender := req.Sender
	if sender == "" {
		sender = db.SenderCandidate
	}

	message, err := s.db.AddMessage(r.Context(), conversationID, &db.MessageCreateInput{
		Sender:  sender,
		Message: req.Message,
	})
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			s.handleError(w, &ErrInvalidState{Message: "conversation has ended"})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, message)
}

// handleAddAudioMessage accepts an audio upload, stores the file, runs the
// transcriber and appends the transcript as a candidate message.
func (s *Server) handleAddAudioMessage(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	conversationID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conversation, _, err := s.loadConversationWithJob(r, conversationID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := requireConversationOwner(user, conversation); err != nil {
		s.handleError(w, err)
		return
	}
	if !conversation.Open() {
		s.handleError(w, &ErrInvalidState{Message: "conversation has ended"})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.MaxFileSize); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("audio")
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Missing audio file")
		return
	}
	defer file.Close()

	audio, err := io.ReadAll(file)
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Failed to read audio file")
		return
	}

	audioPath, err := s.saveAudioFile(conversationID, header.Filename, audio)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Failed to store audio: "+err.Error())
		return
	}

	ctx, cancel := s.collaboratorContext(r)
	defer cancel()

	transcription, err := s.transcriber.Transcribe(ctx, audio)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Transcription failed: "+err.Error())
		return
	}

	message, err := s.db.AddMessage(r.Context(), conversationID, &db.MessageCreateInput{
		Sender:                  db.SenderCandidate,
		Message:                 transcription.Text,
		AudioFilePath:           audioPath,
		AudioDuration:           &transcription.Duration,
		TranscriptionConfidence: &transcription.Confidence,
	})
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			s.handleError(w, &ErrInvalidState{Message: "conversation has ended"})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusCreated, message)
}

// saveAudioFile writes an uploaded audio blob under the upload directory.
func (s *Server) saveAudioFile(conversationID uuid.UUID, filename string, audio []byte) (string, error) {
	dir := filepath.Join(s.cfg.UploadDir, "audio", conversationID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".webm"
	}
	path := filepath.Join(dir, uuid.New().String()+ext)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return path, nil
}

// handleEndConversation closes a session: the full transcript and posting
// are fetched concurrently, the analyzer produces the terminal analysis and
// the close is committed once. A linked assessment record moves to
// completed with the measured duration.
func (s *Server) handleEndConversation(w http.ResponseWriter, r *http.Request) {
	user, err := s.currentUser(r)
	if err != nil {
		s.handleError(w, err)
		return
	}

	conversationID, ok := pathUUID(r, "id")
	if !ok {
		s.errorResponse(w, http.StatusBadRequest, "Invalid conversation ID")
		return
	}

	conversation, _, err := s.loadConversationWithJob(r, conversationID)
	if err != nil {
		s.handleError(w, err)
		return
	}
	if err := requireConversationOwner(user, conversation); err != nil {
		s.handleError(w, err)
		return
	}
	if !conversation.Open() {
		s.handleError(w, &ErrInvalidState{Message: "conversation has ended"})
		return
	}

	var (
		messages  []db.ConversationMessage
		candidate *db.Candidate
	)
	g, gctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		messages, err = s.db.ListMessages(gctx, conversationID)
		return err
	})
	g.Go(func() error {
		var err error
		candidate, err = s.db.GetCandidateByConversation(gctx, conversationID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	ctx, cancel := s.collaboratorContext(r)
	defer cancel()

	analysis, err := s.analyzer.Analyze(ctx, conversation, messages)
	if err != nil {
		s.errorResponse(w, http.StatusBadGateway, "Analysis failed: "+err.Error())
		return
	}

	closed, err := s.db.CloseConversation(r.Context(), conversationID, *analysis)
	if err != nil {
		if errors.Is(err, db.ErrConflict) {
			s.handleError(w, &ErrInvalidState{Message: "conversation has ended"})
			return
		}
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	if candidate != nil && lifecycle.ValidateCandidateTransition(lifecycle.CandidateStatus(candidate.Status), lifecycle.CandidateCompleted) == nil {
		completed := string(lifecycle.CandidateCompleted)
		now := time.Now()
		if _, err := s.db.UpdateCandidate(r.Context(), candidate.ID, &db.CandidatePatch{
			Status:             &completed,
			CompletedAt:        &now,
			AssessmentDuration: closed.Duration,
		}); err != nil {
			s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
			return
		}
	}

	s.jsonResponse(w, http.StatusOK, closed)
}
