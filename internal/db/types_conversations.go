package db

import (
	"time"

	"github.com/google/uuid"
)

// Message senders.
const (
	SenderAI        = "ai"
	SenderCandidate = "candidate"
)

// Conversation represents an AI-interview dialogue session. A session is
// open until ended_at is set; duration and final_analysis are written
// together, exactly once, at close.
type Conversation struct {
	ID              uuid.UUID  `json:"id"`
	CandidateID     uuid.UUID  `json:"candidate_id"`
	JobID           uuid.UUID  `json:"job_id"`
	StartedAt       time.Time  `json:"started_at"`
	EndedAt         *time.Time `json:"ended_at,omitempty"`
	Duration        *int       `json:"duration,omitempty"` // seconds
	FinalAnalysis   *Analysis  `json:"final_analysis,omitempty"`
	SentimentScore  *float64   `json:"sentiment_score,omitempty"`
	ConfidenceScore *float64   `json:"confidence_score,omitempty"`
}

// Open reports whether the conversation still accepts messages.
func (c *Conversation) Open() bool {
	return c.EndedAt == nil
}

// ConversationMessage is a single utterance in a conversation. Messages are
// append-only and retrieved in arrival order.
type ConversationMessage struct {
	ID             uuid.UUID `json:"id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	Sender         string    `json:"sender"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`

	// Audio support
	AudioFilePath           string   `json:"audio_file_path,omitempty"`
	AudioDuration           *float64 `json:"audio_duration,omitempty"`
	TranscriptionConfidence *float64 `json:"transcription_confidence,omitempty"`
}

// MessageCreateInput holds the fields needed to append a message.
type MessageCreateInput struct {
	Sender                  string
	Message                 string
	AudioFilePath           string
	AudioDuration           *float64
	TranscriptionConfidence *float64
}
