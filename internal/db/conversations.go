package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const conversationColumns = `id, candidate_id, job_id, started_at, ended_at,
	duration, final_analysis, sentiment_score, confidence_score`

func scanConversation(row pgx.Row) (*Conversation, error) {
	var c Conversation
	err := row.Scan(&c.ID, &c.CandidateID, &c.JobID, &c.StartedAt, &c.EndedAt,
		&c.Duration, &c.FinalAnalysis, &c.SentimentScore, &c.ConfidenceScore)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan conversation: %w", err)
	}
	return &c, nil
}

// CreateConversation opens a new interview session with started_at = now.
func (db *DB) CreateConversation(ctx context.Context, candidateID, jobID uuid.UUID) (*Conversation, error) {
	row := db.pool.QueryRow(ctx,
		`INSERT INTO conversations (candidate_id, job_id)
		 VALUES ($1, $2)
		 RETURNING `+conversationColumns,
		candidateID, jobID,
	)
	conversation, err := scanConversation(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation: %w", err)
	}
	return conversation, nil
}

// CreateConversationForCandidate opens a session and links the candidate's
// assessment record in one transaction: the record moves to interviewing and
// points at the new conversation. The link is guarded on the pending status;
// ErrConflict is returned when the record moved concurrently, and no
// conversation is created.
func (db *DB) CreateConversationForCandidate(ctx context.Context, userID, jobID, candidateID uuid.UUID) (*Conversation, error) {
	var conversation *Conversation
	err := db.withTx(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx,
			`INSERT INTO conversations (candidate_id, job_id)
			 VALUES ($1, $2)
			 RETURNING `+conversationColumns,
			userID, jobID,
		)
		c, err := scanConversation(row)
		if err != nil {
			return fmt.Errorf("failed to create conversation: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE candidates
			 SET status = 'interviewing', conversation_id = $2
			 WHERE id = $1 AND status = 'pending'`,
			candidateID, c.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to link candidate: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return ErrConflict
		}

		conversation = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return conversation, nil
}

// GetConversation retrieves a conversation by ID. Returns nil, nil when not found.
func (db *DB) GetConversation(ctx context.Context, conversationID uuid.UUID) (*Conversation, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, conversationID)
	return scanConversation(row)
}

// AddMessage appends a message to an open conversation. The insert is
// conditional on the conversation still being open; ErrConflict is returned
// if it has already been closed.
func (db *DB) AddMessage(ctx context.Context, conversationID uuid.UUID, input *MessageCreateInput) (*ConversationMessage, error) {
	var m ConversationMessage
	err := db.pool.QueryRow(ctx,
		`INSERT INTO conversation_messages
		     (conversation_id, sender, message, audio_file_path, audio_duration, transcription_confidence)
		 SELECT $1, $2, $3, $4, $5, $6
		 WHERE EXISTS (SELECT 1 FROM conversations WHERE id = $1 AND ended_at IS NULL)
		 RETURNING id, conversation_id, sender, message, timestamp,
		           audio_file_path, audio_duration, transcription_confidence`,
		conversationID, input.Sender, input.Message, input.AudioFilePath,
		input.AudioDuration, input.TranscriptionConfidence,
	).Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Message, &m.Timestamp,
		&m.AudioFilePath, &m.AudioDuration, &m.TranscriptionConfidence)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("failed to add message: %w", err)
	}
	return &m, nil
}

// ListMessages retrieves a conversation's messages in arrival order.
func (db *DB) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]ConversationMessage, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, conversation_id, sender, message, timestamp,
		        audio_file_path, audio_duration, transcription_confidence
		 FROM conversation_messages
		 WHERE conversation_id = $1
		 ORDER BY seq ASC`,
		conversationID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	var messages []ConversationMessage
	for rows.Next() {
		var m ConversationMessage
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.Sender, &m.Message,
			&m.Timestamp, &m.AudioFilePath, &m.AudioDuration, &m.TranscriptionConfidence); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

// CloseConversation ends a session: it sets ended_at, computes the duration
// in seconds and stores the final analysis, all in one guarded update.
// Duration and analysis are written together, exactly once; a second close
// attempt returns ErrConflict.
func (db *DB) CloseConversation(ctx context.Context, conversationID uuid.UUID, analysis Analysis) (*Conversation, error) {
	row := db.pool.QueryRow(ctx,
		`UPDATE conversations
		 SET ended_at = NOW(),
		     duration = EXTRACT(EPOCH FROM (NOW() - started_at))::int,
		     final_analysis = $2
		 WHERE id = $1 AND ended_at IS NULL
		 RETURNING `+conversationColumns,
		conversationID, analysis,
	)
	conversation, err := scanConversation(row)
	if err != nil {
		return nil, fmt.Errorf("failed to close conversation: %w", err)
	}
	if conversation == nil {
		return nil, ErrConflict
	}
	return conversation, nil
}
