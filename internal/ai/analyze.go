package ai

import (
	"context"

	"github.com/jonathan/recruitai/internal/db"
)

// Analyzer produces the terminal analysis for a finished interview
// conversation.
type Analyzer interface {
	Analyze(ctx context.Context, conversation *db.Conversation, messages []db.ConversationMessage) (*db.Analysis, error)
}

// StubAnalyzer returns fixed analysis text. It stands in for a real model
// call.
type StubAnalyzer struct{}

// Analyze returns the canned analysis regardless of conversation content.
func (StubAnalyzer) Analyze(_ context.Context, _ *db.Conversation, _ []db.ConversationMessage) (*db.Analysis, error) {
	return &db.Analysis{
		Strengths:       []string{"Good communication skills", "Technical knowledge"},
		Weaknesses:      []string{"Could improve leadership examples"},
		Recommendations: []string{"Practice behavioral questions", "Prepare more specific examples"},
	}, nil
}
