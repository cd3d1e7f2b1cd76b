// Package ai provides the external-intelligence collaborators used by the
// interview flow: speech-to-text, conversation analysis and job-description
// generation. Each collaborator is an interface with a stub default so the
// platform runs without vendor credentials.
package ai

import "context"

// Transcription is the result of converting audio to text.
type Transcription struct {
	Text       string
	Confidence float64
	Duration   float64 // seconds
}

// Transcriber converts candidate audio into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (*Transcription, error)
}

// StubTranscriber returns a fixed transcription. It stands in for a real
// speech-to-text service.
type StubTranscriber struct{}

// Transcribe returns the canned transcription regardless of input.
func (StubTranscriber) Transcribe(_ context.Context, _ []byte) (*Transcription, error) {
	return &Transcription{
		Text:       "This is a mock transcription of the audio message.",
		Confidence: 0.95,
		Duration:   30.0,
	}, nil
}
