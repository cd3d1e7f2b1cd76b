package ai

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubTranscriber(t *testing.T) {
	tr, err := StubTranscriber{}.Transcribe(context.Background(), []byte("audio bytes"))
	require.NoError(t, err)
	assert.Equal(t, "This is a mock transcription of the audio message.", tr.Text)
	assert.Equal(t, 0.95, tr.Confidence)
	assert.Equal(t, 30.0, tr.Duration)
}

func TestStubAnalyzer(t *testing.T) {
	analysis, err := StubAnalyzer{}.Analyze(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.Strengths)
	assert.NotEmpty(t, analysis.Weaknesses)
	assert.NotEmpty(t, analysis.Recommendations)
}

func TestTemplateDescriber_KnownTitle(t *testing.T) {
	desc, err := TemplateDescriber{}.Describe(context.Background(), "Frontend Developer", nil)
	require.NoError(t, err)
	assert.Contains(t, desc, "Frontend Developer")
	assert.Contains(t, desc, "Key Responsibilities:")
	assert.NotContains(t, desc, "Required Skills and Experience:")
}

func TestTemplateDescriber_UnknownTitleFallsBack(t *testing.T) {
	desc, err := TemplateDescriber{}.Describe(context.Background(), "Staff Astronaut", nil)
	require.NoError(t, err)
	assert.Contains(t, desc, "We are seeking a qualified Staff Astronaut")
	assert.Contains(t, desc, "staff astronaut role")
}

func TestTemplateDescriber_AppendsRequirements(t *testing.T) {
	desc, err := TemplateDescriber{}.Describe(context.Background(), "Backend Developer", []string{"Go", "PostgreSQL"})
	require.NoError(t, err)
	assert.Contains(t, desc, "Required Skills and Experience:")
	assert.Contains(t, desc, "- Go")
	assert.Contains(t, desc, "- PostgreSQL")
	assert.False(t, strings.HasSuffix(desc, "\n"))
}

func TestNewGeminiDescriber_RequiresKey(t *testing.T) {
	_, err := NewGeminiDescriber(context.Background(), "", "")
	assert.Error(t, err)
}

func TestBuildDescribePrompt(t *testing.T) {
	prompt := buildDescribePrompt("Product Manager", []string{"roadmapping", "analytics"})
	assert.Contains(t, prompt, "Product Manager")
	assert.Contains(t, prompt, "roadmapping, analytics")
}
