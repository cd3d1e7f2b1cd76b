package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Describer generates a job description from a title and a requirement list.
type Describer interface {
	Describe(ctx context.Context, title string, requirements []string) (string, error)
	Close() error
}

// TemplateDescriber produces descriptions from a small library of canned
// templates keyed by title, with a generic fallback. It is the default when
// no model API key is configured.
type TemplateDescriber struct{}

var descriptionTemplates = map[string]string{
	"Frontend Developer": `We are seeking a talented Frontend Developer to join our dynamic team. You will be responsible for creating engaging user interfaces and ensuring excellent user experiences across our web applications.

Key Responsibilities:
- Develop responsive web applications using modern frontend technologies
- Collaborate with UX/UI designers to implement pixel-perfect designs
- Optimize applications for maximum speed and scalability
- Write clean, maintainable, and well-documented code

What We Offer:
- Competitive salary and comprehensive benefits package
- Flexible working arrangements and remote work options
- Professional development opportunities and learning budget`,

	"Backend Developer": `Join our engineering team as a Backend Developer and help build robust, scalable server-side applications. You'll work on designing and implementing APIs, managing databases, and ensuring our systems can handle high traffic loads.

Key Responsibilities:
- Design and develop RESTful APIs and microservices
- Implement database schemas and optimize query performance
- Ensure application security and data protection
- Write comprehensive tests and maintain code quality

What We Offer:
- Competitive compensation with equity options
- Health, dental, and vision insurance
- Flexible PTO and work-life balance`,

	"Product Manager": `We're looking for an experienced Product Manager to drive product strategy and execution. You'll work closely with engineering, design, and business stakeholders to define product roadmaps and ensure successful launches.

Key Responsibilities:
- Define product vision, strategy, and roadmap
- Conduct market research and competitive analysis
- Gather and prioritize product requirements from stakeholders
- Analyze product metrics and user feedback for improvements

What We Offer:
- Competitive salary with performance bonuses
- Comprehensive benefits and wellness programs
- Collaborative culture with cross-functional teams`,
}

// Describe returns the template for a known title, or a generic description
// otherwise. Requirements are appended as a skills section.
func (TemplateDescriber) Describe(_ context.Context, title string, requirements []string) (string, error) {
	description, ok := descriptionTemplates[title]
	if !ok {
		description = fmt.Sprintf(`We are seeking a qualified %s to join our growing team. This is an excellent opportunity for a motivated professional to contribute to our company's success.

Key Responsibilities:
- Execute core responsibilities related to the %s role
- Collaborate with cross-functional teams to achieve business objectives
- Contribute to process improvements and best practices

What We Offer:
- Competitive compensation package
- Comprehensive benefits including health insurance
- Professional development opportunities`, title, strings.ToLower(title))
	}

	if len(requirements) > 0 {
		var b strings.Builder
		b.WriteString(description)
		b.WriteString("\n\nRequired Skills and Experience:\n")
		for _, req := range requirements {
			b.WriteString("- " + req + "\n")
		}
		description = strings.TrimRight(b.String(), "\n")
	}

	return description, nil
}

// Close is a no-op for the template describer.
func (TemplateDescriber) Close() error { return nil }

// GeminiDescriber generates descriptions with the Gemini API. It is used
// when a GEMINI_API_KEY is configured.
type GeminiDescriber struct {
	client *genai.Client
	model  string
}

// NewGeminiDescriber creates a Gemini-backed describer.
func NewGeminiDescriber(ctx context.Context, apiKey, model string) (*GeminiDescriber, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiDescriber{client: client, model: model}, nil
}

// Describe prompts the model for a job description.
func (d *GeminiDescriber) Describe(ctx context.Context, title string, requirements []string) (string, error) {
	prompt := buildDescribePrompt(title, requirements)

	model := d.client.GenerativeModel(d.model)
	model.SetTemperature(0.4)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate description: %w", err)
	}

	return extractTextFromResponse(resp)
}

// Close releases resources held by the client.
func (d *GeminiDescriber) Close() error {
	if d.client != nil {
		return d.client.Close()
	}
	return nil
}

func buildDescribePrompt(title string, requirements []string) string {
	var b strings.Builder
	b.WriteString("Write a concise, professional job description for the role: ")
	b.WriteString(title)
	b.WriteString(".\nInclude a short intro, key responsibilities and what the company offers.")
	if len(requirements) > 0 {
		b.WriteString("\nThe role requires: ")
		b.WriteString(strings.Join(requirements, ", "))
		b.WriteString(".")
	}
	return b.String()
}

// extractTextFromResponse pulls the text parts out of a Gemini response.
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	result := strings.TrimSpace(b.String())
	if result == "" {
		return "", fmt.Errorf("no text content in model response")
	}
	return result, nil
}
