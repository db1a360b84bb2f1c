package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

var (
	// ErrMissingAPIKey is returned when a Gemini converter is created
	// without an API key.
	ErrMissingAPIKey = errors.New("convert: API key is required")
	// ErrEmptyResponse is returned when the model replies with no
	// usable text candidates.
	ErrEmptyResponse = errors.New("convert: empty model response")
)

// Gemini converts page content using the Google Gemini API.
// It implements the Converter interface.
type Gemini struct {
	client *genai.Client
	model  string
}

// NewGemini creates a Gemini-backed converter for the given model name.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("convert: failed to create Gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  model,
	}, nil
}

// Convert sends the raw content block to the model and returns the
// converted markdown with any code fence wrapper stripped.
func (g *Gemini) Convert(ctx context.Context, content string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.1) // consistent output across re-runs

	resp, err := model.GenerateContent(ctx, genai.Text(conversionPrompt+content))
	if err != nil {
		return "", fmt.Errorf("convert: generate content: %w", err)
	}

	text, err := extractText(resp)
	if err != nil {
		return "", err
	}
	return stripFence(text), nil
}

// Close releases resources held by the underlying API client.
func (g *Gemini) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// extractText joins the text parts of the first response candidate.
func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", ErrEmptyResponse
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}
	if len(parts) == 0 {
		return "", ErrEmptyResponse
	}
	return strings.Join(parts, ""), nil
}

// stripFence removes a markdown code fence wrapping the whole document.
// Models occasionally fence their output even when told not to.
func stripFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") || !strings.HasSuffix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimSuffix(trimmed, "```")
	trimmed = strings.TrimPrefix(trimmed, "```markdown")
	trimmed = strings.TrimPrefix(trimmed, "```md")
	trimmed = strings.TrimPrefix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
