package reminder

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-2.5-flash"

type GeminiConfig struct {
	APIKey string
	Model  string

	// BaseURL and HTTPClient override the API endpoint, mainly for tests.
	BaseURL    string
	HTTPClient *http.Client
}

// GeminiGenerator phrases reminders with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  cfg.HTTPClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiGenerator{client: client, model: cfg.Model}, nil
}

func prompt(choreName, memberName string) string {
	return fmt.Sprintf(
		`You are a friendly household assistant. Generate a very short, encouraging, and friendly reminder message for a person named "%s" to complete a household chore called "%s". Keep it concise, ideally one sentence. Example: "Hey %s, don't forget about %s when you have a moment!"`,
		memberName, choreName, memberName, choreName,
	)
}

// Generate returns the trimmed model output, or ErrEmptyResponse when the
// model produced no text.
func (g *GeminiGenerator) Generate(ctx context.Context, choreName, memberName string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model,
		genai.Text(prompt(choreName, memberName)),
		&genai.GenerateContentConfig{
			Temperature: genai.Ptr[float32](0.7),
			TopP:        genai.Ptr[float32](0.95),
			TopK:        genai.Ptr[float32](40),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
