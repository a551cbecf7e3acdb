package generation

import (
	"context"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/Alily223/red-knight/internal/errors"
)

// GeminiConfig configures the Gemini text backend
type GeminiConfig struct {
	APIKey string
	// Model defaults to gemini-2.5-flash
	Model string
}

// Validate validates the config and sets defaults
func (cfg *GeminiConfig) Validate() error {
	if cfg.APIKey == "" {
		return errors.InvalidArgument("api key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}
	return nil
}

type geminiClient struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a TextClient backed by the Gemini API
func NewGemini(ctx context.Context, cfg *GeminiConfig) (TextClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create gemini client")
	}

	return &geminiClient{
		client: client,
		model:  client.GenerativeModel(cfg.Model),
	}, nil
}

func (c *geminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "gemini request failed")
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 {
		return "", errors.Unavailable("gemini returned no content")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", errors.Unavailable("gemini returned an unexpected part type")
	}

	return string(text), nil
}

// Close releases the underlying Gemini connection
func (c *geminiClient) Close() {
	c.client.Close()
}
