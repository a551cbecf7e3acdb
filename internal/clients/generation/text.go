package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Alily223/red-knight/internal/errors"
)

// TextClient is the raw prompt-in/text-out backend. Implementations
// must bound their wait; callers treat any error as a failed call and
// fall back to local content rather than retrying.
type TextClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// InferenceConfig configures the HTTP inference backend
type InferenceConfig struct {
	// Endpoint is the full URL of the text-generation model
	Endpoint string
	// Token is the bearer token, may be empty
	Token string
	// HTTPTimeout bounds each request (optional, defaults to 15 seconds)
	HTTPTimeout time.Duration
}

// Validate validates the config and sets defaults
func (cfg *InferenceConfig) Validate() error {
	if cfg.Endpoint == "" {
		return errors.InvalidArgument("endpoint is required")
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 15 * time.Second
	}
	return nil
}

type inferenceClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
}

// NewInference creates a TextClient backed by a hosted-inference HTTP
// endpoint. The endpoint accepts {"inputs": prompt} and answers with
// [{"generated_text": text}].
func NewInference(cfg *InferenceConfig) (TextClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &inferenceClient{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}, nil
}

func (c *inferenceClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"inputs": prompt})
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal prompt")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "failed to build inference request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "inference request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errors.Unavailablef("inference endpoint returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read inference response")
	}

	var results []struct {
		GeneratedText string `json:"generated_text"`
	}
	if err := json.Unmarshal(data, &results); err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decode inference response")
	}
	if len(results) == 0 || results[0].GeneratedText == "" {
		return "", errors.Unavailable("inference endpoint returned no text")
	}

	return results[0].GeneratedText, nil
}

// Disabled returns a TextClient that always fails, forcing every
// wrapper onto its local fallback path. Used when no generation
// backend is configured.
func Disabled() TextClient {
	return disabledClient{}
}

type disabledClient struct{}

func (disabledClient) Generate(_ context.Context, _ string) (string, error) {
	return "", errors.Unavailable("text generation is disabled")
}
