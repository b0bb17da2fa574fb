// Package gemini provides a client for the Google Gemini API
package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/bobmcallan/finbot/internal/common"
	"github.com/bobmcallan/finbot/internal/interfaces"
)

const (
	DefaultModel     = "gemini-2.5-flash-lite"
	DefaultTimeout   = 60 * time.Second
	DefaultRateLimit = 5
)

// Error text returned by Generate. Callers display it verbatim.
const (
	MissingKeyMessage = "[ERROR] GOOGLE_API_KEY not found in environment variables. Please check your .env file."
	apiFailurePrefix  = "[ERROR] API Call Failed: "
)

// ErrMissingAPIKey is returned by GenerateContent when no API key was configured.
var ErrMissingAPIKey = errors.New("GOOGLE_API_KEY not configured")

// contentGenerator is the subset of *genai.Models the client calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements the GeminiClient interface
type Client struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	retries int
	limiter *rate.Limiter
	logger  *common.Logger
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithModel sets the model to use
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout bounds each generate call
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRateLimit sets the request rate limit (requests per second); zero disables limiting
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		} else {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
		}
	}
}

// WithRetries sets how many times a failed call is retried
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Gemini client. An empty apiKey yields a client that
// answers every request with the missing-credential message.
func NewClient(ctx context.Context, apiKey string, opts ...ClientOption) (*Client, error) {
	c := newClient(nil, opts...)
	if apiKey == "" {
		c.logger.Warn().Msg("Gemini API key not configured - answers will report the missing key")
		return c, nil
	}

	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	c.models = genaiClient.Models
	return c, nil
}

func newClient(models contentGenerator, opts ...ClientOption) *Client {
	c := &Client{
		models:  models,
		model:   DefaultModel,
		timeout: DefaultTimeout,
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configured reports whether the client holds an API key
func (c *Client) Configured() bool {
	return c.models != nil
}

// Model returns the configured model name
func (c *Client) Model() string {
	return c.model
}

// Close closes the client
func (c *Client) Close() error {
	// The genai client doesn't have a Close method
	return nil
}

// Generate returns generated text, or an "[ERROR] ..." message on failure.
func (c *Client) Generate(ctx context.Context, prompt string) string {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			return MissingKeyMessage
		}
		c.logger.Warn().Err(err).Str("model", c.model).Msg("Gemini call failed")
		return apiFailurePrefix + err.Error()
	}
	return text
}

// GenerateContent generates AI content from a prompt
func (c *Client) GenerateContent(ctx context.Context, prompt string) (string, error) {
	text, err := c.generate(ctx, prompt)
	if err != nil {
		if errors.Is(err, ErrMissingAPIKey) {
			return "", err
		}
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	return text, nil
}

// generate performs the call with rate limiting, a per-attempt timeout and
// the configured retries. Errors are returned unwrapped.
func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	if c.models == nil {
		return "", ErrMissingAPIKey
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", err
		}

		c.logger.Debug().Str("model", c.model).Int("attempt", attempt+1).Msg("Generating content")

		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		result, err := c.models.GenerateContent(callCtx, c.model, genai.Text(prompt), nil)
		cancel()
		if err == nil {
			return extractTextFromResponse(result)
		}
		lastErr = err

		if ctx.Err() != nil {
			break
		}
	}
	return "", lastErr
}

// extractTextFromResponse extracts text from a generate content response
func extractTextFromResponse(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no content generated")
	}

	text := ""
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			text += part.Text
		}
	}

	return text, nil
}

// Ensure Client implements GeminiClient
var _ interfaces.GeminiClient = (*Client)(nil)
