package interfaces

import "context"

// TextGenerator produces an answer from a prompt. Failures are reported as
// "[ERROR] ..." text rather than as an error value.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) string
}

// GeminiClient provides access to Gemini API
type GeminiClient interface {
	TextGenerator

	// GenerateContent generates AI content from a prompt
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// Configured reports whether an API key is available
	Configured() bool
}
