package ports

import (
	"context"

	"github.com/thomas-vilte/readmegen/internal/models"
)

// TextGenerator is one LLM backend able to turn a prompt into text.
// Implementations perform a single request per call and never retry.
type TextGenerator interface {
	// Generate sends prompt to the provider and returns the trimmed text.
	Generate(ctx context.Context, prompt string, opts models.GenerationOptions) (*models.GeneratedText, error)

	// GetProviderName returns the name of the provider (e.g.: "gemini", "groq")
	GetProviderName() string

	// GetModelName returns the provider model id (e.g.: "llama-3.3-70b-versatile")
	GetModelName() string

	// MaxOutputTokens is the provider ceiling for GenerationOptions.MaxOutputTokens.
	MaxOutputTokens() int
}

// ReadmeGenerator produces a validated README for one request.
type ReadmeGenerator interface {
	GenerateReadme(ctx context.Context, req models.GenerationRequest) (*models.GeneratedDocument, error)
}
