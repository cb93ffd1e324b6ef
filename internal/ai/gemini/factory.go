package gemini

import (
	"net/http"

	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/ports"
)

// ProviderFactory implements registry.AIProviderFactory for Gemini.
type ProviderFactory struct{}

func NewProviderFactory() *ProviderFactory {
	return &ProviderFactory{}
}

func (f *ProviderFactory) CreateGenerator(cfg *config.Config, model config.Model) (ports.TextGenerator, error) {
	if err := f.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return NewGenerator(cfg.APIKey(config.AIGemini), model,
		WithBaseURL(cfg.Provider(config.AIGemini).BaseURL),
		WithHTTPClient(&http.Client{Timeout: cfg.RequestTimeout.Duration}),
	)
}

func (f *ProviderFactory) ValidateConfig(cfg *config.Config) error {
	if cfg.APIKey(config.AIGemini) == "" {
		return errors.ErrMissingCredential.
			WithContext("provider", string(config.AIGemini)).
			WithSuggestion("Set " + config.APIKeyEnvVar(config.AIGemini) + " in your environment or .env file")
	}
	return nil
}

func (f *ProviderFactory) Name() config.AI {
	return config.AIGemini
}
