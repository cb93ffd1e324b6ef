package groq

import (
	"context"
	stderrors "errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/thomas-vilte/readmegen/internal/ai"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible API root.
	DefaultBaseURL = "https://api.groq.com/openai/v1"
	// MaxOutputTokens is the largest max_tokens accepted for a call.
	MaxOutputTokens = 32768

	providerName = "groq"
)

var _ ports.TextGenerator = (*Generator)(nil)

// Generator calls Groq's chat completions endpoint through the OpenAI client.
type Generator struct {
	client *openai.Client
	model  string
}

type settings struct {
	baseURL    string
	httpClient *http.Client
}

type Option func(*settings)

func WithBaseURL(baseURL string) Option {
	return func(s *settings) {
		if baseURL != "" {
			s.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(s *settings) {
		if client != nil {
			s.httpClient = client
		}
	}
}

func NewGenerator(apiKey string, model config.Model, opts ...Option) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.ErrMissingCredential.
			WithContext("provider", providerName).
			WithSuggestion("Set " + config.APIKeyEnvVar(config.AIGroq) + " in your environment or .env file")
	}
	if model == "" {
		model = config.DefaultModelForAI(config.AIGroq)
	}

	s := settings{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: ai.RequestTimeout},
	}
	for _, opt := range opts {
		opt(&s)
	}

	// The caller's client is copied so the wrapped transport stays private.
	httpClient := *s.httpClient
	httpClient.Transport = newTransport(httpClient.Transport)

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = s.baseURL
	cfg.HTTPClient = &httpClient

	return &Generator{
		client: openai.NewClientWithConfig(cfg),
		model:  string(model),
	}, nil
}

func (g *Generator) GetProviderName() string {
	return providerName
}

func (g *Generator) GetModelName() string {
	return g.model
}

func (g *Generator) MaxOutputTokens() int {
	return MaxOutputTokens
}

func (g *Generator) Generate(ctx context.Context, prompt string, opts models.GenerationOptions) (*models.GeneratedText, error) {
	if err := ai.ValidateOptions(providerName, prompt, opts, MaxOutputTokens); err != nil {
		return nil, err
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   opts.MaxOutputTokens,
		Temperature: float32(opts.Temperature),
	})
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, ai.Malformed(providerName, http.StatusOK, nil, nil).
			WithMessage("groq response has no choices")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return nil, ai.Malformed(providerName, http.StatusOK, nil, nil).
			WithMessage("groq response has empty choices[0].message.content")
	}

	return &models.GeneratedText{
		Text: text,
		Usage: &models.TokenUsage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func classify(err error) error {
	var statusErr *unexpectedStatusError
	if stderrors.As(err, &statusErr) {
		return ai.ClassifyStatus(providerName, statusErr.status, statusErr.body)
	}

	var apiErr *openai.APIError
	if stderrors.As(err, &apiErr) {
		return ai.ClassifyStatus(providerName, apiErr.HTTPStatusCode, []byte(apiErr.Message))
	}

	var reqErr *openai.RequestError
	if stderrors.As(err, &reqErr) {
		var body []byte
		if reqErr.Err != nil {
			body = []byte(reqErr.Err.Error())
		}
		return ai.ClassifyStatus(providerName, reqErr.HTTPStatusCode, body)
	}

	return ai.ClassifyTransport(providerName, err)
}
