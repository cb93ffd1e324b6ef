package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/thomas-vilte/readmegen/internal/ai"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
	"google.golang.org/genai"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// MaxOutputTokens is the largest maxOutputTokens accepted for a call.
	MaxOutputTokens = 8192

	providerName = "gemini"
	maxBodyBytes = 10 << 20
)

var _ ports.TextGenerator = (*Generator)(nil)

type generateRequest struct {
	Contents         []*genai.Content `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

// Generator calls the generateContent endpoint of the Gemini API. It keeps
// no per-call state and is safe for concurrent use.
type Generator struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

type Option func(*Generator)

func WithBaseURL(baseURL string) Option {
	return func(g *Generator) {
		if baseURL != "" {
			g.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(g *Generator) {
		if client != nil {
			g.httpClient = client
		}
	}
}

func NewGenerator(apiKey string, model config.Model, opts ...Option) (*Generator, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.ErrMissingCredential.
			WithContext("provider", providerName).
			WithSuggestion("Set " + config.APIKeyEnvVar(config.AIGemini) + " in your environment or .env file")
	}
	if model == "" {
		model = config.DefaultModelForAI(config.AIGemini)
	}

	g := &Generator{
		apiKey:     apiKey,
		model:      string(model),
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: ai.RequestTimeout},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
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

	payload, err := json.Marshal(generateRequest{
		Contents: []*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     opts.Temperature,
			MaxOutputTokens: opts.MaxOutputTokens,
		},
	})
	if err != nil {
		return nil, errors.NewAppError(errors.TypeInternal, "failed to encode gemini request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint(), bytes.NewReader(payload))
	if err != nil {
		return nil, errors.NewAppError(errors.TypeInternal, "failed to build gemini request", g.redact(err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, ai.ClassifyTransport(providerName, g.redact(err))
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, ai.ClassifyTransport(providerName, g.redact(err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, g.classifyFailure(resp.StatusCode, body)
	}

	var decoded genai.GenerateContentResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, ai.Malformed(providerName, resp.StatusCode, body, err)
	}

	text := extractText(&decoded)
	if text == "" {
		return nil, ai.Malformed(providerName, resp.StatusCode, body, nil).
			WithMessage("gemini response has no candidates[0].content.parts[0].text")
	}

	return &models.GeneratedText{
		Text:  text,
		Usage: extractUsage(&decoded),
	}, nil
}

func (g *Generator) endpoint() string {
	return fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL, url.PathEscape(g.model), url.QueryEscape(g.apiKey))
}

func (g *Generator) classifyFailure(status int, body []byte) error {
	appErr := ai.ClassifyStatus(providerName, status, body)

	var envelope apiError
	if json.Unmarshal(body, &envelope) == nil {
		if reason := envelope.reason(); reason != "" {
			appErr = appErr.WithContext("provider_reason", reason)
		}
		if envelope.Error.Message != "" {
			appErr = appErr.WithContext("provider_message", envelope.Error.Message)
		}
	}
	return appErr
}

// redact strips the API key from errors that echo the request URL.
func (g *Generator) redact(err error) error {
	var urlErr *url.Error
	if stderrors.As(err, &urlErr) {
		redacted := *urlErr
		redacted.URL = strings.ReplaceAll(redacted.URL, url.QueryEscape(g.apiKey), "REDACTED")
		return &redacted
	}
	return err
}
