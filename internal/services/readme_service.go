package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/thomas-vilte/readmegen/internal/ai"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/logger"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
	"github.com/thomas-vilte/readmegen/internal/services/routing"
	"github.com/thomas-vilte/readmegen/internal/validation"
)

// State is a step of a single generation request.
type State string

const (
	StateBuildingPrompt   State = "BUILDING_PROMPT"
	StateInvokingProvider State = "INVOKING_PROVIDER"
	StateValidating       State = "VALIDATING"
	StateRetrying         State = "RETRYING"
	StateAccepted         State = "ACCEPTED"
	StateFailed           State = "FAILED"
)

// Transition describes one state change. Provider, Model and Attempt are
// empty until a provider has been chosen.
type Transition struct {
	RequestID string
	From      State
	To        State
	Provider  string
	Model     string
	Attempt   int
	Err       error
}

// StateObserver is notified synchronously on every transition.
type StateObserver interface {
	OnTransition(ctx context.Context, t Transition)
}

// StateObserverFunc adapts a function to StateObserver.
type StateObserverFunc func(ctx context.Context, t Transition)

func (f StateObserverFunc) OnTransition(ctx context.Context, t Transition) {
	f(ctx, t)
}

// GeneratorFactory creates a provider adapter for a catalogue target.
// *registry.Resolver satisfies it.
type GeneratorFactory interface {
	CreateGenerator(ai config.AI, model config.Model) (ports.TextGenerator, error)
}

// RetryPolicy bounds the attempts made against a single provider.
// RateLimit and TransientServer failures share MaxRetries; malformed
// responses have their own budget.
type RetryPolicy struct {
	MaxRetries       int
	MalformedRetries int
	Delay            time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 2, MalformedRetries: 1, Delay: 2 * time.Second}
}

// RetryPolicyFromConfig reads the retry settings of cfg.
func RetryPolicyFromConfig(cfg *config.Config) RetryPolicy {
	return RetryPolicy{
		MaxRetries:       cfg.MaxRetries,
		MalformedRetries: cfg.MalformedRetries,
		Delay:            cfg.RetryDelay.Duration,
	}
}

type candidate struct {
	target routing.Target
	gen    ports.TextGenerator
	// err is the credential error recorded when gen could not be built.
	err error
}

// ReadmeService turns an analysis into a validated README. Provider adapters
// are resolved once at construction; the service holds no per-request state
// and is safe for concurrent use.
type ReadmeService struct {
	selector *routing.ModelSelector
	routes   map[string][]candidate
	policy   RetryPolicy
	options  models.GenerationOptions
	observer StateObserver
	sleep    func(ctx context.Context, d time.Duration) error
	newID    func() string
}

type Option func(*ReadmeService)

func WithRetryPolicy(p RetryPolicy) Option {
	return func(s *ReadmeService) { s.policy = p }
}

// WithGenerationOptions sets temperature and output ceiling. MaxOutputTokens
// is clamped per provider to what the adapter accepts.
func WithGenerationOptions(opts models.GenerationOptions) Option {
	return func(s *ReadmeService) { s.options = opts }
}

func WithObserver(o StateObserver) Option {
	return func(s *ReadmeService) { s.observer = o }
}

// NewReadmeService resolves an adapter for every target in the catalogue.
// A target without credentials is kept and reported when a request needs
// it; any other factory error aborts construction.
func NewReadmeService(selector *routing.ModelSelector, factory GeneratorFactory, opts ...Option) (*ReadmeService, error) {
	s := &ReadmeService{
		selector: selector,
		routes:   make(map[string][]candidate),
		policy:   DefaultRetryPolicy(),
		options:  models.GenerationOptions{Temperature: 0.7, MaxOutputTokens: 4096},
		sleep:    sleepContext,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	built := make(map[routing.Target]candidate)
	for _, route := range selector.Routes() {
		cands := make([]candidate, 0, len(route.Targets))
		for _, target := range route.Targets {
			c, ok := built[target]
			if !ok {
				gen, err := factory.CreateGenerator(target.AI, target.Model)
				if err != nil && errors.TypeOf(err) != errors.TypeMissingCredential {
					return nil, fmt.Errorf("error creating generator for %s: %w", target, err)
				}
				c = candidate{target: target, gen: gen, err: err}
				built[target] = c
			}
			cands = append(cands, c)
		}
		s.routes[route.Name] = cands
	}

	return s, nil
}

// run carries the state of one request.
type run struct {
	id      string
	state   State
	calls   int
	service *ReadmeService
}

func (r *run) to(ctx context.Context, next State, c *candidate, attempt int, err error) {
	t := Transition{RequestID: r.id, From: r.state, To: next, Attempt: attempt, Err: err}
	if c != nil {
		t.Provider = string(c.target.AI)
		t.Model = string(c.target.Model)
	}
	r.state = next

	args := []any{"from", t.From, "to", t.To}
	if c != nil {
		args = append(args, "provider", t.Provider, "attempt", attempt)
	}
	switch next {
	case StateRetrying:
		logger.Warn(ctx, "retrying provider call", append(args, "error", err)...)
	case StateFailed:
		logger.Warn(ctx, "generation failed", append(args, "error", err)...)
	case StateAccepted:
		logger.Info(ctx, "readme accepted", args...)
	default:
		logger.Debug(ctx, "state transition", args...)
	}

	if r.service.observer != nil {
		r.service.observer.OnTransition(ctx, t)
	}
}

func (r *run) fail(ctx context.Context, c *candidate, attempt int, err error) error {
	r.to(ctx, StateFailed, c, attempt, err)
	return err
}

// GenerateReadme builds the prompt, calls the provider behind req.Model and
// validates the result. A missing diagram or badge row does not fail the
// request; it is reported in the document's ValidationReport.
func (s *ReadmeService) GenerateReadme(ctx context.Context, req models.GenerationRequest) (*models.GeneratedDocument, error) {
	r := &run{id: s.newID(), service: s}
	ctx = logger.With(ctx, "request_id", r.id)
	r.to(ctx, StateBuildingPrompt, nil, 0, nil)

	route, err := s.selector.Resolve(req.Model)
	if err != nil {
		return nil, r.fail(ctx, nil, 0, err)
	}

	tone := req.Tone
	if tone == "" {
		tone = models.ToneProfessional
	}
	prompt, err := ai.BuildPrompt(req.Analysis, tone, ai.WithSections(req.Sections))
	if err != nil {
		return nil, r.fail(ctx, nil, 0, err)
	}
	badgesRequested := ai.BadgesRequested(req.Analysis)

	available, err := s.available(route)
	if err != nil {
		return nil, r.fail(ctx, nil, 0, err)
	}

	logger.Debug(ctx, "prompt built", "route", route.Name, "prompt_chars", len(prompt), "candidates", len(available))

	for i := range available {
		c := &available[i]
		doc, err := s.generateWith(ctx, r, c, prompt, badgesRequested)
		if err == nil {
			return doc, nil
		}

		last := i == len(available)-1
		if !route.IsFallback() || last || ctx.Err() != nil || !fallbackAllowed(err) {
			return nil, r.fail(ctx, c, r.calls, err)
		}
		logger.Warn(ctx, "provider failed, falling back", "provider", c.target.AI, "next", available[i+1].target.AI, "error", err)
	}

	// available is never empty here.
	return nil, r.fail(ctx, nil, r.calls, errors.NewAppError(errors.TypeInternal, "no provider attempted", nil))
}

// available returns the candidates of route that have an adapter. It fails
// with MissingCredential when none has.
func (s *ReadmeService) available(route routing.Route) ([]candidate, error) {
	cands := s.routes[route.Name]
	out := make([]candidate, 0, len(cands))
	for _, c := range cands {
		if c.gen != nil {
			out = append(out, c)
		}
	}
	if len(out) > 0 {
		return out, nil
	}

	if len(cands) == 1 && cands[0].err != nil {
		return nil, cands[0].err
	}
	envs := make([]string, 0, len(cands))
	for _, c := range cands {
		envs = append(envs, config.APIKeyEnvVar(c.target.AI))
	}
	return nil, errors.ErrMissingCredential.
		WithMessage(fmt.Sprintf("no API key configured for any provider of model %q", route.Name)).
		WithSuggestion("Set " + strings.Join(envs, " or ") + " in your environment or .env file")
}

// generateWith runs the retry loop against one provider.
func (s *ReadmeService) generateWith(ctx context.Context, r *run, c *candidate, prompt string, badgesRequested bool) (*models.GeneratedDocument, error) {
	opts := s.options
	if ceiling := c.gen.MaxOutputTokens(); ceiling > 0 && opts.MaxOutputTokens > ceiling {
		opts.MaxOutputTokens = ceiling
	}

	var retryable, malformed, attempt int
	for {
		attempt++
		r.calls++
		r.to(ctx, StateInvokingProvider, c, attempt, nil)

		out, err := c.gen.Generate(ctx, prompt, opts)
		if err == nil && (out == nil || strings.TrimSpace(out.Text) == "") {
			err = errors.ErrMalformedResponse.
				WithMessage("provider returned empty text").
				WithContext("provider", c.gen.GetProviderName())
		}

		if err == nil {
			r.to(ctx, StateValidating, c, attempt, nil)
			text := validation.Normalize(out.Text)
			report := validation.Validate(text, badgesRequested)
			if !report.Accepted() {
				logger.Warn(ctx, "readme is missing expected elements",
					"deficiencies", report.Deficiencies,
					"diagram_count", report.DiagramCount,
					"badge_count", report.BadgeCount)
			}
			r.to(ctx, StateAccepted, c, attempt, nil)

			return &models.GeneratedDocument{
				Markdown:  text,
				Report:    report,
				Provider:  c.gen.GetProviderName(),
				Model:     c.gen.GetModelName(),
				Attempts:  r.calls,
				RequestID: r.id,
				Usage:     out.Usage,
			}, nil
		}

		retry := false
		switch errors.TypeOf(err) {
		case errors.TypeRateLimit, errors.TypeTransientServer:
			retry = retryable < s.policy.MaxRetries
			retryable++
		case errors.TypeMalformedResponse:
			retry = malformed < s.policy.MalformedRetries
			malformed++
		}
		if !retry || ctx.Err() != nil {
			return nil, withAttempts(err, attempt)
		}

		r.to(ctx, StateRetrying, c, attempt, err)
		if serr := s.sleep(ctx, s.policy.Delay); serr != nil {
			return nil, errors.NewAppError(errors.TypeInternal, "generation cancelled", serr).
				WithContext("provider", string(c.target.AI)).
				WithContext("attempts", attempt)
		}
	}
}

// fallbackAllowed reports whether err came from a provider, so another
// provider may still succeed.
func fallbackAllowed(err error) bool {
	switch errors.TypeOf(err) {
	case errors.TypeAuthentication, errors.TypeRateLimit, errors.TypeTransientServer,
		errors.TypeMalformedResponse, errors.TypeUnknownProvider:
		return true
	default:
		return false
	}
}

func withAttempts(err error, attempts int) error {
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		return appErr.WithContext("attempts", attempts)
	}
	return err
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
