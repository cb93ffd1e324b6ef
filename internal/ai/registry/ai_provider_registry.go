package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/thomas-vilte/readmegen/internal/ai/gemini"
	"github.com/thomas-vilte/readmegen/internal/ai/groq"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/ports"
)

// AIProviderFactory creates text generators for one provider.
type AIProviderFactory interface {
	// CreateGenerator builds a generator for model using the credentials in cfg.
	CreateGenerator(cfg *config.Config, model config.Model) (ports.TextGenerator, error)

	// ValidateConfig reports a missing credential without building anything.
	ValidateConfig(cfg *config.Config) error

	Name() config.AI
}

// AIProviderRegistry manages the registered AI provider factories.
type AIProviderRegistry struct {
	mu        sync.RWMutex
	factories map[config.AI]AIProviderFactory
}

func NewAIProviderRegistry() *AIProviderRegistry {
	return &AIProviderRegistry{
		factories: make(map[config.AI]AIProviderFactory),
	}
}

// NewDefaultRegistry returns a registry with every supported provider.
func NewDefaultRegistry() *AIProviderRegistry {
	r := NewAIProviderRegistry()
	_ = r.Register(gemini.NewProviderFactory())
	_ = r.Register(groq.NewProviderFactory())
	return r
}

func (r *AIProviderRegistry) Register(factory AIProviderFactory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := factory.Name()
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("AI provider '%s' is already registered", name)
	}

	r.factories[name] = factory
	return nil
}

func (r *AIProviderRegistry) Get(name config.AI) (AIProviderFactory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, exists := r.factories[name]
	if !exists {
		return nil, fmt.Errorf("AI provider '%s' not found in registry", name)
	}

	return factory, nil
}

// List returns the registered provider names, sorted.
func (r *AIProviderRegistry) List() []config.AI {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]config.AI, 0, len(r.factories))
	for name := range r.factories {
		providers = append(providers, name)
	}
	sort.Slice(providers, func(i, j int) bool { return providers[i] < providers[j] })
	return providers
}

func (r *AIProviderRegistry) IsRegistered(name config.AI) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Configured returns the providers whose credentials are present in cfg.
func (r *AIProviderRegistry) Configured(cfg *config.Config) []config.AI {
	var out []config.AI
	for _, name := range r.List() {
		factory, _ := r.Get(name)
		if factory.ValidateConfig(cfg) == nil {
			out = append(out, name)
		}
	}
	return out
}

// Decorator wraps every generator the resolver creates.
type Decorator func(ports.TextGenerator) ports.TextGenerator

// Resolver creates generators from the registry with a fixed config.
type Resolver struct {
	registry   *AIProviderRegistry
	cfg        *config.Config
	decorators []Decorator
}

func (r *AIProviderRegistry) Resolver(cfg *config.Config, decorators ...Decorator) *Resolver {
	return &Resolver{registry: r, cfg: cfg, decorators: decorators}
}

func (r *Resolver) CreateGenerator(ai config.AI, model config.Model) (ports.TextGenerator, error) {
	factory, err := r.registry.Get(ai)
	if err != nil {
		return nil, err
	}

	gen, err := factory.CreateGenerator(r.cfg, model)
	if err != nil {
		return nil, err
	}
	for _, d := range r.decorators {
		gen = d(gen)
	}
	return gen, nil
}
