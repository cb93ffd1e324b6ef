package di

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/thomas-vilte/readmegen/internal/ai"
	"github.com/thomas-vilte/readmegen/internal/ai/registry"
	"github.com/thomas-vilte/readmegen/internal/cache"
	"github.com/thomas-vilte/readmegen/internal/config"
	"github.com/thomas-vilte/readmegen/internal/i18n"
	"github.com/thomas-vilte/readmegen/internal/models"
	"github.com/thomas-vilte/readmegen/internal/ports"
	"github.com/thomas-vilte/readmegen/internal/services"
	"github.com/thomas-vilte/readmegen/internal/services/cost"
	"github.com/thomas-vilte/readmegen/internal/services/routing"
)

// Container wires the application services from one configuration.
type Container struct {
	config       *config.Config
	translations *i18n.Translations
	dataDir      string

	aiRegistry *registry.AIProviderRegistry
	selector   *routing.ModelSelector
	calculator *cost.Calculator

	mu          sync.Mutex
	costManager *cost.Manager
	cache       *cache.Cache
}

// NewContainer keeps history and cache under dataDir. An empty dataDir
// uses the directory of the config file.
func NewContainer(cfg *config.Config, trans *i18n.Translations, dataDir string) *Container {
	if dataDir == "" && cfg.PathFile != "" {
		dataDir = filepath.Dir(cfg.PathFile)
	}
	return &Container{
		config:       cfg,
		translations: trans,
		dataDir:      dataDir,
		aiRegistry:   registry.NewAIProviderRegistry(),
		selector:     routing.NewModelSelector(cfg),
		calculator:   cost.NewCalculator(),
	}
}

func (c *Container) RegisterAIProvider(factory registry.AIProviderFactory) error {
	return c.aiRegistry.Register(factory)
}

func (c *Container) GetAIRegistry() *registry.AIProviderRegistry {
	return c.aiRegistry
}

func (c *Container) GetModelSelector() *routing.ModelSelector {
	return c.selector
}

func (c *Container) GetConfig() *config.Config {
	return c.config
}

func (c *Container) GetTranslations() *i18n.Translations {
	return c.translations
}

// GetCostManager returns the activity history (lazy initialization).
func (c *Container) GetCostManager() (*cost.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.costManager != nil {
		return c.costManager, nil
	}
	if c.dataDir == "" {
		return nil, fmt.Errorf("data directory is not set")
	}
	m, err := cost.NewManager(c.dataDir)
	if err != nil {
		return nil, err
	}
	c.costManager = m
	return m, nil
}

// GetCache returns the response cache (lazy initialization).
func (c *Container) GetCache() (*cache.Cache, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cache != nil {
		return c.cache, nil
	}
	if c.dataDir == "" {
		return nil, fmt.Errorf("data directory is not set")
	}
	rc, err := cache.NewCache(filepath.Join(c.dataDir, "cache"), c.config.CacheTTL.Duration)
	if err != nil {
		return nil, err
	}
	c.cache = rc
	return rc, nil
}

// ReadmeOptions select how a command builds its generator.
type ReadmeOptions struct {
	// Command labels the activity history entries.
	Command  string
	UseCache bool
	Observer services.StateObserver
}

// NewReadmeGenerator builds the orchestrator with cost tracking and,
// when requested, the response cache in front of it.
func (c *Container) NewReadmeGenerator(opts ReadmeOptions) (ports.ReadmeGenerator, error) {
	var recorder ai.ActivityRecorder
	manager, err := c.GetCostManager()
	if err == nil {
		recorder = manager
	}

	resolver := c.aiRegistry.Resolver(c.config, func(gen ports.TextGenerator) ports.TextGenerator {
		return ai.NewCostAwareGenerator(gen, c.calculator, recorder, opts.Command)
	})

	genOpts := models.GenerationOptions{
		Temperature:     c.config.Temperature,
		MaxOutputTokens: c.config.MaxOutputTokens,
	}
	svcOpts := []services.Option{
		services.WithRetryPolicy(services.RetryPolicyFromConfig(c.config)),
		services.WithGenerationOptions(genOpts),
	}
	if opts.Observer != nil {
		svcOpts = append(svcOpts, services.WithObserver(opts.Observer))
	}

	svc, err := services.NewReadmeService(c.selector, resolver, svcOpts...)
	if err != nil {
		return nil, err
	}
	if !opts.UseCache {
		return svc, nil
	}

	rc, err := c.GetCache()
	if err != nil {
		return nil, fmt.Errorf("error initializing cache: %w", err)
	}
	var hits services.HitRecorder
	if manager != nil {
		hits = manager
	}
	salt := fmt.Sprintf("t=%.2f;max=%d", genOpts.Temperature, genOpts.MaxOutputTokens)
	return services.NewCachedReadmeService(svc, rc, hits, salt, opts.Command), nil
}
