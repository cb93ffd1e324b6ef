package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		Language         string   `toml:"language"`
		DefaultModel     string   `toml:"default_model"`
		DefaultTone      string   `toml:"default_tone"`
		Temperature      float64  `toml:"temperature"`
		MaxOutputTokens  int      `toml:"max_output_tokens"`
		MaxRetries       int      `toml:"max_retries"`
		MalformedRetries int      `toml:"malformed_retries"`
		RetryDelay       Duration `toml:"retry_delay"`
		RequestTimeout   Duration `toml:"request_timeout"`
		CacheTTL         Duration `toml:"cache_ttl"`
		ServerAddr       string   `toml:"server_addr"`
		BatchConcurrency int      `toml:"batch_concurrency"`

		// AIProviders is keyed by the AI name; TOML cannot encode map keys of
		// a named string type.
		AIProviders map[string]AIProviderConfig `toml:"ai_providers"`

		PathFile string `toml:"-"`
	}

	AIProviderConfig struct {
		APIKey  string `toml:"api_key,omitempty"`
		Model   Model  `toml:"model,omitempty"`
		BaseURL string `toml:"base_url,omitempty"`
	}

	// Duration is a time.Duration written as "2s" in the config file.
	Duration struct {
		time.Duration
	}
)

const (
	defaultLang             = "en"
	defaultModel            = "Auto"
	defaultTone             = "professional"
	defaultTemperature      = 0.7
	defaultMaxOutputTokens  = 4096
	defaultMaxRetries       = 2
	defaultMalformedRetries = 1
	defaultRetryDelay       = 2 * time.Second
	defaultRequestTimeout   = 30 * time.Second
	defaultCacheTTL         = 24 * time.Hour
	defaultServerAddr       = ":8080"
	defaultBatchConcurrency = 4

	configDirName  = ".readmegen"
	configFileName = "config.toml"
)

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns the configuration used when no file exists yet.
func Default() *Config {
	providers := make(map[string]AIProviderConfig)
	for _, ai := range SupportedAIs() {
		providers[string(ai)] = AIProviderConfig{Model: DefaultModelForAI(ai)}
	}
	return &Config{
		Language:         defaultLang,
		DefaultModel:     defaultModel,
		DefaultTone:      defaultTone,
		Temperature:      defaultTemperature,
		MaxOutputTokens:  defaultMaxOutputTokens,
		MaxRetries:       defaultMaxRetries,
		MalformedRetries: defaultMalformedRetries,
		RetryDelay:       Duration{defaultRetryDelay},
		RequestTimeout:   Duration{defaultRequestTimeout},
		CacheTTL:         Duration{defaultCacheTTL},
		ServerAddr:       defaultServerAddr,
		BatchConcurrency: defaultBatchConcurrency,
		AIProviders:      providers,
	}
}

// LoadConfig reads config.toml from path, which is either the file itself or
// a home directory containing .readmegen/. A default file is written when
// none exists.
func LoadConfig(path string) (*Config, error) {
	var configPath string

	if filepath.Ext(path) == ".toml" {
		configPath = path
	} else {
		configPath = filepath.Join(path, configDirName, configFileName)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig(configPath)
	} else if err != nil {
		return nil, fmt.Errorf("error checking config file: %w", err)
	}

	cfg := Default()
	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, fmt.Errorf("error decoding config file %s: %w", configPath, err)
	}
	cfg.PathFile = configPath

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("loaded configuration is invalid: %w", err)
	}

	return cfg, nil
}

func createDefaultConfig(path string) (*Config, error) {
	cfg := Default()
	cfg.PathFile = path

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("error creating config directory: %w", err)
	}

	if err := SaveConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration to save is invalid: %w", err)
	}

	if cfg.PathFile == "" {
		return errors.New("config file path is not set")
	}

	if err := os.MkdirAll(filepath.Dir(cfg.PathFile), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	f, err := os.OpenFile(cfg.PathFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("error opening config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// LoadDotEnv copies KEY=value pairs from the given .env files into the
// process environment. Variables already set to a non-empty value win.
// Missing files are ignored.
func LoadDotEnv(paths ...string) error {
	existing := make([]string, 0, len(paths))
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	vals, err := godotenv.Read(existing...)
	if err != nil {
		return fmt.Errorf("error reading env files: %w", err)
	}

	for k, v := range vals {
		if os.Getenv(k) != "" {
			continue
		}
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("error setting %s: %w", k, err)
		}
	}
	return nil
}

// Provider returns the file settings for ai.
func (c *Config) Provider(ai AI) AIProviderConfig {
	return c.AIProviders[string(ai)]
}

// SetProvider replaces the file settings for ai.
func (c *Config) SetProvider(ai AI, p AIProviderConfig) {
	if c.AIProviders == nil {
		c.AIProviders = make(map[string]AIProviderConfig)
	}
	c.AIProviders[string(ai)] = p
}

// APIKey resolves the secret for ai: the environment first, then the file.
func (c *Config) APIKey(ai AI) string {
	if env := APIKeyEnvVar(ai); env != "" {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return strings.TrimSpace(c.Provider(ai).APIKey)
}

// ModelFor returns the provider model id configured for ai.
func (c *Config) ModelFor(ai AI) Model {
	if m := c.Provider(ai).Model; m != "" {
		return m
	}
	return DefaultModelForAI(ai)
}

func (c *Config) Validate() error {
	if c.Language == "" {
		return errors.New("language cannot be empty")
	}
	if c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("temperature must be between 0 and 1, got %v", c.Temperature)
	}
	if c.MaxOutputTokens <= 0 {
		return errors.New("max_output_tokens must be greater than 0")
	}
	if c.MaxRetries < 0 || c.MalformedRetries < 0 {
		return errors.New("retry counts cannot be negative")
	}
	if c.RetryDelay.Duration < 0 {
		return errors.New("retry_delay cannot be negative")
	}
	if c.RequestTimeout.Duration <= 0 {
		return errors.New("request_timeout must be greater than 0")
	}
	if c.BatchConcurrency < 1 {
		return errors.New("batch_concurrency must be at least 1")
	}
	if c.DefaultModel == "" {
		return errors.New("default_model cannot be empty")
	}

	for name := range c.AIProviders {
		if ai := AI(name); APIKeyEnvVar(ai) == "" {
			return fmt.Errorf("unsupported AI provider: %s", ai)
		}
	}
	return nil
}
