// Package config loads tinytrans settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"tinytrans/internal/domain"
)

const (
	EnvConfigPath = "TINYTRANS_CONFIG"
	EnvAPIKey     = "TINYTRANS_API_KEY"
)

var ErrInvalid = errors.New("invalid config")

type Config struct {
	LogLevel string   `toml:"log_level"`
	Provider Provider `toml:"provider"`
	Cache    Cache    `toml:"cache"`
	Prompt   Prompt   `toml:"prompt"`
}

type Provider struct {
	domain.Provider
	Timeout           string  `toml:"timeout"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	MaxAttempts       int     `toml:"max_attempts"`
}

type Cache struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Prompt templates override the builtin translate_single prompts.
type Prompt struct {
	System string `toml:"system"`
	User   string `toml:"user"`
}

func Default() Config {
	return Config{
		LogLevel: "info",
		Provider: Provider{
			Provider: domain.Provider{
				Type:    domain.ProviderOllama,
				Name:    "local",
				BaseURL: "http://localhost:11434",
				Model:   "llama3.1",
			},
			Timeout:           "60s",
			RequestsPerSecond: 1,
			MaxAttempts:       3,
		},
		Cache: Cache{Enabled: true, Path: filepath.Join("data", "tinytrans.db")},
	}
}

// DefaultPath is the config file used when neither a flag nor
// TINYTRANS_CONFIG names one.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tinytrans.toml"
	}
	return filepath.Join(dir, "tinytrans", "config.toml")
}

// Load reads path over the defaults. A missing file is not an error.
// TINYTRANS_API_KEY wins over the file's api_key.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.Provider.APIKey = key
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var problems []string
	switch strings.ToLower(c.Provider.Type) {
	case domain.ProviderOllama:
	case domain.ProviderOpenRouter:
		if c.Provider.APIKey == "" {
			problems = append(problems, "provider.api_key is required for openrouter")
		}
	default:
		problems = append(problems, fmt.Sprintf("provider.type %q is not supported", c.Provider.Type))
	}
	if c.Provider.Name == "" {
		problems = append(problems, "provider.name is required")
	}
	if _, err := c.Provider.TimeoutDuration(); err != nil {
		problems = append(problems, fmt.Sprintf("provider.timeout: %v", err))
	}
	if c.Provider.RequestsPerSecond < 0 {
		problems = append(problems, "provider.requests_per_second must not be negative")
	}
	if c.Provider.MaxAttempts < 0 {
		problems = append(problems, "provider.max_attempts must not be negative")
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		problems = append(problems, "cache.path is required when the cache is enabled")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}

func (p Provider) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("must not be negative")
	}
	return d, nil
}

// Settings returns the provider settings with the timeout resolved.
func (p Provider) Settings() domain.Provider {
	s := p.Provider
	s.Type = strings.ToLower(s.Type)
	s.Timeout, _ = p.TimeoutDuration()
	return s
}

// Overrides maps the prompt section to renderer override keys.
func (p Prompt) Overrides() map[string]string {
	return map[string]string{
		"translate_single/system": p.System,
		"translate_single/user":   p.User,
	}
}
