package domain

import "time"

// Provider types understood by the LLM factory.
const (
	ProviderOllama     = "ollama"
	ProviderOpenRouter = "openrouter"
)

type Provider struct {
	Type    string        `json:"type" toml:"type"` // ollama | openrouter
	Name    string        `json:"name" toml:"name"`
	BaseURL string        `json:"base_url" toml:"base_url"`
	Model   string        `json:"model" toml:"model"`
	APIKey  string        `json:"-" toml:"api_key"`
	Timeout time.Duration `json:"timeout" toml:"-"`
}
