package app

import (
	"context"
	"fmt"

	"tinytrans/internal/adapters/llm/registry"
	"tinytrans/internal/domain"
	"tinytrans/internal/ports"
)

type ProviderAPI struct {
	reg      *registry.Registry
	settings map[string]domain.Provider
}

func NewProviderAPI(reg *registry.Registry, settings ...domain.Provider) *ProviderAPI {
	m := make(map[string]domain.Provider, len(settings))
	for _, s := range settings {
		m[s.Name] = s
	}
	return &ProviderAPI{reg: reg, settings: m}
}

// ProviderView is a configured provider with its API key masked.
type ProviderView struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	BaseURL string `json:"base_url,omitempty"`
	Model   string `json:"model"`
	APIKey  string `json:"api_key,omitempty"`
}

func (a *ProviderAPI) List() []ProviderView {
	names := a.reg.Names()
	out := make([]ProviderView, 0, len(names))
	for _, name := range names {
		s := a.settings[name]
		out = append(out, ProviderView{
			Name:    name,
			Type:    s.Type,
			BaseURL: s.BaseURL,
			Model:   s.Model,
			APIKey:  mask(s.APIKey),
		})
	}
	return out
}

type ModelInfo struct {
	Name, Description string
	ContextTokens     int
}

func (a *ProviderAPI) ListModels(name string) ([]ModelInfo, error) {
	ctx := context.Background()
	prov, err := a.provider(name)
	if err != nil {
		return nil, err
	}
	models, err := prov.ListModels(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ModelInfo, 0, len(models))
	for _, m := range models {
		out = append(out, ModelInfo{
			Name:          m.Name,
			Description:   m.Description,
			ContextTokens: m.ContextTokens,
		})
	}
	return out, nil
}

// ProviderTestResult contains details of a connectivity check.
type ProviderTestResult struct {
	Name  string `json:"name"`
	Ok    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Test checks every registered provider. A failing provider is reported in
// its result, not as an error.
func (a *ProviderAPI) Test() []ProviderTestResult {
	ctx := context.Background()
	checks := a.reg.HealthCheck(ctx)
	out := make([]ProviderTestResult, 0, len(checks))
	for _, name := range a.reg.Names() {
		r := ProviderTestResult{Name: name, Ok: checks[name] == nil}
		if err := checks[name]; err != nil {
			r.Error = err.Error()
		}
		out = append(out, r)
	}
	return out
}

func (a *ProviderAPI) provider(name string) (ports.Provider, error) {
	prov, ok := a.reg.Get(name)
	if !ok || prov == nil {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return prov, nil
}

func mask(s string) string {
	if len(s) <= 4 {
		return s
	}
	return "****" + s[len(s)-4:]
}
