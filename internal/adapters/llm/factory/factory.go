package factory

import (
	"fmt"
	"strings"

	httpprov "tinytrans/internal/adapters/llm/httpclient"
	"tinytrans/internal/domain"
	"tinytrans/internal/ports"
)

// FromProvider returns an HTTP-backed provider for the given settings.
func FromProvider(p domain.Provider) (ports.Provider, error) {
	switch strings.ToLower(p.Type) {
	case domain.ProviderOllama, domain.ProviderOpenRouter:
		return httpprov.New(p), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %q", p.Type)
	}
}
