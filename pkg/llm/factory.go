package llm

import (
	"fmt"
	"strings"
	"time"

	"github.com/sysstate/snapai/pkg/config"
)

// Provider identifies a supported local inference server type.
type Provider string

const (
	ProviderLMStudio Provider = "lmstudio"
	ProviderOllama   Provider = "ollama"
)

// NewFromConfig creates a Client for the configured provider. An empty
// provider defaults to LM Studio.
func NewFromConfig(cfg config.LLMConfig) (Client, error) {
	provider := Provider(strings.ToLower(cfg.Provider))

	switch provider {
	case ProviderLMStudio, "":
		return NewLMStudio(
			cfg.ServerURL,
			cfg.Model,
			cfg.MaxTokens,
			cfg.Temperature,
			time.Duration(cfg.TimeoutSeconds)*time.Second,
		), nil

	case ProviderOllama:
		return NewOllama(cfg.ServerURL, cfg.Model)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s (supported: lmstudio, ollama)", cfg.Provider)
	}
}

// AvailableProviders lists the supported provider names.
func AvailableProviders() []Provider {
	return []Provider{ProviderLMStudio, ProviderOllama}
}
