package llm

import (
	"fmt"

	"humdum-app/internal/config"
	"humdum-app/internal/logger"
)

// ProviderType represents the type of inference provider
type ProviderType string

const (
	ProviderOllama ProviderType = "ollama"
	ProviderOpenAI ProviderType = "openai"
)

// ParseProviderType parses a string into a ProviderType
func ParseProviderType(s string) (ProviderType, error) {
	switch s {
	case "ollama", "":
		return ProviderOllama, nil
	case "openai":
		return ProviderOpenAI, nil
	default:
		return "", fmt.Errorf("unknown provider type: %s", s)
	}
}

// NewProvider creates an inference provider from configuration. Falls back
// to the self-hosted Ollama provider when the configured value is invalid.
func NewProvider(llmConfig *config.LLMConfig) (Provider, error) {
	providerType, err := ParseProviderType(llmConfig.Provider)
	if err != nil {
		logger.Log.WithField("provider", llmConfig.Provider).Warn("Invalid provider, defaulting to ollama")
		providerType = ProviderOllama
	}

	switch providerType {
	case ProviderOpenAI:
		return NewOpenAIProvider(llmConfig)
	default:
		return NewOllamaProvider(llmConfig), nil
	}
}
