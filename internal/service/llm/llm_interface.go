package llm

import (
	"context"
	"errors"
)

// ErrUnavailable means the inference service failed or timed out. Handlers
// turn it into the configured fallback reply instead of a raw error.
var ErrUnavailable = errors.New("inference service unavailable")

// Provider defines the interface for inference backends (self-hosted Ollama,
// hosted OpenAI-compatible APIs)
type Provider interface {
	// Reply returns the assistant's reply for the given user prompt.
	// The persona system prompt comes from configuration.
	Reply(ctx context.Context, prompt string) (string, error)

	// Name returns the provider identifier for logging
	Name() string
}
