// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm provides text-generation backends: the ollama CLI, the
// Ollama HTTP API and the Google Generative AI API. Each backend sends one
// prompt and returns the raw completion text.
package llm

import (
	"context"
	"fmt"

	"github.com/pdiddy/slidenotes/pkg/types"
)

// Backend generates a completion for one prompt.
type Backend interface {
	// Name identifies the backend and model in logs.
	Name() string

	// Generate returns the raw completion for prompt.
	Generate(ctx context.Context, prompt string) (string, error)
}

// New returns the backend selected by cfg.Provider, bound to model.
func New(cfg types.GenerationConfig, model string) (Backend, error) {
	switch cfg.Provider {
	case types.ProviderCommand, "":
		command := cfg.Command
		if command == "" {
			command = types.DefaultCommand
		}
		return NewCommand(command, model), nil
	case types.ProviderOllama:
		return NewOllama(model, cfg.Endpoint)
	case types.ProviderGemini:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini provider requires an API key")
		}
		return NewGemini(model, cfg.APIKey), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}
