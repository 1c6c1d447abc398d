// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	olla "github.com/ollama/ollama/api"
)

const defaultOllamaURL = "http://localhost:11434"

// OllamaBackend calls the Ollama generate endpoint without streaming.
type OllamaBackend struct {
	client *olla.Client
	model  string
}

// NewOllama returns a backend for the Ollama server at baseURL (default
// http://localhost:11434).
func NewOllama(model, baseURL string) (*OllamaBackend, error) {
	if baseURL == "" {
		baseURL = defaultOllamaURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid ollama URL %q: %w", baseURL, err)
	}
	// The caller's context carries the per-call deadline.
	hc := &http.Client{Timeout: 30 * time.Minute}
	return &OllamaBackend{client: olla.NewClient(parsed, hc), model: model}, nil
}

func (o *OllamaBackend) Name() string { return "ollama-api:" + o.model }

func (o *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	stream := false
	var out strings.Builder
	err := o.client.Generate(ctx, &olla.GenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: &stream,
	}, func(resp olla.GenerateResponse) error {
		out.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("generating with ollama model %s: %w", o.model, err)
	}
	return out.String(), nil
}
