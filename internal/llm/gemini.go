// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiBackend calls the Google Generative AI API. A client is created
// per call and closed afterwards.
type GeminiBackend struct {
	model  string
	apiKey string
}

// NewGemini returns a backend for the named Gemini model.
func NewGemini(model, apiKey string) *GeminiBackend {
	return &GeminiBackend{model: model, apiKey: apiKey}
}

func (g *GeminiBackend) Name() string { return "gemini:" + g.model }

func (g *GeminiBackend) Generate(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("creating gemini client: %w", err)
	}
	defer client.Close()

	resp, err := client.GenerativeModel(g.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("generating with gemini model %s: %w", g.model, err)
	}
	return responseText(resp), nil
}

// responseText concatenates the text parts of every candidate.
func responseText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
	}
	return b.String()
}
