// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/slidenotes/pkg/types"
)

type fakeRunner struct {
	stdout, stderr string
	err            error

	gotName  string
	gotArgs  []string
	gotStdin string
}

func (f *fakeRunner) RunPiped(_ context.Context, name string, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	f.gotName = name
	f.gotArgs = args
	in, _ := io.ReadAll(stdin)
	f.gotStdin = string(in)
	io.WriteString(stdout, f.stdout)
	io.WriteString(stderr, f.stderr)
	return f.err
}

func TestCommandBackend_Generate(t *testing.T) {
	r := &fakeRunner{stdout: "Bit:::Smallest unit\n"}
	b := NewCommand("ollama", "llama2")
	b.run = r

	out, err := b.Generate(context.Background(), "make cards")
	require.NoError(t, err)

	assert.Equal(t, "Bit:::Smallest unit\n", out)
	assert.Equal(t, "ollama", r.gotName)
	assert.Equal(t, []string{"run", "llama2"}, r.gotArgs)
	assert.Equal(t, "make cards", r.gotStdin)
	assert.Equal(t, "ollama:llama2", b.Name())
}

func TestCommandBackend_Failure(t *testing.T) {
	b := NewCommand("ollama", "orca-mini")
	b.run = &fakeRunner{stderr: "model not found\n", err: errors.New("exit status 1")}

	_, err := b.Generate(context.Background(), "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model not found")
	assert.Contains(t, err.Error(), "ollama run orca-mini")
}

func TestOllamaBackend_Generate(t *testing.T) {
	var got struct {
		Model  string `json:"model"`
		Prompt string `json:"prompt"`
		Stream *bool  `json:"stream"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"model":"llama2","response":"Byte:::Eight bits","done":true}`+"\n")
	}))
	defer srv.Close()

	b, err := NewOllama("llama2", srv.URL)
	require.NoError(t, err)

	out, err := b.Generate(context.Background(), "cards please")
	require.NoError(t, err)
	assert.Equal(t, "Byte:::Eight bits", out)
	assert.Equal(t, "llama2", got.Model)
	assert.Equal(t, "cards please", got.Prompt)
	require.NotNil(t, got.Stream)
	assert.False(t, *got.Stream)
}

func TestOllamaBackend_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"error":"model 'nope' not found"}`)
	}))
	defer srv.Close()

	b, err := NewOllama("nope", srv.URL)
	require.NoError(t, err)

	_, err = b.Generate(context.Background(), "p")
	assert.Error(t, err)
}

func TestResponseText(t *testing.T) {
	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("A:::a\n"), genai.Blob{MIMEType: "image/png"}}}},
			nil,
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("B:::b")}}},
		},
	}
	assert.Equal(t, "A:::a\nB:::b", responseText(resp))
	assert.Equal(t, "", responseText(nil))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      types.GenerationConfig
		wantName string
		wantErr  bool
	}{
		{"default command", types.GenerationConfig{}, "ollama:llama2", false},
		{"command", types.GenerationConfig{Provider: types.ProviderCommand, Command: "/usr/local/bin/ollama"}, "/usr/local/bin/ollama:llama2", false},
		{"ollama api", types.GenerationConfig{Provider: types.ProviderOllama}, "ollama-api:llama2", false},
		{"gemini", types.GenerationConfig{Provider: types.ProviderGemini, AIConfig: types.AIConfig{APIKey: "k"}}, "gemini:llama2", false},
		{"gemini without key", types.GenerationConfig{Provider: types.ProviderGemini}, "", true},
		{"unknown", types.GenerationConfig{Provider: "carrier-pigeon"}, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := New(tt.cfg, "llama2")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, b.Name())
		})
	}
}
