// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and endpoints from a directory of plain-text
// files. Each file in the directory represents one secret: the filename is
// the key name and the file contents (trimmed) are the value.
//
// Supported key files: gemini-api-key, ollama-host.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/pkg/types"
)

// Key file names.
const (
	GeminiAPIKey = "gemini-api-key"
	OllamaHost   = "ollama-host"
)

// Environment variables consulted when no key file is present.
var envFallbacks = map[string][]string{
	GeminiAPIKey: {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	OllamaHost:   {"OLLAMA_HOST"},
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged at warn level and skipped.
func Load(dir string, log logrus.FieldLogger) (map[string]string, error) {
	if log == nil {
		log = logrus.StandardLogger()
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			log.WithError(err).WithField("secret", name).Warn("could not read secret")
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// Lookup returns the secret for key, falling back to its environment
// variables.
func Lookup(secrets map[string]string, key string) string {
	if v, ok := secrets[key]; ok {
		return v
	}
	for _, env := range envFallbacks[key] {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return v
		}
	}
	return ""
}

// Apply fills credentials left empty in cfg.
func Apply(secrets map[string]string, cfg *types.GenerationConfig) {
	if cfg.APIKey == "" {
		cfg.APIKey = Lookup(secrets, GeminiAPIKey)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = Lookup(secrets, OllamaHost)
	}
}
