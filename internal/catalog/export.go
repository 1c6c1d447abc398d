// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/slidenotes/pkg/types"
)

// Deck is the exported form of the latest run's study guide.
type Deck struct {
	RunID       string            `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time         `json:"generated_at" yaml:"generated_at"`
	Generator   types.GuideSource `json:"generator" yaml:"generator"`
	Chapters    []Chapter         `json:"chapters" yaml:"chapters"`
	Cards       []types.Flashcard `json:"cards" yaml:"cards"`
}

// ExportYAML writes the latest deck to study_guide.yaml in the export
// directory and returns the path.
func (s *Store) ExportYAML(ctx context.Context) (string, error) {
	deck, err := s.latestDeck(ctx)
	if err != nil {
		return "", err
	}
	data, err := yaml.Marshal(deck)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return s.writeExport("study_guide.yaml", data)
}

// ExportJSON writes the latest deck to study_guide.json in the export
// directory and returns the path.
func (s *Store) ExportJSON(ctx context.Context) (string, error) {
	deck, err := s.latestDeck(ctx)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(deck, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return s.writeExport("study_guide.json", data)
}

func (s *Store) latestDeck(ctx context.Context) (*Deck, error) {
	run, err := s.LatestRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	return &Deck{
		RunID:       run.Summary.RunID,
		GeneratedAt: run.FinishedAt,
		Generator:   run.Summary.Guide,
		Chapters:    run.Chapters,
		Cards:       run.Cards,
	}, nil
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.exportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
