// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package flashcard turns the combined corpus into a study guide of
// Term:::Definition cards. A primary model is tried first; a simpler
// fallback model is tried when the primary fails or yields no valid cards.
// When both fail the study guide holds a placeholder message.
package flashcard

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/template"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/internal/llm"
	"github.com/pdiddy/slidenotes/pkg/types"
)

// ErrNoCards reports generator output without any valid card.
var ErrNoCards = errors.New("no valid flashcards in generator output")

// Result describes one generation run.
type Result struct {
	Source types.GuideSource
	Cards  []types.Flashcard
	Path   string
}

// Generator produces the study guide. Fallback may be nil.
type Generator struct {
	Primary  llm.Backend
	Fallback llm.Backend

	// Timeout bounds each backend call; zero means no bound beyond ctx.
	Timeout time.Duration

	Log logrus.FieldLogger
}

// Generate reads the corpus at corpusPath and writes the study guide to
// guidePath. A missing corpus is an error. Backend failures are not: they
// end in the placeholder guide with Source none.
func (g *Generator) Generate(ctx context.Context, corpusPath, guidePath string) (Result, error) {
	data, err := os.ReadFile(corpusPath)
	if err != nil {
		return Result{}, fmt.Errorf("reading combined notes: %w", err)
	}
	notes := string(data)
	result := Result{Source: types.GuideNone, Path: guidePath}

	attempts := []struct {
		source  types.GuideSource
		backend llm.Backend
		tmpl    *template.Template
	}{
		{types.GuidePrimary, g.Primary, primaryPromptTmpl},
		{types.GuideFallback, g.Fallback, fallbackPromptTmpl},
	}

	for _, a := range attempts {
		if a.backend == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := g.Log.WithFields(logrus.Fields{"backend": a.backend.Name(), "stage": a.source})
		log.Info("generating study guide")

		cards, err := g.attempt(ctx, a.backend, a.tmpl, notes)
		if err != nil {
			log.WithError(err).Warn("study guide generation failed")
			continue
		}

		log.WithField("cards", len(cards)).Info("extracted valid flashcards")
		if err := writeFile(guidePath, RenderGuide(cards)); err != nil {
			return result, err
		}
		result.Source = a.source
		result.Cards = cards
		return result, nil
	}

	g.Log.Error("no generator produced flashcards, writing placeholder study guide")
	if err := writeFile(guidePath, Placeholder); err != nil {
		return result, err
	}
	return result, nil
}

// attempt runs one backend under the per-call timeout and parses its
// output.
func (g *Generator) attempt(ctx context.Context, backend llm.Backend, tmpl *template.Template, notes string) ([]types.Flashcard, error) {
	prompt, err := renderPrompt(tmpl, notes)
	if err != nil {
		return nil, fmt.Errorf("rendering prompt: %w", err)
	}

	if g.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.Timeout)
		defer cancel()
	}

	raw, err := backend.Generate(ctx, prompt)
	if err != nil {
		return nil, err
	}
	g.Log.WithField("chars", len(raw)).Debug("raw generator output")

	cards := Parse(raw)
	if len(cards) == 0 {
		return nil, ErrNoCards
	}
	return cards, nil
}
