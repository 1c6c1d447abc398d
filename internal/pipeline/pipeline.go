// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline drives one batch run over a working directory:
// conversion of legacy files, text extraction, corpus combination, study
// guide generation and run recording. Per-file failures are counted and
// logged; only a directory setup failure aborts a run.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/internal/catalog"
	"github.com/pdiddy/slidenotes/internal/convert"
	"github.com/pdiddy/slidenotes/internal/corpus"
	"github.com/pdiddy/slidenotes/internal/extract"
	"github.com/pdiddy/slidenotes/internal/flashcard"
	"github.com/pdiddy/slidenotes/internal/layout"
	"github.com/pdiddy/slidenotes/internal/llm"
	"github.com/pdiddy/slidenotes/internal/office"
	"github.com/pdiddy/slidenotes/pkg/types"
)

// Deps holds the collaborators of a run. Zero fields get production
// defaults.
type Deps struct {
	// Session drives legacy conversion. When nil, an office application is
	// detected on first need.
	Session convert.Session

	// NewBackend builds a generation backend for a model. Defaults to
	// llm.New.
	NewBackend func(cfg types.GenerationConfig, model string) (llm.Backend, error)

	Log logrus.FieldLogger

	// Now defaults to time.Now.
	Now func() time.Time
}

// Pipeline runs stages against one working directory.
type Pipeline struct {
	Config types.PipelineConfig
	Layout layout.Layout
	deps   Deps
}

// New returns a pipeline for cfg.BaseDir. cfg is completed with defaults.
func New(cfg types.PipelineConfig, deps Deps) (*Pipeline, error) {
	cfg = cfg.WithDefaults()
	l, err := layout.New(cfg.BaseDir)
	if err != nil {
		return nil, err
	}
	if deps.NewBackend == nil {
		deps.NewBackend = llm.New
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Log == nil {
		deps.Log = logrus.StandardLogger()
	}
	return &Pipeline{Config: cfg, Layout: l, deps: deps}, nil
}

// Run executes a full batch run with a new Pipeline.
func Run(ctx context.Context, cfg types.PipelineConfig, deps Deps) (types.RunSummary, error) {
	p, err := New(cfg, deps)
	if err != nil {
		return types.RunSummary{}, err
	}
	return p.Run(ctx)
}

// Run executes every stage in order and returns the run's counts. The
// scratch directory is purged on every path once setup succeeded.
func (p *Pipeline) Run(ctx context.Context) (types.RunSummary, error) {
	var summary types.RunSummary
	log := p.deps.Log
	started := p.deps.Now()

	if err := p.Layout.Setup(); err != nil {
		return summary, err
	}
	defer p.cleanup()

	log.WithField("dir", p.Layout.Base).Info("starting processing")

	conv, err := p.Convert(ctx)
	if err != nil {
		return summary, err
	}
	summary.Converted = conv.Converted
	summary.ConversionFailed = conv.Failed

	containers, err := countContainers(p.Layout.PPTXDir())
	if err != nil {
		return summary, err
	}
	summary.Containers = containers
	if containers == 0 {
		log.Warn("no presentation files found to process")
		return summary, nil
	}

	ext, err := p.Extract(ctx)
	if err != nil {
		return summary, err
	}
	summary.Extracted = ext.Extracted
	summary.ExtractionFailed = ext.Failed

	entries, err := p.Combine(ctx)
	if err != nil {
		log.WithError(err).Error("combining text files failed")
	}
	summary.Chapters = len(entries)

	summary.Guide = types.GuideNone
	var gen flashcard.Result
	if err == nil && !p.Config.Generation.Skip {
		gen, err = p.Generate(ctx)
		if err != nil {
			log.WithError(err).Error("generating study guide failed")
		}
		summary.Guide = gen.Source
		summary.Flashcards = len(gen.Cards)
	}

	if !p.Config.Catalog.Disabled {
		run := catalog.Run{
			Summary:    summary,
			StartedAt:  started,
			FinishedAt: p.deps.Now(),
			Chapters:   chapters(entries, ext.Documents),
			Cards:      gen.Cards,
		}
		if id, err := p.record(ctx, run); err != nil {
			log.WithError(err).Warn("recording run in catalog failed")
		} else {
			summary.RunID = id
		}
	}

	p.logSummary(summary)
	return summary, ctx.Err()
}

// Convert adopts containers already in the base directory and converts
// the legacy files there. The office session is released before returning.
func (p *Pipeline) Convert(ctx context.Context) (convert.BatchResult, error) {
	log := p.deps.Log
	if err := p.Layout.Setup(); err != nil {
		return convert.BatchResult{}, err
	}

	if _, err := convert.AdoptExisting(p.Layout.Base, p.Layout.PPTXDir(), log); err != nil {
		log.WithError(err).Warn("moving existing containers failed")
	}

	pending, err := convert.Pending(p.Layout.Base)
	if err != nil {
		return convert.BatchResult{}, err
	}
	if len(pending) == 0 {
		return convert.BatchResult{}, nil
	}

	session := p.deps.Session
	if session == nil {
		detected, err := office.Detect(p.Config.Conversion.Binary, log)
		if err != nil {
			log.WithError(err).Error("cannot convert legacy files")
			return convert.BatchResult{Failed: len(pending)}, nil
		}
		session = detected
	}
	defer func() {
		if err := session.Release(); err != nil {
			log.WithError(err).Warn("releasing office session")
		}
	}()

	c := convert.New(p.Layout, session, p.Config.Conversion, log)
	return c.ConvertAll(ctx, p.Layout.Base)
}

// Extract renders every container in the container directory.
func (p *Pipeline) Extract(ctx context.Context) (extract.BatchResult, error) {
	if err := p.Layout.Setup(); err != nil {
		return extract.BatchResult{}, err
	}
	return extract.New(p.Layout, p.deps.Log).ExtractAll(ctx, p.Layout.PPTXDir())
}

// Combine writes the combined document and returns its chapters.
func (p *Pipeline) Combine(ctx context.Context) ([]types.CorpusEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := corpus.Entries(p.Layout.DefaultDir(), p.Layout.NotedDir())
	if err != nil {
		return nil, err
	}
	if _, err := corpus.Combine(p.Layout.DefaultDir(), p.Layout.NotedDir(), p.Layout.CombinedPath()); err != nil {
		return nil, err
	}
	p.deps.Log.WithField("chapters", len(entries)).Info("created combined notes")
	return entries, nil
}

// Generate writes the study guide from the combined document.
func (p *Pipeline) Generate(ctx context.Context) (flashcard.Result, error) {
	gcfg := p.Config.Generation
	g := &flashcard.Generator{
		Primary:  p.backend(gcfg.Model),
		Fallback: p.backend(gcfg.FallbackModel),
		Timeout:  gcfg.Timeout,
		Log:      p.deps.Log,
	}
	return g.Generate(ctx, p.Layout.CombinedPath(), p.Layout.GuidePath())
}

// Log returns the run logger.
func (p *Pipeline) Log() logrus.FieldLogger { return p.deps.Log }

// Catalog opens the run catalog of the working directory.
func (p *Pipeline) Catalog() (*catalog.Store, error) {
	return catalog.Open(p.Layout.CatalogPath(), p.Layout.Base)
}

func (p *Pipeline) backend(model string) llm.Backend {
	if model == "" {
		return nil
	}
	b, err := p.deps.NewBackend(p.Config.Generation, model)
	if err != nil {
		p.deps.Log.WithError(err).WithField("model", model).Error("cannot create generation backend")
		return nil
	}
	return b
}

func (p *Pipeline) record(ctx context.Context, run catalog.Run) (string, error) {
	store, err := p.Catalog()
	if err != nil {
		return "", err
	}
	defer store.Close()
	return store.RecordRun(ctx, run)
}

func (p *Pipeline) cleanup() {
	if err := p.Layout.PurgeTemp(); err != nil {
		p.deps.Log.WithError(err).Warn("cleaning temp directory failed")
	}
}

func (p *Pipeline) logSummary(s types.RunSummary) {
	log := p.deps.Log
	log.WithFields(logrus.Fields{
		"converted":         s.Converted,
		"conversion_failed": s.ConversionFailed,
		"extracted":         s.Extracted,
		"extraction_failed": s.ExtractionFailed,
		"chapters":          s.Chapters,
		"flashcards":        s.Flashcards,
		"generator":         s.Guide,
	}).Info("processing complete")

	for _, line := range Tree(p.Layout) {
		log.Info(line)
	}
}

// Tree describes the output directories and the number of files each
// holds, one line per entry.
func Tree(l layout.Layout) []string {
	entries := []struct {
		path, label string
	}{
		{l.PPTXDir(), "converted presentations"},
		{l.TextDir(), ""},
		{l.DefaultDir(), "slide text only"},
		{l.NotedDir(), "slide text with notes"},
		{l.CombinedPath(), "all chapters combined"},
		{l.GuidePath(), "study guide"},
	}

	lines := []string{filepath.Base(l.Base) + "/"}
	for _, e := range entries {
		rel, err := filepath.Rel(l.Base, e.path)
		if err != nil {
			rel = e.path
		}
		depth := strings.Count(rel, string(filepath.Separator))
		prefix := strings.Repeat("    ", depth) + "|-- "

		info, err := os.Stat(e.path)
		switch {
		case err != nil:
			lines = append(lines, fmt.Sprintf("%s%s (missing)", prefix, filepath.Base(rel)))
		case info.IsDir():
			n, _ := countFiles(e.path)
			line := fmt.Sprintf("%s%s/ (%d files)", prefix, filepath.Base(rel), n)
			if e.label != "" {
				line += " " + e.label
			}
			lines = append(lines, line)
		default:
			lines = append(lines, fmt.Sprintf("%s%s (%s)", prefix, filepath.Base(rel), e.label))
		}
	}
	return lines
}

// chapters joins corpus entries with this run's extraction results.
func chapters(entries []types.CorpusEntry, docs []types.ExtractedDocument) []catalog.Chapter {
	slides := make(map[string]int, len(docs))
	for _, d := range docs {
		slides[d.Stem] = d.Slides
	}

	out := make([]catalog.Chapter, 0, len(entries))
	for _, e := range entries {
		sum, _ := catalog.Checksum(e.Path)
		out = append(out, catalog.Chapter{
			Stem:     e.Chapter,
			Variant:  e.Variant,
			Slides:   slides[e.Chapter],
			HasNotes: e.Variant == types.VariantNoted,
			Checksum: sum,
		})
	}
	return out
}

func countContainers(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading %s: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".pptx") {
			n++
		}
	}
	return n, nil
}

func countFiles(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}
