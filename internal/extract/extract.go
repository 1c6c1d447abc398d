// Package extract renders presentation containers into plain text. Each
// container yields a body-only "default" rendering and, when any slide
// carries speaker notes, a "noted" rendering with a notes appendix.
package extract

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/internal/layout"
	"github.com/pdiddy/slidenotes/internal/pptx"
	"github.com/pdiddy/slidenotes/pkg/types"
)

// BatchResult holds counts from a batch extraction run.
type BatchResult struct {
	Extracted int
	Failed    int

	// Documents lists the successfully extracted documents in file order.
	Documents []types.ExtractedDocument
}

// Total returns the number of containers processed.
func (r BatchResult) Total() int {
	return r.Extracted + r.Failed
}

// HasFailures reports whether any container failed.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Extractor writes text renderings of containers into a layout's text
// directories. Containers are read from a scratch copy in the layout's
// temp directory.
type Extractor struct {
	TempDir    string
	DefaultDir string
	NotedDir   string
	Log        logrus.FieldLogger
}

// New returns an Extractor over the directories of l.
func New(l layout.Layout, log logrus.FieldLogger) *Extractor {
	return &Extractor{
		TempDir:    l.TempDir(),
		DefaultDir: l.DefaultDir(),
		NotedDir:   l.NotedDir(),
		Log:        log,
	}
}

// ExtractAll extracts every .pptx in pptxDir in name order. A failed file is
// logged and counted; the batch continues. A missing directory holds no
// containers.
func (e *Extractor) ExtractAll(ctx context.Context, pptxDir string) (BatchResult, error) {
	var result BatchResult

	paths, err := listContainers(pptxDir)
	if err != nil {
		return result, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		log := e.Log.WithField("file", filepath.Base(path))
		log.Info("extracting text")

		doc, err := e.ExtractFile(ctx, path)
		if err != nil {
			log.WithError(err).Error("extraction failed")
			result.Failed++
			continue
		}

		log.WithFields(logrus.Fields{
			"slides": doc.Slides,
			"notes":  doc.Noted != nil,
		}).Info("extracted text")
		result.Extracted++
		result.Documents = append(result.Documents, doc)
	}

	return result, nil
}

// ExtractFile renders one container and writes default/<stem>.txt and,
// when notes exist, noted/<stem>.txt. The output depends only on the
// container's content. A noted file from an earlier run is left in place
// when the container no longer has notes.
func (e *Extractor) ExtractFile(ctx context.Context, path string) (types.ExtractedDocument, error) {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	doc := types.ExtractedDocument{Stem: stem}

	if err := ctx.Err(); err != nil {
		return doc, err
	}

	if err := os.MkdirAll(e.TempDir, 0o755); err != nil {
		return doc, fmt.Errorf("creating temp directory: %w", err)
	}
	tempPath := filepath.Join(e.TempDir, stem+"_temp.pptx")
	if err := copyFile(path, tempPath); err != nil {
		return doc, fmt.Errorf("copying %s: %w", filepath.Base(path), err)
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			e.Log.WithError(err).WithField("file", tempPath).Warn("could not remove temp copy")
		}
	}()

	reader := &pptx.Reader{Log: e.Log}
	pres, err := reader.Open(tempPath)
	if err != nil {
		return doc, fmt.Errorf("extracting %s: %w", filepath.Base(path), err)
	}
	pres.Stem = stem

	main, notes := e.render(pres)
	doc.Slides = len(pres.Slides)
	doc.Default = strings.Join(main, "\n")

	if err := writeText(e.DefaultDir, stem, doc.Default); err != nil {
		return doc, err
	}

	if len(notes) > 0 {
		blocks := make([]string, 0, len(main)+1+len(notes))
		blocks = append(blocks, main...)
		blocks = append(blocks, notesDivider)
		blocks = append(blocks, notes...)
		noted := strings.Join(blocks, "\n")
		doc.Noted = &noted

		if err := writeText(e.NotedDir, stem, noted); err != nil {
			return doc, err
		}
	}

	return doc, nil
}

// render returns the body block of every slide and the non-empty notes
// blocks, both in slide order.
func (e *Extractor) render(pres *types.Presentation) (main, notes []string) {
	log := e.Log.WithField("file", pres.Stem)
	for i, slide := range pres.Slides {
		body, note := slideText(log, slide, i+1)
		main = append(main, body)
		if note != "" {
			notes = append(notes, note)
		}
	}
	return main, notes
}

// listContainers returns the .pptx files directly under dir, sorted by name.
func listContainers(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading container directory %s: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".pptx") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func writeText(dir, stem, text string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, stem+".txt")
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
