// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package corpus merges per-chapter text renderings into one combined
// document. A chapter's noted rendering takes precedence over its default
// rendering. Chapters with a noted rendering come first, in name order,
// followed by the default-only chapters, in name order.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/slidenotes/pkg/types"
)

// Header opens every combined document.
var Header = "COMBINED LECTURE NOTES\n" + strings.Repeat("=", 50) + "\n\n"

var chapterRule = strings.Repeat("-", 50)

// Entries returns the chapters of the combined document in output order.
// Missing directories contribute no chapters.
func Entries(defaultDir, notedDir string) ([]types.CorpusEntry, error) {
	noted, err := listText(notedDir)
	if err != nil {
		return nil, err
	}
	defaults, err := listText(defaultDir)
	if err != nil {
		return nil, err
	}

	var entries []types.CorpusEntry
	seen := make(map[string]bool, len(noted))
	for _, name := range noted {
		stem := strings.TrimSuffix(name, ".txt")
		seen[stem] = true
		entries = append(entries, types.CorpusEntry{
			Chapter: stem,
			Variant: types.VariantNoted,
			Path:    filepath.Join(notedDir, name),
		})
	}
	for _, name := range defaults {
		stem := strings.TrimSuffix(name, ".txt")
		if seen[stem] {
			continue
		}
		entries = append(entries, types.CorpusEntry{
			Chapter: stem,
			Variant: types.VariantDefault,
			Path:    filepath.Join(defaultDir, name),
		})
	}
	return entries, nil
}

// Render builds the combined document from entries, reading each chapter
// body from its path.
func Render(entries []types.CorpusEntry) (string, error) {
	var b strings.Builder
	b.WriteString(Header)
	for _, entry := range entries {
		content, err := os.ReadFile(entry.Path)
		if err != nil {
			return "", fmt.Errorf("reading chapter %s: %w", entry.Chapter, err)
		}
		fmt.Fprintf(&b, "\nCHAPTER: %s\n%s\n", entry.Chapter, chapterRule)
		b.Write(content)
		b.WriteString("\n\n")
	}
	return b.String(), nil
}

// Combine writes the combined document for the two text directories to
// outPath, replacing any previous file, and returns its path.
func Combine(defaultDir, notedDir, outPath string) (string, error) {
	entries, err := Entries(defaultDir, notedDir)
	if err != nil {
		return "", err
	}
	text, err := Render(entries)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Dir(outPath), err)
	}
	if err := os.WriteFile(outPath, []byte(text), 0o644); err != nil {
		return "", fmt.Errorf("writing combined notes: %w", err)
	}
	return outPath, nil
}

// listText returns the names of .txt files directly under dir, ascending.
func listText(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".txt" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}
