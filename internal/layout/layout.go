// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout defines the on-disk directory structure of a working
// directory and creates it.
package layout

import (
	"fmt"
	"os"
	"path/filepath"
)

// Layout resolves every path the pipeline reads or writes under one base
// directory.
type Layout struct {
	Base string
}

// New returns the layout rooted at base. The path is made absolute so the
// office application receives absolute input and output paths.
func New(base string) (Layout, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return Layout{}, fmt.Errorf("resolving base directory %s: %w", base, err)
	}
	return Layout{Base: abs}, nil
}

func (l Layout) PPTXDir() string      { return filepath.Join(l.Base, "pptx") }
func (l Layout) TextDir() string      { return filepath.Join(l.Base, "text") }
func (l Layout) DefaultDir() string   { return filepath.Join(l.Base, "text", "default") }
func (l Layout) NotedDir() string     { return filepath.Join(l.Base, "text", "noted") }
func (l Layout) CombinedPath() string { return filepath.Join(l.Base, "text", "combined_notes.txt") }
func (l Layout) GuidePath() string    { return filepath.Join(l.Base, "study_guide.txt") }
func (l Layout) TempDir() string      { return filepath.Join(l.Base, ".temp") }
func (l Layout) LogPath() string      { return filepath.Join(l.Base, "conversion.log") }
func (l Layout) StateDir() string     { return filepath.Join(l.Base, ".slidenotes") }
func (l Layout) CatalogPath() string  { return filepath.Join(l.Base, ".slidenotes", "catalog.db") }

// Dirs lists the directories Setup creates, parents first.
func (l Layout) Dirs() []string {
	return []string{
		l.Base,
		l.PPTXDir(),
		l.TextDir(),
		l.DefaultDir(),
		l.NotedDir(),
		l.TempDir(),
		l.StateDir(),
	}
}

// DirectorySetupError reports a directory that could not be created. It is
// fatal for a run.
type DirectorySetupError struct {
	Dir string
	Err error
}

func (e *DirectorySetupError) Error() string {
	return fmt.Sprintf("cannot create directory %s: %v", e.Dir, e.Err)
}

func (e *DirectorySetupError) Unwrap() error { return e.Err }

// Setup creates all directories of the layout. Existing directories are
// left as they are.
func (l Layout) Setup() error {
	for _, dir := range l.Dirs() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &DirectorySetupError{Dir: dir, Err: err}
		}
	}
	return nil
}

// PurgeTemp removes the scratch directory and recreates it empty.
func (l Layout) PurgeTemp() error {
	if err := os.RemoveAll(l.TempDir()); err != nil {
		return fmt.Errorf("removing %s: %w", l.TempDir(), err)
	}
	if err := os.MkdirAll(l.TempDir(), 0o755); err != nil {
		return fmt.Errorf("recreating %s: %w", l.TempDir(), err)
	}
	return nil
}
