//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Stage runs single pipeline stages over the sample lecture directory.
type Stage mg.Namespace

func stage(name string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), name, sampleDir)
}

// Convert turns legacy .ppt lectures into .pptx.
func (Stage) Convert() error { return stage("convert") }

// Extract writes per-chapter slide text and notes.
func (Stage) Extract() error { return stage("extract") }

// Combine writes text/combined_notes.txt.
func (Stage) Combine() error { return stage("combine") }

// Generate writes study_guide.txt.
func (Stage) Generate() error { return stage("generate") }
