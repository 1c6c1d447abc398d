// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Variant names which rendering of a chapter made it into the corpus.
type Variant string

const (
	VariantDefault Variant = "default"
	VariantNoted   Variant = "noted"
)

// CorpusEntry is one chapter of the combined document.
type CorpusEntry struct {
	// Chapter is the presentation stem.
	Chapter string `json:"chapter" yaml:"chapter"`

	// Variant is the rendering selected for the chapter: noted when it
	// exists, default otherwise.
	Variant Variant `json:"variant" yaml:"variant"`

	// Path is the text file the chapter body was read from.
	Path string `json:"path" yaml:"path"`
}

// Flashcard is a term/definition pair accepted from generator output.
// Both fields are non-empty after trimming.
type Flashcard struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

// String renders the card in study-guide form.
func (f Flashcard) String() string {
	return f.Term + ":::" + f.Definition
}

// GuideSource records which generator produced the study guide.
type GuideSource string

const (
	GuidePrimary  GuideSource = "primary"
	GuideFallback GuideSource = "fallback"
	GuideNone     GuideSource = "none"
)

// RunSummary collects per-stage counts for one pipeline run.
type RunSummary struct {
	RunID            string      `json:"run_id" yaml:"run_id"`
	Containers       int         `json:"containers" yaml:"containers"`
	Converted        int         `json:"converted" yaml:"converted"`
	ConversionFailed int         `json:"conversion_failed" yaml:"conversion_failed"`
	Extracted        int         `json:"extracted" yaml:"extracted"`
	ExtractionFailed int         `json:"extraction_failed" yaml:"extraction_failed"`
	Chapters         int         `json:"chapters" yaml:"chapters"`
	Flashcards       int         `json:"flashcards" yaml:"flashcards"`
	Guide            GuideSource `json:"guide" yaml:"guide"`
}

// HasFailures reports whether any file failed conversion or extraction.
func (s RunSummary) HasFailures() bool {
	return s.ConversionFailed > 0 || s.ExtractionFailed > 0
}
