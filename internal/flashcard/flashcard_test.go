// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package flashcard

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/slidenotes/internal/logging"
	"github.com/pdiddy/slidenotes/pkg/types"
)

type fakeBackend struct {
	name   string
	output string
	err    error

	calls       int
	prompt      string
	hadDeadline bool
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Generate(ctx context.Context, prompt string) (string, error) {
	f.calls++
	f.prompt = prompt
	_, f.hadDeadline = ctx.Deadline()
	return f.output, f.err
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []types.Flashcard
	}{
		{
			name: "single card",
			raw:  "Bit:::The smallest unit of digital information",
			want: []types.Flashcard{{Term: "Bit", Definition: "The smallest unit of digital information"}},
		},
		{name: "no separator", raw: "NoSeparatorHere", want: nil},
		{name: "empty term", raw: ":::OnlyDefinition", want: nil},
		{name: "empty definition", raw: "Term:::   ", want: nil},
		{
			name: "first separator splits",
			raw:  "  Ratio ::: a:::b  ",
			want: []types.Flashcard{{Term: "Ratio", Definition: "a:::b"}},
		},
		{
			name: "fences headings and chatter skipped",
			raw: "Here are your cards:\n```\n```text:::x\n# Terms:::heading\nByte:::Eight bits\n\n" +
				"Pixel ::: Picture element\r\n```",
			want: []types.Flashcard{
				{Term: "Byte", Definition: "Eight bits"},
				{Term: "Pixel", Definition: "Picture element"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.raw))
		})
	}
}

func TestParse_AcceptedCardsAreWellFormed(t *testing.T) {
	raw := "A:::1\n :::2\nB::: \n```C:::3\n#D:::4\nE ::: 5 ::: 6\nnothing"
	for _, c := range Parse(raw) {
		assert.NotEmpty(t, strings.TrimSpace(c.Term))
		assert.NotEmpty(t, strings.TrimSpace(c.Definition))
		assert.Equal(t, c.Term, strings.TrimSpace(c.Term))
	}
}

func TestRenderGuide(t *testing.T) {
	got := RenderGuide([]types.Flashcard{{Term: "Bit", Definition: "0 or 1"}, {Term: "Byte", Definition: "8 bits"}})
	want := "DIGITAL MEDIA STUDY GUIDE\n================================\n\nFormat: Term:::Definition\nReady for Quizlet Import\n\n--------------------------------\n\n" +
		"Bit:::0 or 1\nByte:::8 bits"
	assert.Equal(t, want, got)
}

func TestPrompts(t *testing.T) {
	primary, err := renderPrompt(primaryPromptTmpl, "NOTES <&> {{x}}")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(primary, "You will create flashcards from lecture notes."))
	assert.Contains(t, primary, "\n\nNOTES <&> {{x}}\n\nRemember: Each line must be in the format Term:::Definition")

	fallback, err := renderPrompt(fallbackPromptTmpl, "NOTES")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(fallback, "Create flashcards from these lecture notes."))
	assert.True(t, strings.HasSuffix(fallback, "Now create flashcards from these notes:\n\nNOTES"))
}

func setupCorpus(t *testing.T) (corpus, guide string) {
	t.Helper()
	dir := t.TempDir()
	corpus = filepath.Join(dir, "combined_notes.txt")
	require.NoError(t, os.WriteFile(corpus, []byte("COMBINED LECTURE NOTES"), 0o644))
	return corpus, filepath.Join(dir, "study_guide.txt")
}

func readGuide(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestGenerate_Primary(t *testing.T) {
	corpus, guide := setupCorpus(t)
	primary := &fakeBackend{name: "p", output: "Sure!\nBit:::0 or 1\n"}
	fallback := &fakeBackend{name: "f"}
	g := &Generator{Primary: primary, Fallback: fallback, Timeout: time.Minute, Log: logging.Discard()}

	res, err := g.Generate(context.Background(), corpus, guide)
	require.NoError(t, err)

	assert.Equal(t, types.GuidePrimary, res.Source)
	assert.Len(t, res.Cards, 1)
	assert.Equal(t, GuideHeader+"Bit:::0 or 1", readGuide(t, guide))
	assert.Contains(t, primary.prompt, "COMBINED LECTURE NOTES")
	assert.True(t, primary.hadDeadline)
	assert.Zero(t, fallback.calls)
}

func TestGenerate_Fallback(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakeBackend
	}{
		{"primary error", &fakeBackend{name: "p", err: errors.New("model not found")}},
		{"primary no valid cards", &fakeBackend{name: "p", output: "I cannot help with that."}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			corpus, guide := setupCorpus(t)
			fallback := &fakeBackend{name: "f", output: "Binary:::Base two"}
			g := &Generator{Primary: tt.primary, Fallback: fallback, Log: logging.Discard()}

			res, err := g.Generate(context.Background(), corpus, guide)
			require.NoError(t, err)

			assert.Equal(t, types.GuideFallback, res.Source)
			assert.Equal(t, GuideHeader+"Binary:::Base two", readGuide(t, guide))
			assert.True(t, strings.HasPrefix(fallback.prompt, "Create flashcards"))
			assert.False(t, fallback.hadDeadline)
		})
	}
}

func TestGenerate_Placeholder(t *testing.T) {
	corpus, guide := setupCorpus(t)
	g := &Generator{
		Primary:  &fakeBackend{name: "p", err: errors.New("down")},
		Fallback: &fakeBackend{name: "f", output: "no separators here"},
		Log:      logging.Discard(),
	}

	res, err := g.Generate(context.Background(), corpus, guide)
	require.NoError(t, err)

	assert.Equal(t, types.GuideNone, res.Source)
	assert.Empty(t, res.Cards)
	assert.Equal(t, Placeholder, readGuide(t, guide))
}

func TestGenerate_MissingCorpus(t *testing.T) {
	dir := t.TempDir()
	primary := &fakeBackend{name: "p", output: "A:::b"}
	g := &Generator{Primary: primary, Log: logging.Discard()}

	_, err := g.Generate(context.Background(), filepath.Join(dir, "missing.txt"), filepath.Join(dir, "guide.txt"))
	require.Error(t, err)
	assert.Zero(t, primary.calls)
	_, statErr := os.Stat(filepath.Join(dir, "guide.txt"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestGenerate_NoFallbackConfigured(t *testing.T) {
	corpus, guide := setupCorpus(t)
	g := &Generator{Primary: &fakeBackend{name: "p", output: ""}, Log: logging.Discard()}

	res, err := g.Generate(context.Background(), corpus, guide)
	require.NoError(t, err)
	assert.Equal(t, types.GuideNone, res.Source)
	assert.Equal(t, Placeholder, readGuide(t, guide))
}
