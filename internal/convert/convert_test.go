// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pdiddy/slidenotes/internal/layout"
	"github.com/pdiddy/slidenotes/internal/logging"
	"github.com/pdiddy/slidenotes/pkg/types"
)

// fakeSession implements Session. failFirst conversions fail before it
// starts writing output; failNames always fail.
type fakeSession struct {
	failFirst int
	failNames map[string]bool
	noOutput  bool

	acquires int
	releases int
	converts int
}

func (f *fakeSession) Acquire(context.Context) error {
	f.acquires++
	return nil
}

func (f *fakeSession) Release() error {
	f.releases++
	return nil
}

func (f *fakeSession) Convert(_ context.Context, in, outDir string) error {
	f.converts++
	if f.converts <= f.failFirst || f.failNames[filepath.Base(in)] {
		return errors.New("office crashed")
	}
	if f.noOutput {
		return nil
	}
	stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
	return os.WriteFile(filepath.Join(outDir, stem+".pptx"), []byte("pptx:"+stem), 0o644)
}

func testConfig() types.ConversionConfig {
	return types.ConversionConfig{Retries: 2, RetryDelay: time.Millisecond}
}

func setupBase(t *testing.T, files ...string) layout.Layout {
	t.Helper()
	l, err := layout.New(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := l.Setup(); err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if err := os.WriteFile(filepath.Join(l.Base, f), []byte("legacy"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return l
}

func TestConvertFile(t *testing.T) {
	tests := []struct {
		name         string
		session      *fakeSession
		keep         bool
		wantErr      bool
		wantConverts int
		wantReleases int
		wantOriginal bool
	}{
		{
			name:         "first attempt succeeds",
			session:      &fakeSession{},
			wantConverts: 1,
		},
		{
			name:         "second attempt succeeds after reset",
			session:      &fakeSession{failFirst: 1},
			wantConverts: 2,
			wantReleases: 1,
		},
		{
			name:         "all attempts fail",
			session:      &fakeSession{failFirst: 5},
			wantErr:      true,
			wantConverts: 2,
			wantReleases: 1,
			wantOriginal: true,
		},
		{
			name:         "no output produced",
			session:      &fakeSession{noOutput: true},
			wantErr:      true,
			wantConverts: 2,
			wantReleases: 1,
			wantOriginal: true,
		},
		{
			name:         "keep originals",
			session:      &fakeSession{},
			keep:         true,
			wantConverts: 1,
			wantOriginal: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := setupBase(t, "Lecture 1.ppt")
			cfg := testConfig()
			cfg.KeepOriginals = tt.keep
			c := New(l, tt.session, cfg, logging.Discard())

			out, err := c.ConvertFile(context.Background(), filepath.Join(l.Base, "Lecture 1.ppt"))

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, ErrConversion) {
					t.Errorf("err = %v, want ErrConversion", err)
				}
				if !strings.Contains(err.Error(), "Lecture 1.ppt") {
					t.Errorf("err = %v, want file name", err)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				want := filepath.Join(l.PPTXDir(), "Lecture 1.pptx")
				if out != want {
					t.Errorf("out = %q, want %q", out, want)
				}
				data, err := os.ReadFile(want)
				if err != nil || string(data) != "pptx:Lecture 1" {
					t.Errorf("converted file = %q, %v", data, err)
				}
				if _, err := os.Stat(filepath.Join(l.TempDir(), "Lecture 1.pptx")); !os.IsNotExist(err) {
					t.Error("temp output left behind")
				}
			}

			if tt.session.converts != tt.wantConverts {
				t.Errorf("converts = %d, want %d", tt.session.converts, tt.wantConverts)
			}
			if tt.session.releases != tt.wantReleases {
				t.Errorf("releases = %d, want %d", tt.session.releases, tt.wantReleases)
			}
			_, statErr := os.Stat(filepath.Join(l.Base, "Lecture 1.ppt"))
			if gotOriginal := statErr == nil; gotOriginal != tt.wantOriginal {
				t.Errorf("original present = %v, want %v", gotOriginal, tt.wantOriginal)
			}
		})
	}
}

func TestConvertFile_ReplacesExisting(t *testing.T) {
	l := setupBase(t, "A.ppt")
	if err := os.WriteFile(filepath.Join(l.PPTXDir(), "A.pptx"), []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	c := New(l, &fakeSession{}, testConfig(), logging.Discard())

	if _, err := c.ConvertFile(context.Background(), filepath.Join(l.Base, "A.ppt")); err != nil {
		t.Fatalf("ConvertFile: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(l.PPTXDir(), "A.pptx"))
	if string(data) != "pptx:A" {
		t.Errorf("container = %q, want replaced content", data)
	}
}

func TestConvertFile_MissingInputNotRetried(t *testing.T) {
	l := setupBase(t)
	s := &fakeSession{}
	c := New(l, s, testConfig(), logging.Discard())

	_, err := c.ConvertFile(context.Background(), filepath.Join(l.Base, "gone.ppt"))
	if !errors.Is(err, ErrConversion) || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrConversion wrapping not-exist", err)
	}
	if s.converts != 0 || s.releases != 0 {
		t.Errorf("converts = %d, releases = %d, want none", s.converts, s.releases)
	}
}

func TestConvertAll(t *testing.T) {
	l := setupBase(t, "b.ppt", "a.PPT", "bad.ppt", "notes.txt")
	s := &fakeSession{failNames: map[string]bool{"bad.ppt": true}}
	c := New(l, s, testConfig(), logging.Discard())

	result, err := c.ConvertAll(context.Background(), l.Base)
	if err != nil {
		t.Fatalf("ConvertAll: %v", err)
	}
	if result.Converted != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 converted, 1 failed", result)
	}
	if result.Total() != 3 || !result.HasFailures() {
		t.Errorf("Total() = %d, HasFailures() = %v", result.Total(), result.HasFailures())
	}
	for _, name := range []string{"a.pptx", "b.pptx"} {
		if _, err := os.Stat(filepath.Join(l.PPTXDir(), name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(l.Base, "bad.ppt")); err != nil {
		t.Errorf("failed original removed: %v", err)
	}
}

func TestAdoptExisting(t *testing.T) {
	l := setupBase(t, "New.pptx", "Taken.pptx", "legacy.ppt")
	if err := os.WriteFile(filepath.Join(l.PPTXDir(), "Taken.pptx"), []byte("already here"), 0o644); err != nil {
		t.Fatal(err)
	}

	moved, err := AdoptExisting(l.Base, l.PPTXDir(), logging.Discard())
	if err != nil {
		t.Fatalf("AdoptExisting: %v", err)
	}
	if moved != 1 {
		t.Errorf("moved = %d, want 1", moved)
	}
	if _, err := os.Stat(filepath.Join(l.PPTXDir(), "New.pptx")); err != nil {
		t.Errorf("New.pptx not adopted: %v", err)
	}
	data, _ := os.ReadFile(filepath.Join(l.PPTXDir(), "Taken.pptx"))
	if string(data) != "already here" {
		t.Errorf("Taken.pptx overwritten: %q", data)
	}
	if _, err := os.Stat(filepath.Join(l.Base, "Taken.pptx")); err != nil {
		t.Errorf("Taken.pptx should stay in base: %v", err)
	}
	if _, err := os.Stat(filepath.Join(l.Base, "legacy.ppt")); err != nil {
		t.Errorf("legacy.ppt should not move: %v", err)
	}
}

func TestPending_MissingDir(t *testing.T) {
	paths, err := Pending(filepath.Join(t.TempDir(), "absent"))
	if err != nil || len(paths) != 0 {
		t.Errorf("Pending = %v, %v; want empty", paths, err)
	}
}
