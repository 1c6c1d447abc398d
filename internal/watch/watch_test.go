// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/slidenotes/internal/logging"
)

func startWatcher(t *testing.T, w *Watcher) (cancel func(), done <-chan error) {
	t.Helper()
	ready := make(chan struct{})
	w.onReady = func() { close(ready) }

	ctx, cancelCtx := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- w.Start(ctx) }()

	select {
	case <-ready:
	case err := <-errc:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never became ready")
	}
	return cancelCtx, errc
}

func TestWatcher_DebouncesPresentationEvents(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := &Watcher{
		Dir:      dir,
		Debounce: 100 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
		Log: logging.Discard(),
	}
	cancel, done := startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.ppt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.PPTX"), []byte("y"), 0o644))

	assert.Eventually(t, func() bool { return runs.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	// Give a second burst time to be (wrongly) picked up, then stop.
	time.Sleep(300 * time.Millisecond)
	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), runs.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := &Watcher{
		Dir:      dir,
		Debounce: 50 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
		Log: logging.Discard(),
	}
	cancel, done := startWatcher(t, w)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "conversion.log"), []byte("log"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "study_guide.txt"), []byte("guide"), 0o644))
	time.Sleep(300 * time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Zero(t, runs.Load())
}

func TestWatcher_RunOnStartAndErrors(t *testing.T) {
	dir := t.TempDir()
	var runs atomic.Int32
	w := &Watcher{
		Dir:        dir,
		Debounce:   50 * time.Millisecond,
		RunOnStart: true,
		Run: func(context.Context) error {
			runs.Add(1)
			return errors.New("boom")
		},
		Log: logging.Discard(),
	}
	cancel, done := startWatcher(t, w)
	assert.Equal(t, int32(1), runs.Load())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "c.pptx"), []byte("z"), 0o644))
	assert.Eventually(t, func() bool { return runs.Load() == 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestWatcher_MissingDir(t *testing.T) {
	w := &Watcher{
		Dir: filepath.Join(t.TempDir(), "absent"),
		Run: func(context.Context) error { return nil },
		Log: logging.Discard(),
	}
	assert.Error(t, w.Start(context.Background()))
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/d/a.ppt", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/d/a.PPTX", Op: fsnotify.Write}, true},
		{fsnotify.Event{Name: "/d/a.pptx", Op: fsnotify.Remove}, false},
		{fsnotify.Event{Name: "/d/a.pptx", Op: fsnotify.Rename}, false},
		{fsnotify.Event{Name: "/d/notes.txt", Op: fsnotify.Create}, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, relevant(tt.event), tt.event.String())
	}
}
