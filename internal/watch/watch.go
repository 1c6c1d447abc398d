// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watch re-runs the pipeline when presentation files land in a
// working directory.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

const defaultDebounce = 2 * time.Second

// Watcher calls Run once per quiet period after .ppt or .pptx files are
// created or written in Dir. Runs never overlap.
type Watcher struct {
	Dir string

	// Debounce is the quiet period after the last relevant event (default 2s).
	Debounce time.Duration

	// RunOnStart triggers one run before watching begins.
	RunOnStart bool

	Run func(ctx context.Context) error
	Log logrus.FieldLogger

	// onReady is called once the directory is being watched.
	onReady func()
}

// Start watches until ctx is cancelled. Run errors are logged and do not
// stop the watcher.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.Dir, err)
	}
	w.Log.WithField("dir", w.Dir).Info("watching for presentations")

	if w.RunOnStart {
		w.run(ctx)
	}
	if w.onReady != nil {
		w.onReady()
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			w.Log.WithField("file", filepath.Base(event.Name)).Debug("detected change")
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.Log.WithError(err).Warn("watcher error")
		case <-fire:
			fire = nil
			w.run(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	if err := w.Run(ctx); err != nil {
		w.Log.WithError(err).Error("pipeline run failed")
	}
}

// relevant reports whether event is a create or write of a presentation.
func relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	switch strings.ToLower(filepath.Ext(event.Name)) {
	case ".ppt", ".pptx":
		return true
	}
	return false
}
