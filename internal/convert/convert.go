// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns legacy presentation files (.ppt) into the modern
// container format through an office session, retrying a bounded number of
// times with a session teardown between attempts.
package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/pdiddy/slidenotes/internal/layout"
	"github.com/pdiddy/slidenotes/internal/retry"
	"github.com/pdiddy/slidenotes/pkg/types"
)

// ErrConversion marks a file that could not be converted after all
// attempts.
var ErrConversion = errors.New("conversion failed")

// Session is the office application handle a Converter drives.
// *office.Session implements it.
type Session interface {
	Acquire(ctx context.Context) error
	Convert(ctx context.Context, in, outDir string) error
	Release() error
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Failed    int
}

// Total returns the total number of files processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Failed
}

// HasFailures reports whether any file failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// Converter converts legacy files found in a base directory and places the
// results in the container directory.
type Converter struct {
	Session Session
	TempDir string
	PPTXDir string
	Config  types.ConversionConfig
	Log     logrus.FieldLogger
}

// New returns a Converter writing into the directories of l.
func New(l layout.Layout, s Session, cfg types.ConversionConfig, log logrus.FieldLogger) *Converter {
	return &Converter{
		Session: s,
		TempDir: l.TempDir(),
		PPTXDir: l.PPTXDir(),
		Config:  cfg,
		Log:     log,
	}
}

// Pending lists the legacy files directly under dir, sorted by name.
func Pending(dir string) ([]string, error) {
	return listExt(dir, ".ppt")
}

// ConvertAll converts every legacy file under base. A failed file is logged
// and counted; the batch continues.
func (c *Converter) ConvertAll(ctx context.Context, base string) (BatchResult, error) {
	var result BatchResult

	paths, err := Pending(base)
	if err != nil {
		return result, err
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		log := c.Log.WithField("file", filepath.Base(path))
		log.Info("converting")

		out, err := c.ConvertFile(ctx, path)
		if err != nil {
			log.WithError(err).Error("conversion failed")
			result.Failed++
			continue
		}
		log.WithField("output", out).Info("converted")
		result.Converted++
	}
	return result, nil
}

// ConvertFile converts one legacy file and returns the path of the
// container in the container directory, replacing any file of the same
// name. On success the legacy file is removed unless the config keeps
// originals.
func (c *Converter) ConvertFile(ctx context.Context, pptPath string) (string, error) {
	name := filepath.Base(pptPath)
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	tempOut := filepath.Join(c.TempDir, stem+".pptx")
	final := filepath.Join(c.PPTXDir, stem+".pptx")
	log := c.Log.WithField("file", name)

	for _, dir := range []string{c.TempDir, c.PPTXDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("%w %s: creating %s: %w", ErrConversion, name, dir, err)
		}
	}

	policy := retry.Policy{
		Attempts: c.Config.Retries,
		Delay:    c.Config.RetryDelay,
		Reset: func(context.Context) {
			if err := c.Session.Release(); err != nil {
				log.WithError(err).Warn("releasing office session")
			}
		},
		OnRetry: func(attempt int, err error) {
			log.WithError(err).WithField("attempt", attempt).Warn("conversion attempt failed, retrying")
		},
	}

	err := retry.Do(ctx, policy, func(ctx context.Context, _ int) error {
		if _, err := os.Stat(pptPath); err != nil {
			return retry.Permanent(err)
		}
		if err := c.Session.Acquire(ctx); err != nil {
			return err
		}
		if err := c.Session.Convert(ctx, pptPath, c.TempDir); err != nil {
			return err
		}
		if _, err := os.Stat(tempOut); err != nil {
			return fmt.Errorf("office application produced no output: %w", err)
		}
		return moveFile(tempOut, final)
	})
	if err != nil {
		return "", fmt.Errorf("%w %s: %w", ErrConversion, name, err)
	}

	if !c.Config.KeepOriginals {
		if err := os.Remove(pptPath); err != nil {
			log.WithError(err).Warn("could not remove original")
		}
	}
	return final, nil
}

// AdoptExisting moves containers found directly under base into pptxDir,
// skipping any whose name is already taken there. It returns the number of
// files moved.
func AdoptExisting(base, pptxDir string, log logrus.FieldLogger) (int, error) {
	paths, err := listExt(base, ".pptx")
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(pptxDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating %s: %w", pptxDir, err)
	}

	moved := 0
	for _, path := range paths {
		target := filepath.Join(pptxDir, filepath.Base(path))
		if _, err := os.Stat(target); err == nil {
			log.WithField("file", filepath.Base(path)).Debug("container already adopted")
			continue
		}
		if err := os.Rename(path, target); err != nil {
			log.WithError(err).WithField("file", filepath.Base(path)).Warn("could not move container")
			continue
		}
		log.WithField("file", filepath.Base(path)).Info("moved existing container")
		moved++
	}
	return moved, nil
}

// moveFile renames src to dst, replacing dst.
func moveFile(src, dst string) error {
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("replacing %s: %w", dst, err)
	}
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s: %w", filepath.Base(src), err)
	}
	return nil
}

// listExt lists regular files directly under dir whose extension matches
// ext case-insensitively, sorted by name. A missing directory is empty.
func listExt(dir, ext string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !strings.EqualFold(filepath.Ext(e.Name()), ext) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}
