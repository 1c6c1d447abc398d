// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package office drives a headless office application (LibreOffice) for
// legacy presentation conversion. A Session is an owned handle: at most one
// is live at a time, and Release force-kills any lingering office process.
package office

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	binSoffice     = "soffice"
	binLibreoffice = "libreoffice"
)

// ErrNotAcquired is returned by Convert on a session that is not live.
var ErrNotAcquired = errors.New("office session not acquired")

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, name string, args ...string) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(ctx context.Context, name string, args ...string) error {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err != nil && len(out) > 0 {
		return fmt.Errorf("%w: %s", err, out)
	}
	return err
}

var defaultExec executor = &osExecutor{}

// Session is a handle on the office application. The zero value is not
// usable; obtain one from Detect or New.
type Session struct {
	bin  string
	exec executor
	goos string
	log  logrus.FieldLogger

	mu   sync.Mutex
	live bool
}

// New returns a session for the named binary without checking that it
// exists.
func New(bin string, log logrus.FieldLogger) *Session {
	return newSession(bin, defaultExec, runtime.GOOS, log)
}

func newSession(bin string, exec executor, goos string, log logrus.FieldLogger) *Session {
	return &Session{bin: bin, exec: exec, goos: goos, log: log}
}

// Detect returns a session for binary when it is set, or for the first of
// soffice and libreoffice found on PATH.
func Detect(binary string, log logrus.FieldLogger) (*Session, error) {
	return detect(binary, defaultExec, runtime.GOOS, log)
}

func detect(binary string, exec executor, goos string, log logrus.FieldLogger) (*Session, error) {
	candidates := []string{binSoffice, binLibreoffice}
	if binary != "" {
		candidates = []string{binary}
	}
	for _, bin := range candidates {
		if _, err := exec.LookPath(bin); err == nil {
			return newSession(bin, exec, goos, log), nil
		}
	}
	if binary != "" {
		return nil, fmt.Errorf("office application %s not found on PATH", binary)
	}
	return nil, fmt.Errorf(
		"no office application available: neither %s nor %s found on PATH",
		binSoffice, binLibreoffice,
	)
}

// Name returns the office binary the session drives.
func (s *Session) Name() string { return s.bin }

// Live reports whether the session is acquired.
func (s *Session) Live() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.live
}

// Acquire clears stray office processes and marks the session live.
// Acquiring a live session does nothing.
func (s *Session) Acquire(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.live {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	s.kill()
	s.live = true
	s.log.WithField("binary", s.bin).Debug("office session acquired")
	return nil
}

// Convert converts in to the modern container format, writing the result
// into outDir under in's stem.
func (s *Session) Convert(ctx context.Context, in, outDir string) error {
	if !s.Live() {
		return ErrNotAcquired
	}
	args := []string{"--headless", "--norestore", "--convert-to", "pptx", "--outdir", outDir, in}
	if err := s.exec.Run(ctx, s.bin, args...); err != nil {
		return fmt.Errorf("running %s: %w", s.bin, err)
	}
	return nil
}

// Release tears the session down and force-kills lingering office
// processes. Releasing a session that is not live does nothing.
func (s *Session) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.live {
		return nil
	}
	s.kill()
	s.live = false
	s.log.WithField("binary", s.bin).Debug("office session released")
	return nil
}

// kill terminates every office process. Finding nothing to kill is the
// common case, so failures are only logged at debug level.
func (s *Session) kill() {
	name, args := "pkill", []string{"-f", "soffice"}
	if s.goos == "windows" {
		name, args = "taskkill", []string{"/f", "/im", "soffice.bin"}
	}
	if err := s.exec.Run(context.Background(), name, args...); err != nil {
		s.log.WithError(err).Debug("no office process killed")
	}
}
