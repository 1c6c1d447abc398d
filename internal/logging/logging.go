// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logging configures the run logger: text lines to stderr and to the
// run log file in the working directory.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Setup returns a logger writing to stderr and, when logPath is not empty,
// appending to logPath. The returned close function releases the log file.
func Setup(logPath, level string) (*logrus.Logger, func() error, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}

	logger := logrus.New()
	logger.SetLevel(lvl)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:    true,
		TimestampFormat:  "2006-01-02 15:04:05",
		DisableColors:    true,
		QuoteEmptyFields: true,
	})

	if logPath == "" {
		logger.SetOutput(os.Stderr)
		return logger, func() error { return nil }, nil
	}

	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(os.Stderr)
		return logger, func() error { return nil }, fmt.Errorf("opening log file %s: %w", logPath, err)
	}
	logger.SetOutput(io.MultiWriter(os.Stderr, f))
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything. Tests use it for
// components that require a logger.
func Discard() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
