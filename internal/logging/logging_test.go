// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_WritesLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversion.log")

	logger, closeFn, err := Setup(path, "debug")
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())

	logger.WithField("file", "ch1.pptx").Info("Extracting text")
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Extracting text")
	assert.Contains(t, string(data), "file=ch1.pptx")
}

func TestSetup_BadLevelFallsBackToInfo(t *testing.T) {
	logger, closeFn, err := Setup("", "loud")
	require.NoError(t, err)
	defer closeFn()
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())
}

func TestSetup_UnwritableLogPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "conversion.log")
	logger, _, err := Setup(path, "info")
	require.Error(t, err)
	assert.NotNil(t, logger)
}
