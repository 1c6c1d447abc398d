// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the slidenotes CLI. The root command
// runs the whole pipeline over a lecture directory; subcommands run single
// stages, watch a directory, or read the run catalog.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/slidenotes/internal/layout"
	"github.com/pdiddy/slidenotes/internal/logging"
	"github.com/pdiddy/slidenotes/internal/pipeline"
	"github.com/pdiddy/slidenotes/internal/secrets"
	"github.com/pdiddy/slidenotes/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds API keys loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// newDeps builds the pipeline collaborators for a logger. Tests replace it.
var newDeps = func(log logrus.FieldLogger) pipeline.Deps {
	return pipeline.Deps{Log: log}
}

// rootCmd is the base command for the slidenotes CLI.
var rootCmd = &cobra.Command{
	Use:   "slidenotes <directory>",
	Short: "Turn lecture slide decks into combined notes and a flashcard study guide",
	Long: `slidenotes processes a directory of lecture presentations. Legacy .ppt
files are converted to .pptx through LibreOffice, slide text and speaker
notes are extracted per chapter, all chapters are combined into
text/combined_notes.txt, and a generative model turns the notes into
study_guide.txt in Term:::Definition form for flashcard import.

Per-file failures are logged to conversion.log and do not stop the run.`,
	Args:          cobra.ExactArgs(1),
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading .env: %w", err)
		}
		s, err := secrets.Load(".secrets/", nil)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
			_, err := p.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./slidenotes.yaml or ~/.config/slidenotes/config.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Int("retries", types.DefaultRetries, "conversion attempts per legacy file")
	flags.Duration("retry-delay", types.DefaultRetryDelay, "pause between conversion attempts")
	flags.String("provider", string(types.ProviderCommand), "generation backend: command, ollama or gemini")
	flags.String("model", types.DefaultModel, "primary generation model")
	flags.String("fallback-model", types.DefaultFallbackModel, "fallback generation model")

	for key, flag := range map[string]string{
		"log.level":                 "log-level",
		"conversion.retries":        "retries",
		"conversion.retry_delay":    "retry-delay",
		"generation.provider":       "provider",
		"generation.model":          "model",
		"generation.fallback_model": "fallback-model",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("slidenotes")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "slidenotes"))
		}
	}

	viper.SetEnvPrefix("SLIDENOTES")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// pipelineConfig assembles the run configuration for dir from config file,
// environment, flags and secrets.
func pipelineConfig(dir string) (types.PipelineConfig, error) {
	var cfg types.PipelineConfig
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("reading configuration: %w", err)
	}
	cfg.BaseDir = dir
	secrets.Apply(loadedSecrets, &cfg.Generation)
	return cfg.WithDefaults(), nil
}

// withPipeline prepares dir, opens its run log and calls fn with a pipeline
// bound to it. fn's context is cancelled on SIGINT or SIGTERM.
func withPipeline(cmd *cobra.Command, dir string, fn func(context.Context, *pipeline.Pipeline) error) error {
	cfg, err := pipelineConfig(dir)
	if err != nil {
		return err
	}

	l, err := layout.New(cfg.BaseDir)
	if err != nil {
		return err
	}
	if err := l.Setup(); err != nil {
		return err
	}

	logger, closeLog, err := logging.Setup(l.LogPath(), cfg.Log.Level)
	if err != nil {
		logger.WithError(err).Warn("logging to stderr only")
	}
	defer closeLog()

	p, err := pipeline.New(cfg, newDeps(logger))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return fn(ctx, p)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
