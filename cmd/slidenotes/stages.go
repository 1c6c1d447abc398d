// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidenotes/internal/pipeline"
)

var convertCmd = &cobra.Command{
	Use:   "convert <directory>",
	Short: "Convert legacy .ppt files to .pptx",
	Long: `Convert moves .pptx files found in the directory into pptx/ and converts
every .ppt file there through a headless LibreOffice session. Each file gets
a bounded number of attempts; the office application is restarted between
attempts. Converted originals are removed unless conversion.keep_originals
is set.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
			defer p.Layout.PurgeTemp()
			res, err := p.Convert(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Converted %d file(s), %d failed\n", res.Converted, res.Failed)
			if res.HasFailures() {
				return fmt.Errorf("%d file(s) failed conversion", res.Failed)
			}
			return nil
		})
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <directory>",
	Short: "Extract slide text and speaker notes from pptx/",
	Long: `Extract renders every presentation in pptx/ into text/default/<name>.txt
(slide text) and, when the deck has speaker notes, text/noted/<name>.txt
(slide text followed by the notes).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
			defer p.Layout.PurgeTemp()
			res, err := p.Extract(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Extracted %d presentation(s), %d failed\n", res.Extracted, res.Failed)
			if res.HasFailures() {
				return fmt.Errorf("%d presentation(s) failed extraction", res.Failed)
			}
			return nil
		})
	},
}

var combineCmd = &cobra.Command{
	Use:   "combine <directory>",
	Short: "Combine extracted chapters into text/combined_notes.txt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
			entries, err := p.Combine(ctx)
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Printf("%-40s %s\n", e.Chapter, e.Variant)
			}
			fmt.Printf("\n%d chapter(s) written to %s\n", len(entries), p.Layout.CombinedPath())
			return nil
		})
	},
}

var generateCmd = &cobra.Command{
	Use:   "generate <directory>",
	Short: "Generate study_guide.txt from the combined notes",
	Long: `Generate sends text/combined_notes.txt to the primary model and keeps the
lines of the form Term:::Definition. When the primary model yields no valid
card, the fallback model is asked with a simpler prompt. When both fail a
placeholder guide is written.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
			res, err := p.Generate(ctx)
			if err != nil {
				return err
			}
			fmt.Printf("Wrote %d flashcard(s) from the %s generator to %s\n", len(res.Cards), res.Source, res.Path)
			return nil
		})
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(extractCmd)
	rootCmd.AddCommand(combineCmd)
	rootCmd.AddCommand(generateCmd)
}
