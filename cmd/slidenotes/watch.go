// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidenotes/internal/pipeline"
	"github.com/pdiddy/slidenotes/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Re-run the pipeline whenever presentations are added",
	Long: `Watch runs the full pipeline each time .ppt or .pptx files are created or
written in the directory, after a quiet period. Runs never overlap. Stop
with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		debounce, _ := cmd.Flags().GetDuration("debounce")
		initial, _ := cmd.Flags().GetBool("initial")

		return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
			w := &watch.Watcher{
				Dir:        p.Layout.Base,
				Debounce:   debounce,
				RunOnStart: initial,
				Run: func(ctx context.Context) error {
					_, err := p.Run(ctx)
					return err
				},
				Log: p.Log(),
			}
			err := w.Start(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	},
}

func init() {
	watchCmd.Flags().Duration("debounce", 0, "quiet period before a run (default 2s)")
	watchCmd.Flags().Bool("initial", true, "run once before watching")

	rootCmd.AddCommand(watchCmd)
}
