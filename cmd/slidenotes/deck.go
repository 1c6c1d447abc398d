// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/slidenotes/internal/pipeline"
)

var deckCmd = &cobra.Command{
	Use:   "deck",
	Short: "Inspect and export recorded runs",
	Long: `Deck reads the run catalog kept in .slidenotes/catalog.db. Every full run
records its counts, chapters and accepted flashcards there.`,
}

// --- list subcommand ---

var deckListCmd = &cobra.Command{
	Use:   "list <directory>",
	Short: "List recorded runs, or the cards of one run",
	Args:  cobra.ExactArgs(1),
	RunE:  runDeckList,
}

func runDeckList(cmd *cobra.Command, args []string) error {
	runID, _ := cmd.Flags().GetString("run")
	filter, _ := cmd.Flags().GetString("filter")
	limit, _ := cmd.Flags().GetInt("limit")

	return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
		store, err := p.Catalog()
		if err != nil {
			return err
		}
		defer store.Close()

		if runID != "" || filter != "" {
			if runID == "" {
				latest, err := store.LatestRun(ctx)
				if err != nil {
					return err
				}
				runID = latest.Summary.RunID
			}
			cards, err := store.Flashcards(ctx, runID, filter)
			if err != nil {
				return err
			}
			for _, c := range cards {
				fmt.Println(c.String())
			}
			fmt.Fprintf(os.Stderr, "\n%d card(s)\n", len(cards))
			return nil
		}

		runs, err := store.Runs(ctx, limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		fmt.Printf("%-36s  %-19s  %-8s  %-6s  %-8s\n", "Run", "Started", "Chapters", "Cards", "Guide")
		fmt.Println(strings.Repeat("-", 86))
		for _, r := range runs {
			s := r.Summary
			fmt.Printf("%-36s  %-19s  %-8d  %-6d  %-8s\n",
				s.RunID, r.StartedAt.Local().Format("2006-01-02 15:04:05"), s.Chapters, s.Flashcards, s.Guide)
		}
		return nil
	})
}

// --- export subcommand ---

var deckExportCmd = &cobra.Command{
	Use:   "export <directory>",
	Short: "Export the latest run's deck to YAML or JSON",
	Long: `Export writes the chapters and flashcards of the latest recorded run to
study_guide.yaml or study_guide.json in the directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runDeckExport,
}

func runDeckExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	return withPipeline(cmd, args[0], func(ctx context.Context, p *pipeline.Pipeline) error {
		store, err := p.Catalog()
		if err != nil {
			return err
		}
		defer store.Close()

		var path string
		switch format {
		case "yaml", "":
			path, err = store.ExportYAML(ctx)
		case "json":
			path, err = store.ExportJSON(ctx)
		default:
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}
		if err != nil {
			return err
		}
		fmt.Println("Exported to", path)
		return nil
	})
}

func init() {
	deckListCmd.Flags().String("run", "", "list the cards of this run ID")
	deckListCmd.Flags().String("filter", "", "only cards whose term or definition contains this text")
	deckListCmd.Flags().Int("limit", 20, "maximum runs to list")

	deckExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	deckCmd.AddCommand(deckListCmd)
	deckCmd.AddCommand(deckExportCmd)

	rootCmd.AddCommand(deckCmd)
}
