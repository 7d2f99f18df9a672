package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/transform"
	"github.com/mrbooshehri/folio/internal/ui"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the search index",
	Long:  "Build and inspect the persisted search index served to clients",
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Rebuild the search index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ifStale, _ := cmd.Flags().GetBool("if-stale")

		build := func() ([]transform.SearchIndexItem, error) {
			projects, err := folio.projects(cmd.Context(), sourceFlag)
			if err != nil {
				return nil, err
			}
			return folio.transformer.BatchSearchIndex(projects), nil
		}

		if ifStale {
			rebuilt, err := folio.files.EnsureIndexFresh(build)
			if err != nil {
				reportLoadError(err)
				return reported(err)
			}
			if !rebuilt {
				ui.PrintInfo("Index is up to date")
				return nil
			}
		} else {
			items, err := build()
			if err != nil {
				reportLoadError(err)
				return reported(err)
			}
			if err := folio.files.SaveIndex(items); err != nil {
				ui.PrintError("Failed to save index: %v", err)
				return reported(err)
			}
		}

		ui.PrintSuccess("Search index rebuilt: %s", folio.files.IndexFile())
		if stats, err := folio.files.IndexStats(); err == nil {
			ui.Dim.Fprintf(ui.Out, "  Entries: %d\n", stats.Entries)
		}
		return nil
	},
}

var indexStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show search index statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		stats, err := folio.files.IndexStats()
		if errors.Is(err, storage.ErrNotFound) {
			ui.PrintEmptyState("No search index yet", "Build one with: folio index rebuild")
			return nil
		}
		if err != nil {
			ui.PrintError("Failed to read index: %v", err)
			return reported(err)
		}
		ui.PrintIndexStats(stats)
		return nil
	},
}

var indexSearchCmd = &cobra.Command{
	Use:   "search <terms...>",
	Short: "Query the persisted index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		idx, err := folio.files.LoadIndex()
		if errors.Is(err, storage.ErrNotFound) {
			ui.PrintEmptyState("No search index yet", "Build one with: folio index rebuild")
			return nil
		}
		if err != nil {
			ui.PrintError("Failed to read index: %v", err)
			return reported(err)
		}

		items := idx.Search(strings.Join(args, " "))
		if len(items) == 0 {
			ui.PrintEmptyState("No index entries match", "")
			return nil
		}

		table := ui.NewTable("ID", "Title", "Category", "Weight")
		table.SetColumnAlignment(3, ui.AlignRight)
		for _, item := range items {
			table.AddRow(item.ID, ui.Truncate(item.Title, 40), string(item.Category), fmt.Sprintf("%.2f", item.Weight))
		}
		table.Print()
		return nil
	},
}

func init() {
	indexRebuildCmd.Flags().Bool("if-stale", false, "Only rebuild when a data file is newer than the index")

	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatsCmd)
	indexCmd.AddCommand(indexSearchCmd)
}
