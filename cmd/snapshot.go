package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/config"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/ui"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Save and restore project snapshots",
	Long: `Snapshots keep a copy of the loaded projects in the local store.
A saved snapshot can be used as a source with --source local:<key>.`,
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <key>",
	Short: "Snapshot the projects of the selected source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		key := args[0]

		store, err := folio.localStore()
		if err != nil {
			ui.PrintError("Failed to open local store: %v", err)
			return reported(err)
		}
		projects, err := folio.projects(ctx, sourceFlag)
		if err != nil {
			reportLoadError(err)
			return reported(err)
		}
		if err := store.SaveSnapshot(ctx, key, projects); err != nil {
			ui.PrintError("Failed to save snapshot: %v", err)
			return reported(err)
		}

		ui.PrintSuccess("Snapshot '%s' saved (%d project(s))", key, len(projects))
		ui.Dim.Fprintf(ui.Out, "  Use it with: folio --source local:%s project list\n", key)
		return nil
	},
}

var snapshotLoadCmd = &cobra.Command{
	Use:               "load <key>",
	Short:             "Show a snapshot, or restore it into the data directory",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: snapshotKeyArgCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		key := args[0]

		store, err := folio.localStore()
		if err != nil {
			ui.PrintError("Failed to open local store: %v", err)
			return reported(err)
		}
		projects, err := store.LoadSnapshot(ctx, key)
		if err != nil {
			ui.PrintError("Failed to load snapshot: %v", err)
			return reported(err)
		}

		restore, _ := cmd.Flags().GetBool("restore")
		if !restore {
			ui.PrintHeader("📸 Snapshot: " + key)
			ui.PrintProjectList(projects)
			return nil
		}

		path := config.Get().DataFilePath(key)
		doc := struct {
			Projects []models.Project `json:"projects" yaml:"projects"`
		}{projects}
		if err := storage.WriteFile(path, doc); err != nil {
			ui.PrintError("Failed to restore snapshot: %v", err)
			return reported(err)
		}
		ui.PrintSuccess("Restored %d project(s) to %s", len(projects), path)
		return nil
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved snapshots",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := folio.localStore()
		if err != nil {
			ui.PrintError("Failed to open local store: %v", err)
			return reported(err)
		}
		infos, err := store.ListSnapshots(cmd.Context())
		if err != nil {
			ui.PrintError("Failed to list snapshots: %v", err)
			return reported(err)
		}
		ui.PrintHeader("📸 Snapshots")
		ui.PrintSnapshots(infos)
		return nil
	},
}

var snapshotDeleteCmd = &cobra.Command{
	Use:               "delete <key>",
	Short:             "Delete a snapshot",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: snapshotKeyArgCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := folio.localStore()
		if err != nil {
			ui.PrintError("Failed to open local store: %v", err)
			return reported(err)
		}
		if err := store.DeleteSnapshot(cmd.Context(), args[0]); err != nil {
			ui.PrintError("Failed to delete snapshot: %v", err)
			return reported(err)
		}
		ui.PrintSuccess("Snapshot '%s' deleted", args[0])
		return nil
	},
}

func init() {
	snapshotLoadCmd.Flags().Bool("restore", false, "Write the snapshot to <data_dir>/<key>.json")

	snapshotCmd.AddCommand(snapshotSaveCmd)
	snapshotCmd.AddCommand(snapshotLoadCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotDeleteCmd)
}
