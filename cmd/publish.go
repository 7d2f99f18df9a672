package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/ingest"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/ui"
)

// projectWriter is a source that also accepts writes
type projectWriter interface {
	ingest.Source
	Upsert(ctx context.Context, id string, record any) error
	Delete(ctx context.Context, id string) error
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Copy projects into the Postgres source",
	Long: `Upsert the projects of the selected source into portfolio_projects,
so they can be served with --source postgres. With --prune, stored
projects that are not part of the published set are deleted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		prune, _ := cmd.Flags().GetBool("prune")

		if folio.postgres == nil {
			err := errors.New("postgres is not configured (set postgres_dsn or FOLIO_POSTGRES_DSN)")
			ui.PrintError("%v", err)
			return reported(err)
		}
		if sourceFlag == "postgres" {
			err := errors.New("cannot publish the postgres source onto itself")
			ui.PrintError("%v", err)
			return reported(err)
		}

		projects, err := folio.projects(ctx, sourceFlag)
		if err != nil {
			reportLoadError(err)
			return reported(err)
		}

		upserted, removed, err := publishProjects(ctx, folio.postgres, projects, prune)
		if err != nil {
			ui.PrintError("Publish failed after %d project(s): %v", upserted, err)
			return reported(err)
		}
		if err := folio.cache.Evict(ctx, folio.postgres.Name()); err != nil {
			ui.PrintWarning("Failed to evict cached postgres projects: %v", err)
		}

		ui.PrintSuccess("Published %d project(s) to postgres", upserted)
		if prune {
			ui.Dim.Fprintf(ui.Out, "  Removed %d stale project(s)\n", removed)
		}
		return nil
	},
}

// publishProjects upserts projects by id; with prune, stored ids missing
// from projects are deleted
func publishProjects(ctx context.Context, dst projectWriter, projects []models.Project, prune bool) (upserted, removed int, err error) {
	keep := make(map[string]bool, len(projects))
	for _, p := range projects {
		if p.ID == "" || keep[p.ID] {
			continue
		}
		if err := dst.Upsert(ctx, p.ID, p); err != nil {
			return upserted, removed, fmt.Errorf("upsert %s: %w", p.ID, err)
		}
		keep[p.ID] = true
		upserted++
	}
	if !prune {
		return upserted, 0, nil
	}

	records, err := dst.Load(ctx)
	if err != nil {
		return upserted, 0, fmt.Errorf("list stored projects: %w", err)
	}
	for _, record := range records {
		m, ok := record.(map[string]any)
		if !ok {
			continue
		}
		id, _ := m["id"].(string)
		if id == "" || keep[id] {
			continue
		}
		if err := dst.Delete(ctx, id); err != nil {
			return upserted, removed, fmt.Errorf("delete %s: %w", id, err)
		}
		removed++
	}
	return upserted, removed, nil
}

func init() {
	publishCmd.Flags().Bool("prune", false, "Delete stored projects missing from the published set")
}
