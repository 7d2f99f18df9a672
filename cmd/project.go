package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/query"
	"github.com/mrbooshehri/folio/internal/ui"
)

var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Browse projects",
	Long:  "List, inspect and score the projects of the selected source",
}

var projectListCmd = &cobra.Command{
	Use:   "list",
	Short: "List projects, most recently updated first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := folio.projects(cmd.Context(), sourceFlag)
		if err != nil {
			reportLoadError(err)
			return reported(err)
		}

		ui.PrintHeader("📁 Projects")
		ui.PrintProjectList(query.Sort(projects, query.SortOptions{}))
		return nil
	},
}

var projectShowCmd = &cobra.Command{
	Use:               "show <id>",
	Short:             "Show a project card",
	Long:              "Show a project card. --view hr emphasizes people and skills; --view boss emphasizes outcomes.",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: projectIDArgCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := folio.projects(cmd.Context(), sourceFlag)
		if err != nil {
			reportLoadError(err)
			return reported(err)
		}

		project, err := findProject(projects, args[0])
		if err != nil {
			ui.PrintError("%v", err)
			return reported(err)
		}
		ui.PrintProjectCard(folio.transformer, project, currentView())
		return nil
	},
}

var projectStatsCmd = &cobra.Command{
	Use:               "stats [id]",
	Short:             "Show KPI statistics",
	Long:              "Show the KPI report of one project, or portfolio totals when no id is given",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: projectIDArgCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		projects, err := folio.projects(cmd.Context(), sourceFlag)
		if err != nil {
			reportLoadError(err)
			return reported(err)
		}

		if len(args) == 0 {
			ui.PrintPortfolioStats(projects)
			return nil
		}

		project, err := findProject(projects, args[0])
		if err != nil {
			ui.PrintError("%v", err)
			return reported(err)
		}
		ui.PrintKPIReport(folio.transformer, project)

		if done, total := project.MilestoneProgress(); total > 0 {
			ui.PrintSubHeader("🏁 Milestones")
			ui.PrintProgressBar(project.GetMilestoneCompletion(), 30)
			ui.Dim.Fprintf(ui.Out, " %d/%d completed\n", done, total)
		}
		return nil
	},
}

func init() {
	projectCmd.AddCommand(projectListCmd)
	projectCmd.AddCommand(projectShowCmd)
	projectCmd.AddCommand(projectStatsCmd)
}
