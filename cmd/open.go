package cmd

import (
	"fmt"
	"os/exec"
	goruntime "runtime"

	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/ui"
)

var openCmd = &cobra.Command{
	Use:               "open <id>",
	Short:             "Open a project link in the browser",
	Long:              "Open the project's primary link (demo, then repository, then the first one), or the link of --type",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: projectIDArgCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		linkType, _ := cmd.Flags().GetString("type")

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

		link, err := pickLink(project, models.LinkType(linkType))
		if err != nil {
			ui.PrintError("%v", err)
			return reported(err)
		}

		if err := openInBrowser(link.URL); err != nil {
			ui.PrintError("Failed to open link: %v", err)
			ui.Dim.Fprintf(ui.Out, "URL: %s\n", link.URL)
			return reported(err)
		}
		ui.PrintSuccess("Opening %s: %s", link.Title, link.URL)
		return nil
	},
}

func pickLink(p models.Project, want models.LinkType) (models.Link, error) {
	if want == "" {
		if link, ok := p.PrimaryLink(); ok {
			return link, nil
		}
		return models.Link{}, fmt.Errorf("project %q has no links", p.ID)
	}
	for _, link := range p.Links {
		if link.Type == want {
			return link, nil
		}
	}
	return models.Link{}, fmt.Errorf("project %q has no %s link", p.ID, want)
}

func openInBrowser(url string) error {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}

func init() {
	openCmd.Flags().String("type", "", "Link type (github, demo, documentation, article, other)")
	_ = openCmd.RegisterFlagCompletionFunc("type", fixedValues([]models.LinkType{
		models.LinkGitHub, models.LinkDemo, models.LinkDocumentation, models.LinkArticle, models.LinkOther,
	}))
	rootCmd.AddCommand(openCmd)
}
