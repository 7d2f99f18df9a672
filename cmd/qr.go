package cmd

import (
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/ui"
)

var qrCmd = &cobra.Command{
	Use:               "qr <id>",
	Short:             "QR code for a project's primary link",
	Long:              "Print a QR code for the project's primary link, or write it as a PNG with --out",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: projectIDArgCompletion,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		size, _ := cmd.Flags().GetInt("size")
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

		if out != "" {
			if err := qrcode.WriteFile(link.URL, qrcode.Medium, size, out); err != nil {
				ui.PrintError("Failed to write QR code: %v", err)
				return reported(err)
			}
			ui.PrintSuccess("QR code for %s written to %s", link.URL, out)
			return nil
		}

		q, err := qrcode.New(link.URL, qrcode.Medium)
		if err != nil {
			ui.PrintError("Failed to encode QR code: %v", err)
			return reported(err)
		}
		fmt.Fprint(cmd.OutOrStdout(), renderQR(q.Bitmap()))
		ui.Dim.Fprintf(ui.Out, "%s: %s\n", link.Title, link.URL)
		return nil
	},
}

// renderQR draws two bitmap rows per text line with half blocks
func renderQR(bitmap [][]bool) string {
	var b strings.Builder
	for y := 0; y < len(bitmap); y += 2 {
		for x := range bitmap[y] {
			top := bitmap[y][x]
			bottom := y+1 < len(bitmap) && bitmap[y+1][x]
			switch {
			case top && bottom:
				b.WriteString("█")
			case top:
				b.WriteString("▀")
			case bottom:
				b.WriteString("▄")
			default:
				b.WriteString(" ")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func init() {
	qrCmd.Flags().StringP("out", "o", "", "Write a PNG to this path")
	qrCmd.Flags().Int("size", 256, "PNG size in pixels")
	qrCmd.Flags().String("type", "", "Encode the link of this type instead of the primary one")
}
