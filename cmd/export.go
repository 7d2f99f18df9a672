package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/ui"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export projects as a JSON or YAML bundle",
	Long: `Export the projects of the selected source as a bundle:
{exportId, exportedAt, count, projects}. Projects that cannot be exported
are replaced with a placeholder entry rather than dropped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		format = strings.ToLower(format)
		if format != "json" && format != "yaml" {
			return fmt.Errorf("unsupported format %q (json, yaml)", format)
		}

		projects, err := folio.projects(cmd.Context(), sourceFlag)
		if err != nil {
			reportLoadError(err)
			return reported(err)
		}
		bundle := folio.transformer.Bundle(projects)

		if out == "" {
			if format == "yaml" {
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				defer enc.Close()
				return enc.Encode(bundle)
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(bundle)
		}

		if !storage.IsDataFile(out) {
			out += "." + format
		} else if ext := strings.ToLower(filepath.Ext(out)); (ext == ".json") != (format == "json") {
			ui.PrintWarning("--out extension %s wins over --format %s", ext, format)
		}
		if err := storage.WriteFile(out, bundle); err != nil {
			ui.PrintError("Failed to write export: %v", err)
			return reported(err)
		}

		ui.PrintSuccess("Exported %d project(s)", bundle.Count)
		ui.Cyan.Fprintf(ui.Out, "  File: %s\n", out)
		ui.Dim.Fprintf(ui.Out, "  Export ID: %s\n", bundle.ExportID)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", "json", "Output format (json, yaml)")
	exportCmd.Flags().StringP("out", "o", "", "Write to a file instead of stdout")
	_ = exportCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions([]string{"json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
}
