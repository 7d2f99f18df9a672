package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/ingest"
	"github.com/mrbooshehri/folio/internal/metrics"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/ui"
	"github.com/mrbooshehri/folio/internal/validation"
)

var errValidationFindings = errors.New("validation reported findings")

// acrossSources names the report entry for ids repeated between sources
const acrossSources = "across sources"

var validateCmd = &cobra.Command{
	Use:   "validate [file...]",
	Short: "Validate project records",
	Long: `Validate project records against the portfolio schema.

With file arguments each file is checked (JSON or YAML). Without arguments
the --source sources are checked. The exit status is non-zero when any
source has errors, or warnings with --strict.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		strict, _ := cmd.Flags().GetBool("strict")
		asJSON, _ := cmd.Flags().GetBool("json")

		sources := make([]ingest.Source, 0, len(args))
		for _, path := range args {
			sources = append(sources, ingest.NewFileSource(path))
		}
		if len(args) == 0 {
			for _, name := range folio.sourceNames(sourceFlag) {
				src, err := folio.registry.Resolve(name)
				if err != nil {
					ui.PrintError("%v", err)
					return reported(err)
				}
				sources = append(sources, src)
			}
		}

		report := make(map[string]validation.Result, len(sources))
		loaded := make([]*ingest.LoadResult, 0, len(sources))
		failed := false
		for _, src := range sources {
			records, err := src.Load(ctx)
			if err != nil {
				ui.PrintError("%s: %v", src.Name(), err)
				failed = true
				continue
			}

			result := validation.ValidateProjectList(records)
			for _, issue := range result.Errors {
				metrics.RecordValidationFinding("error", string(issue.Rule))
			}
			for _, issue := range result.Warnings {
				metrics.RecordValidationFinding("warning", string(issue.Rule))
			}
			report[src.Name()] = result
			loaded = append(loaded, &ingest.LoadResult{
				Source:     src.Name(),
				Projects:   decodeValid(records),
				Validation: validation.Result{IsValid: true},
			})

			if !result.IsValid || (strict && result.HasWarnings()) {
				failed = true
			}
			if !asJSON {
				ui.PrintValidationReport(src.Name(), result)
			}
		}

		if len(loaded) > 1 {
			if across := ingest.Merge(loaded, true).Validation; !across.IsValid {
				report[acrossSources] = across
				failed = true
				if !asJSON {
					ui.PrintValidationReport(acrossSources, across)
				}
			}
		}

		if asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(report); err != nil {
				return fmt.Errorf("encode report: %w", err)
			}
		}

		if failed {
			return errValidationFindings
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().Bool("strict", false, "Treat warnings as failures")
	validateCmd.Flags().Bool("json", false, "Print the findings as JSON")
}

// decodeValid decodes records by position. A record that does not decode
// leaves a zero project so indexes still match the record list.
func decodeValid(records []any) []models.Project {
	projects := make([]models.Project, len(records))
	for i, record := range records {
		if p, err := ingest.DecodeProject(record); err == nil {
			projects[i] = p
		}
	}
	return projects
}
