package cmd

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrbooshehri/folio/internal/metrics"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/query"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Filter, search and sort projects",
	Long: `Filter, search and sort projects.

Filters narrow the set first, then the free-text query matches the selected
fields (all of them by default), then results are sorted. Unusable values
are ignored rather than rejected.

Examples:
  folio search react --category web --sort title --order asc
  folio search --status ongoing --team-min 2 --then title
  folio search --tech go,postgres --save
  folio search --saved`,
	Args: cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		params := query.ParseValues(searchValues(cmd, args))
		view := currentView()

		if useSaved, _ := cmd.Flags().GetBool("saved"); useSaved {
			store, err := folio.localStore()
			if err != nil {
				ui.PrintError("Failed to open local store: %v", err)
				return reported(err)
			}
			prefs, err := store.LoadPreferences(ctx)
			switch {
			case errors.Is(err, storage.ErrNotFound):
				ui.PrintWarning("No saved search; run a search with --save first")
			case err != nil:
				ui.PrintError("Failed to load saved search: %v", err)
				return reported(err)
			default:
				params = prefs.Query
				if viewFlag == "" && prefs.Viewpoint != "" {
					view = prefs.Viewpoint
				}
			}
		}

		projects, err := folio.projects(ctx, sourceFlag)
		if err != nil {
			reportLoadError(err)
			return reported(err)
		}

		start := time.Now()
		results := params.Apply(projects)
		metrics.RecordQuery(time.Since(start))

		if summary := params.Values().Encode(); summary != "" {
			ui.Dim.Fprintf(ui.Out, "Query: %s\n", summary)
		}

		if cards, _ := cmd.Flags().GetBool("cards"); cards {
			for _, p := range results {
				ui.PrintProjectCard(folio.transformer, p, view)
				ui.PrintSeparator()
			}
			if len(results) == 0 {
				ui.PrintProjectList(results)
			}
		} else {
			ui.PrintProjectList(results)
		}

		if save, _ := cmd.Flags().GetBool("save"); save {
			store, err := folio.localStore()
			if err != nil {
				ui.PrintError("Failed to open local store: %v", err)
				return reported(err)
			}
			if err := store.SavePreferences(ctx, storage.Preferences{Viewpoint: view, Query: params}); err != nil {
				ui.PrintError("Failed to save search: %v", err)
				return reported(err)
			}
			ui.PrintSuccess("Search saved; reuse it with: folio search --saved")
		}
		return nil
	},
}

// searchValues maps flags onto the same keys the HTTP API accepts
func searchValues(cmd *cobra.Command, args []string) url.Values {
	v := url.Values{}
	flags := cmd.Flags()

	if len(args) > 0 {
		v.Set("q", strings.Join(args, " "))
	}

	lists := map[string]string{
		"fields":   "fields",
		"category": "category",
		"status":   "status",
		"tech":     "tech",
		"tag":      "tag",
	}
	for flag, key := range lists {
		if values, _ := flags.GetStringSlice(flag); len(values) > 0 {
			v[key] = values
		}
	}

	strs := map[string]string{
		"from":       "from",
		"to":         "to",
		"sort":       "sort",
		"order":      "order",
		"then":       "then",
		"then-order": "thenOrder",
	}
	for flag, key := range strs {
		if s, _ := flags.GetString(flag); s != "" {
			v.Set(key, s)
		}
	}

	bools := map[string]string{
		"has-metrics": "hasMetrics",
		"has-team":    "hasTeam",
		"fuzzy":       "fuzzy",
	}
	for flag, key := range bools {
		if flags.Changed(flag) {
			b, _ := flags.GetBool(flag)
			v.Set(key, strconv.FormatBool(b))
		}
	}

	ints := map[string]string{
		"team-min": "teamMin",
		"team-max": "teamMax",
	}
	for flag, key := range ints {
		if flags.Changed(flag) {
			n, _ := flags.GetInt(flag)
			v.Set(key, strconv.Itoa(n))
		}
	}

	return v
}

func init() {
	registerSearchFlags(searchCmd)
}

func registerSearchFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringSlice("fields", nil, "Fields to search (title, description, tags, technologies, teamMembers, category)")
	flags.Bool("fuzzy", false, "Accepted for compatibility; matching is always substring")
	flags.StringSlice("category", nil, "Filter by category")
	flags.StringSlice("status", nil, "Filter by status")
	flags.StringSlice("tech", nil, "Filter by technology name")
	flags.StringSlice("tag", nil, "Filter by tag")
	flags.Bool("has-metrics", false, "Only projects with (or, =false, without) primary metrics")
	flags.Bool("has-team", false, "Only projects with (or, =false, without) a team")
	flags.Int("team-min", 0, "Minimum team size")
	flags.Int("team-max", 0, "Maximum team size")
	flags.String("from", "", "Start date lower bound (YYYY-MM-DD)")
	flags.String("to", "", "Start date upper bound (YYYY-MM-DD)")
	flags.String("sort", "", "Sort field")
	flags.String("order", "", "Sort direction (asc, desc)")
	flags.String("then", "", "Secondary sort field")
	flags.String("then-order", "", "Secondary sort direction")
	flags.Bool("cards", false, "Print full project cards instead of a table")
	flags.Bool("save", false, "Remember this search and viewpoint")
	flags.Bool("saved", false, "Run the remembered search")

	_ = cmd.RegisterFlagCompletionFunc("category", fixedValues(models.AllCategories))
	_ = cmd.RegisterFlagCompletionFunc("status", fixedValues(models.AllStatuses))
	_ = cmd.RegisterFlagCompletionFunc("fields", fixedValues(query.AllSearchFields))
	_ = cmd.RegisterFlagCompletionFunc("sort", fixedValues(query.AllSortFields))
	_ = cmd.RegisterFlagCompletionFunc("then", fixedValues(query.AllSortFields))
	_ = cmd.RegisterFlagCompletionFunc("order", cobra.FixedCompletions([]string{"asc", "desc"}, cobra.ShellCompDirectiveNoFileComp))
	_ = cmd.RegisterFlagCompletionFunc("then-order", cobra.FixedCompletions([]string{"asc", "desc"}, cobra.ShellCompDirectiveNoFileComp))
}
