package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	goruntime "runtime"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrbooshehri/folio/internal/config"
	"github.com/mrbooshehri/folio/internal/ingest"
	"github.com/mrbooshehri/folio/internal/logging"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/ui"
)

// version is overridden at build time with -ldflags "-X .../cmd.version=..."
var version = "dev"

var (
	// Global flags
	noColor      bool
	verbose      bool
	logLevelFlag string
	sourceFlag   string
	viewFlag     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio - portfolio project validation, search and export",
	Long: `Folio manages the project records behind a role-adaptive portfolio:
  • Validate project files against the portfolio schema
  • Filter, search and sort projects from any source
  • Render project cards for an HR or a Boss viewpoint
  • Export bundles and build the client search index
  • Serve the catalog over HTTP with hot reload

Sources: static (bundled), dir (data directory), file:<path>, api,
local:<snapshot>, postgres. Combine several with commas.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Init(); err != nil {
			ui.PrintError("Failed to initialize configuration: %v", err)
			os.Exit(1)
		}

		// Initialize logging before other subsystems
		cfg := config.Get()
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevelFlag
		} else if verbose {
			cfg.LogLevel = "debug"
		}
		err := logging.InitWithOptions(logging.Options{
			Path:       cfg.LogFile,
			Level:      cfg.LogLevel,
			MaxSizeMB:  cfg.LogMaxSizeMB,
			MaxBackups: cfg.LogMaxBackups,
			MaxAgeDays: cfg.LogMaxAgeDays,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		}
		logging.SetLevel(cfg.LogLevel)
		if cfg.WriteErr != nil {
			logging.L().Warn("default config file not written",
				zap.String("path", cfg.ConfigFile), zap.Error(cfg.WriteErr))
		}
		logging.Infof("Starting command: %s %v", cmd.CommandPath(), args)

		if noColor {
			cfg.ColorOutput = false
		}
		ui.Init()

		if err := storage.Init(); err != nil {
			ui.PrintError("Failed to initialize storage: %v", err)
			os.Exit(1)
		}

		folio = newApp(cmd.Context(), cfg)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if folio != nil {
			folio.Close()
		}
		logging.Sync()
	},
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if !isReported(err) {
			ui.PrintError("%v", err)
		}
		stop()
		os.Exit(1)
	}
}

// reportedError marks a failure the command already printed
type reportedError struct {
	err error
}

func (e reportedError) Error() string { return e.err.Error() }

func (e reportedError) Unwrap() error { return e.err }

// reported wraps err so Execute exits non-zero without printing it again
func reported(err error) error {
	return reportedError{err: err}
}

func isReported(err error) bool {
	var r reportedError
	return errors.As(err, &r) || errors.Is(err, errValidationFindings)
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&sourceFlag, "source", "s", "", "Project source(s), comma separated")
	rootCmd.PersistentFlags().StringVar(&viewFlag, "view", "", "Viewpoint for project cards (hr, boss)")

	_ = rootCmd.RegisterFlagCompletionFunc("source", completeSourceNames)
	_ = rootCmd.RegisterFlagCompletionFunc("view", cobra.FixedCompletions(
		[]string{string(models.ViewHR), string(models.ViewBoss)}, cobra.ShellCompDirectiveNoFileComp))

	// Add subcommands
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(publishCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(qrCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

// currentView resolves --view, falling back to the configured default
func currentView() models.Viewpoint {
	if viewFlag != "" {
		return models.ParseViewpoint(viewFlag)
	}
	return models.ParseViewpoint(config.Get().DefaultView)
}

// versionCmd displays version information
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Display version information",
	Run: func(cmd *cobra.Command, args []string) {
		ui.PrintHeader("Folio")
		ui.PrintField("Version", version)
		ui.PrintField("Build", goruntime.Version())
		ui.PrintField("Platform", goruntime.GOOS+"/"+goruntime.GOARCH)
		ui.PrintField("Config", config.Get().ConfigFile)
	},
}

// doctorCmd checks system health
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check data integrity and system health",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor(cmd.Context())
	},
}

// runDoctor prints every check and fails when any check found an issue
func runDoctor(ctx context.Context) error {
	ui.PrintHeader("Folio Doctor - System Health Check")

	cfg := config.Get()
	issues := 0
	warnings := 0

	// 1. Directories
	ui.PrintSubHeader("📁 Checking directories...")
	for _, dir := range []string{cfg.FolioDir, cfg.DataDir} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			ui.PrintError("Directory missing: %s", dir)
			issues++
		} else {
			ui.PrintSuccess("Directory exists: %s", dir)
		}
	}

	if info, err := os.Stat(cfg.FolioDir); err == nil {
		if perms := info.Mode().Perm(); perms != 0700 {
			ui.PrintWarning("Folio directory permissions: %o (recommended: 700)", perms)
			warnings++
		} else {
			ui.PrintSuccess("Folio directory permissions secure (700)")
		}
	}

	// 2. Data files
	ui.PrintSubHeader("📄 Validating data files...")
	files, err := folio.files.ListDataFiles()
	if err != nil {
		ui.PrintError("Failed to list data files: %v", err)
		issues++
	}
	if len(files) == 0 {
		ui.PrintInfo("No data files in %s; the bundled dataset is used", cfg.DataDir)
	}
	for _, path := range files {
		res, err := folio.loader.Load(ctx, ingest.NewFileSource(path))
		switch {
		case err != nil:
			ui.PrintError("%s: %v", path, err)
			issues++
		case !res.Validation.IsValid:
			ui.PrintError("%s: %s", path, res.Validation.Summary())
			issues++
		case res.Validation.HasWarnings():
			ui.PrintWarning("%s: %s", path, res.Validation.Summary())
			warnings++
		default:
			ui.PrintSuccess("Valid: %s (%d project(s))", path, len(res.Projects))
		}
	}

	// 3. Search index
	ui.PrintSubHeader("📇 Checking search index...")
	if stale, err := folio.files.IsIndexStale(); err != nil {
		ui.PrintError("Index error: %v", err)
		issues++
	} else if stale {
		ui.PrintWarning("Index is stale; run: folio index rebuild")
		warnings++
	} else {
		ui.PrintSuccess("Index is up to date")
	}

	// 4. Local store
	ui.PrintSubHeader("💾 Checking local store...")
	if store, err := folio.localStore(); err != nil {
		ui.PrintError("Local store unavailable: %v", err)
		issues++
	} else if infos, err := store.ListSnapshots(ctx); err != nil {
		ui.PrintError("Local store unreadable: %v", err)
		issues++
	} else {
		ui.PrintSuccess("Local store OK: %s (%d snapshot(s))", store.Path(), len(infos))
	}

	// 5. Remote services
	ui.PrintSubHeader("🌐 Checking remote services...")
	if cfg.RedisAddr != "" {
		cache := storage.NewRedisCache(storage.NewRedisClient(cfg.RedisAddr), cfg.CacheTTL)
		if err := cache.Ping(ctx); err != nil {
			ui.PrintWarning("Redis %s: %v", cfg.RedisAddr, err)
			warnings++
		} else {
			ui.PrintSuccess("Redis reachable: %s", cfg.RedisAddr)
		}
		cache.Close()
	}
	if cfg.PostgresDSN != "" {
		if _, err := folio.registry.Resolve("postgres"); err != nil {
			ui.PrintWarning("Postgres source not registered")
			warnings++
		} else {
			ui.PrintSuccess("Postgres source configured")
		}
	}
	if cfg.APIURL != "" {
		ui.PrintInfo("API source: %s", cfg.APIURL)
	}
	if cfg.RedisAddr == "" && cfg.PostgresDSN == "" && cfg.APIURL == "" {
		ui.Dim.Fprintln(ui.Out, "  No remote services configured")
	}
	fmt.Fprintln(ui.Out)

	// Summary
	ui.PrintSeparator()
	switch {
	case issues == 0 && warnings == 0:
		ui.PrintSuccess("All checks passed! ✨")
	case issues == 0:
		ui.PrintWarning("%d warning(s) found (non-critical)", warnings)
		fmt.Fprintln(ui.Out)
		ui.Yellow.Fprintln(ui.Out, "Recommendations:")
		ui.Dim.Fprintln(ui.Out, "  • Run 'folio validate' to see every finding")
	default:
		ui.PrintError("%d issue(s) and %d warning(s) found", issues, warnings)
		fmt.Fprintln(ui.Out)
		ui.Yellow.Fprintln(ui.Out, "Recommendations:")
		ui.Dim.Fprintln(ui.Out, "  • Run 'folio validate' to see every finding")
		ui.Dim.Fprintln(ui.Out, "  • Save a known-good copy with 'folio snapshot save <key>'")
		ui.Dim.Fprintln(ui.Out, "  • Re-run doctor after fixing issues")
		return reported(fmt.Errorf("doctor found %d issue(s)", issues))
	}
	return nil
}
