package cmd

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrbooshehri/folio/internal/config"
	"github.com/mrbooshehri/folio/internal/logging"
	"github.com/mrbooshehri/folio/internal/server"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/transform"
	"github.com/mrbooshehri/folio/internal/ui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the project catalog over HTTP",
	Long: `Serve the project catalog over HTTP.

Endpoints:
  GET /healthz
  GET /metrics
  GET /api/projects        (filters as query parameters, format=raw|display|export)
  GET /api/projects/:id
  GET /api/search-index    (q=terms)
  GET /api/validation

With --watch, changes to files in the data directory reload the catalog.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Get()
		logger := logging.L()

		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.ListenAddr
		}
		watch, _ := cmd.Flags().GetBool("watch")

		if cfg.LogLevel != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		catalog := server.NewCatalog(folio.reloadFunc(sourceFlag))
		if err := catalog.Reload(ctx); err != nil {
			reportLoadError(err)
			return reported(err)
		}
		result, _ := catalog.Validation()
		ui.PrintSuccess("Loaded %d project(s) (%s)", len(catalog.Projects()), result.Summary())

		handler := server.NewHandler(catalog, folio.transformer, logger)
		srv := server.New(addr, server.NewRouter(handler, logger), logger)
		ui.PrintInfo("Listening on %s", addr)

		g, ctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(ctx)
		})
		if mem, ok := folio.cache.(*storage.Cache); ok && cfg.CacheTTL > 0 {
			g.Go(func() error {
				return sweepCache(ctx, mem, cfg.CacheTTL, logger)
			})
		}
		if watch {
			dir := cfg.DataDir
			ui.PrintInfo("Watching %s for changes", dir)
			g.Go(func() error {
				return server.Watch(ctx, dir, cfg.Debounce, func() {
					reloadCatalog(ctx, catalog, logger)
				})
			})
		}
		return g.Wait()
	},
}

// reloadCatalog refreshes the served projects and the persisted index
func reloadCatalog(ctx context.Context, catalog *server.Catalog, logger *zap.Logger) {
	folio.invalidate(ctx, sourceFlag)
	if err := catalog.Reload(ctx); err != nil {
		logger.Warn("reload failed, keeping previous catalog", zap.Error(err))
		return
	}
	logger.Info("catalog reloaded", zap.Int("projects", len(catalog.Projects())))

	rebuilt, err := folio.files.EnsureIndexFresh(func() ([]transform.SearchIndexItem, error) {
		return folio.transformer.BatchSearchIndex(catalog.Projects()), nil
	})
	if err != nil {
		logger.Warn("search index rebuild failed", zap.Error(err))
	} else if rebuilt {
		logger.Info("search index rebuilt", zap.String("path", folio.files.IndexFile()))
	}
}

// sweepCache drops expired source loads every interval until ctx ends
func sweepCache(ctx context.Context, cache *storage.Cache, interval time.Duration, logger *zap.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			removed := cache.EvictExpired()
			stats := cache.Stats()
			logger.Debug("source cache swept",
				zap.Int("removed", removed),
				zap.Int("entries", stats.Entries),
				zap.Int64("hits", stats.Hits),
				zap.Int64("misses", stats.Misses),
				zap.Int64("evictions", stats.Evictions),
			)
		}
	}
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from listen_addr)")
	serveCmd.Flags().Bool("watch", false, "Reload when data files change")
}
