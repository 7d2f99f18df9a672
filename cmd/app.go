package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mrbooshehri/folio/internal/config"
	"github.com/mrbooshehri/folio/internal/ingest"
	"github.com/mrbooshehri/folio/internal/logging"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/transform"
	"github.com/mrbooshehri/folio/internal/ui"
	"github.com/mrbooshehri/folio/internal/validation"
)

// app wires sources, caches and stores for one command invocation
type app struct {
	cfg         *config.Config
	transformer *transform.Transformer
	registry    *ingest.Registry
	loader      *ingest.Loader
	files       *storage.Storage
	cache       sourceCache

	local    *storage.LocalStore
	postgres *storage.PostgresSource
	closers  []func() error
}

var folio *app

// sourceCache is the loader cache plus eviction, for hot reload
type sourceCache interface {
	ingest.Cache
	Evict(ctx context.Context, key string) error
}

func newApp(ctx context.Context, cfg *config.Config) *app {
	a := &app{
		cfg: cfg,
		transformer: transform.New(
			transform.WithLocale(cfg.Locale),
			transform.WithCurrency(cfg.Currency),
		),
		registry: ingest.NewRegistry(),
		files:    storage.Get(),
	}

	opts := ingest.OptionsFromConfig(cfg)
	a.cache = storage.NewCache(cfg.CacheTTL, nil)
	if cfg.RedisAddr != "" {
		redisCache := storage.NewRedisCache(storage.NewRedisClient(cfg.RedisAddr), cfg.CacheTTL)
		if err := redisCache.Ping(ctx); err != nil {
			logging.Warnf("Redis at %s unavailable, using in-memory cache: %v", cfg.RedisAddr, err)
			redisCache.Close()
		} else {
			a.cache = redisCache
			a.closers = append(a.closers, redisCache.Close)
		}
	}
	opts.Cache = a.cache
	a.loader = ingest.NewLoader(opts)

	a.registry.Register(ingest.NewStaticSource())
	a.registry.Register(ingest.NewDirSource(a.files))
	a.registry.HandleFiles(func(path string) ingest.Source {
		return ingest.NewFileSource(path)
	})
	if cfg.APIURL != "" {
		a.registry.Register(ingest.NewAPISource(cfg.APIURL, cfg.APITimeout, a.transformer))
	}
	if cfg.PostgresDSN != "" {
		pool, err := storage.NewPostgresPool(ctx, cfg.PostgresDSN)
		if err != nil {
			logging.Warnf("Postgres source disabled: %v", err)
		} else {
			a.closers = append(a.closers, func() error { pool.Close(); return nil })
			src := storage.NewPostgresSource(pool)
			if err := src.EnsureSchema(ctx); err != nil {
				logging.Warnf("Postgres source disabled, schema setup failed: %v", err)
			} else {
				a.postgres = src
				a.registry.Register(src)
			}
		}
	}
	a.registry.HandleSnapshots(func(key string) ingest.Source {
		store, err := a.localStore()
		if err != nil {
			return failingSource{name: "local:" + key, err: err}
		}
		return ingest.NewLocalSource(store, key)
	})

	return a
}

// localStore opens the SQLite store on first use
func (a *app) localStore() (*storage.LocalStore, error) {
	if a.local != nil {
		return a.local, nil
	}
	store, err := storage.OpenLocalStore(a.cfg.LocalDB)
	if err != nil {
		return nil, err
	}
	a.local = store
	a.closers = append(a.closers, store.Close)
	return store, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			logging.Warnf("Failed to close resource: %v", err)
		}
	}
	a.closers = nil
}

// sourceNames splits the --source flag; the default is the data dir when
// it has files, otherwise the bundled dataset
func (a *app) sourceNames(flag string) []string {
	var names []string
	for _, part := range strings.Split(flag, ",") {
		if part = strings.TrimSpace(part); part != "" {
			names = append(names, part)
		}
	}
	if len(names) > 0 {
		return names
	}
	if files, err := a.files.ListDataFiles(); err == nil && len(files) > 0 {
		return []string{"dir"}
	}
	return []string{"static"}
}

// load resolves the sources named by flag and loads them as one result
func (a *app) load(ctx context.Context, flag string) (*ingest.LoadResult, error) {
	names := a.sourceNames(flag)
	sources := make([]ingest.Source, 0, len(names))
	for _, name := range names {
		src, err := a.registry.Resolve(name)
		if err != nil {
			return nil, fmt.Errorf("%w (known: %s)", err, strings.Join(ingest.SourceNames, ", "))
		}
		sources = append(sources, src)
	}
	return a.loader.LoadMerged(ctx, sources...)
}

// projects loads and flattens the projects from flag
func (a *app) projects(ctx context.Context, flag string) ([]models.Project, error) {
	result, err := a.load(ctx, flag)
	if err != nil {
		return nil, err
	}
	return result.Projects, nil
}

// invalidate drops cached copies of the sources named by flag
func (a *app) invalidate(ctx context.Context, flag string) {
	for _, name := range a.sourceNames(flag) {
		if err := a.cache.Evict(ctx, name); err != nil {
			logging.Warnf("Failed to evict %s from cache: %v", name, err)
		}
	}
}

// reloadFunc adapts the loader for the HTTP catalog
func (a *app) reloadFunc(flag string) func(ctx context.Context) ([]models.Project, validation.Result, error) {
	return func(ctx context.Context) ([]models.Project, validation.Result, error) {
		result, err := a.load(ctx, flag)
		if err != nil {
			return nil, validation.Result{}, err
		}
		return result.Projects, result.Validation, nil
	}
}

func findProject(projects []models.Project, id string) (models.Project, error) {
	for _, p := range projects {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, fmt.Errorf("project %q: %w", id, storage.ErrNotFound)
}

// reportLoadError prints a load failure, with the findings when validation
// rejected the data
func reportLoadError(err error) {
	var verr *ingest.ValidationError
	if errors.As(err, &verr) {
		ui.PrintValidationReport(verr.Source, verr.Result)
	}
	ui.PrintError("Failed to load projects: %v", err)
}

type failingSource struct {
	name string
	err  error
}

func (s failingSource) Name() string { return s.name }

func (s failingSource) Load(context.Context) ([]any, error) { return nil, s.err }
