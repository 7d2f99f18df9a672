package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mrbooshehri/folio/internal/config"
	"github.com/mrbooshehri/folio/internal/logging"
	"github.com/mrbooshehri/folio/internal/metrics"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/validation"
)

// ErrValidationFailed is wrapped by *ValidationError
var ErrValidationFailed = errors.New("validation failed")

// ValidationError reports a load rejected because records failed validation
type ValidationError struct {
	Source string
	Result validation.Result
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("source %s: %s: %s", e.Source, ErrValidationFailed, e.Result.Summary())
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}

// Cache is satisfied by storage.Cache and storage.RedisCache
type Cache interface {
	Get(ctx context.Context, key string) (storage.Entry, bool)
	Set(ctx context.Context, key string, entry storage.Entry) error
}

// Options controls loading behavior
type Options struct {
	ValidateOnLoad         bool
	ThrowOnValidationError bool
	// RetryAttempts is the total number of tries per load, at least one
	RetryAttempts int
	RetryDelay    time.Duration
	Cache         Cache
	Now           func() time.Time
}

// OptionsFromConfig maps configuration onto loader options
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ValidateOnLoad:         cfg.ValidateOnLoad,
		ThrowOnValidationError: cfg.ThrowOnValidationError,
		RetryAttempts:          cfg.RetryAttempts,
		RetryDelay:             cfg.RetryDelay,
	}
}

// LoadResult is the outcome of one source load
type LoadResult struct {
	Source     string            `json:"source"`
	Projects   []models.Project  `json:"projects"`
	Validation validation.Result `json:"validation"`
	LoadedAt   time.Time         `json:"loadedAt"`
	FromCache  bool              `json:"fromCache"`
	Skipped    int               `json:"skipped"`
}

// Loader fetches, validates and decodes source records
type Loader struct {
	opts Options
	now  func() time.Time
}

// NewLoader creates a loader
func NewLoader(opts Options) *Loader {
	if opts.RetryAttempts < 1 {
		opts.RetryAttempts = 1
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Loader{opts: opts, now: now}
}

// Load loads one source, serving from the cache when possible
func (l *Loader) Load(ctx context.Context, src Source) (*LoadResult, error) {
	name := src.Name()

	if l.opts.Cache != nil {
		entry, ok := l.opts.Cache.Get(ctx, name)
		metrics.RecordCacheLookup(ok)
		if ok {
			logging.Debugf("source %s served from cache (%d projects)", name, len(entry.Projects))
			return &LoadResult{
				Source:     name,
				Projects:   entry.Projects,
				Validation: entry.Validation,
				LoadedAt:   entry.LoadedAt,
				FromCache:  true,
			}, nil
		}
	}

	start := time.Now()
	records, err := l.fetch(ctx, src)
	if err != nil {
		metrics.RecordLoad(name, 0, err, time.Since(start))
		return nil, err
	}

	result := validation.Result{IsValid: true}
	if l.opts.ValidateOnLoad {
		result = validation.ValidateProjectList(records)
		recordFindings(result)
		if !result.IsValid || result.HasWarnings() {
			logging.L().Warn("validation findings",
				zap.String("source", name),
				zap.Int("errors", len(result.Errors)),
				zap.Int("warnings", len(result.Warnings)),
			)
			for _, issue := range result.Errors {
				logging.Debugf("%s: %s", name, issue)
			}
		}
		if !result.IsValid && l.opts.ThrowOnValidationError {
			verr := &ValidationError{Source: name, Result: result}
			metrics.RecordLoad(name, 0, verr, time.Since(start))
			return nil, verr
		}
	}

	projects, skipped := decodeRecords(name, records)
	loadedAt := l.now()
	metrics.RecordLoad(name, len(projects), nil, time.Since(start))
	logging.L().Info("source loaded",
		zap.String("source", name),
		zap.Int("projects", len(projects)),
		zap.Int("skipped", skipped),
		zap.Duration("took", time.Since(start)),
	)

	if l.opts.Cache != nil {
		entry := storage.Entry{Projects: projects, Validation: result, LoadedAt: loadedAt}
		if err := l.opts.Cache.Set(ctx, name, entry); err != nil {
			logging.Warnf("cache store for %s failed: %v", name, err)
		}
	}

	return &LoadResult{
		Source:     name,
		Projects:   projects,
		Validation: result,
		LoadedAt:   loadedAt,
		Skipped:    skipped,
	}, nil
}

// LoadAll loads sources concurrently. Results keep source order; the first
// failure cancels the rest.
func (l *Loader) LoadAll(ctx context.Context, sources ...Source) ([]*LoadResult, error) {
	results := make([]*LoadResult, len(sources))
	g, ctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			res, err := l.Load(ctx, src)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Projects concatenates the projects of several results
func Projects(results []*LoadResult) []models.Project {
	var out []models.Project
	for _, r := range results {
		out = append(out, r.Projects...)
	}
	return out
}

func (l *Loader) fetch(ctx context.Context, src Source) ([]any, error) {
	var lastErr error
	for attempt := 1; attempt <= l.opts.RetryAttempts; attempt++ {
		records, err := src.Load(ctx)
		if err == nil {
			return records, nil
		}
		lastErr = err

		if isPermanent(err) || ctx.Err() != nil {
			return nil, fmt.Errorf("load %s: %w", src.Name(), err)
		}
		if attempt == l.opts.RetryAttempts {
			break
		}

		logging.Warnf("load %s failed (attempt %d/%d), retrying in %s: %v",
			src.Name(), attempt, l.opts.RetryAttempts, l.opts.RetryDelay, err)
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("load %s: %w", src.Name(), ctx.Err())
		case <-time.After(l.opts.RetryDelay):
		}
	}
	return nil, fmt.Errorf("load %s failed after %d attempts: %w", src.Name(), l.opts.RetryAttempts, lastErr)
}

// decodeRecords converts raw records best-effort, skipping ones whose shape
// cannot be decoded
func decodeRecords(source string, records []any) ([]models.Project, int) {
	projects := make([]models.Project, 0, len(records))
	skipped := 0
	for i, record := range records {
		p, err := DecodeProject(record)
		if err != nil {
			logging.Warnf("%s: record %d skipped: %v", source, i, err)
			skipped++
			continue
		}
		projects = append(projects, p)
	}
	return projects, skipped
}

// DecodeProject converts one raw record into a Project
func DecodeProject(record any) (models.Project, error) {
	if _, ok := record.(map[string]any); !ok {
		return models.Project{}, fmt.Errorf("record is %T, not an object", record)
	}
	data, err := json.Marshal(record)
	if err != nil {
		return models.Project{}, err
	}
	var p models.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Project{}, err
	}
	return p, nil
}

func recordFindings(result validation.Result) {
	for _, issue := range result.Errors {
		metrics.RecordValidationFinding("error", string(issue.Rule))
	}
	for _, issue := range result.Warnings {
		metrics.RecordValidationFinding("warning", string(issue.Rule))
	}
}
