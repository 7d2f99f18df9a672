package ingest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mrbooshehri/folio/internal/validation"
)

type idRef struct {
	source string
	index  int
}

// LoadMerged loads sources concurrently and folds them into one result.
// With ValidateOnLoad, ids repeated across sources are reported as unique
// errors and may reject the load like any other validation error.
func (l *Loader) LoadMerged(ctx context.Context, sources ...Source) (*LoadResult, error) {
	results, err := l.LoadAll(ctx, sources...)
	if err != nil {
		return nil, err
	}
	merged := Merge(results, l.opts.ValidateOnLoad)
	if !merged.Validation.IsValid && l.opts.ThrowOnValidationError {
		return nil, &ValidationError{Source: merged.Source, Result: merged.Validation}
	}
	return merged, nil
}

// Merge concatenates results in order. When more than one source is merged,
// issue paths are prefixed with "<source>:" so they stay unambiguous.
// checkIDs adds a unique error for every id already used by an earlier source.
func Merge(results []*LoadResult, checkIDs bool) *LoadResult {
	merged := &LoadResult{
		Projects:   Projects(results),
		Validation: validation.Result{IsValid: true, Errors: []validation.Issue{}, Warnings: []validation.Issue{}},
		FromCache:  len(results) > 0,
	}
	prefixed := len(results) > 1

	names := make([]string, 0, len(results))
	seen := make(map[string]idRef)
	for _, res := range results {
		names = append(names, res.Source)
		merged.Skipped += res.Skipped
		merged.FromCache = merged.FromCache && res.FromCache
		if res.LoadedAt.After(merged.LoadedAt) {
			merged.LoadedAt = res.LoadedAt
		}

		v := res.Validation
		merged.Validation.IsValid = merged.Validation.IsValid && v.IsValid
		merged.Validation.Errors = append(merged.Validation.Errors, qualify(res.Source, v.Errors, prefixed)...)
		merged.Validation.Warnings = append(merged.Validation.Warnings, qualify(res.Source, v.Warnings, prefixed)...)

		if !checkIDs {
			continue
		}
		for i, p := range res.Projects {
			if p.ID == "" {
				continue
			}
			first, dup := seen[p.ID]
			if !dup {
				seen[p.ID] = idRef{source: res.Source, index: i}
				continue
			}
			// repeats inside one source were already reported by that source
			if first.source == res.Source {
				continue
			}
			merged.Validation.IsValid = false
			merged.Validation.Errors = append(merged.Validation.Errors, validation.Issue{
				Field:   fmt.Sprintf("%s:projects[%d].id", res.Source, i),
				Message: fmt.Sprintf("duplicate id %q (first used by %s:projects[%d])", p.ID, first.source, first.index),
				Value:   p.ID,
				Rule:    validation.RuleUnique,
			})
		}
	}
	merged.Source = strings.Join(names, ",")
	if merged.LoadedAt.IsZero() {
		merged.LoadedAt = time.Now()
	}
	return merged
}

func qualify(source string, issues []validation.Issue, prefixed bool) []validation.Issue {
	if !prefixed {
		return issues
	}
	out := make([]validation.Issue, len(issues))
	for i, issue := range issues {
		issue.Field = source + ":" + issue.Field
		out[i] = issue
	}
	return out
}
