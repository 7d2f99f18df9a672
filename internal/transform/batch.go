package transform

import (
	"errors"
	"fmt"

	"github.com/mrbooshehri/folio/internal/logging"
	"github.com/mrbooshehri/folio/internal/metrics"
	"github.com/mrbooshehri/folio/internal/models"
)

var errRejected = errors.New("rejected by input guard")

// Batch maps every item with fn. An item rejected by valid, or for which
// fn errors or panics, is logged and replaced by fallback; the output
// always has the same length as items.
func Batch[In, Out any](name string, items []In, valid func(In) bool, fn func(In) (Out, error), fallback Out) []Out {
	out := make([]Out, len(items))
	for i, item := range items {
		var (
			v   Out
			err error
		)
		if valid != nil && !valid(item) {
			err = errRejected
		} else {
			v, err = safeCall(fn, item)
		}
		if err != nil {
			logging.Warnf("%s: item %d replaced by fallback: %v", name, i, err)
			metrics.IncrementTransformFallback(name)
			out[i] = fallback
			continue
		}
		out[i] = v
	}
	return out
}

func safeCall[In, Out any](fn func(In) (Out, error), item In) (out Out, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(item)
}

// BatchDisplay builds cards, substituting FallbackDisplay for bad records
func (t *Transformer) BatchDisplay(projects []models.Project) []DisplayProject {
	return Batch("display", projects, ValidateDisplayInput, t.ToDisplayFormat, FallbackDisplay)
}

// BatchSearchIndex indexes projects, substituting FallbackSearchIndex
func (t *Transformer) BatchSearchIndex(projects []models.Project) []SearchIndexItem {
	return Batch("search_index", projects, ValidateSearchIndexInput, t.ToSearchIndex, FallbackSearchIndex)
}

// BatchExport flattens projects, substituting FallbackExport
func (t *Transformer) BatchExport(projects []models.Project) []ExportProject {
	return Batch("export", projects, ValidateExportInput, t.ToExportFormat, FallbackExport)
}

// BatchFromAPI maps API resources, substituting FallbackProject
func (t *Transformer) BatchFromAPI(responses []APIProjectResponse) []models.Project {
	return Batch("from_api", responses, ValidateAPIResponse, t.FromAPIResponse, FallbackProject)
}
