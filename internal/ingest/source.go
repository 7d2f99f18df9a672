// Package ingest loads raw project records from the configured sources,
// validates them and decodes them into models.Project.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSource is returned when a source name cannot be resolved
var ErrUnknownSource = errors.New("unknown source")

// Source produces raw decoded records (JSON-like values)
type Source interface {
	Name() string
	Load(ctx context.Context) ([]any, error)
}

// permanentError marks a failure that retrying cannot fix
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

func permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

func isPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// extractRecords accepts a list of records, a {"projects": [...]} wrapper or
// a single record object
func extractRecords(doc any) ([]any, error) {
	switch v := doc.(type) {
	case []any:
		return v, nil
	case map[string]any:
		if list, ok := v["projects"]; ok {
			records, ok := list.([]any)
			if !ok {
				return nil, fmt.Errorf("projects must be an array, got %T", list)
			}
			return records, nil
		}
		if _, ok := v["id"]; ok {
			return []any{v}, nil
		}
		return nil, errors.New("document has no projects")
	case nil:
		return []any{}, nil
	default:
		return nil, fmt.Errorf("unsupported document type %T", doc)
	}
}

// SourceNames lists the names accepted by Resolve
var SourceNames = []string{"static", "dir", "file:<path>", "api", "local:<key>", "postgres"}

// Registry resolves source names to sources
type Registry struct {
	sources map[string]Source
	file    func(path string) Source
	local   func(key string) Source
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{sources: make(map[string]Source)}
}

// Register adds a named source
func (r *Registry) Register(src Source) {
	r.sources[src.Name()] = src
}

// HandleFiles resolves "file:<path>" names with fn
func (r *Registry) HandleFiles(fn func(path string) Source) {
	r.file = fn
}

// HandleSnapshots resolves "local:<key>" names with fn
func (r *Registry) HandleSnapshots(fn func(key string) Source) {
	r.local = fn
}

// Resolve looks up a source by name
func (r *Registry) Resolve(name string) (Source, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	if path, ok := strings.CutPrefix(name, "file:"); ok && r.file != nil && path != "" {
		return r.file(path), nil
	}
	if key, ok := strings.CutPrefix(name, "local:"); ok && r.local != nil && key != "" {
		return r.local(key), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownSource, name)
}
