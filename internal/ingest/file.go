package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/mrbooshehri/folio/internal/storage"
)

// FileSource reads one JSON or YAML file
type FileSource struct {
	path string
}

// NewFileSource creates a source for path
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Name implements Source
func (s *FileSource) Name() string {
	return "file:" + s.path
}

// Load implements Source
func (s *FileSource) Load(_ context.Context) ([]any, error) {
	return readRecords(s.path)
}

func readRecords(path string) ([]any, error) {
	var doc any
	if err := storage.ReadFile(path, &doc); err != nil {
		if os.IsNotExist(err) {
			return nil, permanent(fmt.Errorf("read %s: %w", path, err))
		}
		if _, ok := err.(*os.PathError); ok {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		return nil, permanent(fmt.Errorf("parse %s: %w", path, err))
	}
	records, err := extractRecords(doc)
	if err != nil {
		return nil, permanent(fmt.Errorf("%s: %w", filepath.Base(path), err))
	}
	return records, nil
}

// DirSource reads every data file in a storage directory concurrently
type DirSource struct {
	store *storage.Storage
	limit int
}

// NewDirSource creates a source over the data files of store
func NewDirSource(store *storage.Storage) *DirSource {
	return &DirSource{store: store, limit: 8}
}

// Name implements Source
func (s *DirSource) Name() string {
	return "dir"
}

// Load implements Source. Records keep file order, then in-file order.
func (s *DirSource) Load(ctx context.Context) ([]any, error) {
	files, err := s.store.ListDataFiles()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.store.DataDir(), err)
	}

	perFile := make([][]any, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			records, err := readRecords(path)
			if err != nil {
				return err
			}
			perFile[i] = records
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	records := []any{}
	for _, r := range perFile {
		records = append(records, r...)
	}
	return records, nil
}
