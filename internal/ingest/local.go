package ingest

import (
	"context"
	"errors"

	"github.com/mrbooshehri/folio/internal/storage"
)

// LocalSource reads a snapshot saved in the local SQLite store
type LocalSource struct {
	store *storage.LocalStore
	key   string
}

// NewLocalSource creates a source for the snapshot under key
func NewLocalSource(store *storage.LocalStore, key string) *LocalSource {
	return &LocalSource{store: store, key: key}
}

// Name implements Source
func (s *LocalSource) Name() string {
	return "local:" + s.key
}

// Load implements Source
func (s *LocalSource) Load(ctx context.Context) ([]any, error) {
	records, err := s.store.LoadSnapshotRecords(ctx, s.key)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, permanent(err)
	}
	return records, err
}
