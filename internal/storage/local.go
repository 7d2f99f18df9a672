package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/query"
)

// Preferences is the remembered view: viewpoint plus the last query
type Preferences struct {
	Viewpoint models.Viewpoint `json:"viewpoint"`
	Query     query.Params     `json:"query"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// SnapshotInfo describes a stored snapshot
type SnapshotInfo struct {
	Key     string    `json:"key"`
	Count   int       `json:"count"`
	SavedAt time.Time `json:"savedAt"`
}

// LocalStore keeps project snapshots and preferences in SQLite
type LocalStore struct {
	db   *sql.DB
	path string
}

// OpenLocalStore creates or opens the local database
func OpenLocalStore(path string) (*LocalStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create local store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open local store: %w", err)
	}

	store := &LocalStore{db: db, path: path}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return store, nil
}

// Close closes the database connection
func (s *LocalStore) Close() error {
	return s.db.Close()
}

// Path returns the database file path
func (s *LocalStore) Path() string {
	return s.path
}

func (s *LocalStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshots (
		key TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		project_count INTEGER NOT NULL DEFAULT 0,
		saved_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS preferences (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		payload TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// SaveSnapshot stores projects under key, replacing any previous snapshot
func (s *LocalStore) SaveSnapshot(ctx context.Context, key string, projects []models.Project) error {
	if key == "" {
		return errors.New("snapshot key is required")
	}
	if projects == nil {
		projects = []models.Project{}
	}
	payload, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO snapshots (key, payload, project_count, saved_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			project_count = excluded.project_count,
			saved_at = excluded.saved_at
	`, key, string(payload), len(projects), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) snapshotPayload(ctx context.Context, key string) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM snapshots WHERE key = ?`, key).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("snapshot %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot %s: %w", key, err)
	}
	return []byte(payload), nil
}

// LoadSnapshot returns the projects stored under key
func (s *LocalStore) LoadSnapshot(ctx context.Context, key string) ([]models.Project, error) {
	payload, err := s.snapshotPayload(ctx, key)
	if err != nil {
		return nil, err
	}
	var projects []models.Project
	if err := json.Unmarshal(payload, &projects); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return projects, nil
}

// LoadSnapshotRecords returns the snapshot as untyped records
func (s *LocalStore) LoadSnapshotRecords(ctx context.Context, key string) ([]any, error) {
	payload, err := s.snapshotPayload(ctx, key)
	if err != nil {
		return nil, err
	}
	var records []any
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", key, err)
	}
	return records, nil
}

// ListSnapshots returns all snapshots, newest first
func (s *LocalStore) ListSnapshots(ctx context.Context) ([]SnapshotInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT key, project_count, saved_at FROM snapshots ORDER BY saved_at DESC, key
	`)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer rows.Close()

	infos := []SnapshotInfo{}
	for rows.Next() {
		var info SnapshotInfo
		if err := rows.Scan(&info.Key, &info.Count, &info.SavedAt); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}

// DeleteSnapshot removes the snapshot under key
func (s *LocalStore) DeleteSnapshot(ctx context.Context, key string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM snapshots WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", key, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("snapshot %s: %w", key, ErrNotFound)
	}
	return nil
}

// SavePreferences stores the remembered view
func (s *LocalStore) SavePreferences(ctx context.Context, prefs Preferences) error {
	prefs.UpdatedAt = time.Now().UTC()
	payload, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO preferences (id, payload, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at
	`, string(payload), prefs.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save preferences: %w", err)
	}
	return nil
}

// LoadPreferences returns the remembered view, or ErrNotFound
func (s *LocalStore) LoadPreferences(ctx context.Context) (Preferences, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM preferences WHERE id = 1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return Preferences{}, fmt.Errorf("preferences: %w", ErrNotFound)
	}
	if err != nil {
		return Preferences{}, fmt.Errorf("load preferences: %w", err)
	}

	var prefs Preferences
	if err := json.Unmarshal([]byte(payload), &prefs); err != nil {
		return Preferences{}, fmt.Errorf("decode preferences: %w", err)
	}
	return prefs, nil
}
