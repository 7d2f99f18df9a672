package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresSchema = `
CREATE TABLE IF NOT EXISTS portfolio_projects (
	id TEXT PRIMARY KEY,
	payload JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresSource reads raw project records from portfolio_projects
type PostgresSource struct {
	db *pgxpool.Pool
}

// NewPostgresPool connects to dsn
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return pool, nil
}

// NewPostgresSource wraps an open pool
func NewPostgresSource(db *pgxpool.Pool) *PostgresSource {
	return &PostgresSource{db: db}
}

// Name identifies the source in caches and logs
func (s *PostgresSource) Name() string {
	return "postgres"
}

// EnsureSchema creates the projects table if needed
func (s *PostgresSource) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, postgresSchema)
	return err
}

// Load returns every stored record, most recently updated first
func (s *PostgresSource) Load(ctx context.Context) ([]any, error) {
	rows, err := s.db.Query(ctx, `SELECT payload FROM portfolio_projects ORDER BY updated_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query portfolio_projects: %w", err)
	}
	defer rows.Close()

	records := []any{}
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var record any
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("decode portfolio_projects payload: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Upsert stores a raw record under id
func (s *PostgresSource) Upsert(ctx context.Context, id string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", id, err)
	}
	_, err = s.db.Exec(ctx, `
		INSERT INTO portfolio_projects (id, payload, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET payload = EXCLUDED.payload, updated_at = EXCLUDED.updated_at
	`, id, payload, time.Now().UTC())
	return err
}

// Delete removes the record under id
func (s *PostgresSource) Delete(ctx context.Context, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM portfolio_projects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("project %s: %w", id, ErrNotFound)
	}
	return nil
}
