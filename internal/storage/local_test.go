package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/query"
)

func openTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := OpenLocalStore(filepath.Join(t.TempDir(), "local.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSnapshotLifecycle(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	projects := []models.Project{
		{ID: "alpha", Title: "Alpha", CreatedAt: models.MustDate("2024-01-01")},
		{ID: "beta", Title: "Beta"},
	}
	if err := store.SaveSnapshot(ctx, "nightly", projects); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadSnapshot(ctx, "nightly")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "alpha" || !got[0].CreatedAt.Equal(projects[0].CreatedAt.Time) {
		t.Errorf("snapshot = %+v", got)
	}

	records, err := store.LoadSnapshotRecords(ctx, "nightly")
	if err != nil {
		t.Fatal(err)
	}
	if first, ok := records[0].(map[string]any); !ok || first["id"] != "alpha" {
		t.Errorf("records = %#v", records)
	}

	if err := store.SaveSnapshot(ctx, "nightly", projects[:1]); err != nil {
		t.Fatal(err)
	}
	infos, err := store.ListSnapshots(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(infos) != 1 || infos[0].Key != "nightly" || infos[0].Count != 1 {
		t.Errorf("infos = %+v", infos)
	}

	if err := store.DeleteSnapshot(ctx, "nightly"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.LoadSnapshot(ctx, "nightly"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := store.DeleteSnapshot(ctx, "nightly"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestSnapshotRequiresKey(t *testing.T) {
	if err := openTestStore(t).SaveSnapshot(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty key")
	}
}

func TestPreferences(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	if _, err := store.LoadPreferences(ctx); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	prefs := Preferences{
		Viewpoint: models.ViewBoss,
		Query: query.Params{
			Search: query.SearchOptions{Query: "go"},
			Sort:   query.SortOptions{Field: query.SortTitle, Direction: query.Asc},
		},
	}
	if err := store.SavePreferences(ctx, prefs); err != nil {
		t.Fatal(err)
	}
	prefs.Viewpoint = models.ViewHR
	if err := store.SavePreferences(ctx, prefs); err != nil {
		t.Fatal(err)
	}

	got, err := store.LoadPreferences(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Viewpoint != models.ViewHR || got.Query.Search.Query != "go" || got.Query.Sort.Field != query.SortTitle {
		t.Errorf("prefs = %+v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Error("UpdatedAt not set")
	}
}
