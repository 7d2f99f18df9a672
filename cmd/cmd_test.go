package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mrbooshehri/folio/internal/ingest"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/query"
	"github.com/mrbooshehri/folio/internal/storage"
	"github.com/mrbooshehri/folio/internal/validation"
)

func TestSearchValues(t *testing.T) {
	cmd := &cobra.Command{Use: "search"}
	registerSearchFlags(cmd)
	err := cmd.ParseFlags([]string{
		"--category", "web,mobile",
		"--has-team=false",
		"--team-min", "2",
		"--sort", "title",
		"--then-order", "desc",
	})
	if err != nil {
		t.Fatal(err)
	}

	v := searchValues(cmd, []string{"react", "native"})

	if got := v.Get("q"); got != "react native" {
		t.Errorf("q = %q", got)
	}
	if got := v["category"]; !reflect.DeepEqual(got, []string{"web", "mobile"}) {
		t.Errorf("category = %v", got)
	}
	for key, want := range map[string]string{"hasTeam": "false", "teamMin": "2", "sort": "title", "thenOrder": "desc"} {
		if got := v.Get(key); got != want {
			t.Errorf("%s = %q, want %q", key, got, want)
		}
	}
	for _, key := range []string{"hasMetrics", "teamMax", "fuzzy", "status"} {
		if v.Has(key) {
			t.Errorf("unset flag %s leaked into values", key)
		}
	}

	params := query.ParseValues(v)
	if len(params.Filter.Category) != 2 {
		t.Errorf("categories = %v", params.Filter.Category)
	}
	if params.Filter.HasTeam == nil || *params.Filter.HasTeam {
		t.Errorf("hasTeam = %v", params.Filter.HasTeam)
	}
	if params.Sort.Field != query.SortTitle {
		t.Errorf("sort = %q", params.Sort.Field)
	}
}

func TestPickLink(t *testing.T) {
	p := models.Project{
		ID: "alpha",
		Links: []models.Link{
			{Title: "Blog", URL: "https://example.com/post", Type: models.LinkArticle},
			{Title: "Repo", URL: "https://github.com/x/alpha", Type: models.LinkGitHub},
		},
	}

	tests := []struct {
		name    string
		want    models.LinkType
		wantURL string
		wantErr bool
	}{
		{"primary prefers repository over article", "", "https://github.com/x/alpha", false},
		{"explicit type", models.LinkArticle, "https://example.com/post", false},
		{"missing type", models.LinkDemo, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			link, err := pickLink(p, tt.want)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if link.URL != tt.wantURL {
				t.Errorf("url = %q, want %q", link.URL, tt.wantURL)
			}
		})
	}

	if _, err := pickLink(models.Project{ID: "bare"}, ""); err == nil {
		t.Error("expected error for project without links")
	}
}

func TestRenderQR(t *testing.T) {
	bitmap := [][]bool{
		{true, false},
		{true, true},
		{false, true},
	}
	if got, want := renderQR(bitmap), "█▄\n ▀\n"; got != want {
		t.Errorf("renderQR = %q, want %q", got, want)
	}
}

func TestSourceNames(t *testing.T) {
	dir := t.TempDir()
	a := &app{files: storage.New(dir, filepath.Join(dir, "index.json"))}

	if got := a.sourceNames(""); !reflect.DeepEqual(got, []string{"static"}) {
		t.Errorf("empty data dir: %v", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "projects.json"), []byte("[]"), 0600); err != nil {
		t.Fatal(err)
	}
	if got := a.sourceNames(""); !reflect.DeepEqual(got, []string{"dir"}) {
		t.Errorf("with data files: %v", got)
	}

	if got := a.sourceNames(" static, file:x.json ,"); !reflect.DeepEqual(got, []string{"static", "file:x.json"}) {
		t.Errorf("explicit: %v", got)
	}
}

func TestReloadFuncReportsIDsRepeatedAcrossSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "extra.json")
	doc := `{"projects": [{"id": "payments-platform", "title": "Copy"}]}`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatal(err)
	}

	a := &app{
		registry: ingest.NewRegistry(),
		loader:   ingest.NewLoader(ingest.Options{ValidateOnLoad: true}),
		files:    storage.New(dir, filepath.Join(dir, "index.json")),
	}
	a.registry.Register(ingest.NewStaticSource())
	a.registry.HandleFiles(func(path string) ingest.Source {
		return ingest.NewFileSource(path)
	})

	projects, result, err := a.reloadFunc("static,file:"+path)(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(projects) != 5 {
		t.Errorf("projects = %d", len(projects))
	}
	if result.IsValid {
		t.Error("merged result should be invalid")
	}
	field := "file:" + path + ":projects[0].id"
	if !result.Has(field, validation.RuleUnique) {
		t.Errorf("missing unique error on %s: %v", field, result.Errors)
	}
	if p, _ := findProject(projects, "payments-platform"); p.Title == "Copy" {
		t.Error("first source should win lookups")
	}
}

func TestFindProject(t *testing.T) {
	projects := []models.Project{{ID: "a"}, {ID: "b"}}
	if p, err := findProject(projects, "b"); err != nil || p.ID != "b" {
		t.Errorf("find b = %v, %v", p.ID, err)
	}
	if _, err := findProject(projects, "c"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v", err)
	}
}

// memoryWriter keeps published records in a map, in insertion order
type memoryWriter struct {
	order   []string
	records map[string]any
	failOn  string
}

func newMemoryWriter(ids ...string) *memoryWriter {
	w := &memoryWriter{records: map[string]any{}}
	for _, id := range ids {
		w.order = append(w.order, id)
		w.records[id] = map[string]any{"id": id}
	}
	return w
}

func (w *memoryWriter) Name() string { return "memory" }

func (w *memoryWriter) Load(context.Context) ([]any, error) {
	out := make([]any, 0, len(w.order))
	for _, id := range w.order {
		if r, ok := w.records[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (w *memoryWriter) Upsert(_ context.Context, id string, record any) error {
	if id == w.failOn {
		return errors.New("write refused")
	}
	if _, ok := w.records[id]; !ok {
		w.order = append(w.order, id)
	}
	w.records[id] = map[string]any{"id": id, "record": record}
	return nil
}

func (w *memoryWriter) Delete(_ context.Context, id string) error {
	if _, ok := w.records[id]; !ok {
		return storage.ErrNotFound
	}
	delete(w.records, id)
	return nil
}

func TestPublishProjects(t *testing.T) {
	projects := []models.Project{{ID: "a"}, {ID: "b"}, {ID: "a", Title: "repeat"}, {ID: ""}}

	tests := []struct {
		name         string
		stored       []string
		prune        bool
		failOn       string
		wantUpserted int
		wantRemoved  int
		wantIDs      []string
		wantErr      bool
	}{
		{"upserts each id once", []string{"old"}, false, "", 2, 0, []string{"old", "a", "b"}, false},
		{"prune removes stale ids", []string{"old", "a"}, true, "", 2, 1, []string{"a", "b"}, false},
		{"stops at the first failed write", nil, false, "b", 1, 0, []string{"a"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newMemoryWriter(tt.stored...)
			w.failOn = tt.failOn

			upserted, removed, err := publishProjects(context.Background(), w, projects, tt.prune)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if upserted != tt.wantUpserted || removed != tt.wantRemoved {
				t.Errorf("upserted=%d removed=%d", upserted, removed)
			}

			records, _ := w.Load(context.Background())
			var ids []string
			for _, r := range records {
				ids = append(ids, r.(map[string]any)["id"].(string))
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("stored ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestSweepCacheDropsExpiredLoads(t *testing.T) {
	var mu sync.Mutex
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	cache := storage.NewCache(time.Minute, clock)
	_ = cache.Set(context.Background(), "static", storage.Entry{})

	mu.Lock()
	now = now.Add(2 * time.Minute)
	mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- sweepCache(ctx, cache, 5*time.Millisecond, zap.NewNop()) }()

	deadline := time.After(2 * time.Second)
	for cache.Stats().Entries != 0 {
		select {
		case <-deadline:
			t.Fatal("expired entry was never swept")
		case <-time.After(5 * time.Millisecond):
		}
	}
	if cache.Stats().Evictions != 1 {
		t.Errorf("stats = %+v", cache.Stats())
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("sweepCache = %v", err)
	}
}

func TestIsReported(t *testing.T) {
	base := errors.New("boom")
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"plain", base, false},
		{"wrapped plain", fmt.Errorf("load: %w", base), false},
		{"reported", reported(base), true},
		{"reported then wrapped", fmt.Errorf("run: %w", reported(base)), true},
		{"validation findings", errValidationFindings, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isReported(tt.err); got != tt.want {
				t.Errorf("isReported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
	if !errors.Is(reported(base), base) {
		t.Error("reported should unwrap to the original error")
	}
}

func TestValidateCommandFailsOnIDsRepeatedAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.json")
	second := filepath.Join(dir, "b.json")
	doc := `{"projects": [{"id": "shared", "title": "Shared project", "description": "A project that appears in two files."}]}`
	for _, path := range []string{first, second} {
		if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
			t.Fatal(err)
		}
	}

	var out bytes.Buffer
	validateCmd.SetOut(&out)
	validateCmd.SetContext(context.Background())
	if err := validateCmd.Flags().Set("json", "true"); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		validateCmd.SetOut(nil)
		_ = validateCmd.Flags().Set("json", "false")
	})

	err := validateCmd.RunE(validateCmd, []string{first, second})
	if !errors.Is(err, errValidationFindings) {
		t.Fatalf("err = %v", err)
	}

	var report map[string]validation.Result
	if err := json.Unmarshal(out.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, out.String())
	}
	across, ok := report[acrossSources]
	if !ok {
		t.Fatalf("report has no %q entry: %v", acrossSources, out.String())
	}
	field := "file:" + second + ":projects[0].id"
	if !across.Has(field, validation.RuleUnique) {
		t.Errorf("missing unique error on %s: %v", field, across.Errors)
	}
}
