package ingest

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mrbooshehri/folio/internal/storage"
)

// fakeSource returns whatever loadFunc returns and counts calls
type fakeSource struct {
	name     string
	calls    atomic.Int32
	loadFunc func(call int) ([]any, error)
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) Load(ctx context.Context) ([]any, error) {
	n := int(f.calls.Add(1))
	return f.loadFunc(n)
}

func record(id string) map[string]any {
	return map[string]any{
		"id":          id,
		"title":       "Project " + id,
		"description": "A project used in loader tests.",
		"category":    "web",
		"status":      "paused",
		"timeline":    map[string]any{"startDate": "2024-01-01", "duration": "1 month", "isOngoing": false},
		"metrics": map[string]any{
			"primary": []any{map[string]any{"id": "m", "label": "Users", "value": 10.0, "type": "number"}},
			"kpis":    []any{},
		},
		"team":         []any{map[string]any{"id": "u", "name": "Ana", "role": "Dev"}},
		"technologies": []any{map[string]any{"id": "go", "name": "Go", "category": "backend"}},
		"tags":         []any{"test"},
		"createdAt":    "2024-01-01",
		"updatedAt":    "2024-02-01",
	}
}

func TestStaticSourceIsValid(t *testing.T) {
	loader := NewLoader(Options{ValidateOnLoad: true, ThrowOnValidationError: true})

	res, err := loader.Load(context.Background(), NewStaticSource())
	if err != nil {
		t.Fatalf("built-in dataset should validate: %v", err)
	}
	if len(res.Projects) != 4 || !res.Validation.IsValid {
		t.Errorf("projects=%d validation=%s", len(res.Projects), res.Validation.Summary())
	}
	if res.Projects[0].ID != "payments-platform" {
		t.Errorf("first project = %s", res.Projects[0].ID)
	}
}

func TestLoaderRetries(t *testing.T) {
	transient := errors.New("connection reset")

	tests := []struct {
		name      string
		attempts  int
		failUntil int
		wantCalls int32
		wantErr   bool
	}{
		{"succeeds first time", 3, 0, 1, false},
		{"succeeds on third try", 3, 2, 3, false},
		{"exhausts attempts", 2, 5, 2, true},
		{"zero attempts means one", 0, 5, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakeSource{name: "fake", loadFunc: func(call int) ([]any, error) {
				if call <= tt.failUntil {
					return nil, transient
				}
				return []any{record("a")}, nil
			}}
			loader := NewLoader(Options{RetryAttempts: tt.attempts, RetryDelay: time.Millisecond})

			_, err := loader.Load(context.Background(), src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v", err)
			}
			if tt.wantErr && !errors.Is(err, transient) {
				t.Errorf("error should wrap the last failure: %v", err)
			}
			if got := src.calls.Load(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestLoaderDoesNotRetryPermanentErrors(t *testing.T) {
	src := &fakeSource{name: "fake", loadFunc: func(int) ([]any, error) {
		return nil, permanent(errors.New("bad document"))
	}}
	loader := NewLoader(Options{RetryAttempts: 5, RetryDelay: time.Millisecond})

	if _, err := loader.Load(context.Background(), src); err == nil {
		t.Fatal("expected error")
	}
	if src.calls.Load() != 1 {
		t.Errorf("calls = %d", src.calls.Load())
	}
}

func TestLoaderRetryHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	src := &fakeSource{name: "fake", loadFunc: func(int) ([]any, error) {
		cancel()
		return nil, errors.New("timeout")
	}}
	loader := NewLoader(Options{RetryAttempts: 3, RetryDelay: time.Hour})

	if _, err := loader.Load(ctx, src); err == nil {
		t.Fatal("expected error")
	}
	if src.calls.Load() != 1 {
		t.Errorf("cancelled load should not retry, calls = %d", src.calls.Load())
	}
}

func TestLoaderValidationPolicy(t *testing.T) {
	bad := record("b")
	delete(bad, "title")
	undecodable := record("c")
	undecodable["team"] = "everyone"

	newSource := func() *fakeSource {
		return &fakeSource{name: "mixed", loadFunc: func(int) ([]any, error) {
			return []any{record("a"), bad, undecodable}, nil
		}}
	}

	t.Run("throw", func(t *testing.T) {
		loader := NewLoader(Options{ValidateOnLoad: true, ThrowOnValidationError: true})
		_, err := loader.Load(context.Background(), newSource())
		if !errors.Is(err, ErrValidationFailed) {
			t.Fatalf("expected ErrValidationFailed, got %v", err)
		}
		var verr *ValidationError
		if !errors.As(err, &verr) || verr.Source != "mixed" || verr.Result.IsValid {
			t.Fatalf("validation error = %+v", verr)
		}
		if !verr.Result.Has("projects[1].title", "required") {
			t.Errorf("missing title not reported: %+v", verr.Result.Errors)
		}
	})

	t.Run("log and continue", func(t *testing.T) {
		loader := NewLoader(Options{ValidateOnLoad: true})
		res, err := loader.Load(context.Background(), newSource())
		if err != nil {
			t.Fatal(err)
		}
		if res.Validation.IsValid {
			t.Error("validation result should carry the errors")
		}
		if len(res.Projects) != 2 || res.Skipped != 1 {
			t.Errorf("projects=%d skipped=%d", len(res.Projects), res.Skipped)
		}
		if res.Projects[1].ID != "b" || res.Projects[1].Title != "" {
			t.Errorf("invalid record should decode best-effort: %+v", res.Projects[1])
		}
	})

	t.Run("validation off", func(t *testing.T) {
		loader := NewLoader(Options{ThrowOnValidationError: true})
		res, err := loader.Load(context.Background(), newSource())
		if err != nil {
			t.Fatal(err)
		}
		if !res.Validation.IsValid || len(res.Validation.Errors) != 0 {
			t.Errorf("validation should be skipped: %+v", res.Validation)
		}
	})
}

func TestLoaderCache(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	cache := storage.NewCache(time.Minute, clock)

	src := &fakeSource{name: "cached", loadFunc: func(int) ([]any, error) {
		return []any{record("a")}, nil
	}}
	loader := NewLoader(Options{Cache: cache, Now: clock})

	first, err := loader.Load(context.Background(), src)
	if err != nil || first.FromCache {
		t.Fatalf("first load: %v fromCache=%v", err, first.FromCache)
	}
	second, err := loader.Load(context.Background(), src)
	if err != nil || !second.FromCache {
		t.Fatalf("second load: %v fromCache=%v", err, second.FromCache)
	}
	if !second.LoadedAt.Equal(now) || len(second.Projects) != 1 {
		t.Errorf("cached result = %+v", second)
	}

	now = now.Add(2 * time.Minute)
	if _, err := loader.Load(context.Background(), src); err != nil {
		t.Fatal(err)
	}
	if src.calls.Load() != 2 {
		t.Errorf("expired entry should reload, calls = %d", src.calls.Load())
	}
}

func TestLoadAllKeepsSourceOrder(t *testing.T) {
	slow := &fakeSource{name: "slow", loadFunc: func(int) ([]any, error) {
		time.Sleep(20 * time.Millisecond)
		return []any{record("slow")}, nil
	}}
	fast := &fakeSource{name: "fast", loadFunc: func(int) ([]any, error) {
		return []any{record("fast")}, nil
	}}

	results, err := NewLoader(Options{}).LoadAll(context.Background(), slow, fast)
	if err != nil {
		t.Fatal(err)
	}
	projects := Projects(results)
	if len(projects) != 2 || projects[0].ID != "slow" || projects[1].ID != "fast" {
		t.Errorf("projects = %+v", projects)
	}

	failing := &fakeSource{name: "broken", loadFunc: func(int) ([]any, error) {
		return nil, permanent(errors.New("boom"))
	}}
	if _, err := NewLoader(Options{}).LoadAll(context.Background(), fast, failing); err == nil {
		t.Error("expected LoadAll to fail")
	}
}

func TestFileAndDirSources(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.json": `[{"id": "one"}, {"id": "two"}]`,
		"b.yaml": "projects:\n  - id: three\n",
		"c.json": `{"id": "four", "title": "Single"}`,
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	records, err := NewFileSource(filepath.Join(dir, "b.yaml")).Load(context.Background())
	if err != nil || len(records) != 1 {
		t.Fatalf("yaml records=%v err=%v", records, err)
	}

	src := NewDirSource(storage.New(dir, filepath.Join(dir, "index.json")))
	records, err = src.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	var ids []string
	for _, r := range records {
		ids = append(ids, r.(map[string]any)["id"].(string))
	}
	want := []string{"one", "two", "three", "four"}
	if len(ids) != len(want) {
		t.Fatalf("ids = %v", ids)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("ids = %v, want %v", ids, want)
			break
		}
	}
}

func TestFileSourceErrorsArePermanent(t *testing.T) {
	dir := t.TempDir()
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{"projects": 3}`), 0600); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{filepath.Join(dir, "missing.json"), broken} {
		_, err := NewFileSource(path).Load(context.Background())
		if err == nil || !isPermanent(err) {
			t.Errorf("%s: err = %v", filepath.Base(path), err)
		}
	}
}

func TestRegistryResolve(t *testing.T) {
	reg := NewRegistry()
	reg.Register(NewStaticSource())
	reg.HandleFiles(func(path string) Source { return NewFileSource(path) })

	if src, err := reg.Resolve("static"); err != nil || src.Name() != "static" {
		t.Errorf("static: %v %v", src, err)
	}
	if src, err := reg.Resolve("file:/tmp/p.json"); err != nil || src.Name() != "file:/tmp/p.json" {
		t.Errorf("file: %v %v", src, err)
	}
	for _, name := range []string{"nope", "local:nightly", "file:"} {
		if _, err := reg.Resolve(name); !errors.Is(err, ErrUnknownSource) {
			t.Errorf("%s: expected ErrUnknownSource, got %v", name, err)
		}
	}
}
