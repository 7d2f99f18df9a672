package transform

import (
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
)

var fixedNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newTestTransformer() *Transformer {
	return New(WithClock(func() time.Time { return fixedNow }))
}

func sampleProject() models.Project {
	techs := []models.Technology{}
	for _, name := range []string{"Go", "React", "PostgreSQL", "Redis", "Docker", "Kubernetes", "Terraform"} {
		techs = append(techs, models.Technology{ID: strings.ToLower(name), Name: name, Category: models.TechBackend})
	}
	return models.Project{
		ID:          "checkout",
		Title:       "Checkout Rewrite",
		Description: "Rebuilt the checkout flow.",
		Category:    models.CategoryWeb,
		Status:      models.StatusCompleted,
		Timeline: models.Timeline{
			StartDate: models.MustDate("2023-01-10"),
			EndDate:   models.DatePtr("2023-07-10"),
			Duration:  "6 months",
		},
		Metrics: models.Metrics{
			Primary: []models.MetricItem{{ID: "perf", Label: "Performance gain", Value: models.NumberValue(85), Type: models.MetricPercentage}},
			Secondary: []models.MetricItem{{ID: "users", Label: "Users", Value: models.NumberValue(12500), Type: models.MetricNumber}},
			KPIs: []models.KPIItem{{
				MetricItem: models.MetricItem{ID: "grade", Label: "Grade", Value: models.TextValue("A+"), Type: models.MetricText},
				Weight:     0.5,
			}},
		},
		Team: []models.TeamMember{
			{ID: "t1", Name: "Dana", Role: "Lead Engineer", IsLead: true},
			{ID: "t2", Name: "Sam", Role: "Designer"},
		},
		Technologies: techs,
		Links:        []models.Link{{Title: "Demo", URL: "https://example.com", Type: models.LinkDemo}},
		Tags:         []string{"payments", "Go"},
		CreatedAt:    models.MustDate("2023-01-10"),
		UpdatedAt:    models.MustDate("2024-05-01T10:00:00Z"),
	}
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 200)
	got := Truncate(long, MaxDisplayText)
	if len(got) != MaxDisplayText || !strings.HasSuffix(got, "...") {
		t.Errorf("len=%d suffix=%q", len(got), got[len(got)-3:])
	}
	if strings.Count(got, "a") != 147 {
		t.Errorf("kept %d runes", strings.Count(got, "a"))
	}

	exact := strings.Repeat("b", MaxDisplayText)
	if Truncate(exact, MaxDisplayText) != exact {
		t.Error("string at the limit must not be truncated")
	}

	if got := Truncate(strings.Repeat("é", 151), MaxDisplayText); !strings.HasPrefix(got, "ééé") || !strings.HasSuffix(got, "...") {
		t.Errorf("multibyte truncation broken: %q", got)
	}
}

func TestLabel(t *testing.T) {
	tr := newTestTransformer()
	tests := map[string]string{
		"api":            "API",
		"completed":      "Completed",
		"infrastructure": "Infrastructure",
		"":               "Unknown",
	}
	for in, want := range tests {
		if got := tr.Label(in); got != want {
			t.Errorf("Label(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tr := newTestTransformer()
	tests := []struct {
		name     string
		timeline models.Timeline
		want     string
	}{
		{"ongoing months", models.Timeline{StartDate: models.MustDate("2024-01-10"), IsOngoing: true}, "5 months (ongoing)"},
		{"ongoing days", models.Timeline{StartDate: models.MustDate("2024-06-01"), IsOngoing: true}, "14 days (ongoing)"},
		{"ongoing one month", models.Timeline{StartDate: models.MustDate("2024-05-15"), IsOngoing: true}, "1 month (ongoing)"},
		{"declared duration", models.Timeline{StartDate: models.MustDate("2023-01-01"), Duration: "3 sprints"}, "3 sprints"},
		{"computed from dates", models.Timeline{StartDate: models.MustDate("2023-01-01"), EndDate: models.DatePtr("2023-04-01")}, "3 months"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tr.FormatDuration(tt.timeline); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatMetric(t *testing.T) {
	tr := newTestTransformer()

	if got := tr.FormatMetric(models.MetricItem{Value: models.NumberValue(12500), Type: models.MetricNumber}); !strings.Contains(got, "12,500") {
		t.Errorf("number = %q", got)
	}
	if got := tr.FormatMetric(models.MetricItem{Value: models.NumberValue(85), Type: models.MetricPercentage}); !strings.Contains(got, "85") || !strings.HasSuffix(got, "%") {
		t.Errorf("percentage = %q", got)
	}
	if got := tr.FormatMetric(models.MetricItem{Value: models.NumberValue(3), Unit: "ms", Type: models.MetricNumber}); got != "3 ms" {
		t.Errorf("unit = %q", got)
	}
	if got := tr.FormatMetric(models.MetricItem{Value: models.TextValue("A+"), Type: models.MetricText}); got != "A+" {
		t.Errorf("text = %q", got)
	}
	if got := tr.FormatMetric(models.MetricItem{Value: models.NumberValue(1200), Type: models.MetricCurrency}); !strings.Contains(got, "200") {
		t.Errorf("currency = %q", got)
	}
}

func TestToDisplayFormat(t *testing.T) {
	d, err := newTestTransformer().ToDisplayFormat(sampleProject())
	if err != nil {
		t.Fatal(err)
	}
	if len(d.Technologies) != TopTechnologies || d.Technologies[0] != "Go" {
		t.Errorf("technologies = %v", d.Technologies)
	}
	if !strings.HasPrefix(d.PrimaryMetric, "Performance gain: ") || !strings.Contains(d.PrimaryMetric, "85") {
		t.Errorf("primary metric = %q", d.PrimaryMetric)
	}
	if d.StatusLabel != "Completed" || d.CategoryLabel != "Web" {
		t.Errorf("labels = %q / %q", d.StatusLabel, d.CategoryLabel)
	}
	if d.TeamSummary != "Team of 2, led by Dana" {
		t.Errorf("team summary = %q", d.TeamSummary)
	}
	if d.Duration != "6 months" {
		t.Errorf("duration = %q", d.Duration)
	}
}

func TestToSearchIndex(t *testing.T) {
	tr := newTestTransformer()
	item, err := tr.ToSearchIndex(sampleProject())
	if err != nil {
		t.Fatal(err)
	}

	if item.Text != strings.ToLower(item.Text) {
		t.Error("text must be lower-cased")
	}
	if !strings.Contains(item.Text, "dana lead engineer") || !strings.Contains(item.Text, "kubernetes") {
		t.Errorf("text = %q", item.Text)
	}

	seen := map[string]int{}
	for _, k := range item.Keywords {
		seen[k]++
	}
	if seen["go"] != 1 {
		t.Errorf("keyword go appears %d times in %v", seen["go"], item.Keywords)
	}
	if seen["checkout"] != 1 || seen["completed"] != 1 {
		t.Errorf("keywords = %v", item.Keywords)
	}

	// 1 + completed .2 + team .2 + tech .3 (capped) + primary .2 + kpis .3 + recent .2
	if item.Weight != 2.4 {
		t.Errorf("weight = %v, want 2.4", item.Weight)
	}
}

func TestWeightRecency(t *testing.T) {
	tr := newTestTransformer()
	p := models.Project{ID: "x", Title: "X", Status: models.StatusOngoing}

	p.UpdatedAt = models.MustDate("2023-09-01")
	if w := tr.Weight(&p); w != 1.1 {
		t.Errorf("within a year: %v", w)
	}
	p.UpdatedAt = models.MustDate("2020-01-01")
	if w := tr.Weight(&p); w != 1 {
		t.Errorf("stale: %v", w)
	}

	for i := 0; i < 20; i++ {
		p.Team = append(p.Team, models.TeamMember{Name: "m"})
	}
	if w := tr.Weight(&p); w != 1.5 {
		t.Errorf("team bonus should cap at 0.5, got %v", w)
	}
}

func TestToExportFormat(t *testing.T) {
	e, err := newTestTransformer().ToExportFormat(sampleProject())
	if err != nil {
		t.Fatal(err)
	}
	if e.StartDate != "2023-01-10" || e.EndDate != "2023-07-10" || e.UpdatedAt != "2024-05-01" {
		t.Errorf("dates = %s %s %s", e.StartDate, e.EndDate, e.UpdatedAt)
	}
	if !reflect.DeepEqual(e.Team, []string{"Dana (Lead Engineer)", "Sam (Designer)"}) {
		t.Errorf("team = %v", e.Team)
	}
	if len(e.Technologies) != 7 {
		t.Errorf("technologies = %v", e.Technologies)
	}
	if !reflect.DeepEqual(e.Links, []string{"Demo: https://example.com"}) {
		t.Errorf("links = %v", e.Links)
	}
	if e.Metrics["Grade"] != "A+" || e.Metrics["Performance gain"] == "" || e.Metrics["Users"] == "" {
		t.Errorf("metrics = %v", e.Metrics)
	}
}

func TestBatchDisplayFallback(t *testing.T) {
	good := sampleProject()
	broken := sampleProject()
	broken.ID = ""

	out := newTestTransformer().BatchDisplay([]models.Project{good, broken, good})
	if len(out) != 3 {
		t.Fatalf("len = %d", len(out))
	}
	if !reflect.DeepEqual(out[1], FallbackDisplay) {
		t.Errorf("index 1 = %+v", out[1])
	}
	for _, i := range []int{0, 2} {
		if out[i].ID != "checkout" {
			t.Errorf("index %d not transformed: %+v", i, out[i])
		}
	}
}

func TestBatchRecoversErrorsAndPanics(t *testing.T) {
	fn := func(n int) (string, error) {
		switch n {
		case 1:
			return "", errors.New("boom")
		case 2:
			panic("bad record")
		}
		return "ok", nil
	}

	got := Batch("test", []int{0, 1, 2, 3}, nil, fn, "fallback")
	want := []string{"ok", "fallback", "fallback", "ok"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestBundle(t *testing.T) {
	tr := newTestTransformer()
	broken := sampleProject()
	broken.ID = ""

	b := tr.Bundle([]models.Project{sampleProject(), broken})
	if b.Count != 2 || len(b.Projects) != 2 {
		t.Fatalf("count = %d, projects = %d", b.Count, len(b.Projects))
	}
	if !b.ExportedAt.Equal(fixedNow) {
		t.Errorf("exportedAt = %v", b.ExportedAt)
	}
	if len(b.ExportID) != 36 {
		t.Errorf("exportId = %q", b.ExportID)
	}
	if b.Projects[1].Title != FallbackExport.Title {
		t.Errorf("broken project exported as %+v", b.Projects[1])
	}

	if other := tr.Bundle(nil); other.ExportID == b.ExportID || other.Count != 0 {
		t.Errorf("second bundle = %+v", other)
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		currency string
		value    float64
		want     string
	}{
		{"dollars", "USD", 4200000, "$4,200,000.00"},
		{"negative", "USD", -12.5, "-$12.50"},
		{"euros", "EUR", 1200, "€1,200.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := New(WithCurrency(tt.currency))
			got := tr.FormatMetric(models.MetricItem{Value: models.NumberValue(tt.value), Type: models.MetricCurrency})
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
