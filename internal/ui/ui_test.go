package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/transform"
	"github.com/mrbooshehri/folio/internal/validation"
)

func captureOutput(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevOut, prevNoColor := Out, color.NoColor
	Out, color.NoColor = buf, true
	t.Cleanup(func() { Out, color.NoColor = prevOut, prevNoColor })
	return buf
}

func TestProgressBar(t *testing.T) {
	style := ProgressBarStyle{LeftBracket: "[", RightBracket: "]", Filled: "#", Empty: "-"}

	tests := []struct {
		pct   float64
		width int
		want  string
	}{
		{0, 4, "[----]"},
		{50, 4, "[##--]"},
		{100, 4, "[####]"},
		{150, 4, "[####]"},
		{-10, 4, "[----]"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.pct, tt.width, style); got != tt.want {
			t.Errorf("ProgressBar(%v, %d) = %q, want %q", tt.pct, tt.width, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly", 7, "exactly"},
		{"truncated text", 5, "trun…"},
		{"héllo wörld", 4, "hél…"},
		{"anything", 0, "anything"},
		{"✅✅✅", 4, "✅…"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestTableAlignsColumns(t *testing.T) {
	buf := captureOutput(t)

	NewTable("ID", "Count").
		SetColumnAlignment(1, AlignRight).
		AddRow("alpha", "7").
		AddRow("b", "1234").
		PrintSimple()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if lines[2] != "alpha      7" {
		t.Errorf("row 1 = %q", lines[2])
	}
	if lines[3] != "b       1234" {
		t.Errorf("row 2 = %q", lines[3])
	}
}

func TestDisplayWidth(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"\x1b[31mred\x1b[0m", 3},
		{"héllo", 5},
		{"✅", 2},
		{"🔄 ok", 5},
	}
	for _, tt := range tests {
		if got := displayWidth(tt.in); got != tt.want {
			t.Errorf("displayWidth(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestTableAlignsWideIcons(t *testing.T) {
	buf := captureOutput(t)

	NewTable("S", "Title").
		AddRow(StatusIcon(models.StatusCompleted), "done").
		AddRow("x", "plain").
		PrintSimple()

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	done := displayWidth(lines[2][:strings.Index(lines[2], "done")])
	plain := displayWidth(lines[3][:strings.Index(lines[3], "plain")])
	if done != plain {
		t.Errorf("title column starts at %d and %d:\n%s", done, plain, buf.String())
	}
}

func TestPrintValidationReport(t *testing.T) {
	buf := captureOutput(t)

	r := validation.Result{
		IsValid:  false,
		Errors:   []validation.Issue{{Field: "title", Message: "is required", Rule: validation.RuleRequired}},
		Warnings: []validation.Issue{{Field: "tags", Message: "is empty", Rule: validation.RuleMinItems}},
	}
	PrintValidationReport("projects.json", r)

	out := buf.String()
	for _, want := range []string{"Validation: projects.json", "Errors (1)", "title: is required", "Warnings (1)", "Invalid:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintProjectCardViewpoints(t *testing.T) {
	p := models.Project{
		ID: "alpha", Title: "Alpha", Category: models.CategoryWeb, Status: models.StatusCompleted,
		Timeline: models.Timeline{StartDate: models.MustDate("2023-01-01"), EndDate: models.DatePtr("2023-06-01")},
		Team: []models.TeamMember{
			{ID: "u1", Name: "Ana", Role: "Lead", IsLead: true, Skills: []string{"Go"}},
		},
		Technologies: []models.Technology{{ID: "go", Name: "Go", Category: models.TechBackend, Proficiency: 8}},
		Metrics: models.Metrics{
			Primary: []models.MetricItem{{ID: "m1", Label: "Users", Value: models.NumberValue(1200), Type: models.MetricNumber, Trend: models.TrendUp}},
		},
	}
	tr := transform.New()

	buf := captureOutput(t)
	PrintProjectCard(tr, p, models.ViewHR)
	hr := buf.String()
	if !strings.Contains(hr, "★ Ana") || !strings.Contains(hr, "8/10") {
		t.Errorf("HR card missing team detail:\n%s", hr)
	}

	buf.Reset()
	PrintProjectCard(tr, p, models.ViewBoss)
	boss := buf.String()
	if strings.Contains(boss, "★ Ana") {
		t.Errorf("boss card lists individual members:\n%s", boss)
	}
	if !strings.Contains(boss, "Users:") || !strings.Contains(boss, "↑") {
		t.Errorf("boss card missing outcomes:\n%s", boss)
	}
}

func TestPrintProjectListEmpty(t *testing.T) {
	buf := captureOutput(t)
	PrintProjectList(nil)
	if !strings.Contains(buf.String(), "No projects match") {
		t.Errorf("output = %q", buf.String())
	}
}
