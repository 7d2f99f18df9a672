package query

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/mrbooshehri/folio/internal/models"
)

func member(name, role string) models.TeamMember {
	return models.TeamMember{ID: strings.ToLower(name), Name: name, Role: role}
}

func tech(name string) models.Technology {
	return models.Technology{ID: strings.ToLower(name), Name: name, Category: models.TechBackend}
}

func fixtures() []models.Project {
	return []models.Project{
		{
			ID: "alpha", Title: "Alpha Checkout", Description: "Payment flow rewrite",
			Category: models.CategoryWeb, Status: models.StatusCompleted,
			Timeline: models.Timeline{
				StartDate: models.MustDate("2023-01-01"),
				EndDate:   models.DatePtr("2023-06-01"),
			},
			Metrics:      models.Metrics{Primary: []models.MetricItem{{ID: "m", Label: "Speed", Value: models.NumberValue(40)}}},
			Team:         []models.TeamMember{member("Dana", "Lead Engineer"), member("Sam", "Designer")},
			Technologies: []models.Technology{tech("Go"), tech("React")},
			Tags:         []string{"payments", "web"},
			CreatedAt:    models.MustDate("2023-01-01"),
			UpdatedAt:    models.MustDate("2024-01-10"),
		},
		{
			ID: "beta", Title: "beta Mobile App", Description: "Offline-first field app",
			Category: models.CategoryMobile, Status: models.StatusOngoing,
			Timeline:     models.Timeline{StartDate: models.MustDate("2024-03-01"), IsOngoing: true},
			Team:         []models.TeamMember{member("Lee", "Mobile Engineer")},
			Technologies: []models.Technology{tech("Kotlin")},
			Tags:         []string{"mobile"},
			CreatedAt:    models.MustDate("2024-03-01"),
			UpdatedAt:    models.MustDate("2024-05-01"),
		},
		{
			ID: "gamma", Title: "Gamma Pipeline", Description: "Data ingestion on Kubernetes",
			Category: models.CategoryInfrastructure, Status: models.StatusCompleted,
			Timeline: models.Timeline{
				StartDate: models.MustDate("2022-05-01"),
				EndDate:   models.DatePtr("2022-07-01"),
			},
			Metrics:      models.Metrics{Primary: []models.MetricItem{{ID: "m", Label: "Throughput", Value: models.NumberValue(3)}}},
			Technologies: []models.Technology{tech("Go"), tech("Kubernetes")},
			Tags:         []string{"data"},
			CreatedAt:    models.MustDate("2022-05-01"),
			UpdatedAt:    models.MustDate("2024-01-10"),
		},
	}
}

func ids(projects []models.Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.ID
	}
	return out
}

func boolPtr(b bool) *bool { return &b }
func intPtr(n int) *int    { return &n }

func TestFilterAxes(t *testing.T) {
	tests := []struct {
		name   string
		filter FilterOptions
		want   []string
	}{
		{"no constraint", FilterOptions{}, []string{"alpha", "beta", "gamma"}},
		{"category", FilterOptions{Category: []models.Category{models.CategoryWeb, models.CategoryMobile}}, []string{"alpha", "beta"}},
		{"status", FilterOptions{Status: []models.Status{models.StatusCompleted}}, []string{"alpha", "gamma"}},
		{"technology any-of", FilterOptions{Technologies: []string{"kotlin", "kubernetes"}}, []string{"beta", "gamma"}},
		{"tags any-of", FilterOptions{Tags: []string{"DATA", "mobile"}}, []string{"beta", "gamma"}},
		{"axes are ANDed", FilterOptions{Technologies: []string{"go"}, Tags: []string{"data"}}, []string{"gamma"}},
		{"has metrics", FilterOptions{HasMetrics: boolPtr(false)}, []string{"beta"}},
		{"has team", FilterOptions{HasTeam: boolPtr(false)}, []string{"gamma"}},
		{"team size inclusive", FilterOptions{TeamSize: &IntRange{Min: intPtr(1), Max: intPtr(1)}}, []string{"beta"}},
		{"inverted team range ignored", FilterOptions{TeamSize: &IntRange{Min: intPtr(5), Max: intPtr(1)}}, []string{"alpha", "beta", "gamma"}},
		{"date range inclusive", FilterOptions{DateRange: &DateRange{
			From: models.MustDate("2023-01-01").Time,
			To:   models.MustDate("2024-03-01").Time,
		}}, []string{"alpha", "beta"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Filter(fixtures(), tt.filter))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterIdempotent(t *testing.T) {
	filter := FilterOptions{Status: []models.Status{models.StatusCompleted}, HasMetrics: boolPtr(true)}
	sort := SortOptions{Field: SortTitle, Direction: Asc}

	once := Apply(fixtures(), filter, SearchOptions{}, sort)
	twice := Apply(once, filter, SearchOptions{}, sort)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("once %v, twice %v", ids(once), ids(twice))
	}
}

func TestSearchContainment(t *testing.T) {
	projects := fixtures()
	opts := SearchOptions{Query: "ENGINEER", Fields: []SearchField{FieldTeamMembers, FieldTitle}}

	got := Search(projects, opts)
	returned := make(map[string]bool)
	for _, p := range got {
		returned[p.ID] = true
	}

	for i := range projects {
		p := &projects[i]
		contains := false
		for _, f := range opts.EffectiveFields() {
			if strings.Contains(strings.ToLower(FieldText(p, f)), "engineer") {
				contains = true
			}
		}
		if contains != returned[p.ID] {
			t.Errorf("%s: contains=%v returned=%v", p.ID, contains, returned[p.ID])
		}
	}
	if !reflect.DeepEqual(ids(got), []string{"alpha", "beta"}) {
		t.Errorf("got %v", ids(got))
	}
}

func TestSearchFieldSelection(t *testing.T) {
	onlyTitle := SearchOptions{Query: "kubernetes", Fields: []SearchField{FieldTitle}}
	if got := Search(fixtures(), onlyTitle); len(got) != 0 {
		t.Errorf("title-only search matched %v", ids(got))
	}

	unknownFields := SearchOptions{Query: "kubernetes", Fields: []SearchField{"nope"}}
	if got := ids(Search(fixtures(), unknownFields)); !reflect.DeepEqual(got, []string{"gamma"}) {
		t.Errorf("unknown fields should fall back to all fields, got %v", got)
	}
}

func TestSearchEmptyQueryMatchesAll(t *testing.T) {
	in := fixtures()
	got := Search(in, SearchOptions{Query: "   "})
	if len(got) != len(in) {
		t.Fatalf("got %d projects", len(got))
	}
	got[0].ID = "changed"
	if in[0].ID == "changed" {
		t.Error("result aliases input")
	}
}

func TestSortStable(t *testing.T) {
	// alpha and gamma share updatedAt
	got := ids(Sort(fixtures(), SortOptions{Field: SortUpdatedAt, Direction: Desc}))
	want := []string{"beta", "alpha", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	reversed := fixtures()
	reversed[0], reversed[2] = reversed[2], reversed[0]
	got = ids(Sort(reversed, SortOptions{Field: SortUpdatedAt, Direction: Desc}))
	want = []string{"beta", "gamma", "alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortSecondaryKey(t *testing.T) {
	opts := SortOptions{
		Field:     SortUpdatedAt,
		Direction: Desc,
		Secondary: &SortKey{Field: SortTitle, Direction: Desc},
	}
	got := ids(Sort(fixtures(), opts))
	want := []string{"beta", "gamma", "alpha"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortTitleIsCaseInsensitive(t *testing.T) {
	got := ids(Sort(fixtures(), SortOptions{Field: SortTitle, Direction: Asc}))
	want := []string{"alpha", "beta", "gamma"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortMissingEndDateLast(t *testing.T) {
	for _, dir := range []Direction{Asc, Desc} {
		got := ids(Sort(fixtures(), SortOptions{Field: SortEndDate, Direction: dir}))
		if got[len(got)-1] != "beta" {
			t.Errorf("%s: project without end date should be last, got %v", dir, got)
		}
	}

	got := ids(Sort(fixtures(), SortOptions{Field: SortDuration, Direction: Asc}))
	want := []string{"gamma", "alpha", "beta"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("duration: got %v, want %v", got, want)
	}
}

func TestSortUnknownFieldFallsBack(t *testing.T) {
	got := Sort(fixtures(), SortOptions{Field: "popularity", Direction: Asc})
	want := Sort(fixtures(), SortOptions{Field: SortUpdatedAt, Direction: Desc})
	if !reflect.DeepEqual(ids(got), ids(want)) {
		t.Errorf("got %v, want %v", ids(got), ids(want))
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	in := fixtures()
	before := ids(in)

	out := Apply(in, FilterOptions{}, SearchOptions{}, SortOptions{Field: SortTitle, Direction: Desc})
	if !reflect.DeepEqual(ids(in), before) {
		t.Errorf("input reordered: %v", ids(in))
	}
	if len(out) > 0 && &out[0] == &in[0] {
		t.Error("output shares backing array with input")
	}
}

func TestApplyOnNil(t *testing.T) {
	got := Apply(nil, FilterOptions{}, SearchOptions{}, SortOptions{})
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
}

func TestParseValues(t *testing.T) {
	values := url.Values{
		"q":          {"go"},
		"category":   {"web,bogus", "mobile"},
		"status":     {"completed"},
		"tech":       {"Go, React"},
		"hasTeam":    {"true"},
		"hasMetrics": {"maybe"},
		"teamMin":    {"1"},
		"teamMax":    {"x"},
		"from":       {"2023-01-01"},
		"to":         {"not-a-date"},
		"sort":       {"title"},
		"order":      {"desc"},
		"then":       {"status"},
	}

	p := ParseValues(values)
	if p.Search.Query != "go" {
		t.Errorf("query = %q", p.Search.Query)
	}
	if !reflect.DeepEqual(p.Filter.Category, []models.Category{models.CategoryWeb, models.CategoryMobile}) {
		t.Errorf("category = %v", p.Filter.Category)
	}
	if !reflect.DeepEqual(p.Filter.Technologies, []string{"Go", "React"}) {
		t.Errorf("tech = %v", p.Filter.Technologies)
	}
	if p.Filter.HasTeam == nil || !*p.Filter.HasTeam {
		t.Error("hasTeam should be true")
	}
	if p.Filter.HasMetrics != nil {
		t.Error("unparseable hasMetrics should be ignored")
	}
	if p.Filter.TeamSize == nil || *p.Filter.TeamSize.Min != 1 || p.Filter.TeamSize.Max != nil {
		t.Errorf("teamSize = %+v", p.Filter.TeamSize)
	}
	if p.Filter.DateRange == nil || p.Filter.DateRange.From.IsZero() || !p.Filter.DateRange.To.IsZero() {
		t.Errorf("dateRange = %+v", p.Filter.DateRange)
	}
	if p.Sort.Field != SortTitle || p.Sort.Direction != Desc {
		t.Errorf("sort = %+v", p.Sort)
	}
	if p.Sort.Secondary == nil || p.Sort.Secondary.Field != SortStatus || p.Sort.Secondary.Direction != Asc {
		t.Errorf("secondary = %+v", p.Sort.Secondary)
	}
}

func TestParseValuesBadSortUsesDefault(t *testing.T) {
	p := ParseValues(url.Values{"sort": {"nope"}, "order": {"asc"}})
	if p.Sort.Field != SortUpdatedAt || p.Sort.Direction != Desc {
		t.Errorf("sort = %+v", p.Sort)
	}
}

func TestParamsValuesRoundTrip(t *testing.T) {
	original := ParseValues(url.Values{
		"q":        {"pipeline"},
		"category": {"infrastructure"},
		"teamMax":  {"3"},
		"sort":     {"startDate"},
		"order":    {"asc"},
	})
	again := ParseValues(original.Values())
	if !reflect.DeepEqual(original, again) {
		t.Errorf("round trip changed params:\n%+v\n%+v", original, again)
	}
}

func TestParseValuesCalendarUpperBoundCoversWholeDay(t *testing.T) {
	projects := []models.Project{
		{ID: "morning", Timeline: models.Timeline{StartDate: models.MustDate("2023-06-30T09:00:00Z")}},
		{ID: "next-day", Timeline: models.Timeline{StartDate: models.MustDate("2023-07-01T00:00:00Z")}},
		{ID: "late-june", Timeline: models.Timeline{StartDate: models.MustDate("2023-06-30T23:59:59Z")}},
	}

	tests := []struct {
		name   string
		values url.Values
		want   []string
	}{
		{"day", url.Values{"to": {"2023-06-30"}}, []string{"morning", "late-june"}},
		{"same day both sides", url.Values{"from": {"2023-06-30"}, "to": {"2023-06-30"}}, []string{"morning", "late-june"}},
		{"month", url.Values{"to": {"2023-06"}}, []string{"morning", "late-june"}},
		{"exact instant stays exact", url.Values{"to": {"2023-06-30T09:00:00Z"}}, []string{"morning"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ParseValues(tt.values)
			if got := ids(Filter(projects, p.Filter)); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}

			again := ParseValues(p.Values())
			if !reflect.DeepEqual(p.Filter.DateRange, again.Filter.DateRange) {
				t.Errorf("round trip changed range: %+v -> %+v", p.Filter.DateRange, again.Filter.DateRange)
			}
		})
	}
}
