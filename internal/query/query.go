package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
)

// Apply runs filter, then search, then sort. The result is always a new
// slice, even when nothing is filtered out.
func Apply(projects []models.Project, filter FilterOptions, search SearchOptions, sort SortOptions) []models.Project {
	filtered := Filter(projects, filter)
	found := Search(filtered, search)
	return Sort(found, sort)
}

// Params bundles a full query, e.g. for saved preferences
type Params struct {
	Filter FilterOptions `json:"filter"`
	Search SearchOptions `json:"search"`
	Sort   SortOptions   `json:"sort"`
}

// Apply runs the bundled query against projects
func (p Params) Apply(projects []models.Project) []models.Project {
	return Apply(projects, p.Filter, p.Search, p.Sort)
}

// ParseValues builds Params from query-string style values. Values that
// do not parse are dropped so the axis stays unconstrained.
//
// Recognized keys: q, fields, fuzzy, category, status, tech, tag,
// hasMetrics, hasTeam, teamMin, teamMax, from, to, sort, order, then,
// thenOrder. List keys accept repeats and comma separated values.
func ParseValues(values url.Values) Params {
	var p Params

	p.Search.Query = strings.TrimSpace(values.Get("q"))
	for _, f := range splitList(values["fields"]) {
		p.Search.Fields = append(p.Search.Fields, SearchField(f))
	}
	if fuzzy := parseBool(values.Get("fuzzy")); fuzzy != nil {
		p.Search.Fuzzy = *fuzzy
	}

	for _, c := range splitList(values["category"]) {
		if cat := models.Category(strings.ToLower(c)); cat.Valid() {
			p.Filter.Category = append(p.Filter.Category, cat)
		}
	}
	for _, s := range splitList(values["status"]) {
		if st := models.Status(strings.ToLower(s)); st.Valid() {
			p.Filter.Status = append(p.Filter.Status, st)
		}
	}
	p.Filter.Technologies = splitList(values["tech"])
	p.Filter.Tags = splitList(values["tag"])
	p.Filter.HasMetrics = parseBool(values.Get("hasMetrics"))
	p.Filter.HasTeam = parseBool(values.Get("hasTeam"))

	teamMin, teamMax := parseInt(values.Get("teamMin")), parseInt(values.Get("teamMax"))
	if teamMin != nil || teamMax != nil {
		r := IntRange{Min: teamMin, Max: teamMax}
		if r.Valid() {
			p.Filter.TeamSize = &r
		}
	}

	var dr DateRange
	if t, err := models.ParseDate(values.Get("from")); err == nil {
		dr.From = t
	}
	if raw := values.Get("to"); raw != "" {
		if t, err := models.ParseDate(raw); err == nil {
			dr.To = inclusiveEnd(raw, t)
		}
	}
	if (!dr.From.IsZero() || !dr.To.IsZero()) && dr.Valid() {
		p.Filter.DateRange = &dr
	}

	p.Sort.Field = SortField(values.Get("sort"))
	p.Sort.Direction = ParseDirection(values.Get("order"))
	if then := SortField(values.Get("then")); then.Valid() {
		p.Sort.Secondary = &SortKey{Field: then, Direction: ParseDirection(values.Get("thenOrder"))}
	}
	if !p.Sort.Field.Valid() {
		p.Sort.Field = DefaultSort.Field
		p.Sort.Direction = DefaultSort.Direction
	}

	return p
}

// Values is the inverse of ParseValues
func (p Params) Values() url.Values {
	v := url.Values{}
	if p.Search.Query != "" {
		v.Set("q", p.Search.Query)
	}
	if len(p.Search.Fields) > 0 {
		v.Set("fields", joinStrings(p.Search.Fields))
	}
	if p.Search.Fuzzy {
		v.Set("fuzzy", "true")
	}
	if len(p.Filter.Category) > 0 {
		v.Set("category", joinStrings(p.Filter.Category))
	}
	if len(p.Filter.Status) > 0 {
		v.Set("status", joinStrings(p.Filter.Status))
	}
	if len(p.Filter.Technologies) > 0 {
		v.Set("tech", strings.Join(p.Filter.Technologies, ","))
	}
	if len(p.Filter.Tags) > 0 {
		v.Set("tag", strings.Join(p.Filter.Tags, ","))
	}
	if p.Filter.HasMetrics != nil {
		v.Set("hasMetrics", strconv.FormatBool(*p.Filter.HasMetrics))
	}
	if p.Filter.HasTeam != nil {
		v.Set("hasTeam", strconv.FormatBool(*p.Filter.HasTeam))
	}
	if r := p.Filter.TeamSize; r != nil {
		if r.Min != nil {
			v.Set("teamMin", strconv.Itoa(*r.Min))
		}
		if r.Max != nil {
			v.Set("teamMax", strconv.Itoa(*r.Max))
		}
	}
	if r := p.Filter.DateRange; r != nil {
		if !r.From.IsZero() {
			v.Set("from", formatBound(r.From, startOfDay(r.From)))
		}
		if !r.To.IsZero() {
			v.Set("to", formatBound(r.To, startOfDay(r.To).AddDate(0, 0, 1).Add(-time.Nanosecond)))
		}
	}
	if p.Sort.Field != "" {
		v.Set("sort", string(p.Sort.Field))
	}
	if p.Sort.Direction != "" {
		v.Set("order", string(p.Sort.Direction))
	}
	if s := p.Sort.Secondary; s != nil {
		v.Set("then", string(s.Field))
		v.Set("thenOrder", string(s.Direction))
	}
	return v
}

// inclusiveEnd moves a calendar-only upper bound to the last instant of
// the day or month it names
func inclusiveEnd(raw string, t time.Time) time.Time {
	raw = strings.TrimSpace(raw)
	if _, err := time.Parse(models.DateLayout, raw); err == nil {
		return t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	if _, err := time.Parse("2006-01", raw); err == nil {
		return t.AddDate(0, 1, 0).Add(-time.Nanosecond)
	}
	return t
}

// formatBound writes t as a calendar date when that parses back to the
// same instant, and as RFC 3339 otherwise
func formatBound(t, calendar time.Time) string {
	if t.Equal(calendar) {
		return t.Format(models.DateLayout)
	}
	return t.Format(time.RFC3339Nano)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func splitList(raw []string) []string {
	var out []string
	for _, item := range raw {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func joinStrings[T ~string](items []T) string {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = string(item)
	}
	return strings.Join(parts, ",")
}

func parseBool(raw string) *bool {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &b
}

func parseInt(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return nil
	}
	return &n
}
