package query

import (
	"strings"

	"github.com/mrbooshehri/folio/internal/models"
)

// SearchField names a project field the search looks at
type SearchField string

const (
	FieldTitle        SearchField = "title"
	FieldDescription  SearchField = "description"
	FieldTags         SearchField = "tags"
	FieldTechnologies SearchField = "technologies"
	FieldTeamMembers  SearchField = "teamMembers"
	FieldCategory     SearchField = "category"
)

// AllSearchFields is used when no valid field is selected
var AllSearchFields = []SearchField{
	FieldTitle, FieldDescription, FieldTags,
	FieldTechnologies, FieldTeamMembers, FieldCategory,
}

// Valid reports whether f is a known search field
func (f SearchField) Valid() bool {
	for _, v := range AllSearchFields {
		if f == v {
			return true
		}
	}
	return false
}

// SearchOptions configures text search. Fuzzy is accepted for API
// compatibility and currently behaves like plain substring search.
type SearchOptions struct {
	Query  string        `json:"query,omitempty"`
	Fields []SearchField `json:"fields,omitempty"`
	Fuzzy  bool          `json:"fuzzy,omitempty"`
}

// EffectiveFields returns the selected valid fields, or all fields when
// the selection is empty or entirely unknown
func (s SearchOptions) EffectiveFields() []SearchField {
	fields := make([]SearchField, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Valid() {
			fields = append(fields, f)
		}
	}
	if len(fields) == 0 {
		return AllSearchFields
	}
	return fields
}

// Search returns the projects whose selected fields contain the query,
// case-insensitively. An empty query matches everything.
func Search(projects []models.Project, opts SearchOptions) []models.Project {
	needle := strings.ToLower(strings.TrimSpace(opts.Query))
	if needle == "" {
		return append([]models.Project(nil), projects...)
	}

	fields := opts.EffectiveFields()
	out := make([]models.Project, 0, len(projects))
	for i := range projects {
		if matchFields(&projects[i], needle, fields) {
			out = append(out, projects[i])
		}
	}
	return out
}

// Matches reports whether p matches the search
func (s SearchOptions) Matches(p *models.Project) bool {
	needle := strings.ToLower(strings.TrimSpace(s.Query))
	if needle == "" {
		return true
	}
	return matchFields(p, needle, s.EffectiveFields())
}

func matchFields(p *models.Project, needle string, fields []SearchField) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(FieldText(p, f)), needle) {
			return true
		}
	}
	return false
}

// FieldText returns the searchable text of one field
func FieldText(p *models.Project, field SearchField) string {
	switch field {
	case FieldTitle:
		return p.Title
	case FieldDescription:
		return p.Description
	case FieldTags:
		return strings.Join(p.Tags, " ")
	case FieldTechnologies:
		return strings.Join(p.TechnologyNames(), " ")
	case FieldTeamMembers:
		parts := make([]string, 0, len(p.Team)*2)
		for _, m := range p.Team {
			parts = append(parts, m.Name, m.Role)
		}
		return strings.Join(parts, " ")
	case FieldCategory:
		return string(p.Category)
	}
	return ""
}
