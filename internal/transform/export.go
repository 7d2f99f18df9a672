package transform

import (
	"fmt"

	"github.com/mrbooshehri/folio/internal/models"
)

// ExportProject is the flat, string-only projection written by exports
type ExportProject struct {
	ID           string            `json:"id" yaml:"id"`
	Title        string            `json:"title" yaml:"title"`
	Description  string            `json:"description" yaml:"description"`
	Category     string            `json:"category" yaml:"category"`
	Status       string            `json:"status" yaml:"status"`
	StartDate    string            `json:"startDate" yaml:"startDate"`
	EndDate      string            `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Duration     string            `json:"duration" yaml:"duration"`
	IsOngoing    bool              `json:"isOngoing" yaml:"isOngoing"`
	Team         []string          `json:"team" yaml:"team"`
	Technologies []string          `json:"technologies" yaml:"technologies"`
	Metrics      map[string]string `json:"metrics" yaml:"metrics"`
	Links        []string          `json:"links,omitempty" yaml:"links,omitempty"`
	Tags         []string          `json:"tags" yaml:"tags"`
	CreatedAt    string            `json:"createdAt" yaml:"createdAt"`
	UpdatedAt    string            `json:"updatedAt" yaml:"updatedAt"`
}

// FallbackExport marks a project that could not be exported
var FallbackExport = ExportProject{Title: "Export unavailable"}

// ValidateExportInput reports whether p carries the fields an export needs
func ValidateExportInput(p models.Project) bool {
	return p.ID != "" && p.Title != "" && !p.CreatedAt.IsZero()
}

// ToExportFormat flattens p for JSON/YAML export
func (t *Transformer) ToExportFormat(p models.Project) (ExportProject, error) {
	if p.ID == "" {
		return ExportProject{}, errNoID
	}

	team := make([]string, 0, len(p.Team))
	for _, m := range p.Team {
		team = append(team, fmt.Sprintf("%s (%s)", m.Name, m.Role))
	}

	metrics := make(map[string]string)
	groups := [][]models.MetricItem{p.Metrics.Primary, p.Metrics.Secondary}
	kpis := make([]models.MetricItem, 0, len(p.Metrics.KPIs))
	for _, k := range p.Metrics.KPIs {
		kpis = append(kpis, k.MetricItem)
	}
	groups = append(groups, kpis)
	for _, group := range groups {
		for _, m := range group {
			if _, dup := metrics[m.Label]; !dup && m.Label != "" {
				metrics[m.Label] = t.FormatMetric(m)
			}
		}
	}

	var links []string
	for _, l := range p.Links {
		links = append(links, fmt.Sprintf("%s: %s", l.Title, l.URL))
	}

	return ExportProject{
		ID:           p.ID,
		Title:        p.Title,
		Description:  p.Description,
		Category:     string(p.Category),
		Status:       string(p.Status),
		StartDate:    formatDate(p.Timeline.StartDate),
		EndDate:      formatDatePtr(p.Timeline.EndDate),
		Duration:     t.FormatDuration(p.Timeline),
		IsOngoing:    p.Timeline.IsOngoing,
		Team:         team,
		Technologies: p.TechnologyNames(),
		Metrics:      metrics,
		Links:        links,
		Tags:         append([]string{}, p.Tags...),
		CreatedAt:    formatDate(p.CreatedAt),
		UpdatedAt:    formatDate(p.UpdatedAt),
	}, nil
}
