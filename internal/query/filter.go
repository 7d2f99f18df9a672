// Package query filters, searches and sorts project lists. Every function
// returns a new slice and leaves its input untouched; malformed options
// degrade to "no constraint" instead of failing.
package query

import (
	"strings"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
)

// IntRange is an inclusive bound; a nil side is open
type IntRange struct {
	Min *int `json:"min,omitempty"`
	Max *int `json:"max,omitempty"`
}

// Valid reports whether the range can match anything
func (r IntRange) Valid() bool {
	return r.Min == nil || r.Max == nil || *r.Min <= *r.Max
}

// Contains reports whether n lies within the range
func (r IntRange) Contains(n int) bool {
	if r.Min != nil && n < *r.Min {
		return false
	}
	if r.Max != nil && n > *r.Max {
		return false
	}
	return true
}

// DateRange bounds timeline.startDate, inclusive. Zero sides are open.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// Valid reports whether the range can match anything
func (r DateRange) Valid() bool {
	return r.From.IsZero() || r.To.IsZero() || !r.To.Before(r.From)
}

// Contains reports whether t lies within the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// FilterOptions holds the independent filter axes. Unset axes do not
// constrain; set axes are ANDed.
type FilterOptions struct {
	Category     []models.Category `json:"category,omitempty"`
	Status       []models.Status   `json:"status,omitempty"`
	Technologies []string          `json:"technologies,omitempty"`
	Tags         []string          `json:"tags,omitempty"`
	HasMetrics   *bool             `json:"hasMetrics,omitempty"`
	HasTeam      *bool             `json:"hasTeam,omitempty"`
	TeamSize     *IntRange         `json:"teamSize,omitempty"`
	DateRange    *DateRange        `json:"dateRange,omitempty"`
}

// IsZero reports whether no axis is set
func (f FilterOptions) IsZero() bool {
	return len(f.Category) == 0 && len(f.Status) == 0 &&
		len(f.Technologies) == 0 && len(f.Tags) == 0 &&
		f.HasMetrics == nil && f.HasTeam == nil &&
		f.TeamSize == nil && f.DateRange == nil
}

// Filter returns the projects matching every set axis
func Filter(projects []models.Project, opts FilterOptions) []models.Project {
	out := make([]models.Project, 0, len(projects))
	for i := range projects {
		if opts.Match(&projects[i]) {
			out = append(out, projects[i])
		}
	}
	return out
}

// Match reports whether p satisfies the filter
func (f FilterOptions) Match(p *models.Project) bool {
	if len(f.Category) > 0 && !containsValue(f.Category, p.Category) {
		return false
	}
	if len(f.Status) > 0 && !containsValue(f.Status, p.Status) {
		return false
	}
	if len(f.Technologies) > 0 && !anyTechnology(p, f.Technologies) {
		return false
	}
	if len(f.Tags) > 0 && !anyTag(p, f.Tags) {
		return false
	}
	if f.HasMetrics != nil && p.HasMetrics() != *f.HasMetrics {
		return false
	}
	if f.HasTeam != nil && p.HasTeam() != *f.HasTeam {
		return false
	}
	if f.TeamSize != nil && f.TeamSize.Valid() && !f.TeamSize.Contains(p.TeamSize()) {
		return false
	}
	if f.DateRange != nil && f.DateRange.Valid() {
		start := p.Timeline.StartDate
		if start.IsZero() || !f.DateRange.Contains(start.Time) {
			return false
		}
	}
	return true
}

func containsValue[T ~string](set []T, v T) bool {
	for _, s := range set {
		if strings.EqualFold(string(s), string(v)) {
			return true
		}
	}
	return false
}

func anyTechnology(p *models.Project, names []string) bool {
	for _, name := range names {
		if p.UsesTechnology(name) {
			return true
		}
	}
	return false
}

func anyTag(p *models.Project, tags []string) bool {
	for _, tag := range tags {
		if p.HasTag(tag) {
			return true
		}
	}
	return false
}
