package transform

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/mrbooshehri/folio/internal/models"
)

// SearchIndexItem is the precomputed text-search projection of a project
type SearchIndexItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Category  models.Category `json:"category"`
	Status    models.Status   `json:"status"`
	Text      string          `json:"text"`
	Keywords  []string        `json:"keywords"`
	Weight    float64         `json:"weight"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// FallbackSearchIndex stands in for a project that could not be indexed
var FallbackSearchIndex = SearchIndexItem{}

const (
	baseWeight = 1.0
	maxWeight  = 3.0
)

// ValidateSearchIndexInput reports whether p has anything to index
func ValidateSearchIndexInput(p models.Project) bool {
	return p.ID != "" && (p.Title != "" || p.Description != "")
}

// ToSearchIndex flattens p into lower-cased text, keywords and a weight
func (t *Transformer) ToSearchIndex(p models.Project) (SearchIndexItem, error) {
	if p.ID == "" {
		return SearchIndexItem{}, errNoID
	}

	parts := []string{p.Title, p.Description, string(p.Category), string(p.Status)}
	parts = append(parts, p.Tags...)
	parts = append(parts, p.TechnologyNames()...)
	for _, m := range p.Team {
		parts = append(parts, m.Name, m.Role)
	}

	return SearchIndexItem{
		ID:        p.ID,
		Title:     p.Title,
		Category:  p.Category,
		Status:    p.Status,
		Text:      joinLower(parts),
		Keywords:  keywords(&p),
		Weight:    t.Weight(&p),
		UpdatedAt: p.UpdatedAt.Time,
	}, nil
}

// Weight scores how prominent p should be in search results
func (t *Transformer) Weight(p *models.Project) float64 {
	w := baseWeight
	if p.Status == models.StatusCompleted {
		w += 0.2
	}
	w += math.Min(0.1*float64(p.TeamSize()), 0.5)
	w += math.Min(0.05*float64(len(p.Technologies)), 0.3)
	if len(p.Metrics.Primary) > 0 {
		w += 0.2
	}
	if len(p.Metrics.KPIs) > 0 {
		w += 0.3
	}

	if !p.UpdatedAt.IsZero() {
		now := t.now()
		switch {
		case p.UpdatedAt.After(now.AddDate(0, -6, 0)):
			w += 0.2
		case p.UpdatedAt.After(now.AddDate(-1, 0, 0)):
			w += 0.1
		}
	}

	w = math.Min(w, maxWeight)
	return math.Round(w*100) / 100
}

func joinLower(parts []string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, strings.ToLower(p))
		}
	}
	return strings.Join(kept, " ")
}

// keywords collects title words, tags, technologies, category and status,
// lower-cased and de-duplicated in first-seen order
func keywords(p *models.Project) []string {
	seen := make(map[string]bool)
	out := []string{}
	add := func(s string) {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			return
		}
		seen[s] = true
		out = append(out, s)
	}

	for _, word := range strings.FieldsFunc(p.Title, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(word)) >= 3 {
			add(word)
		}
	}
	for _, tag := range p.Tags {
		add(tag)
	}
	for _, name := range p.TechnologyNames() {
		add(name)
	}
	add(string(p.Category))
	add(string(p.Status))
	return out
}
