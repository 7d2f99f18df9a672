package transform

import (
	"errors"
	"fmt"

	"github.com/mrbooshehri/folio/internal/models"
)

// TopTechnologies is how many technology names a card shows
const TopTechnologies = 5

// DisplayProject is the card-ready projection of a project
type DisplayProject struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      models.Category `json:"category"`
	CategoryLabel string          `json:"categoryLabel"`
	Status        models.Status   `json:"status"`
	StatusLabel   string          `json:"statusLabel"`
	Duration      string          `json:"duration"`
	IsOngoing     bool            `json:"isOngoing"`
	Technologies  []string        `json:"technologies"`
	PrimaryMetric string          `json:"primaryMetric,omitempty"`
	TeamSize      int             `json:"teamSize"`
	TeamSummary   string          `json:"teamSummary"`
	Thumbnail     string          `json:"thumbnail,omitempty"`
	Tags          []string        `json:"tags"`
}

// FallbackDisplay is shown in place of a card that could not be built
var FallbackDisplay = DisplayProject{
	Title:         "Project unavailable",
	Description:   "This project could not be displayed.",
	CategoryLabel: "Unknown",
	StatusLabel:   "Unknown",
	TeamSummary:   "No team listed",
}

var errNoID = errors.New("project has no id")

// ValidateDisplayInput reports whether p can be turned into a card
func ValidateDisplayInput(p models.Project) bool {
	return p.ID != "" && p.Title != ""
}

// ToDisplayFormat builds the card projection of p
func (t *Transformer) ToDisplayFormat(p models.Project) (DisplayProject, error) {
	if p.ID == "" {
		return DisplayProject{}, errNoID
	}

	techs := p.TechnologyNames()
	if len(techs) > TopTechnologies {
		techs = techs[:TopTechnologies]
	}

	d := DisplayProject{
		ID:            p.ID,
		Title:         Truncate(p.Title, MaxDisplayText),
		Description:   Truncate(p.Description, MaxDisplayText),
		Category:      p.Category,
		CategoryLabel: t.Label(string(p.Category)),
		Status:        p.Status,
		StatusLabel:   t.Label(string(p.Status)),
		Duration:      t.FormatDuration(p.Timeline),
		IsOngoing:     p.Timeline.IsOngoing,
		Technologies:  techs,
		TeamSize:      p.TeamSize(),
		TeamSummary:   teamSummary(&p),
		Thumbnail:     p.Thumbnail(),
		Tags:          append([]string{}, p.Tags...),
	}
	if len(p.Metrics.Primary) > 0 {
		m := p.Metrics.Primary[0]
		d.PrimaryMetric = fmt.Sprintf("%s: %s", m.Label, t.FormatMetric(m))
	}
	return d, nil
}

func teamSummary(p *models.Project) string {
	n := p.TeamSize()
	switch n {
	case 0:
		return "No team listed"
	case 1:
		return "Solo: " + p.Team[0].Name
	}
	if lead := p.Lead(); lead != nil && lead.IsLead {
		return fmt.Sprintf("Team of %d, led by %s", n, lead.Name)
	}
	return fmt.Sprintf("Team of %d", n)
}
