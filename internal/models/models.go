package models

import "strings"

// Project represents a portfolio achievement card
type Project struct {
	ID           string       `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Category     Category     `json:"category"`
	Status       Status       `json:"status"`
	Timeline     Timeline     `json:"timeline"`
	Metrics      Metrics      `json:"metrics"`
	Team         []TeamMember `json:"team"`
	Technologies []Technology `json:"technologies"`
	Links        []Link       `json:"links,omitempty"`
	Images       *Images      `json:"images,omitempty"`
	Tags         []string     `json:"tags"`
	CreatedAt    Date         `json:"createdAt"`
	UpdatedAt    Date         `json:"updatedAt"`
}

// Timeline describes when a project ran
type Timeline struct {
	StartDate           Date        `json:"startDate"`
	EndDate             *Date       `json:"endDate,omitempty"`
	Duration            string      `json:"duration"`
	IsOngoing           bool        `json:"isOngoing"`
	EstimatedCompletion *Date       `json:"estimatedCompletion,omitempty"`
	Milestones          []Milestone `json:"milestones,omitempty"`
}

// Milestone is a dated, completable event inside a timeline
type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Date        Date       `json:"date"`
	Completed   bool       `json:"completed"`
	Importance  Importance `json:"importance"`
}

// Metrics groups the headline numbers of a project
type Metrics struct {
	Primary   []MetricItem `json:"primary"`
	Secondary []MetricItem `json:"secondary,omitempty"`
	KPIs      []KPIItem    `json:"kpis"`
}

// MetricItem is a single labelled value
type MetricItem struct {
	ID            string       `json:"id"`
	Label         string       `json:"label"`
	Value         MetricValue  `json:"value"`
	Unit          string       `json:"unit,omitempty"`
	Type          MetricType   `json:"type"`
	Trend         Trend        `json:"trend,omitempty"`
	Color         MetricColor  `json:"color,omitempty"`
	Target        *MetricValue `json:"target,omitempty"`
	PreviousValue *MetricValue `json:"previousValue,omitempty"`
}

// KPIItem is a weighted metric with threshold tiers
type KPIItem struct {
	MetricItem
	Weight    float64   `json:"weight"`
	Threshold Threshold `json:"threshold"`
}

// Threshold holds the tier boundaries used to grade a KPI
type Threshold struct {
	Excellent  float64 `json:"excellent"`
	Good       float64 `json:"good"`
	Acceptable float64 `json:"acceptable"`
}

// TeamMember represents a person who worked on the project
type TeamMember struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Role      string       `json:"role"`
	Avatar    string       `json:"avatar,omitempty"`
	IsLead    bool         `json:"isLead,omitempty"`
	Skills    []string     `json:"skills,omitempty"`
	Contact   *ContactInfo `json:"contact,omitempty"`
	JoinDate  *Date        `json:"joinDate,omitempty"`
	LeaveDate *Date        `json:"leaveDate,omitempty"`
}

// ContactInfo holds optional ways to reach a team member
type ContactInfo struct {
	Email    string `json:"email,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// Technology is a tool or platform used by the project
type Technology struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Category    TechCategory `json:"category"`
	Proficiency int          `json:"proficiency,omitempty"` // 1-10, 0 when unset
	Version     string       `json:"version,omitempty"`
}

// Link points to external material about the project
type Link struct {
	Title string   `json:"title"`
	URL   string   `json:"url"`
	Type  LinkType `json:"type,omitempty"`
}

// Images references project artwork
type Images struct {
	Thumbnail string   `json:"thumbnail,omitempty"`
	Gallery   []string `json:"gallery,omitempty"`
}

// TeamSize returns the number of team members
func (p *Project) TeamSize() int {
	return len(p.Team)
}

// HasMetrics reports whether the project carries primary metrics
func (p *Project) HasMetrics() bool {
	return len(p.Metrics.Primary) > 0
}

// HasTeam reports whether anyone is listed on the team
func (p *Project) HasTeam() bool {
	return len(p.Team) > 0
}

// Lead returns the team lead, falling back to the first member
func (p *Project) Lead() *TeamMember {
	for i := range p.Team {
		if p.Team[i].IsLead {
			return &p.Team[i]
		}
	}
	if len(p.Team) > 0 {
		return &p.Team[0]
	}
	return nil
}

// TechnologyNames returns technology names in declaration order
func (p *Project) TechnologyNames() []string {
	names := make([]string, 0, len(p.Technologies))
	for _, tech := range p.Technologies {
		names = append(names, tech.Name)
	}
	return names
}

// HasTag checks tags case-insensitively
func (p *Project) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// UsesTechnology matches a technology by name or id, case-insensitively
func (p *Project) UsesTechnology(name string) bool {
	for _, tech := range p.Technologies {
		if strings.EqualFold(tech.Name, name) || strings.EqualFold(tech.ID, name) {
			return true
		}
	}
	return false
}

// PrimaryLink picks the most useful link: demo, then repository, then the first one
func (p *Project) PrimaryLink() (Link, bool) {
	if len(p.Links) == 0 {
		return Link{}, false
	}
	for _, want := range []LinkType{LinkDemo, LinkGitHub} {
		for _, link := range p.Links {
			if link.Type == want {
				return link, true
			}
		}
	}
	return p.Links[0], true
}

// Thumbnail returns the thumbnail reference, if any
func (p *Project) Thumbnail() string {
	if p.Images == nil {
		return ""
	}
	if p.Images.Thumbnail != "" {
		return p.Images.Thumbnail
	}
	if len(p.Images.Gallery) > 0 {
		return p.Images.Gallery[0]
	}
	return ""
}

// MilestoneProgress returns completed and total milestone counts
func (p *Project) MilestoneProgress() (int, int) {
	done := 0
	for _, m := range p.Timeline.Milestones {
		if m.Completed {
			done++
		}
	}
	return done, len(p.Timeline.Milestones)
}

// GetMilestoneCompletion returns the percentage of completed milestones
func (p *Project) GetMilestoneCompletion() float64 {
	done, total := p.MilestoneProgress()
	if total == 0 {
		return 0
	}
	return (float64(done) / float64(total)) * 100
}

// CountByStatus returns project counts grouped by status
func CountByStatus(projects []Project) map[Status]int {
	counts := make(map[Status]int, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	for _, p := range projects {
		counts[p.Status]++
	}
	return counts
}

// CountByCategory returns project counts grouped by category
func CountByCategory(projects []Project) map[Category]int {
	counts := make(map[Category]int, len(AllCategories))
	for _, c := range AllCategories {
		counts[c] = 0
	}
	for _, p := range projects {
		counts[p.Category]++
	}
	return counts
}
