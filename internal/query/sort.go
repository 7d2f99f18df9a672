package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/mrbooshehri/folio/internal/models"
)

// SortField names a sortable project attribute
type SortField string

const (
	SortTitle     SortField = "title"
	SortStartDate SortField = "startDate"
	SortEndDate   SortField = "endDate"
	SortDuration  SortField = "duration"
	SortTeamSize  SortField = "teamSize"
	SortCategory  SortField = "category"
	SortStatus    SortField = "status"
	SortUpdatedAt SortField = "updatedAt"
	SortCreatedAt SortField = "createdAt"
)

// AllSortFields lists every sortable field
var AllSortFields = []SortField{
	SortTitle, SortStartDate, SortEndDate, SortDuration, SortTeamSize,
	SortCategory, SortStatus, SortUpdatedAt, SortCreatedAt,
}

// Valid reports whether f is a known sort field
func (f SortField) Valid() bool {
	for _, v := range AllSortFields {
		if f == v {
			return true
		}
	}
	return false
}

// Direction is the sort order
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection maps user input to a direction, defaulting to ascending
func ParseDirection(value string) Direction {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "desc", "descending", "down":
		return Desc
	default:
		return Asc
	}
}

func (d Direction) apply(c int) int {
	if d == Desc {
		return -c
	}
	return c
}

// SortKey is one field/direction pair
type SortKey struct {
	Field     SortField `json:"field"`
	Direction Direction `json:"direction"`
}

// SortOptions is a primary key with an optional tie-breaker
type SortOptions struct {
	Field     SortField `json:"field,omitempty"`
	Direction Direction `json:"direction,omitempty"`
	Secondary *SortKey  `json:"secondary,omitempty"`
}

// DefaultSort is the ordering used when the requested one is unusable
var DefaultSort = SortKey{Field: SortUpdatedAt, Direction: Desc}

// keys resolves the options into the comparison chain
func (s SortOptions) keys() []SortKey {
	primary := SortKey{Field: s.Field, Direction: s.Direction}
	if !primary.Field.Valid() {
		primary = DefaultSort
	} else if primary.Direction != Desc {
		primary.Direction = Asc
	}

	keys := []SortKey{primary}
	if s.Secondary != nil && s.Secondary.Field.Valid() && s.Secondary.Field != primary.Field {
		secondary := *s.Secondary
		if secondary.Direction != Desc {
			secondary.Direction = Asc
		}
		keys = append(keys, secondary)
	}
	return keys
}

// Sort returns a stably sorted copy of projects
func Sort(projects []models.Project, opts SortOptions) []models.Project {
	out := slices.Clone(projects)
	if out == nil {
		out = []models.Project{}
	}
	keys := opts.keys()
	slices.SortStableFunc(out, func(a, b models.Project) int {
		for _, k := range keys {
			if c := compareKey(k, &a, &b); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

// compareKey orders a and b by one key. Projects without an end date
// (and therefore without a measurable duration) sort last in either direction.
func compareKey(k SortKey, a, b *models.Project) int {
	switch k.Field {
	case SortEndDate, SortDuration:
		av, aok := optionalValue(k.Field, a)
		bv, bok := optionalValue(k.Field, b)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return 1
		case !bok:
			return -1
		}
		return k.Direction.apply(cmp.Compare(av, bv))
	case SortTitle:
		return k.Direction.apply(compareFold(a.Title, b.Title))
	case SortCategory:
		return k.Direction.apply(compareFold(string(a.Category), string(b.Category)))
	case SortStatus:
		return k.Direction.apply(compareFold(string(a.Status), string(b.Status)))
	case SortTeamSize:
		return k.Direction.apply(cmp.Compare(a.TeamSize(), b.TeamSize()))
	case SortStartDate:
		return k.Direction.apply(a.Timeline.StartDate.Compare(b.Timeline.StartDate.Time))
	case SortCreatedAt:
		return k.Direction.apply(a.CreatedAt.Compare(b.CreatedAt.Time))
	case SortUpdatedAt:
		return k.Direction.apply(a.UpdatedAt.Compare(b.UpdatedAt.Time))
	}
	return 0
}

func optionalValue(field SortField, p *models.Project) (int64, bool) {
	end := p.Timeline.EndDate
	if end == nil || end.IsZero() {
		return 0, false
	}
	if field == SortEndDate {
		return end.Unix(), true
	}
	if p.Timeline.StartDate.IsZero() {
		return 0, false
	}
	return end.Unix() - p.Timeline.StartDate.Unix(), true
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}
