package transform

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/mrbooshehri/folio/internal/models"
)

// APIIdentifier is a JSON:API resource linkage
type APIIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// APIRelationship holds one to-one or to-many linkage
type APIRelationship struct {
	Data []APIIdentifier `json:"data"`
}

// UnmarshalJSON accepts both a single identifier and an array
func (r *APIRelationship) UnmarshalJSON(data []byte) error {
	var raw struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	body := bytes.TrimSpace(raw.Data)
	switch {
	case len(body) == 0 || bytes.Equal(body, []byte("null")):
		r.Data = nil
	case body[0] == '[':
		return json.Unmarshal(body, &r.Data)
	default:
		var one APIIdentifier
		if err := json.Unmarshal(body, &one); err != nil {
			return err
		}
		r.Data = []APIIdentifier{one}
	}
	return nil
}

// APIResource is a JSON:API resource object with snake_case attributes
type APIResource struct {
	Type          string                     `json:"type"`
	ID            string                     `json:"id"`
	Attributes    map[string]any             `json:"attributes"`
	Relationships map[string]APIRelationship `json:"relationships,omitempty"`
}

// APIProjectResponse is one project resource plus the included resources
// its relationships point to
type APIProjectResponse struct {
	Data     APIResource   `json:"data"`
	Included []APIResource `json:"included,omitempty"`
}

// ParseAPIDocument splits a JSON:API document whose data is either one
// resource or an array into per-project responses sharing the included set
func ParseAPIDocument(body []byte) ([]APIProjectResponse, error) {
	var doc struct {
		Data     json.RawMessage `json:"data"`
		Included []APIResource   `json:"included"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode api document: %w", err)
	}

	data := bytes.TrimSpace(doc.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, errors.New("api document has no data")
	}

	var resources []APIResource
	if data[0] == '[' {
		if err := json.Unmarshal(data, &resources); err != nil {
			return nil, fmt.Errorf("decode api data: %w", err)
		}
	} else {
		var one APIResource
		if err := json.Unmarshal(data, &one); err != nil {
			return nil, fmt.Errorf("decode api data: %w", err)
		}
		resources = []APIResource{one}
	}

	out := make([]APIProjectResponse, 0, len(resources))
	for _, r := range resources {
		out = append(out, APIProjectResponse{Data: r, Included: doc.Included})
	}
	return out, nil
}

// FallbackProject replaces API records that could not be mapped
var FallbackProject = models.Project{
	Title:  "Unavailable project",
	Status: models.StatusPaused,
}

// ValidateAPIResponse reports whether resp looks like a project resource
func ValidateAPIResponse(resp APIProjectResponse) bool {
	if resp.Data.ID == "" || resp.Data.Attributes == nil {
		return false
	}
	title, ok := resp.Data.Attributes["title"].(string)
	return ok && strings.TrimSpace(title) != ""
}

// FromAPIResponse maps a JSON:API project into the canonical shape
func (t *Transformer) FromAPIResponse(resp APIProjectResponse) (models.Project, error) {
	record, err := t.APIRecord(resp)
	if err != nil {
		return models.Project{}, err
	}

	data, err := json.Marshal(record)
	if err != nil {
		return models.Project{}, fmt.Errorf("encode api record %s: %w", resp.Data.ID, err)
	}
	var p models.Project
	if err := json.Unmarshal(data, &p); err != nil {
		return models.Project{}, fmt.Errorf("decode api record %s: %w", resp.Data.ID, err)
	}
	return p, nil
}

// APIRecord maps resp into an untyped camelCase project record. Ingestion
// validates this record before decoding it.
func (t *Transformer) APIRecord(resp APIProjectResponse) (map[string]any, error) {
	if resp.Data.ID == "" {
		return nil, errors.New("api resource has no id")
	}

	attrs, _ := camelKeys(resp.Data.Attributes).(map[string]any)
	if attrs == nil {
		attrs = map[string]any{}
	}

	record := map[string]any{"id": resp.Data.ID}
	for _, key := range []string{
		"title", "description", "category", "status", "metrics",
		"tags", "links", "images", "createdAt", "updatedAt",
	} {
		if v, ok := attrs[key]; ok {
			record[key] = v
		}
	}

	record["timeline"] = t.apiTimeline(attrs)

	included := indexIncluded(resp.Included)
	if team, ok := resolveRelated(resp.Data.Relationships, included, "team", "teamMembers", "team_members"); ok {
		record["team"] = team
	} else if v, ok := attrs["team"]; ok {
		record["team"] = v
	}
	if techs, ok := resolveRelated(resp.Data.Relationships, included, "technologies", "tech"); ok {
		record["technologies"] = techs
	} else if v, ok := attrs["technologies"]; ok {
		record["technologies"] = v
	}

	return record, nil
}

// apiTimeline builds the timeline, deriving duration and isOngoing from
// the presence of an end date
func (t *Transformer) apiTimeline(attrs map[string]any) map[string]any {
	timeline, _ := attrs["timeline"].(map[string]any)
	if timeline == nil {
		timeline = map[string]any{}
	} else {
		copied := make(map[string]any, len(timeline))
		for k, v := range timeline {
			copied[k] = v
		}
		timeline = copied
	}
	for _, key := range []string{"startDate", "endDate", "estimatedCompletion", "milestones"} {
		if v, ok := attrs[key]; ok {
			if _, set := timeline[key]; !set {
				timeline[key] = v
			}
		}
	}

	endRaw, _ := timeline["endDate"].(string)
	startRaw, _ := timeline["startDate"].(string)
	start, startErr := models.ParseDate(startRaw)
	end, endErr := models.ParseDate(endRaw)
	hasEnd := endErr == nil

	if !hasEnd {
		delete(timeline, "endDate")
	}
	timeline["isOngoing"] = !hasEnd

	switch {
	case startErr != nil:
		if _, ok := timeline["duration"]; !ok {
			timeline["duration"] = ""
		}
	case hasEnd:
		timeline["duration"] = SpanLabel(start, end)
	default:
		timeline["duration"] = SpanLabel(start, t.now())
	}
	return timeline
}

func indexIncluded(included []APIResource) map[string]APIResource {
	idx := make(map[string]APIResource, len(included))
	for _, r := range included {
		idx[r.ID] = r
		idx[normalizeType(r.Type)+"/"+r.ID] = r
	}
	return idx
}

// normalizeType folds "team_members", "team-member" and "teamMember" together
func normalizeType(t string) string {
	t = strings.ToLower(strings.NewReplacer("_", "", "-", "").Replace(t))
	return strings.TrimSuffix(t, "s")
}

// resolveRelated turns the first matching relationship into an array of
// attribute records from the included set
func resolveRelated(rels map[string]APIRelationship, included map[string]APIResource, names ...string) ([]any, bool) {
	for _, name := range names {
		rel, ok := rels[name]
		if !ok {
			continue
		}
		out := make([]any, 0, len(rel.Data))
		for _, ident := range rel.Data {
			res, ok := included[normalizeType(ident.Type)+"/"+ident.ID]
			if !ok {
				res, ok = included[ident.ID]
			}
			if !ok {
				continue
			}
			item, _ := camelKeys(res.Attributes).(map[string]any)
			if item == nil {
				item = map[string]any{}
			}
			item["id"] = res.ID
			out = append(out, item)
		}
		return out, true
	}
	return nil, false
}

// camelKeys rewrites snake_case map keys to camelCase, recursively
func camelKeys(v any) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[camelCase(k)] = camelKeys(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = camelKeys(val)
		}
		return out
	}
	return v
}

func camelCase(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}
	var b strings.Builder
	upper := false
	for _, r := range s {
		if r == '_' {
			upper = b.Len() > 0
			continue
		}
		if upper {
			b.WriteRune(unicode.ToUpper(r))
			upper = false
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
