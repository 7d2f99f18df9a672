package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrbooshehri/folio/internal/models"
)

// RequiredFields are the top-level keys every project record must carry
var RequiredFields = []string{
	"id", "title", "description", "category", "status", "timeline",
	"metrics", "team", "technologies", "tags", "createdAt", "updatedAt",
}

const (
	titleMin       = 1
	titleMax       = 100
	descriptionMin = 10
	descriptionMax = 1000
	tagMax         = 30
)

var (
	categoryValues     = enumValues(models.AllCategories)
	statusValues       = enumValues(models.AllStatuses)
	techCategoryValues = enumValues(models.AllTechCategories)
	metricTypeValues   = enumValues(models.AllMetricTypes)
	trendValues        = enumValues(models.AllTrends)
	importanceValues   = enumValues(models.AllImportances)
)

// ValidateProject checks a single record. It accepts decoded JSON
// (map[string]any) as well as typed values such as models.Project.
func ValidateProject(record any) Result {
	c := newCollector()
	checkProject(c, normalize(record))
	return c.result()
}

// checkProject runs every check on one record; nothing short-circuits
// except the initial object guard.
func checkProject(c *collector, record any) {
	m, ok := asMap(record)
	if !ok {
		c.fail("", RuleType, record, "project must be an object")
		return
	}

	checkRequired(c, m)
	checkScalars(c, m)
	checkEnums(c, m)
	checkDates(c, m)
	checkTeam(c, m)
	checkTechnologies(c, m)
	checkTags(c, m)
	checkLinks(c, m)
	checkTimeline(c, m)
	checkMetrics(c, m)
	checkConsistency(c, m)
}

func checkRequired(c *collector, m map[string]any) {
	for _, field := range RequiredFields {
		if !present(m, field) {
			c.fail(field, RuleRequired, nil, "%s is required", field)
		}
	}
}

func checkScalars(c *collector, m map[string]any) {
	if present(m, "id") {
		id, ok := asString(m["id"])
		switch {
		case !ok:
			c.fail("id", RuleType, m["id"], "id must be a string")
		case id == "":
			c.fail("id", RuleMinLength, id, "id cannot be empty")
		case !idPattern.MatchString(id):
			c.fail("id", RulePattern, id, "id may only contain letters, digits, hyphens and underscores")
		}
	}

	checkLength(c, m, "title", titleMin, titleMax)
	checkLength(c, m, "description", descriptionMin, descriptionMax)

	for _, field := range []string{"team", "technologies", "tags"} {
		if present(m, field) {
			if _, ok := asSlice(m[field]); !ok {
				c.fail(field, RuleType, m[field], "%s must be an array", field)
			}
		}
	}
	for _, field := range []string{"timeline", "metrics"} {
		if present(m, field) {
			if _, ok := asMap(m[field]); !ok {
				c.fail(field, RuleType, m[field], "%s must be an object", field)
			}
		}
	}
}

func checkLength(c *collector, m map[string]any, field string, min, max int) {
	if !present(m, field) {
		return
	}
	s, ok := asString(m[field])
	if !ok {
		c.fail(field, RuleType, m[field], "%s must be a string", field)
		return
	}
	n := textLength(s)
	if n < min {
		c.fail(field, RuleMinLength, s, "%s must be at least %d characters", field, min)
	}
	if n > max {
		c.fail(field, RuleMaxLength, s, "%s must be at most %d characters", field, max)
	}
}

func checkEnums(c *collector, m map[string]any) {
	checkEnum(c, m, "category", "category", categoryValues)
	checkEnum(c, m, "status", "status", statusValues)
}

// checkEnum validates m[key] against allowed, reporting on field
func checkEnum(c *collector, m map[string]any, key, field string, allowed []string) {
	if !present(m, key) {
		return
	}
	s, ok := asString(m[key])
	if !ok {
		c.fail(field, RuleType, m[key], "%s must be a string", field)
		return
	}
	if !inEnum(s, allowed) {
		c.fail(field, RuleEnum, s, "%s must be one of: %s", field, strings.Join(allowed, ", "))
	}
}

// checkDate parses m[key] when present, reporting failures on field
func checkDate(c *collector, m map[string]any, key, field string) (time.Time, bool) {
	if !present(m, key) {
		return time.Time{}, false
	}
	t, ok := asDate(m[key])
	if !ok {
		c.fail(field, RuleDate, m[key], "%s must be a valid date", field)
		return time.Time{}, false
	}
	return t, true
}

func checkDates(c *collector, m map[string]any) {
	created, hasCreated := checkDate(c, m, "createdAt", "createdAt")
	updated, hasUpdated := checkDate(c, m, "updatedAt", "updatedAt")
	if hasCreated && hasUpdated && updated.Before(created) {
		c.warn("updatedAt", RuleLogical, m["updatedAt"], "updatedAt is earlier than createdAt")
	}

	timeline, ok := asMap(m["timeline"])
	if !ok {
		return
	}
	start, hasStart := checkDate(c, timeline, "startDate", "timeline.startDate")
	end, hasEnd := checkOptionalDate(c, timeline, "endDate", "timeline.endDate")
	if hasStart && hasEnd && end.Before(start) {
		c.fail("timeline.endDate", RuleLogical, timeline["endDate"], "end date cannot be before start date")
	}
	checkOptionalDate(c, timeline, "estimatedCompletion", "timeline.estimatedCompletion")
}

// checkOptionalDate is checkDate for fields where a blank string means unset
func checkOptionalDate(c *collector, m map[string]any, key, field string) (time.Time, bool) {
	if !hasValue(m, key) {
		return time.Time{}, false
	}
	return checkDate(c, m, key, field)
}

// checkConsistency cross-checks status, isOngoing and endDate
func checkConsistency(c *collector, m map[string]any) {
	status, ok := asString(m["status"])
	if !ok {
		return
	}
	timeline, ok := asMap(m["timeline"])
	if !ok {
		return
	}

	ongoing, isBool := timeline["isOngoing"].(bool)
	endDate := timeline["endDate"]
	hasEnd := hasValue(timeline, "endDate")

	switch models.Status(status) {
	case models.StatusCompleted:
		if isBool && ongoing {
			c.fail("status", RuleLogical, status, "completed projects cannot be ongoing")
		}
		if !hasEnd {
			c.warn("timeline.endDate", RuleLogical, nil, "completed projects should have an end date")
		}
	case models.StatusOngoing:
		if !isBool || !ongoing {
			c.warn("timeline.isOngoing", RuleLogical, timeline["isOngoing"], "ongoing projects should have isOngoing set to true")
		}
		if hasEnd {
			c.warn("timeline.endDate", RuleLogical, endDate, "ongoing projects should not have an end date")
		}
	}
}

func indexed(field string, i int) string {
	return fmt.Sprintf("%s[%d]", field, i)
}
