package validation

import (
	"strings"
)

// requireString reports a missing, empty or non-string m[key] under field
func requireString(c *collector, m map[string]any, key, field string) (string, bool) {
	if !present(m, key) {
		c.fail(field, RuleRequired, nil, "%s is required", field)
		return "", false
	}
	s, ok := asString(m[key])
	if !ok {
		c.fail(field, RuleType, m[key], "%s must be a string", field)
		return "", false
	}
	if strings.TrimSpace(s) == "" {
		c.fail(field, RuleRequired, s, "%s cannot be empty", field)
		return "", false
	}
	return s, true
}

// optionalType reports m[key] when present but not of the expected kind
func optionalType(c *collector, m map[string]any, key, field, kind string, check func(any) bool) {
	if present(m, key) && !check(m[key]) {
		c.fail(field, RuleType, m[key], "%s must be %s", field, kind)
	}
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isStringList(v any) bool {
	items, ok := asSlice(v)
	if !ok {
		return false
	}
	for _, item := range items {
		if !isString(item) {
			return false
		}
	}
	return true
}

func isNumberOrString(v any) bool {
	if isString(v) {
		return true
	}
	_, ok := asFloat(v)
	return ok
}

func checkTeam(c *collector, m map[string]any) {
	team, ok := asSlice(m["team"])
	if !ok {
		return
	}
	if len(team) == 0 {
		c.fail("team", RuleMinItems, team, "team must have at least one member")
		return
	}

	leads := 0
	for i, raw := range team {
		field := indexed("team", i)
		member, ok := asMap(raw)
		if !ok {
			c.fail(field, RuleType, raw, "team member must be an object")
			continue
		}

		requireString(c, member, "id", field+".id")
		requireString(c, member, "name", field+".name")
		requireString(c, member, "role", field+".role")
		optionalType(c, member, "avatar", field+".avatar", "a string", isString)
		optionalType(c, member, "isLead", field+".isLead", "a boolean", isBool)
		optionalType(c, member, "skills", field+".skills", "an array of strings", isStringList)

		if lead, _ := member["isLead"].(bool); lead {
			leads++
		}

		if contact, ok := asMap(member["contact"]); ok {
			if email, ok := asString(contact["email"]); ok && email != "" && !validEmail(email) {
				c.fail(field+".contact.email", RulePattern, email, "email address is malformed")
			}
		} else if present(member, "contact") {
			c.fail(field+".contact", RuleType, member["contact"], "contact must be an object")
		}

		joined, hasJoin := checkDate(c, member, "joinDate", field+".joinDate")
		left, hasLeave := checkDate(c, member, "leaveDate", field+".leaveDate")
		if hasJoin && hasLeave && left.Before(joined) {
			c.warn(field+".leaveDate", RuleLogical, member["leaveDate"], "leave date is before join date")
		}
	}

	if leads > 1 {
		c.warn("team", RuleLogical, leads, "team has %d leads", leads)
	}
}

func checkTechnologies(c *collector, m map[string]any) {
	techs, ok := asSlice(m["technologies"])
	if !ok {
		return
	}
	if len(techs) == 0 {
		c.fail("technologies", RuleMinItems, techs, "at least one technology is required")
		return
	}

	seen := make(map[string]bool)
	for i, raw := range techs {
		field := indexed("technologies", i)
		tech, ok := asMap(raw)
		if !ok {
			c.fail(field, RuleType, raw, "technology must be an object")
			continue
		}

		requireString(c, tech, "id", field+".id")
		name, hasName := requireString(c, tech, "name", field+".name")
		if !present(tech, "category") {
			c.fail(field+".category", RuleRequired, nil, "%s.category is required", field)
		} else {
			checkEnum(c, tech, "category", field+".category", techCategoryValues)
		}
		optionalType(c, tech, "version", field+".version", "a string", isString)

		if present(tech, "proficiency") {
			p, ok := asFloat(tech["proficiency"])
			switch {
			case !ok:
				c.fail(field+".proficiency", RuleType, tech["proficiency"], "proficiency must be a number")
			case p < 1 || p > 10:
				c.fail(field+".proficiency", RuleRange, p, "proficiency must be between 1 and 10")
			}
		}

		if hasName {
			key := strings.ToLower(strings.TrimSpace(name))
			if seen[key] {
				c.warn(field+".name", RuleUnique, name, "technology %q is listed more than once", name)
			}
			seen[key] = true
		}
	}
}

func checkTags(c *collector, m map[string]any) {
	tags, ok := asSlice(m["tags"])
	if !ok {
		return
	}

	seen := make(map[string]bool)
	for i, raw := range tags {
		field := indexed("tags", i)
		tag, ok := asString(raw)
		if !ok {
			c.fail(field, RuleType, raw, "tag must be a string")
			continue
		}
		n := textLength(tag)
		if n < 1 {
			c.fail(field, RuleMinLength, tag, "tag cannot be empty")
			continue
		}
		if n > tagMax {
			c.fail(field, RuleMaxLength, tag, "tag must be at most %d characters", tagMax)
		}

		key := strings.ToLower(strings.TrimSpace(tag))
		if seen[key] {
			c.warn(field, RuleUnique, tag, "duplicate tag %q", tag)
		}
		seen[key] = true
	}
}

func checkLinks(c *collector, m map[string]any) {
	if !present(m, "links") {
		return
	}
	links, ok := asSlice(m["links"])
	if !ok {
		c.fail("links", RuleType, m["links"], "links must be an array")
		return
	}

	for i, raw := range links {
		field := indexed("links", i)
		link, ok := asMap(raw)
		if !ok {
			c.fail(field, RuleType, raw, "link must be an object")
			continue
		}
		requireString(c, link, "title", field+".title")
		if u, ok := requireString(c, link, "url", field+".url"); ok && !validURL(u) {
			c.fail(field+".url", RulePattern, u, "url must be an absolute http(s) address")
		}
	}
}

func checkTimeline(c *collector, m map[string]any) {
	timeline, ok := asMap(m["timeline"])
	if !ok {
		return
	}

	if !present(timeline, "startDate") {
		c.fail("timeline.startDate", RuleRequired, nil, "timeline.startDate is required")
	}
	if !present(timeline, "duration") {
		c.fail("timeline.duration", RuleRequired, nil, "timeline.duration is required")
	} else if !isString(timeline["duration"]) {
		c.fail("timeline.duration", RuleType, timeline["duration"], "timeline.duration must be a string")
	}
	if !present(timeline, "isOngoing") {
		c.fail("timeline.isOngoing", RuleRequired, nil, "timeline.isOngoing is required")
	} else if !isBool(timeline["isOngoing"]) {
		c.fail("timeline.isOngoing", RuleType, timeline["isOngoing"], "timeline.isOngoing must be a boolean")
	}

	if !present(timeline, "milestones") {
		return
	}
	milestones, ok := asSlice(timeline["milestones"])
	if !ok {
		c.fail("timeline.milestones", RuleType, timeline["milestones"], "milestones must be an array")
		return
	}

	start, hasStart := asDate(timeline["startDate"])
	end, hasEnd := asDate(timeline["endDate"])

	for i, raw := range milestones {
		field := indexed("timeline.milestones", i)
		milestone, ok := asMap(raw)
		if !ok {
			c.fail(field, RuleType, raw, "milestone must be an object")
			continue
		}

		requireString(c, milestone, "id", field+".id")
		requireString(c, milestone, "title", field+".title")
		optionalType(c, milestone, "completed", field+".completed", "a boolean", isBool)

		if !present(milestone, "importance") {
			c.fail(field+".importance", RuleRequired, nil, "%s.importance is required", field)
		} else {
			checkEnum(c, milestone, "importance", field+".importance", importanceValues)
		}

		if !present(milestone, "date") {
			c.fail(field+".date", RuleRequired, nil, "%s.date is required", field)
			continue
		}
		date, ok := checkDate(c, milestone, "date", field+".date")
		if !ok {
			continue
		}
		if (hasStart && date.Before(start)) || (hasEnd && date.After(end)) {
			c.warn(field+".date", RuleLogical, milestone["date"], "milestone falls outside the project timeline")
		}
	}
}

func checkMetrics(c *collector, m map[string]any) {
	metrics, ok := asMap(m["metrics"])
	if !ok {
		return
	}

	if !present(metrics, "primary") {
		c.fail("metrics.primary", RuleRequired, nil, "metrics.primary is required")
	} else if primary, ok := asSlice(metrics["primary"]); !ok {
		c.fail("metrics.primary", RuleType, metrics["primary"], "metrics.primary must be an array")
	} else if len(primary) == 0 {
		c.fail("metrics.primary", RuleMinItems, primary, "at least one primary metric is required")
	} else {
		for i, raw := range primary {
			checkMetricItem(c, raw, indexed("metrics.primary", i))
		}
	}

	if present(metrics, "secondary") {
		secondary, ok := asSlice(metrics["secondary"])
		if !ok {
			c.fail("metrics.secondary", RuleType, metrics["secondary"], "metrics.secondary must be an array")
		} else {
			for i, raw := range secondary {
				checkMetricItem(c, raw, indexed("metrics.secondary", i))
			}
		}
	}

	if !present(metrics, "kpis") {
		c.fail("metrics.kpis", RuleRequired, nil, "metrics.kpis is required")
		return
	}
	kpis, ok := asSlice(metrics["kpis"])
	if !ok {
		c.fail("metrics.kpis", RuleType, metrics["kpis"], "metrics.kpis must be an array")
		return
	}
	for i, raw := range kpis {
		field := indexed("metrics.kpis", i)
		if item, ok := checkMetricItem(c, raw, field); ok {
			checkKPIExtras(c, item, field)
		}
	}
}

func checkMetricItem(c *collector, raw any, field string) (map[string]any, bool) {
	item, ok := asMap(raw)
	if !ok {
		c.fail(field, RuleType, raw, "metric must be an object")
		return nil, false
	}

	requireString(c, item, "id", field+".id")
	requireString(c, item, "label", field+".label")

	if !present(item, "value") {
		c.fail(field+".value", RuleRequired, nil, "%s.value is required", field)
	} else if !isNumberOrString(item["value"]) {
		c.fail(field+".value", RuleType, item["value"], "%s.value must be a number or string", field)
	}

	if !present(item, "type") {
		c.fail(field+".type", RuleRequired, nil, "%s.type is required", field)
	} else {
		checkEnum(c, item, "type", field+".type", metricTypeValues)
	}

	checkEnum(c, item, "trend", field+".trend", trendValues)
	optionalType(c, item, "unit", field+".unit", "a string", isString)
	optionalType(c, item, "target", field+".target", "a number or string", isNumberOrString)
	optionalType(c, item, "previousValue", field+".previousValue", "a number or string", isNumberOrString)

	return item, true
}

func checkKPIExtras(c *collector, item map[string]any, field string) {
	if !present(item, "weight") {
		c.fail(field+".weight", RuleRequired, nil, "%s.weight is required", field)
	} else if w, ok := asFloat(item["weight"]); !ok {
		c.fail(field+".weight", RuleType, item["weight"], "%s.weight must be a number", field)
	} else if w < 0 || w > 1 {
		c.fail(field+".weight", RuleRange, w, "%s.weight must be between 0 and 1", field)
	}

	if !present(item, "threshold") {
		return
	}
	threshold, ok := asMap(item["threshold"])
	if !ok {
		c.fail(field+".threshold", RuleType, item["threshold"], "%s.threshold must be an object", field)
		return
	}

	tiers := make([]float64, 0, 3)
	for _, tier := range []string{"excellent", "good", "acceptable"} {
		v, ok := asFloat(threshold[tier])
		if !ok {
			c.fail(field+".threshold."+tier, RuleType, threshold[tier], "threshold %s must be a number", tier)
			continue
		}
		tiers = append(tiers, v)
	}
	if len(tiers) == 3 {
		descending := tiers[0] >= tiers[1] && tiers[1] >= tiers[2]
		ascending := tiers[0] <= tiers[1] && tiers[1] <= tiers[2]
		if !descending && !ascending {
			c.warn(field+".threshold", RuleLogical, item["threshold"], "threshold tiers are not ordered")
		}
	}
}
