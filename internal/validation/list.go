package validation

import "fmt"

// ValidateProjectList validates every record and enforces id uniqueness
// across the list. Findings are reported under "projects[i].<field>".
func ValidateProjectList(records any) Result {
	root := newCollector()

	items, ok := asSlice(normalize(records))
	if !ok {
		root.fail("projects", RuleType, records, "projects must be an array")
		return root.result()
	}

	seen := make(map[string]int, len(items))
	for i, item := range items {
		c := newCollector()
		c.prefix = fmt.Sprintf("projects[%d].", i)
		checkProject(c, item)

		root.errors = append(root.errors, c.errors...)
		root.warnings = append(root.warnings, c.warnings...)

		m, ok := asMap(item)
		if !ok {
			continue
		}
		id, ok := asString(m["id"])
		if !ok || id == "" {
			continue
		}
		if first, dup := seen[id]; dup {
			root.errors = append(root.errors, Issue{
				Field:   fmt.Sprintf("projects[%d].id", i),
				Message: fmt.Sprintf("duplicate id %q (first used by projects[%d])", id, first),
				Value:   id,
				Rule:    RuleUnique,
			})
			continue
		}
		seen[id] = i
	}

	return root.result()
}
