// Package validation checks untyped project records against the portfolio
// schema. It never fails: every finding is returned as data so the caller can
// decide whether errors are fatal or advisory.
package validation

import (
	"fmt"
	"strings"
)

// Rule tags the kind of check that produced an issue
type Rule string

const (
	RuleRequired  Rule = "required"
	RuleMinLength Rule = "minLength"
	RuleMaxLength Rule = "maxLength"
	RulePattern   Rule = "pattern"
	RuleEnum      Rule = "enum"
	RuleDate      Rule = "date"
	RuleLogical   Rule = "logical"
	RuleMinItems  Rule = "minItems"
	RuleUnique    Rule = "unique"
	RuleType      Rule = "type"
	RuleRange     Rule = "range"
)

// Issue is a single validation finding. Errors and warnings share the shape.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Value   any    `json:"value,omitempty"`
	Rule    Rule   `json:"rule"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s: %s (%s)", i.Field, i.Message, i.Rule)
}

// Result is the outcome of validating one record or a list of records
type Result struct {
	IsValid  bool    `json:"isValid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
}

// HasWarnings reports whether any advisory finding was produced
func (r Result) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// ErrorsFor returns the errors reported on an exact field path
func (r Result) ErrorsFor(field string) []Issue {
	return filterField(r.Errors, field)
}

// WarningsFor returns the warnings reported on an exact field path
func (r Result) WarningsFor(field string) []Issue {
	return filterField(r.Warnings, field)
}

// Has reports whether an error with the given field and rule exists
func (r Result) Has(field string, rule Rule) bool {
	for _, issue := range r.Errors {
		if issue.Field == field && issue.Rule == rule {
			return true
		}
	}
	return false
}

// HasWarning reports whether a warning with the given field and rule exists
func (r Result) HasWarning(field string, rule Rule) bool {
	for _, issue := range r.Warnings {
		if issue.Field == field && issue.Rule == rule {
			return true
		}
	}
	return false
}

// CountByRule tallies errors and warnings per rule
func (r Result) CountByRule() (errors map[Rule]int, warnings map[Rule]int) {
	errors = make(map[Rule]int)
	warnings = make(map[Rule]int)
	for _, issue := range r.Errors {
		errors[issue.Rule]++
	}
	for _, issue := range r.Warnings {
		warnings[issue.Rule]++
	}
	return errors, warnings
}

// Summary returns a one-line description suitable for logs
func (r Result) Summary() string {
	if r.IsValid && len(r.Warnings) == 0 {
		return "valid"
	}
	parts := make([]string, 0, 2)
	if len(r.Errors) > 0 {
		parts = append(parts, fmt.Sprintf("%d error(s)", len(r.Errors)))
	}
	if len(r.Warnings) > 0 {
		parts = append(parts, fmt.Sprintf("%d warning(s)", len(r.Warnings)))
	}
	return strings.Join(parts, ", ")
}

func filterField(issues []Issue, field string) []Issue {
	out := make([]Issue, 0)
	for _, issue := range issues {
		if issue.Field == field {
			out = append(out, issue)
		}
	}
	return out
}

// collector accumulates findings under an optional field prefix
type collector struct {
	prefix   string
	errors   []Issue
	warnings []Issue
}

func newCollector() *collector {
	return &collector{
		errors:   make([]Issue, 0),
		warnings: make([]Issue, 0),
	}
}

func (c *collector) path(field string) string {
	if field == "" {
		if c.prefix == "" {
			return "root"
		}
		return strings.TrimSuffix(c.prefix, ".")
	}
	return c.prefix + field
}

func (c *collector) fail(field string, rule Rule, value any, format string, args ...any) {
	c.errors = append(c.errors, Issue{
		Field:   c.path(field),
		Message: fmt.Sprintf(format, args...),
		Value:   value,
		Rule:    rule,
	})
}

func (c *collector) warn(field string, rule Rule, value any, format string, args ...any) {
	c.warnings = append(c.warnings, Issue{
		Field:   c.path(field),
		Message: fmt.Sprintf(format, args...),
		Value:   value,
		Rule:    rule,
	})
}

func (c *collector) result() Result {
	return Result{
		IsValid:  len(c.errors) == 0,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
}
