package validation

import (
	"encoding/json"
	"net/mail"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/mrbooshehri/folio/internal/models"
)

var idPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// normalize turns typed values (models.Project, structs, slices of structs)
// into the JSON-like shape the checks operate on.
func normalize(record any) any {
	switch record.(type) {
	case nil, map[string]any, []any, string, float64, bool, int, int64, json.Number:
		return record
	}

	data, err := json.Marshal(record)
	if err != nil {
		return record
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return record
	}
	return out
}

func present(m map[string]any, key string) bool {
	v, ok := m[key]
	return ok && v != nil
}

// hasValue is present, with blank strings also counted as unset
func hasValue(m map[string]any, key string) bool {
	if !present(m, key) {
		return false
	}
	s, ok := m[key].(string)
	return !ok || strings.TrimSpace(s) != ""
}

func asMap(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asSlice(v any) ([]any, bool) {
	s, ok := v.([]any)
	return s, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

func asDate(v any) (time.Time, bool) {
	switch d := v.(type) {
	case string:
		t, err := models.ParseDate(d)
		return t, err == nil
	case time.Time:
		return d, !d.IsZero()
	}
	return time.Time{}, false
}

func textLength(s string) int {
	return utf8.RuneCountInString(strings.TrimSpace(s))
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func validEmail(raw string) bool {
	addr, err := mail.ParseAddress(raw)
	return err == nil && addr.Address == raw
}

func enumValues[T ~string](values []T) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, string(v))
	}
	return out
}

func inEnum(value string, allowed []string) bool {
	for _, a := range allowed {
		if value == a {
			return true
		}
	}
	return false
}
