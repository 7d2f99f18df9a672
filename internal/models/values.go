package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used across exports
const DateLayout = "2006-01-02"

// dateLayouts are tried in order when parsing user-supplied dates
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	DateLayout,
	"2006-01",
}

// ParseDate parses the date formats accepted in project data
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Date is a timestamp that also accepts calendar dates
type Date struct {
	time.Time
}

// NewDate wraps t
func NewDate(t time.Time) Date {
	return Date{Time: t}
}

// MustDate parses value and panics on failure. Intended for fixtures.
func MustDate(value string) Date {
	t, err := ParseDate(value)
	if err != nil {
		panic(err)
	}
	return Date{Time: t}
}

// DatePtr returns a pointer to a parsed date
func DatePtr(value string) *Date {
	d := MustDate(value)
	return &d
}

// IsDateOnly reports whether the date carries no time-of-day component
func (d Date) IsDateOnly() bool {
	h, m, s := d.Clock()
	return h == 0 && m == 0 && s == 0 && d.Nanosecond() == 0 && d.Location() == time.UTC
}

// String formats calendar dates as YYYY-MM-DD and timestamps as RFC3339
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	if d.IsDateOnly() {
		return d.Format(DateLayout)
	}
	return d.Format(time.RFC3339)
}

// MarshalJSON implements json.Marshaler
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler
func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		d.Time = time.Time{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if raw == "" {
		d.Time = time.Time{}
		return nil
	}
	t, err := ParseDate(raw)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MetricValue holds either a number or free text
type MetricValue struct {
	number   float64
	text     string
	isNumber bool
}

// NumberValue creates a numeric metric value
func NumberValue(v float64) MetricValue {
	return MetricValue{number: v, isNumber: true}
}

// TextValue creates a textual metric value
func TextValue(v string) MetricValue {
	return MetricValue{text: v}
}

// Float returns the numeric value; ok is false for text values
func (v MetricValue) Float() (float64, bool) {
	return v.number, v.isNumber
}

// IsNumber reports whether the value is numeric
func (v MetricValue) IsNumber() bool {
	return v.isNumber
}

// IsZero reports whether nothing was set
func (v MetricValue) IsZero() bool {
	return !v.isNumber && v.text == ""
}

// String renders the raw value without locale formatting
func (v MetricValue) String() string {
	if v.isNumber {
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	}
	return v.text
}

// MarshalJSON implements json.Marshaler
func (v MetricValue) MarshalJSON() ([]byte, error) {
	if v.isNumber {
		return json.Marshal(v.number)
	}
	return json.Marshal(v.text)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*v = MetricValue{}
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*v = NumberValue(num)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("metric value must be a number or string")
	}
	*v = TextValue(text)
	return nil
}
