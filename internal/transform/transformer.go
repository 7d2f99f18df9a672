// Package transform maps projects into display, search-index and export
// shapes, and maps JSON:API documents into projects.
package transform

import (
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Transformer carries the locale settings and clock used when formatting
type Transformer struct {
	now      func() time.Time
	tag      language.Tag
	printer  *message.Printer
	currency currency.Unit
}

// Option configures a Transformer
type Option func(*Transformer)

// WithClock overrides time.Now, e.g. for ongoing durations in tests
func WithClock(now func() time.Time) Option {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithLocale sets the BCP 47 locale used for numbers and labels.
// Unparseable tags keep the default (en-US).
func WithLocale(locale string) Option {
	return func(t *Transformer) {
		if tag, err := language.Parse(strings.TrimSpace(locale)); err == nil {
			t.tag = tag
		}
	}
}

// WithCurrency sets the ISO 4217 currency for currency metrics
func WithCurrency(code string) Option {
	return func(t *Transformer) {
		if unit, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code))); err == nil {
			t.currency = unit
		}
	}
}

// New creates a Transformer for en-US / USD unless overridden
func New(opts ...Option) *Transformer {
	t := &Transformer{
		now:      time.Now,
		tag:      language.AmericanEnglish,
		currency: currency.USD,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.printer = message.NewPrinter(t.tag)
	return t
}

// Now returns the transformer's current time
func (t *Transformer) Now() time.Time {
	return t.now()
}

// Label title-cases an enum value for display ("in_progress" -> "In Progress")
func (t *Transformer) Label(value string) string {
	switch value {
	case "":
		return "Unknown"
	case "api":
		return "API"
	}
	words := strings.ReplaceAll(strings.ReplaceAll(value, "_", " "), "-", " ")
	return cases.Title(t.tag).String(words)
}
