package transform

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/currency"
	"golang.org/x/text/number"

	"github.com/mrbooshehri/folio/internal/models"
)

// MaxDisplayText is the longest string shown on a card before truncation
const MaxDisplayText = 150

const ellipsis = "..."

// Truncate shortens s to max runes, replacing the tail with "..."
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	cut := max - len(ellipsis)
	if cut < 0 {
		cut = 0
	}
	runes := []rune(s)
	return string(runes[:cut]) + ellipsis
}

// FormatNumber formats v with locale digit grouping
func (t *Transformer) FormatNumber(v float64) string {
	return t.printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}

// FormatMetric renders a metric value according to its type
func (t *Transformer) FormatMetric(item models.MetricItem) string {
	v, ok := item.Value.Float()
	if !ok {
		return withUnit(item.Value.String(), item.Unit)
	}

	switch item.Type {
	case models.MetricPercentage:
		return t.printer.Sprintf("%v%%", number.Decimal(v, number.MaxFractionDigits(1)))
	case models.MetricCurrency:
		return t.formatCurrency(v)
	case models.MetricText:
		return withUnit(item.Value.String(), item.Unit)
	default:
		return withUnit(t.FormatNumber(v), item.Unit)
	}
}

// formatCurrency writes the symbol directly against the amount, with the
// sign in front: "$4,200.00", "-$12.50"
func (t *Transformer) formatCurrency(v float64) string {
	symbol := t.printer.Sprint(currency.Symbol(t.currency))
	s := t.printer.Sprint(currency.Symbol(t.currency.Amount(math.Abs(v))))
	s = symbol + strings.TrimLeft(strings.TrimPrefix(s, symbol), " \u00a0")
	if v < 0 {
		return "-" + s
	}
	return s
}

func withUnit(value, unit string) string {
	if unit == "" || value == "" {
		return value
	}
	return value + " " + unit
}

// MonthsBetween counts whole calendar months from a to b
func MonthsBetween(a, b time.Time) int {
	if b.Before(a) {
		return 0
	}
	months := (b.Year()-a.Year())*12 + int(b.Month()-a.Month())
	if b.Day() < a.Day() {
		months--
	}
	if months < 0 {
		return 0
	}
	return months
}

// SpanLabel describes the time between start and end in whole months,
// or days when shorter than a month
func SpanLabel(start, end time.Time) string {
	if months := MonthsBetween(start, end); months >= 1 {
		return plural(months, "month")
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 0 {
		days = 0
	}
	return plural(days, "day")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatDuration returns the card duration. Ongoing projects are measured
// from their start to now.
func (t *Transformer) FormatDuration(tl models.Timeline) string {
	if tl.IsOngoing && !tl.StartDate.IsZero() {
		return SpanLabel(tl.StartDate.Time, t.now()) + " (ongoing)"
	}
	if tl.Duration != "" {
		return tl.Duration
	}
	if tl.EndDate != nil && !tl.EndDate.IsZero() && !tl.StartDate.IsZero() {
		return SpanLabel(tl.StartDate.Time, tl.EndDate.Time)
	}
	return ""
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(models.DateLayout)
}

func formatDatePtr(d *models.Date) string {
	if d == nil {
		return ""
	}
	return formatDate(*d)
}
