package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/mrbooshehri/folio/internal/config"
	"github.com/mrbooshehri/folio/internal/models"
	"github.com/mrbooshehri/folio/internal/validation"
)

var (
	// Color definitions
	Red     = color.New(color.FgRed)
	Green   = color.New(color.FgGreen)
	Yellow  = color.New(color.FgYellow)
	Blue    = color.New(color.FgBlue)
	Cyan    = color.New(color.FgCyan)
	Magenta = color.New(color.FgMagenta)
	White   = color.New(color.FgWhite)

	// Bold variants
	BoldRed    = color.New(color.FgRed, color.Bold)
	BoldGreen  = color.New(color.FgGreen, color.Bold)
	BoldYellow = color.New(color.FgYellow, color.Bold)
	BoldBlue   = color.New(color.FgBlue, color.Bold)
	BoldCyan   = color.New(color.FgCyan, color.Bold)

	// Dim
	Dim = color.New(color.Faint)
)

// Out is where all rendering goes
var Out io.Writer = color.Output

// Init initializes the UI system
func Init() {
	cfg := config.Get()
	color.NoColor = !cfg.ColorOutput
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Green.Fprintf(Out, "✓ "+format+"\n", args...)
}

// PrintError prints an error message
func PrintError(format string, args ...interface{}) {
	Red.Fprintf(Out, "✗ "+format+"\n", args...)
}

// PrintWarning prints a warning message
func PrintWarning(format string, args ...interface{}) {
	Yellow.Fprintf(Out, "⚠ "+format+"\n", args...)
}

// PrintInfo prints an info message
func PrintInfo(format string, args ...interface{}) {
	Blue.Fprintf(Out, "ℹ "+format+"\n", args...)
}

// PrintHeader prints a section header
func PrintHeader(text string) {
	BoldCyan.Fprintln(Out, "\n"+text)
	BoldCyan.Fprintln(Out, strings.Repeat("═", displayWidth(text)))
}

// PrintSubHeader prints a subsection header
func PrintSubHeader(text string) {
	BoldBlue.Fprintln(Out, "\n"+text)
}

// PrintField prints an aligned "label: value" line
func PrintField(label, value string) {
	if value == "" {
		return
	}
	BoldBlue.Fprintf(Out, "%-13s", label+":")
	fmt.Fprintln(Out, value)
}

// PrintSeparator prints a horizontal line
func PrintSeparator() {
	Dim.Fprintln(Out, strings.Repeat("─", 80))
}

// PrintEmptyState prints a message when no data exists
func PrintEmptyState(message string, suggestion string) {
	fmt.Fprintln(Out)
	Yellow.Fprintln(Out, "ℹ️  "+message)
	if suggestion != "" {
		Dim.Fprintln(Out, "   💡 "+suggestion)
	}
	fmt.Fprintln(Out)
}

// StatusIcon returns an icon for a project status
func StatusIcon(status models.Status) string {
	switch status {
	case models.StatusCompleted:
		return "✅"
	case models.StatusOngoing:
		return "🔄"
	case models.StatusPaused:
		return "⏸"
	case models.StatusCancelled:
		return "🚫"
	default:
		return "❓"
	}
}

// StatusColor returns the color for a project status
func StatusColor(status models.Status) *color.Color {
	switch status {
	case models.StatusCompleted:
		return Green
	case models.StatusOngoing:
		return Cyan
	case models.StatusPaused:
		return Yellow
	case models.StatusCancelled:
		return Red
	default:
		return White
	}
}

// ImportanceColor returns the color for a milestone importance
func ImportanceColor(importance models.Importance) *color.Color {
	switch importance {
	case models.ImportanceCritical:
		return BoldRed
	case models.ImportanceHigh:
		return Red
	case models.ImportanceMedium:
		return Yellow
	default:
		return Green
	}
}

// TrendIcon returns an arrow for a metric trend
func TrendIcon(trend models.Trend) string {
	switch trend {
	case models.TrendUp:
		return "↑"
	case models.TrendDown:
		return "↓"
	case models.TrendNeutral:
		return "→"
	default:
		return ""
	}
}

// TierColor returns the color for a KPI tier
func TierColor(tier models.KPITier) *color.Color {
	switch tier {
	case models.TierExcellent:
		return BoldGreen
	case models.TierGood:
		return Green
	case models.TierAcceptable:
		return Yellow
	case models.TierBelow:
		return Red
	default:
		return Dim
	}
}

// PrintIssue prints one validation finding
func PrintIssue(issue validation.Issue, isError bool) {
	if isError {
		Red.Fprintf(Out, "  ✗ %s", issue.Field)
	} else {
		Yellow.Fprintf(Out, "  ⚠ %s", issue.Field)
	}
	fmt.Fprintf(Out, ": %s ", issue.Message)
	Dim.Fprintf(Out, "[%s]\n", issue.Rule)
}
