package ui

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ProgressBarStyle defines the characters used in a progress bar
type ProgressBarStyle struct {
	LeftBracket  string
	RightBracket string
	Filled       string
	Empty        string
	Partial      []string
}

// DefaultProgressBarStyle is the default style for progress bars
var DefaultProgressBarStyle = ProgressBarStyle{
	LeftBracket:  "[",
	RightBracket: "]",
	Filled:       "█",
	Empty:        "░",
	Partial:      []string{"▏", "▎", "▍", "▌", "▋", "▊", "▉"},
}

// ProgressBar renders percentage (clamped to 0-100) as a bar of width cells
func ProgressBar(percentage float64, width int, style ProgressBarStyle) string {
	if percentage < 0 {
		percentage = 0
	}
	if percentage > 100 {
		percentage = 100
	}

	filledWidth := (percentage / 100.0) * float64(width)
	filledBlocks := int(filledWidth)
	partialBlock := filledWidth - float64(filledBlocks)

	var b strings.Builder
	b.WriteString(style.LeftBracket)
	b.WriteString(strings.Repeat(style.Filled, min(filledBlocks, width)))

	if filledBlocks < width && partialBlock > 0 && len(style.Partial) > 0 {
		partialIndex := int(partialBlock * float64(len(style.Partial)))
		if partialIndex >= len(style.Partial) {
			partialIndex = len(style.Partial) - 1
		}
		b.WriteString(style.Partial[partialIndex])
		filledBlocks++
	}

	if filledBlocks < width {
		b.WriteString(strings.Repeat(style.Empty, width-filledBlocks))
	}
	b.WriteString(style.RightBracket)
	return b.String()
}

// PrintProgressBar prints a bar colored by how full it is
func PrintProgressBar(percentage float64, width int) {
	bar := ProgressBar(percentage, width, DefaultProgressBarStyle)
	levelColor(percentage).Fprint(Out, bar)
}

func levelColor(percentage float64) *color.Color {
	switch {
	case percentage >= 80:
		return Green
	case percentage >= 50:
		return Yellow
	case percentage >= 25:
		return Magenta
	default:
		return Red
	}
}

// ChartBar is one labelled value in a bar chart
type ChartBar struct {
	Label string
	Value float64
}

// PrintChart prints a horizontal bar chart in the given order
func PrintChart(bars []ChartBar, width int, showValues bool) {
	if len(bars) == 0 {
		return
	}

	maxValue := 0.0
	maxLabelLen := 0
	for _, bar := range bars {
		maxValue = max(maxValue, bar.Value)
		maxLabelLen = max(maxLabelLen, displayWidth(bar.Label))
	}

	for _, bar := range bars {
		fmt.Fprintf(Out, "%s: ", padCell(bar.Label, maxLabelLen, AlignLeft))
		if bar.Value > 0 && maxValue > 0 {
			Cyan.Fprint(Out, strings.Repeat("█", int((bar.Value/maxValue)*float64(width))))
		}
		if showValues {
			fmt.Fprintf(Out, " %g", bar.Value)
		}
		fmt.Fprintln(Out)
	}
}

// PrintBadge prints a colored badge
func PrintBadge(text string, badgeColor *color.Color) {
	if badgeColor == nil {
		badgeColor = Cyan
	}
	badgeColor.Fprintf(Out, " %s ", text)
}
